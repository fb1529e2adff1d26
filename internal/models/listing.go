// internal/models/listing.go
package models

// Condition is the normalized item condition used by the marketplace.
type Condition string

const (
	ConditionNew        Condition = "new"
	ConditionLikeNew    Condition = "like_new"
	ConditionVeryGood   Condition = "very_good"
	ConditionGood       Condition = "good"
	ConditionAcceptable Condition = "acceptable"
)

// Conditions lists the known conditions from best to worst.
var Conditions = []Condition{
	ConditionNew,
	ConditionLikeNew,
	ConditionVeryGood,
	ConditionGood,
	ConditionAcceptable,
}

// Listing is a single marketplace item. Price is in the smallest currency unit (yen).
type Listing struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        int      `json:"price"`
	Condition    string   `json:"condition"`
	SellerRating float64  `json:"seller_rating"`
	Category     string   `json:"category"`
	Brand        string   `json:"brand,omitempty"`
	ImageURL     string   `json:"image_url,omitempty"`
	URL          string   `json:"url,omitempty"`
	Description  string   `json:"description,omitempty"`
	SEOTags      []string `json:"seo_tags,omitempty"`
}

// ScoredListing is a copy of a Listing with the transient composite score attached.
type ScoredListing struct {
	Listing
	Score float64 `json:"score"`
}

// Unscored wraps listings with a zero score, preserving order.
func Unscored(listings []Listing) []ScoredListing {
	out := make([]ScoredListing, len(listings))
	for i, l := range listings {
		out[i] = ScoredListing{Listing: l}
	}
	return out
}

// Listings strips the scores from a ranked sequence.
func Listings(scored []ScoredListing) []Listing {
	out := make([]Listing, len(scored))
	for i, s := range scored {
		out[i] = s.Listing
	}
	return out
}

package ranking

import (
	"fmt"
	"strings"

	"shopping-assistant/internal/models"
)

// Weights defines the contribution of each criterion to the composite score.
type Weights struct {
	Relevance    float64
	Price        float64
	Condition    float64
	SellerRating float64
}

// DefaultWeights returns the production weights. They sum to 1.0.
func DefaultWeights() Weights {
	return Weights{
		Relevance:    0.4,
		Price:        0.25,
		Condition:    0.2,
		SellerRating: 0.15,
	}
}

const (
	// unknownConditionScore applies to conditions missing from the table.
	unknownConditionScore = 0.5

	// DuplicateThreshold is the name word-overlap ratio above which a listing is a duplicate.
	DuplicateThreshold = 0.7

	brandBonus    = 0.5
	categoryBonus = 0.4

	inRangeBase   = 0.8
	inRangeSpread = 0.2
	outOfRange    = 0.1

	emptyCandidatePriceScore = 0.5
)

func defaultConditionScores() map[string]float64 {
	return map[string]float64{
		string(models.ConditionNew):        1.0,
		string(models.ConditionLikeNew):    0.9,
		string(models.ConditionVeryGood):   0.8,
		string(models.ConditionGood):       0.7,
		string(models.ConditionAcceptable): 0.5,
	}
}

// SortPolicy selects how explicit preferences and scores combine into the final order.
type SortPolicy string

const (
	// SortPolicyLayered applies category, condition, then price-or-score sorts in
	// sequence. Each stable pass dominates the previous one.
	SortPolicyLayered SortPolicy = "layered"

	// SortPolicyCombined uses a single comparator: condition match, category
	// match, then (in range, price) when a full range is given, else score.
	SortPolicyCombined SortPolicy = "combined"
)

// ParseSortPolicy maps a config value to a SortPolicy. Empty selects layered.
func ParseSortPolicy(s string) (SortPolicy, error) {
	switch SortPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortPolicyLayered:
		return SortPolicyLayered, nil
	case SortPolicyCombined:
		return SortPolicyCombined, nil
	default:
		return "", fmt.Errorf("unknown sort policy %q", s)
	}
}

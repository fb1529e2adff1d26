// internal/services/scraper/scraper.go
package scraper

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"shopping-assistant/internal/models"
)

const defaultBaseURL = "https://jp.mercari.com"

var imageURLs = []string{
	"https://images.unsplash.com/photo-1517336714731-489689fd1ca8?w=300&h=300&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1578662996442-48f60103fc96?w=300&h=300&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1606144042614-b2417e99c4e3?w=300&h=300&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1556821840-3a63f95609a7?w=300&h=300&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1515562141207-7a88fb7ce338?w=300&h=300&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1523275335684-37898b6baf30?w=300&h=300&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1544244015-0df4b3ffc6b0?w=300&h=300&fit=crop&crop=center",
	"https://images.unsplash.com/photo-1502920917128-1aa500764cbd?w=300&h=300&fit=crop&crop=center",
}

type tier struct {
	suffix      string
	brand       string
	minPrice    int
	maxPrice    int
	conditions  []models.Condition
	minRating   float64
	maxRating   float64
	description string
}

var tiers = []tier{
	{
		suffix:      "Premium Product",
		brand:       "Premium Brand",
		minPrice:    10000,
		maxPrice:    100000,
		conditions:  []models.Condition{models.ConditionNew, models.ConditionLikeNew, models.ConditionVeryGood},
		minRating:   4.5,
		maxRating:   5.0,
		description: "High-quality %s product with excellent condition",
	},
	{
		suffix:      "Value Option",
		brand:       "Value Brand",
		minPrice:    5000,
		maxPrice:    30000,
		conditions:  []models.Condition{models.ConditionGood, models.ConditionVeryGood, models.ConditionLikeNew},
		minRating:   4.0,
		maxRating:   4.8,
		description: "Great value %s product with good condition",
	},
	{
		suffix:      "Budget Friendly",
		brand:       "Budget Brand",
		minPrice:    2000,
		maxPrice:    15000,
		conditions:  []models.Condition{models.ConditionGood, models.ConditionAcceptable, models.ConditionVeryGood},
		minRating:   3.8,
		maxRating:   4.5,
		description: "Affordable %s product perfect for budget-conscious buyers",
	},
}

// Scraper produces marketplace-shaped listings for a query. It stands in for
// live marketplace retrieval and never fails.
type Scraper struct {
	mu      sync.Mutex
	rng     *rand.Rand
	baseURL string
}

// New returns a scraper seeded from the clock.
func New() *Scraper {
	return NewWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewWithSource makes the generated listings reproducible.
func NewWithSource(src rand.Source) *Scraper {
	return &Scraper{rng: rand.New(src), baseURL: defaultBaseURL}
}

// Search returns three listings, one per price tier. An empty query yields none.
func (s *Scraper) Search(ctx context.Context, query string) []models.Listing {
	query = strings.TrimSpace(query)
	if query == "" || ctx.Err() != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	listings := make([]models.Listing, 0, len(tiers))
	for i, t := range tiers {
		listings = append(listings, models.Listing{
			ID:           fmt.Sprintf("mercari_%d", s.intBetween(1000, 9999)),
			Name:         fmt.Sprintf("%s - %s", query, t.suffix),
			Price:        s.intBetween(t.minPrice, t.maxPrice),
			Condition:    string(t.conditions[s.rng.Intn(len(t.conditions))]),
			SellerRating: s.ratingBetween(t.minRating, t.maxRating),
			Category:     "Electronics",
			Brand:        t.brand,
			ImageURL:     imageURLs[s.rng.Intn(len(imageURLs))],
			URL:          fmt.Sprintf("%s/item/sample%d", s.baseURL, i+1),
			Description:  fmt.Sprintf(t.description, query),
		})
	}
	return listings
}

// Details returns a synthetic detail record for id.
func (s *Scraper) Details(ctx context.Context, id string) (*models.Listing, bool) {
	if strings.TrimSpace(id) == "" || ctx.Err() != nil {
		return nil, false
	}

	s.mu.Lock()
	price := s.intBetween(5000, 50000)
	s.mu.Unlock()

	return &models.Listing{
		ID:           id,
		Name:         "Detailed Product Name",
		Price:        price,
		Condition:    string(models.ConditionGood),
		SellerRating: 4.5,
		Category:     "Electronics",
		Brand:        "Brand",
		ImageURL:     imageURLs[0],
		URL:          fmt.Sprintf("%s/item/%s", s.baseURL, id),
		Description:  "Detailed product description with full specifications",
	}, true
}

// intBetween is inclusive on both ends.
func (s *Scraper) intBetween(lo, hi int) int {
	return lo + s.rng.Intn(hi-lo+1)
}

func (s *Scraper) ratingBetween(lo, hi float64) float64 {
	v := lo + s.rng.Float64()*(hi-lo)
	return math.Round(v*10) / 10
}

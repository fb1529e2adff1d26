package ranking

import (
	"sort"
	"strings"

	"shopping-assistant/internal/models"
)

// Ranker scores and orders listings. The zero value is not usable; call New.
type Ranker struct {
	weights    Weights
	conditions map[string]float64
	policy     SortPolicy
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithSortPolicy overrides the default layered ordering.
func WithSortPolicy(p SortPolicy) Option {
	return func(r *Ranker) {
		if p != "" {
			r.policy = p
		}
	}
}

// New builds a Ranker with the default weights and condition table.
func New(opts ...Option) *Ranker {
	r := &Ranker{
		weights:    DefaultWeights(),
		conditions: defaultConditionScores(),
		policy:     SortPolicyLayered,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Policy returns the active sort policy.
func (r *Ranker) Policy() SortPolicy {
	return r.policy
}

// Rank scores every listing, orders them by the preferences and removes near
// duplicates. The input slice and its elements are left untouched. An invalid
// listing fails the whole call with a *ListingError.
func (r *Ranker) Rank(listings []models.Listing, prefs *models.Preferences) ([]models.ScoredListing, error) {
	if len(listings) == 0 {
		return []models.ScoredListing{}, nil
	}

	if err := ValidateAll(listings); err != nil {
		return nil, err
	}

	scored := make([]models.ScoredListing, len(listings))
	for i, l := range listings {
		scored[i] = models.ScoredListing{
			Listing: l,
			Score:   r.Score(l, prefs, listings),
		}
	}

	switch r.policy {
	case SortPolicyCombined:
		orderCombined(scored, prefs)
	default:
		orderLayered(scored, prefs)
	}

	return Deduplicate(scored), nil
}

func matchKey(value, want string) int {
	if strings.ToLower(value) == want {
		return 0
	}
	return 1
}

func rangeKey(price int, rng *models.PriceRange) int {
	if *rng.Min <= price && price <= *rng.Max {
		return 0
	}
	return 1
}

// orderLayered runs each preference sort as its own stable pass, so the last
// pass is the most significant key.
func orderLayered(items []models.ScoredListing, prefs *models.Preferences) {
	if category, ok := prefs.CategoryValue(); ok {
		want := strings.ToLower(category)
		sort.SliceStable(items, func(i, j int) bool {
			return matchKey(items[i].Category, want) < matchKey(items[j].Category, want)
		})
	}

	if condition, ok := prefs.ConditionValue(); ok {
		want := strings.ToLower(condition)
		sort.SliceStable(items, func(i, j int) bool {
			return matchKey(items[i].Condition, want) < matchKey(items[j].Condition, want)
		})
	}

	if rng := prefs.Range(); rng.IsComplete() {
		sort.SliceStable(items, func(i, j int) bool {
			ki, kj := rangeKey(items[i].Price, rng), rangeKey(items[j].Price, rng)
			if ki != kj {
				return ki < kj
			}
			return items[i].Price < items[j].Price
		})
		return
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
}

func orderCombined(items []models.ScoredListing, prefs *models.Preferences) {
	category, hasCategory := prefs.CategoryValue()
	condition, hasCondition := prefs.ConditionValue()
	category, condition = strings.ToLower(category), strings.ToLower(condition)
	rng := prefs.Range()
	fullRange := rng.IsComplete()

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if hasCondition {
			if ka, kb := matchKey(a.Condition, condition), matchKey(b.Condition, condition); ka != kb {
				return ka < kb
			}
		}
		if hasCategory {
			if ka, kb := matchKey(a.Category, category), matchKey(b.Category, category); ka != kb {
				return ka < kb
			}
		}
		if fullRange {
			if ka, kb := rangeKey(a.Price, rng), rangeKey(b.Price, rng); ka != kb {
				return ka < kb
			}
			return a.Price < b.Price
		}
		return a.Score > b.Score
	})
}

package ranking

import (
	"math"
	"strings"

	"shopping-assistant/internal/models"
)

// RelevanceScore measures keyword coverage over name, category and brand, plus
// exact brand and category bonuses. The result is capped at 1.0.
func (r *Ranker) RelevanceScore(l models.Listing, prefs *models.Preferences) float64 {
	score := 0.0

	text := strings.ToLower(l.Name + " " + l.Category + " " + l.Brand)

	if prefs != nil && len(prefs.Keywords) > 0 {
		matches := 0
		for _, kw := range prefs.Keywords {
			if strings.Contains(text, strings.ToLower(kw)) {
				matches++
			}
		}
		score += float64(matches) / float64(len(prefs.Keywords))
	}

	if brand, ok := prefs.BrandValue(); ok && l.Brand != "" {
		if strings.ToLower(brand) == strings.ToLower(l.Brand) {
			score += brandBonus
		}
	}

	if category, ok := prefs.CategoryValue(); ok && l.Category != "" {
		if strings.ToLower(category) == strings.ToLower(l.Category) {
			score += categoryBonus
		}
	}

	return math.Min(score, 1.0)
}

// PriceScore rewards cheaper listings. With a complete preferred range, in-range
// prices score in [0.8, 1.0] and anything outside scores 0.1. Otherwise the
// price is normalized against the candidate set.
func (r *Ranker) PriceScore(l models.Listing, prefs *models.Preferences, candidates []models.Listing) float64 {
	if len(candidates) == 0 {
		return emptyCandidatePriceScore
	}

	if rng := prefs.Range(); rng.IsComplete() {
		minP, maxP := *rng.Min, *rng.Max
		if l.Price < minP || l.Price > maxP {
			return outOfRange
		}
		span := maxP - minP
		if span <= 0 {
			return 1.0
		}
		position := 1.0 - float64(l.Price-minP)/float64(span)
		return inRangeBase + position*inRangeSpread
	}

	minPrice, maxPrice := candidates[0].Price, candidates[0].Price
	for _, c := range candidates[1:] {
		if c.Price < minPrice {
			minPrice = c.Price
		}
		if c.Price > maxPrice {
			maxPrice = c.Price
		}
	}
	if maxPrice == minPrice {
		return 1.0
	}
	return float64(maxPrice-l.Price) / float64(maxPrice-minPrice)
}

// ConditionScore looks up the condition table. A listing in exactly the
// preferred condition scores 1.0.
func (r *Ranker) ConditionScore(l models.Listing, prefs *models.Preferences) float64 {
	condition := strings.ToLower(l.Condition)

	if preferred, ok := prefs.ConditionValue(); ok && condition == strings.ToLower(preferred) {
		return 1.0
	}

	if s, ok := r.conditions[condition]; ok {
		return s
	}
	return unknownConditionScore
}

// SellerRatingScore is rating/5. Ratings above 5 are not clamped.
func (r *Ranker) SellerRatingScore(l models.Listing) float64 {
	return l.SellerRating / 5.0
}

// Score returns the weighted composite for one listing.
func (r *Ranker) Score(l models.Listing, prefs *models.Preferences, candidates []models.Listing) float64 {
	total := 0.0
	total += r.RelevanceScore(l, prefs) * r.weights.Relevance
	total += r.PriceScore(l, prefs, candidates) * r.weights.Price
	total += r.ConditionScore(l, prefs) * r.weights.Condition
	total += r.SellerRatingScore(l) * r.weights.SellerRating
	return total
}

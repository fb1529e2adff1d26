// internal/models/preferences.go
package models

import "strings"

// PriceRange holds inclusive price bounds. Either bound may be absent.
type PriceRange struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

// IsComplete reports whether both bounds are present.
func (r *PriceRange) IsComplete() bool {
	return r != nil && r.Min != nil && r.Max != nil
}

// IsEmpty reports whether neither bound is present.
func (r *PriceRange) IsEmpty() bool {
	return r == nil || (r.Min == nil && r.Max == nil)
}

// Contains reports whether price lies within the present bounds.
func (r *PriceRange) Contains(price int) bool {
	if r == nil {
		return true
	}
	if r.Min != nil && price < *r.Min {
		return false
	}
	if r.Max != nil && price > *r.Max {
		return false
	}
	return true
}

// Preferences is the structured intent extracted from a free-text query.
// A nil field, or a pointer to an empty string, means no constraint.
type Preferences struct {
	Keywords   []string    `json:"product_keywords,omitempty"`
	Category   *string     `json:"category,omitempty"`
	Brand      *string     `json:"brand,omitempty"`
	Condition  *string     `json:"condition,omitempty"`
	PriceRange *PriceRange `json:"price_range,omitempty"`
	Color      *string     `json:"color,omitempty"`
	Size       *string     `json:"size,omitempty"`
	Features   []string    `json:"features,omitempty"`
}

func optional(s *string) (string, bool) {
	if s == nil || *s == "" {
		return "", false
	}
	return *s, true
}

// CategoryValue returns the preferred category and whether one is set.
func (p *Preferences) CategoryValue() (string, bool) {
	if p == nil {
		return "", false
	}
	return optional(p.Category)
}

// BrandValue returns the preferred brand and whether one is set.
func (p *Preferences) BrandValue() (string, bool) {
	if p == nil {
		return "", false
	}
	return optional(p.Brand)
}

// ConditionValue returns the preferred condition and whether one is set.
func (p *Preferences) ConditionValue() (string, bool) {
	if p == nil {
		return "", false
	}
	return optional(p.Condition)
}

// Range returns the price range, or nil when none was given.
func (p *Preferences) Range() *PriceRange {
	if p == nil || p.PriceRange.IsEmpty() {
		return nil
	}
	return p.PriceRange
}

// HasFilters reports whether any constraint besides keywords is present.
func (p *Preferences) HasFilters() bool {
	if p == nil {
		return false
	}
	_, cat := p.CategoryValue()
	_, brand := p.BrandValue()
	_, cond := p.ConditionValue()
	return cat || brand || cond || p.Range() != nil
}

// KeywordPreferences builds the fallback record used when query parsing fails.
func KeywordPreferences(query string) *Preferences {
	return &Preferences{Keywords: []string{strings.ToLower(query)}}
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// IntPtr returns a pointer to i.
func IntPtr(i int) *int { return &i }

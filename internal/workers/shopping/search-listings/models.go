// internal/workers/shopping/search-listings/models.go
package searchlistings

import "shopping-assistant/internal/models"

// Input with Tags set looks listings up by SEO tag instead of free text.
type Input struct {
	Query       string              `json:"query"`
	Preferences *models.Preferences `json:"preferences,omitempty"`
	Tags        []string            `json:"tags,omitempty"`
}

type Output struct {
	Listings []models.Listing `json:"listings"`
	Source   string           `json:"source"`
	Count    int              `json:"count"`
}

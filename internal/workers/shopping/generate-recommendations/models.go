// internal/workers/shopping/generate-recommendations/models.go
package generaterecommendations

import "shopping-assistant/internal/models"

type Input struct {
	Query          string                 `json:"query"`
	RankedListings []models.ScoredListing `json:"rankedListings"`
	Language       string                 `json:"language,omitempty"`
}

type Output struct {
	Recommendation string `json:"recommendation"`
	FallbackUsed   bool   `json:"fallbackUsed"`
}

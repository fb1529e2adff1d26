// internal/workers/shopping/rank-listings/models.go
package ranklistings

import (
	"encoding/json"

	"shopping-assistant/internal/models"
)

// Input keeps the listings raw so they can be checked against the listing
// schema before decoding.
type Input struct {
	Listings        json.RawMessage     `json:"listings"`
	Preferences     *models.Preferences `json:"preferences,omitempty"`
	TopN            int                 `json:"topN,omitempty"`
	FallbackOnError bool                `json:"fallbackOnError,omitempty"`
}

type Output struct {
	RankedListings    []models.ScoredListing `json:"rankedListings"`
	InputCount        int                    `json:"inputCount"`
	OutputCount       int                    `json:"outputCount"`
	DuplicatesRemoved int                    `json:"duplicatesRemoved"`
	Ranked            bool                   `json:"ranked"`
	Warnings          []string               `json:"warnings,omitempty"`
}

// internal/workers/shopping/parse-query/models.go
package parsequery

import "shopping-assistant/internal/models"

type Input struct {
	Query    string `json:"query"`
	Language string `json:"language,omitempty"`
}

type Output struct {
	Preferences  *models.Preferences `json:"preferences"`
	Language     string              `json:"language"`
	FallbackUsed bool                `json:"fallbackUsed"`
}

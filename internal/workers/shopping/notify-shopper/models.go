// internal/workers/shopping/notify-shopper/models.go
package notifyshopper

import "shopping-assistant/internal/models"

const (
	StatusSent     = models.NotificationStatusSent
	StatusDisabled = models.NotificationStatusDisabled
	StatusFailed   = models.NotificationStatusFailed

	EventSearchCompleted = "search.completed"
)

type Input struct {
	Email          string                 `json:"email,omitempty"`
	Query          string                 `json:"query"`
	Recommendation string                 `json:"recommendation"`
	RankedListings []models.ScoredListing `json:"rankedListings"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"`
	SentAt         string `json:"sentAt"`
	EventPublished bool   `json:"eventPublished"`
}

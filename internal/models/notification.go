// internal/models/notification.go
package models

const (
	NotificationStatusSent     = "sent"
	NotificationStatusFailed   = "failed"
	NotificationStatusDisabled = "disabled"
)

// SearchCompletedEvent is published when a shopper receives recommendations.
type SearchCompletedEvent struct {
	EventType      string   `json:"eventType"`
	NotificationID string   `json:"notificationId"`
	Query          string   `json:"query"`
	ListingIDs     []string `json:"listingIds"`
	TopListing     string   `json:"topListing,omitempty"`
	OccurredAt     string   `json:"occurredAt"`
}

package model

import (
	"time"
)

// Notification types emitted by the request lifecycle
const (
	NotificationTypeMatchFound       = "match_found"
	NotificationTypeDonorResponded   = "donor_responded"
	NotificationTypeRequestFulfilled = "request_fulfilled"
	NotificationTypeRequestCancelled = "request_cancelled"
)

// Notification represents a user notification. Once created only the Read
// flag is ever mutated, by the recipient.
type Notification struct {
	ID               string    `json:"id" db:"id"`
	UserID           string    `json:"user_id" db:"user_id"`
	Type             string    `json:"type" db:"type"`
	Title            string    `json:"title" db:"title"`
	Message          string    `json:"message" db:"message"`
	RelatedRequestID *string   `json:"related_request_id,omitempty" db:"related_request_id"`
	Read             bool      `json:"read" db:"read"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// NotificationListResponse represents a paginated list of notifications with metadata
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
	Unread        int            `json:"unread"`
}

package models

import "time"

// NotificationAttempt is one delivery to one recipient.
type NotificationAttempt struct {
	ID            string    `json:"id"`
	ObservationID string    `json:"observation_id"`
	Recipient     string    `json:"recipient"`
	Provider      string    `json:"provider"` // email | sms | discord
	Delivered     bool      `json:"delivered"`
	Error         string    `json:"error,omitempty"`
	AttemptedAt   time.Time `json:"attempted_at"`
}

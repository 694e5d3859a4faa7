package domain

import "time"

// Preference is an opaque UI value (last visit, chosen view, saved query) owned by a user.
type Preference struct {
	UserID    string    `json:"-"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

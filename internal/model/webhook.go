package model

import "time"

// Webhook is a subscription record owned by a single user.
//
// UserID is an immutable foreign reference; deleting the owning user
// cascade-deletes their webhooks at the storage layer.
//
// Secret is the delivery signing secret. It is returned exactly once, in the
// create response, and json:"-" keeps it out of list/get/update responses.
type Webhook struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	URL        string    `json:"url"`
	EventTypes []string  `json:"event_types"`
	Secret     string    `json:"-"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// WebhookUpdate is an explicit partial-update request. A nil field means
// "leave unchanged" — a PATCH supplying only URL must not clobber EventTypes.
// The store applies only the non-nil fields and returns the new state.
type WebhookUpdate struct {
	URL        *string
	EventTypes []string
	IsActive   *bool
}

// IsZero reports whether the update carries no changes at all.
func (u WebhookUpdate) IsZero() bool {
	return u.URL == nil && u.EventTypes == nil && u.IsActive == nil
}

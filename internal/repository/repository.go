// Package repository declares the persistence interfaces consumed by the
// service layer. The sqlite subpackage provides the concrete implementation;
// tests substitute in-memory fakes.
package repository

import (
	"context"

	"github.com/sakif/webhook-hub/internal/model"
)

// UserRepository is the user-store collaborator.
//
// Implementations must enforce email uniqueness at the storage layer so a
// race between two concurrent registrations with the same email fails one
// of them. Callers pass emails already normalized to lowercase.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// WebhookRepository is the webhook-store collaborator.
//
// GetWebhookByIDAndUser, UpdateWebhook, and DeleteWebhook filter by (id AND owner) in a single
// predicate — never "load by id, then check owner in code". A miss looks
// identical whether the id is absent or owned by another user.
type WebhookRepository interface {
	CreateWebhook(ctx context.Context, webhook *model.Webhook) error
	ListWebhooksByUser(ctx context.Context, userID string) ([]model.Webhook, error)
	GetWebhookByIDAndUser(ctx context.Context, id, userID string) (*model.Webhook, error)
	UpdateWebhook(ctx context.Context, id, userID string, update model.WebhookUpdate) (*model.Webhook, error)
	DeleteWebhook(ctx context.Context, id, userID string) error
}

package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/sakif/webhook-hub/internal/apperror"
	"github.com/sakif/webhook-hub/internal/model"
	"github.com/sakif/webhook-hub/internal/repository"
)

// secretBytes is the entropy of a generated delivery secret (URL-safe
// base64-encoded in the stored value).
const secretBytes = 32

// WebhookService handles CRUD for webhook subscriptions.
//
// Every operation takes the authenticated user's ID and scopes the lookup by
// (id AND owner) through the repository — the ownership check is the
// repository predicate, not a comparison in this layer, so there is no
// window between "load" and "check".
type WebhookService struct {
	repo   repository.WebhookRepository
	logger *slog.Logger
}

// NewWebhookService creates a WebhookService.
func NewWebhookService(repo repository.WebhookRepository, logger *slog.Logger) *WebhookService {
	return &WebhookService{
		repo:   repo,
		logger: logger,
	}
}

// Create validates and saves a new webhook for userID.
//
// When no secret is supplied, one is generated from 32 random bytes. The
// caller sees the secret only in the create response.
func (s *WebhookService) Create(ctx context.Context, userID, rawURL string, eventTypes []string, secret string) (*model.Webhook, error) {
	target, err := validateURL(rawURL)
	if err != nil {
		return nil, err
	}

	events, err := validateEventTypes(eventTypes)
	if err != nil {
		return nil, err
	}

	secret = strings.TrimSpace(secret)
	if secret == "" {
		secret, err = generateSecret()
		if err != nil {
			return nil, fmt.Errorf("service/webhook: generating secret: %w", err)
		}
	}

	webhook := &model.Webhook{
		UserID:     userID,
		URL:        target,
		EventTypes: events,
		Secret:     secret,
	}
	if err := s.repo.CreateWebhook(ctx, webhook); err != nil {
		return nil, fmt.Errorf("service/webhook: creating webhook: %w", err)
	}

	s.logger.Info("webhook created",
		slog.String("id", webhook.ID),
		slog.String("userID", userID),
	)

	return webhook, nil
}

// List returns userID's webhooks, newest first.
func (s *WebhookService) List(ctx context.Context, userID string) ([]model.Webhook, error) {
	webhooks, err := s.repo.ListWebhooksByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/webhook: listing webhooks: %w", err)
	}
	return webhooks, nil
}

// Get returns the webhook only when it exists and belongs to userID;
// otherwise the uniform NotFound.
func (s *WebhookService) Get(ctx context.Context, userID, id string) (*model.Webhook, error) {
	webhook, err := s.repo.GetWebhookByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return webhook, nil
}

// Update applies a partial update to a webhook owned by userID.
// Supplied fields are validated with the same rules as Create; unsupplied
// fields are left untouched by the repository.
func (s *WebhookService) Update(ctx context.Context, userID, id string, update model.WebhookUpdate) (*model.Webhook, error) {
	if update.URL != nil {
		target, err := validateURL(*update.URL)
		if err != nil {
			return nil, err
		}
		update.URL = &target
	}
	if update.EventTypes != nil {
		events, err := validateEventTypes(update.EventTypes)
		if err != nil {
			return nil, err
		}
		update.EventTypes = events
	}

	webhook, err := s.repo.UpdateWebhook(ctx, id, userID, update)
	if err != nil {
		return nil, err
	}

	return webhook, nil
}

// Delete removes a webhook owned by userID, or reports the uniform NotFound.
func (s *WebhookService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteWebhook(ctx, id, userID); err != nil {
		return err
	}

	s.logger.Info("webhook deleted",
		slog.String("id", id),
		slog.String("userID", userID),
	)

	return nil
}

// validateURL requires an absolute http(s) URL with a host.
func validateURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", apperror.ValidationFailed("url", "url is required")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", apperror.ValidationFailed("url", "url must be an absolute http or https URL")
	}

	return parsed.String(), nil
}

// validateEventTypes requires a non-empty list of non-empty strings and
// returns the trimmed copy.
func validateEventTypes(eventTypes []string) ([]string, error) {
	if len(eventTypes) == 0 {
		return nil, apperror.ValidationFailed("event_types", "event_types must be a non-empty list")
	}

	normalized := make([]string, 0, len(eventTypes))
	for _, item := range eventTypes {
		eventType := strings.TrimSpace(item)
		if eventType == "" {
			return nil, apperror.ValidationFailed("event_types", "event_types must contain non-empty strings")
		}
		normalized = append(normalized, eventType)
	}

	return normalized, nil
}

func generateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

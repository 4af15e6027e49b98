package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/xid"
	"github.com/sakif/webhook-hub/internal/apperror"
	"github.com/sakif/webhook-hub/internal/model"
	"github.com/sakif/webhook-hub/internal/repository"
)

// compile-time check that *DB implements repository.WebhookRepository
var _ repository.WebhookRepository = (*DB)(nil)

// CreateWebhook inserts a new webhook, generating the ID and timestamps.
// Webhooks start active.
func (db *DB) CreateWebhook(ctx context.Context, webhook *model.Webhook) error {
	now := time.Now().UTC()
	webhook.ID = xid.New().String()
	webhook.IsActive = true
	webhook.CreatedAt = now
	webhook.UpdatedAt = now

	events, err := json.Marshal(webhook.EventTypes)
	if err != nil {
		return fmt.Errorf("sqlite: encoding event types: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO webhooks (id, user_id, url, event_types, secret, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		webhook.ID,
		webhook.UserID,
		webhook.URL,
		string(events),
		webhook.Secret,
		webhook.IsActive,
		webhook.CreatedAt,
		webhook.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: inserting webhook: %w", err)
	}

	return nil
}

// ListWebhooksByUser returns the user's webhooks, newest first.
func (db *DB) ListWebhooksByUser(ctx context.Context, userID string) ([]model.Webhook, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, url, event_types, secret, is_active, created_at, updated_at
		 FROM webhooks WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing webhooks for user %s: %w", userID, err)
	}
	defer rows.Close()

	webhooks := []model.Webhook{}
	for rows.Next() {
		w, err := scanWebhook(rows.Scan)
		if err != nil {
			return nil, err
		}
		webhooks = append(webhooks, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating webhooks: %w", err)
	}

	return webhooks, nil
}

// GetWebhookByIDAndUser retrieves a webhook filtered by id AND owner in a single
// predicate. A missing id and a foreign owner produce the same NotFound —
// probing ids reveals nothing about other users' webhooks.
func (db *DB) GetWebhookByIDAndUser(ctx context.Context, id, userID string) (*model.Webhook, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, url, event_types, secret, is_active, created_at, updated_at
		 FROM webhooks WHERE id = ? AND user_id = ?`,
		id, userID,
	)

	w, err := scanWebhook(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("webhook")
		}
		return nil, err
	}

	return w, nil
}

// UpdateWebhook applies the non-nil fields of update to the webhook matching
// (id AND owner) and returns the new state. The ownership predicate is part
// of the UPDATE statement itself, not a separate preceding check.
func (db *DB) UpdateWebhook(ctx context.Context, id, userID string, update model.WebhookUpdate) (*model.Webhook, error) {
	existing, err := db.GetWebhookByIDAndUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if update.IsZero() {
		// Nothing to change; return the current state untouched.
		return existing, nil
	}

	if update.URL != nil {
		existing.URL = *update.URL
	}
	if update.EventTypes != nil {
		existing.EventTypes = update.EventTypes
	}
	if update.IsActive != nil {
		existing.IsActive = *update.IsActive
	}
	existing.UpdatedAt = time.Now().UTC()

	events, err := json.Marshal(existing.EventTypes)
	if err != nil {
		return nil, fmt.Errorf("sqlite: encoding event types: %w", err)
	}

	result, err := db.conn.ExecContext(ctx,
		`UPDATE webhooks SET url = ?, event_types = ?, is_active = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		existing.URL,
		string(events),
		existing.IsActive,
		existing.UpdatedAt,
		id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating webhook %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, apperror.NotFound("webhook")
	}

	return existing, nil
}

// DeleteWebhook removes the webhook matching (id AND owner). RowsAffected detects
// the miss; absent and foreign ids fail identically.
func (db *DB) DeleteWebhook(ctx context.Context, id, userID string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM webhooks WHERE id = ? AND user_id = ?`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: deleting webhook %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("webhook")
	}

	return nil
}

// scanWebhook reads one row via the given Scan function and decodes the
// event_types JSON column.
func scanWebhook(scan func(dest ...any) error) (*model.Webhook, error) {
	var (
		w      model.Webhook
		events string
	)

	err := scan(
		&w.ID,
		&w.UserID,
		&w.URL,
		&events,
		&w.Secret,
		&w.IsActive,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("sqlite: scanning webhook: %w", err)
	}

	if err := json.Unmarshal([]byte(events), &w.EventTypes); err != nil {
		return nil, fmt.Errorf("sqlite: decoding event types for webhook %s: %w", w.ID, err)
	}

	return &w, nil
}

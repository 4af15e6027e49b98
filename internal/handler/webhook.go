package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/webhook-hub/internal/apperror"
	"github.com/sakif/webhook-hub/internal/auth"
	"github.com/sakif/webhook-hub/internal/model"
	"github.com/sakif/webhook-hub/internal/service"
)

// WebhookHandler exposes CRUD endpoints for webhook subscriptions. Every
// route sits behind RequireAuth; the handlers read the authenticated user
// from the context and pass it to the service for ownership scoping.
type WebhookHandler struct {
	webhooks *service.WebhookService
	logger   *slog.Logger
}

// NewWebhookHandler creates a WebhookHandler.
func NewWebhookHandler(webhooks *service.WebhookService, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhooks: webhooks,
		logger:   logger,
	}
}

type createWebhookRequest struct {
	URL        string   `json:"url"`
	EventTypes []string `json:"event_types"`
	Secret     string   `json:"secret"`
}

type updateWebhookRequest struct {
	URL        *string  `json:"url"`
	EventTypes []string `json:"event_types"`
	IsActive   *bool    `json:"is_active"`
}

// createWebhookResponse is the only response shape that carries the secret.
type createWebhookResponse struct {
	model.Webhook
	Secret string `json:"secret"`
}

// HandleCreate registers a new webhook for the authenticated user.
//
// HTTP: POST /webhooks {url, event_types, secret?}
// → 201 (response includes the secret, generated if none was supplied)
func (h *WebhookHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req createWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	webhook, err := h.webhooks.Create(r.Context(), userID, req.URL, req.EventTypes, req.Secret)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, createWebhookResponse{
		Webhook: *webhook,
		Secret:  webhook.Secret,
	})
}

// HandleList returns the authenticated user's webhooks, newest first.
//
// HTTP: GET /webhooks → 200 [...]
func (h *WebhookHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	webhooks, err := h.webhooks.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, webhooks)
}

// HandleGet returns one webhook owned by the authenticated user.
//
// HTTP: GET /webhooks/{id} → 200 | 404 (absent and foreign ids alike)
func (h *WebhookHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	webhook, err := h.webhooks.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, webhook)
}

// HandleUpdate applies a partial update to a webhook.
//
// HTTP: PATCH /webhooks/{id} {url?, event_types?, is_active?}
// → 200 with the new state | 404
// Fields absent from the body stay untouched.
func (h *WebhookHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	var req updateWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	webhook, err := h.webhooks.Update(r.Context(), userID, r.PathValue("id"), model.WebhookUpdate{
		URL:        req.URL,
		EventTypes: req.EventTypes,
		IsActive:   req.IsActive,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, webhook)
}

// HandleDelete removes a webhook.
//
// HTTP: DELETE /webhooks/{id} → 204 | 404
func (h *WebhookHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("valid authentication required"))
		return
	}

	if err := h.webhooks.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

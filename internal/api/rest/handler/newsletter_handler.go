package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// NewsletterRepository stores subscription requests
type NewsletterRepository interface {
	Subscribe(ctx context.Context, email string) error
}

// NewsletterHandler handles newsletter subscription requests
type NewsletterHandler struct {
	repo   NewsletterRepository
	logger *slog.Logger
}

// NewNewsletterHandler creates a new NewsletterHandler instance
func NewNewsletterHandler(repo NewsletterRepository, logger *slog.Logger) *NewsletterHandler {
	return &NewsletterHandler{
		repo:   repo,
		logger: logger,
	}
}

// SubscribeRequest represents the subscription payload
type SubscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe handles POST /newsletter/subscribe
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request", "A valid email address is required")
		return
	}

	if err := h.repo.Subscribe(r.Context(), email); err != nil {
		h.logger.Error("Failed to record newsletter subscription", "error", err)
		WriteErrorResponse(
			w,
			http.StatusInternalServerError,
			"Failed to subscribe",
			"An internal error occurred while processing your request",
		)
		return
	}

	WriteJSONResponse(w, http.StatusCreated, map[string]string{"status": "subscribed"})
}

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/zerofashion/storefront-api/internal/domain"
)

// UserLister defines the interface for the admin user registry
type UserLister interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// UserHandler handles HTTP requests for the user registry
type UserHandler struct {
	repo   UserLister
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(repo UserLister, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		repo:   repo,
		logger: logger,
	}
}

// ListUsersResponse represents the user registry payload
type ListUsersResponse struct {
	Users []domain.User `json:"users"`
	Count int           `json:"count"`
}

// ListUsers handles GET /users - returns the registered user list
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list users", "error", err)
		WriteErrorResponse(
			w,
			http.StatusInternalServerError,
			"Failed to list users",
			"An internal error occurred while processing your request",
		)
		return
	}

	WriteJSONResponse(w, http.StatusOK, ListUsersResponse{
		Users: users,
		Count: len(users),
	})
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/zerofashion/storefront-api/internal/api/rest/middleware"
	"github.com/zerofashion/storefront-api/internal/domain"
	"github.com/zerofashion/storefront-api/internal/reconciliation"
	"github.com/zerofashion/storefront-api/internal/repository"
	"github.com/zerofashion/storefront-api/internal/statusmachine"
)

// OrderRepository defines the interface for order repository operations
type OrderRepository interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListStatusChanges(ctx context.Context, orderID uuid.UUID) ([]domain.StatusChange, error)
}

// StatusMachine applies admin status transitions.
type StatusMachine interface {
	Transition(ctx context.Context, orderID uuid.UUID, rawStatus, actor string) (*domain.StatusChange, error)
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	repo    OrderRepository
	machine StatusMachine
	logger  *slog.Logger
}

// NewOrderHandler creates a new OrderHandler instance
func NewOrderHandler(repo OrderRepository, machine StatusMachine, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		repo:    repo,
		machine: machine,
		logger:  logger,
	}
}

// ListOrdersResponse represents the order listing payload
type ListOrdersResponse struct {
	Orders []domain.Order `json:"orders"`
	Count  int            `json:"count"`
}

// UpdateStatusRequest represents the status update payload
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ListOrders handles GET /orders - returns the full order list, or only
// fulfillment-eligible orders when ?fulfillable=true is set.
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.repo.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("Failed to list orders", "error", err)
		WriteErrorResponse(
			w,
			http.StatusInternalServerError,
			"Failed to list orders",
			"An internal error occurred while processing your request",
		)
		return
	}

	if r.URL.Query().Get("fulfillable") == "true" {
		orders = reconciliation.Filter(orders)
	}

	WriteJSONResponse(w, http.StatusOK, ListOrdersResponse{
		Orders: orders,
		Count:  len(orders),
	})
}

// GetOrderByID handles GET /orders/{id} - retrieves an order by ID
func (h *OrderHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	order, err := h.repo.GetOrderByID(r.Context(), id)
	if err != nil {
		var notFoundErr *repository.NotFoundError
		if errors.As(err, &notFoundErr) {
			h.logger.Warn("Order not found", "order_id", id, "error", err)
			WriteNotFoundResponse(w, "order")
			return
		}

		h.logger.Error("Failed to retrieve order", "order_id", id, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve order", "An internal error occurred while retrieving the order")
		return
	}

	WriteJSONResponse(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /orders/{id}/status - applies an admin status
// transition to one order.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	actor, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		h.logger.Error("User ID not found in context")
		WriteErrorResponse(w, http.StatusUnauthorized, "Authentication required", "User authentication is required")
		return
	}

	change, err := h.machine.Transition(r.Context(), id, req.Status, actor)
	if err != nil {
		var invalidErr *statusmachine.InvalidStatusError
		if errors.As(err, &invalidErr) {
			WriteErrorResponse(w, http.StatusBadRequest, "Invalid status", invalidErr.Error())
			return
		}

		var notFoundErr *repository.NotFoundError
		if errors.As(err, &notFoundErr) {
			h.logger.Warn("Order not found for status update", "order_id", id)
			WriteNotFoundResponse(w, "order")
			return
		}

		h.logger.Error("Failed to update order status", "order_id", id, "status", req.Status, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Failed to update order status", "An internal error occurred while processing your request")
		return
	}

	WriteJSONResponse(w, http.StatusOK, change)
}

// GetHistory handles GET /orders/{id}/history - returns the status change
// audit trail for an order.
func (h *OrderHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseOrderID(w, r)
	if !ok {
		return
	}

	// Confirm the order exists so an empty trail and a bad ID are
	// distinguishable.
	if _, err := h.repo.GetOrderByID(r.Context(), id); err != nil {
		var notFoundErr *repository.NotFoundError
		if errors.As(err, &notFoundErr) {
			WriteNotFoundResponse(w, "order")
			return
		}

		h.logger.Error("Failed to retrieve order", "order_id", id, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve order", "An internal error occurred while retrieving the order")
		return
	}

	changes, err := h.repo.ListStatusChanges(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to list status changes", "order_id", id, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve order history", "An internal error occurred while processing your request")
		return
	}

	if changes == nil {
		changes = []domain.StatusChange{}
	}

	WriteJSONResponse(w, http.StatusOK, changes)
}

// parseOrderID extracts and validates the order ID path variable, writing
// the error response itself on failure.
func parseOrderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := mux.Vars(r)["id"]

	id, err := uuid.Parse(idStr)
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Invalid order ID", "ID must be a valid UUID")
		return uuid.Nil, false
	}

	return id, true
}

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/zerofashion/storefront-api/internal/domain"
)

// ProductRepository defines the interface for catalog reads
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// ProductHandler handles HTTP requests for catalog listing
type ProductHandler struct {
	repo   ProductRepository
	logger *slog.Logger
}

// NewProductHandler creates a new ProductHandler instance
func NewProductHandler(repo ProductRepository, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		repo:   repo,
		logger: logger,
	}
}

// ListProductsResponse represents the catalog listing payload
type ListProductsResponse struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
}

// ListProducts handles GET /products - returns the catalog snapshot
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", "error", err)
		WriteErrorResponse(
			w,
			http.StatusInternalServerError,
			"Failed to list products",
			"An internal error occurred while processing your request",
		)
		return
	}

	WriteJSONResponse(w, http.StatusOK, ListProductsResponse{
		Products: products,
		Count:    len(products),
	})
}

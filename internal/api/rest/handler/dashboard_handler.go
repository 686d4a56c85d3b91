package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/zerofashion/storefront-api/internal/reporting"
)

// StatsProvider serves the current dashboard snapshot.
type StatsProvider interface {
	Latest(ctx context.Context) (*reporting.DashboardStats, error)
}

// DashboardHandler handles HTTP requests for dashboard statistics
type DashboardHandler struct {
	stats  StatsProvider
	logger *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler instance
func NewDashboardHandler(stats StatsProvider, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		stats:  stats,
		logger: logger,
	}
}

// GetDashboard handles GET /dashboard - returns the latest aggregated
// statistics snapshot.
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Latest(r.Context())
	if err != nil {
		h.logger.Error("Failed to compute dashboard statistics", "error", err)
		WriteErrorResponse(
			w,
			http.StatusInternalServerError,
			"Failed to compute dashboard statistics",
			"An internal error occurred while processing your request",
		)
		return
	}

	WriteJSONResponse(w, http.StatusOK, stats)
}

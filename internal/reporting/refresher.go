package reporting

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Refresher recomputes dashboard statistics on a fixed interval and serves
// the most recent snapshot. It replaces the admin UI's ad-hoc polling with
// one scheduled task that stops when its context is cancelled.
type Refresher struct {
	aggregator *Aggregator
	interval   time.Duration
	logger     *slog.Logger

	mu     sync.RWMutex
	latest *DashboardStats
}

// NewRefresher creates a new Refresher instance
func NewRefresher(aggregator *Aggregator, interval time.Duration, logger *slog.Logger) *Refresher {
	return &Refresher{
		aggregator: aggregator,
		interval:   interval,
		logger:     logger,
	}
}

// Run recomputes immediately, then on every tick until ctx is cancelled.
// A failed refresh keeps the previous snapshot.
func (r *Refresher) Run(ctx context.Context) {
	r.logger.Info("dashboard_refresher_started", "interval", r.interval.String())

	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("dashboard_refresher_stopped")
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

// Latest returns the most recent snapshot, computing one synchronously if
// no refresh has succeeded yet.
func (r *Refresher) Latest(ctx context.Context) (*DashboardStats, error) {
	r.mu.RLock()
	latest := r.latest
	r.mu.RUnlock()

	if latest != nil {
		return latest, nil
	}

	stats, err := r.aggregator.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	r.store(stats)
	return stats, nil
}

func (r *Refresher) refresh(ctx context.Context) {
	stats, err := r.aggregator.Snapshot(ctx)
	if err != nil {
		r.logger.Warn("dashboard_refresh_failed", "error", err)
		return
	}

	r.store(stats)
}

func (r *Refresher) store(stats *DashboardStats) {
	r.mu.Lock()
	r.latest = stats
	r.mu.Unlock()
}

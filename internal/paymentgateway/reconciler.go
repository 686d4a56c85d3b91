package paymentgateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/zerofashion/storefront-api/internal/domain"
)

// OrderStore is the slice of order persistence the reconciler needs.
type OrderStore interface {
	ListUnpaidBefore(ctx context.Context, cutoff time.Time) ([]domain.Order, error)
	SetPayment(ctx context.Context, orderID uuid.UUID, paid bool) error
}

// Reconciler periodically asks the gateway about orders whose payment
// confirmation never arrived and mirrors the answer onto the order record.
// This is the only writer of the payment flag in this service.
type Reconciler struct {
	store     OrderStore
	gateway   Gateway
	interval  time.Duration
	olderThan time.Duration
	logger    *slog.Logger
}

// NewReconciler creates a new Reconciler instance
func NewReconciler(
	store OrderStore,
	gateway Gateway,
	interval time.Duration,
	olderThan time.Duration,
	logger *slog.Logger,
) *Reconciler {
	return &Reconciler{
		store:     store,
		gateway:   gateway,
		interval:  interval,
		olderThan: olderThan,
		logger:    logger,
	}
}

// Run sweeps on every tick until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("payment_reconciler_started",
		"interval", r.interval.String(), "older_than", r.olderThan.String())

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("payment_reconciler_stopped")
			return
		case <-ticker.C:
			if err := r.Sweep(ctx); err != nil {
				r.logger.Warn("payment_reconciliation_failed", "error", err)
			}
		}
	}
}

// Sweep processes one reconciliation pass. Orders the gateway does not
// confirm stay unpaid and are picked up again next pass; per-order
// failures skip that order rather than aborting the sweep.
func (r *Reconciler) Sweep(ctx context.Context) error {
	cutoff := time.Now().Add(-r.olderThan)
	stale, err := r.store.ListUnpaidBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, order := range stale {
		paid, err := r.gateway.CheckStatus(ctx, order.ID)
		if err != nil {
			r.logger.Warn("payment_status_check_failed", "order_id", order.ID, "error", err)
			continue
		}

		if !paid {
			continue
		}

		if err := r.store.SetPayment(ctx, order.ID, true); err != nil {
			r.logger.Warn("payment_flag_update_failed", "order_id", order.ID, "error", err)
			continue
		}

		r.logger.Info("payment_confirmed", "order_id", order.ID)
	}

	return nil
}

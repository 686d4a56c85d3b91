// Package statusmachine applies admin-requested fulfillment status changes
// to orders. Transitions are deliberately unconstrained: any status is
// reachable from any other, including out of Delivered and Cancelled. The
// admin UI expects monotonic progression but the service does not enforce it.
package statusmachine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/zerofashion/storefront-api/internal/domain"
)

// ValidStatuses enumerates every accepted fulfillment status, in the
// order the admin UI presents them.
var ValidStatuses = []domain.Status{
	domain.StatusOrderPlaced,
	domain.StatusPacking,
	domain.StatusShipped,
	domain.StatusOutForDelivery,
	domain.StatusDelivered,
	domain.StatusCancelled,
}

// InvalidStatusError reports a requested status outside the enumeration.
// Rejected before any mutation.
type InvalidStatusError struct {
	Status string
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("invalid order status %q", e.Status)
}

// ParseStatus validates a raw status value against the enumeration.
func ParseStatus(raw string) (domain.Status, error) {
	for _, s := range ValidStatuses {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", &InvalidStatusError{Status: raw}
}

// StatusStore is the persistence surface the machine mutates.
type StatusStore interface {
	UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus domain.Status, actor string) (*domain.StatusChange, error)
}

// Notifier delivers downstream status notifications (customer email and
// the like). Delivery is best-effort.
type Notifier interface {
	NotifyStatusChange(ctx context.Context, change *domain.StatusChange) error
}

// Machine coordinates a status transition: validation, persistence with
// audit, then notification.
type Machine struct {
	store    StatusStore
	notifier Notifier
	logger   *slog.Logger
}

// NewMachine creates a new status Machine instance
func NewMachine(store StatusStore, notifier Notifier, logger *slog.Logger) *Machine {
	return &Machine{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Transition applies newStatus to exactly one order and records who asked
// for it. Store errors (not found, transient) are surfaced to the caller
// for retry; notification failures are logged and swallowed.
func (m *Machine) Transition(ctx context.Context, orderID uuid.UUID, rawStatus, actor string) (*domain.StatusChange, error) {
	newStatus, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	change, err := m.store.UpdateStatus(ctx, orderID, newStatus, actor)
	if err != nil {
		return nil, err
	}

	if err := m.notifier.NotifyStatusChange(ctx, change); err != nil {
		// Non-fatal: the transition is already committed.
		m.logger.Warn("Status change notification failed",
			"order_id", orderID, "new_status", newStatus, "error", err)
	}

	return change, nil
}

// Package notifier delivers downstream notifications for order lifecycle
// events. The wire delivery (customer email service) sits behind the
// statusmachine.Notifier interface; this package provides the in-process
// implementation used until a real mail collaborator is attached.
package notifier

import (
	"context"
	"log/slog"

	"github.com/zerofashion/storefront-api/internal/domain"
)

// LogNotifier records status change notifications to the structured log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a new LogNotifier instance
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyStatusChange emits one log record per committed transition.
func (n *LogNotifier) NotifyStatusChange(_ context.Context, change *domain.StatusChange) error {
	n.logger.Info("order_status_notification",
		"order_id", change.OrderID,
		"old_status", change.OldStatus,
		"new_status", change.NewStatus,
		"actor", change.Actor,
	)
	return nil
}

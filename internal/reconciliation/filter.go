// Package reconciliation decides which orders are eligible for admin-facing
// fulfillment views.
package reconciliation

import (
	"github.com/zerofashion/storefront-api/internal/domain"
)

// Eligible reports whether an order may enter fulfillment processing:
// payment confirmed by the provider, or cash on delivery where payment is
// deferred to the doorstep.
func Eligible(order domain.Order) bool {
	return order.Payment || order.PaymentMethod == domain.PaymentMethodCOD
}

// Filter returns the subset of orders eligible for fulfillment, preserving
// input order. Pure and deterministic; the input slice is not modified.
func Filter(orders []domain.Order) []domain.Order {
	filtered := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if Eligible(order) {
			filtered = append(filtered, order)
		}
	}
	return filtered
}

// Package paymentgateway abstracts the external payment provider. The
// provider is the source of truth for whether money actually moved; this
// service only mirrors its verdict onto the order record.
package paymentgateway

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Gateway answers whether a charge for an order has been confirmed by the
// payment provider.
type Gateway interface {
	CheckStatus(ctx context.Context, orderID uuid.UUID) (bool, error)
}

// MemoryGateway is an in-process Gateway used for local runs and tests.
// Confirmations are recorded by whatever plays the provider role.
type MemoryGateway struct {
	mu        sync.RWMutex
	confirmed map[uuid.UUID]bool
}

// NewMemoryGateway creates a new MemoryGateway instance
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{confirmed: make(map[uuid.UUID]bool)}
}

// Confirm records the provider's verdict for an order.
func (g *MemoryGateway) Confirm(orderID uuid.UUID, paid bool) {
	g.mu.Lock()
	g.confirmed[orderID] = paid
	g.mu.Unlock()
}

// CheckStatus reports the recorded verdict; unknown orders are unpaid.
func (g *MemoryGateway) CheckStatus(_ context.Context, orderID uuid.UUID) (bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.confirmed[orderID], nil
}

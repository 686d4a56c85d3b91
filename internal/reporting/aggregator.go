// Package reporting derives dashboard statistics from order, catalog and
// user snapshots. Everything here is read-only and recomputable: running
// the same computation twice over an unchanged snapshot yields identical
// results.
package reporting

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zerofashion/storefront-api/internal/domain"
)

// LowStockThreshold is the stock level below which a product counts as
// running low on the dashboard.
const LowStockThreshold = 10

// TopProductLimit caps the best-seller list.
const TopProductLimit = 5

// TopProduct is one best-seller entry, grouped by product name.
type TopProduct struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// DashboardStats is the summary the admin dashboard renders.
type DashboardStats struct {
	TotalRevenue      float64      `json:"total_revenue"`
	TotalOrders       int          `json:"total_orders"`
	AverageOrderValue float64      `json:"average_order_value"`
	RevenueGrowth     float64      `json:"revenue_growth"`
	OrderGrowth       float64      `json:"order_growth"`
	UniqueCustomers   int          `json:"unique_customers"`
	TopProducts       []TopProduct `json:"top_products"`
	LowStockCount     int          `json:"low_stock_count"`
	ComputedAt        time.Time    `json:"computed_at"`
}

// Compute builds dashboard statistics from in-memory snapshots. Pure
// except for the ComputedAt stamp taken from now.
func Compute(orders []domain.Order, products []domain.Product, now time.Time) *DashboardStats {
	stats := &DashboardStats{
		TotalOrders: len(orders),
		TopProducts: topProducts(orders),
		ComputedAt:  now,
	}

	var currentRevenue, previousRevenue float64
	var currentCount, previousCount int
	customers := make(map[string]struct{})

	currentMonth := now.Format("2006-01")
	// AddDate normalizes day overflow (Mar 31 minus one month lands back
	// in March), so derive the previous month from the first of the month.
	previousMonth := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, now.Location()).Format("2006-01")

	for _, order := range orders {
		stats.TotalRevenue += order.Amount

		switch order.CreatedAt.Format("2006-01") {
		case currentMonth:
			currentRevenue += order.Amount
			currentCount++
		case previousMonth:
			previousRevenue += order.Amount
			previousCount++
		}

		// Prefer email as the customer identity; fall back to the
		// internal user ID for orders recorded without one.
		key := strings.ToLower(order.CustomerEmail)
		if key == "" {
			key = order.UserID.String()
		}
		customers[key] = struct{}{}
	}

	stats.UniqueCustomers = len(customers)
	stats.RevenueGrowth = growth(previousRevenue, currentRevenue)
	stats.OrderGrowth = growth(float64(previousCount), float64(currentCount))

	if len(orders) > 0 {
		stats.AverageOrderValue = stats.TotalRevenue / float64(len(orders))
	}

	for _, p := range products {
		if p.Stock < LowStockThreshold {
			stats.LowStockCount++
		}
	}

	return stats
}

// growth computes month-over-month percentage growth. A zero previous
// month yields 100 when anything happened this month and 0 otherwise,
// rather than dividing by zero.
func growth(previous, current float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// topProducts groups line items by product name, summing quantity and
// revenue, and returns the top entries by quantity. Ties keep first
// appearance order (stable sort).
func topProducts(orders []domain.Order) []TopProduct {
	totals := make(map[string]*TopProduct)
	var names []string

	for _, order := range orders {
		for _, item := range order.Items {
			entry, ok := totals[item.Name]
			if !ok {
				entry = &TopProduct{Name: item.Name}
				totals[item.Name] = entry
				names = append(names, item.Name)
			}
			entry.Quantity += item.Quantity
			entry.Revenue += item.Price * float64(item.Quantity)
		}
	}

	ranked := make([]TopProduct, 0, len(names))
	for _, name := range names {
		ranked = append(ranked, *totals[name])
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quantity > ranked[j].Quantity
	})

	if len(ranked) > TopProductLimit {
		ranked = ranked[:TopProductLimit]
	}

	return ranked
}

// OrderLister supplies the order snapshot.
type OrderLister interface {
	ListOrders(ctx context.Context) ([]domain.Order, error)
}

// ProductLister supplies the catalog snapshot.
type ProductLister interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

// Aggregator fetches current snapshots and computes dashboard statistics.
type Aggregator struct {
	orders   OrderLister
	products ProductLister
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(orders OrderLister, products ProductLister) *Aggregator {
	return &Aggregator{
		orders:   orders,
		products: products,
	}
}

// Snapshot fetches the order and catalog snapshots in parallel and
// computes the dashboard statistics over them.
func (a *Aggregator) Snapshot(ctx context.Context) (*DashboardStats, error) {
	var orders []domain.Order
	var products []domain.Product

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if orders, err = a.orders.ListOrders(ctx); err != nil {
			return fmt.Errorf("fetch order snapshot: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		if products, err = a.products.ListProducts(ctx); err != nil {
			return fmt.Errorf("fetch product snapshot: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return Compute(orders, products, time.Now().UTC()), nil
}

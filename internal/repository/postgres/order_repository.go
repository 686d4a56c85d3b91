package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zerofashion/storefront-api/internal/domain"
	"github.com/zerofashion/storefront-api/internal/repository"
)

const (
	OrderResource = "order"
)

const orderColumns = `id, user_id, customer_email, items, amount, address, payment_method, payment, status, created_at, updated_at`

// OrderRepository provides database operations for orders
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository instance
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{
		pool: pool,
	}
}

// ListOrders retrieves every order, newest first. The admin views operate
// on the full list; there is no pagination contract.
func (r *OrderRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders ORDER BY created_at DESC", orderColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

// GetOrderByID retrieves an order by its ID from the database
func (r *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders WHERE id = $1", orderColumns)

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.NewNotFound(OrderResource, "id", id)
		}
		return nil, fmt.Errorf("retrieve order with id %s: %w", id, err)
	}

	return order, nil
}

// UpdateStatus overwrites an order's status and appends the audit record
// in the same transaction. Returns the recorded change.
func (r *OrderRepository) UpdateStatus(
	ctx context.Context,
	orderID uuid.UUID,
	newStatus domain.Status,
	actor string,
) (*domain.StatusChange, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin status update for order %s: %w", orderID, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var oldStatus domain.Status
	err = tx.QueryRow(ctx, "SELECT status FROM orders WHERE id = $1 FOR UPDATE", orderID).Scan(&oldStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.NewNotFound(OrderResource, "id", orderID)
		}
		return nil, fmt.Errorf("lock order %s for status update: %w", orderID, err)
	}

	_, err = tx.Exec(ctx,
		"UPDATE orders SET status = $1, updated_at = now() WHERE id = $2",
		newStatus, orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("update status for order %s: %w", orderID, err)
	}

	change := &domain.StatusChange{
		ID:        uuid.New(),
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Actor:     actor,
		ChangedAt: time.Now().UTC(),
	}

	_, err = tx.Exec(ctx,
		"INSERT INTO status_changes (id, order_id, old_status, new_status, actor, changed_at) VALUES ($1, $2, $3, $4, $5, $6)",
		change.ID, change.OrderID, change.OldStatus, change.NewStatus, change.Actor, change.ChangedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("record status change for order %s: %w", orderID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit status update for order %s: %w", orderID, err)
	}

	return change, nil
}

// ListStatusChanges returns the append-only audit trail for one order,
// oldest first.
func (r *OrderRepository) ListStatusChanges(ctx context.Context, orderID uuid.UUID) ([]domain.StatusChange, error) {
	query := `
SELECT id, order_id, old_status, new_status, actor, changed_at
FROM status_changes
WHERE order_id = $1
ORDER BY changed_at ASC
`
	rows, err := r.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query status changes for order %s: %w", orderID, err)
	}
	defer rows.Close()

	var changes []domain.StatusChange
	for rows.Next() {
		var c domain.StatusChange
		if err := rows.Scan(&c.ID, &c.OrderID, &c.OldStatus, &c.NewStatus, &c.Actor, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		changes = append(changes, c)
	}

	return changes, rows.Err()
}

// SetPayment records the payment collaborator's verdict for an order.
func (r *OrderRepository) SetPayment(ctx context.Context, orderID uuid.UUID, paid bool) error {
	tag, err := r.pool.Exec(ctx,
		"UPDATE orders SET payment = $1, updated_at = now() WHERE id = $2",
		paid, orderID,
	)
	if err != nil {
		return fmt.Errorf("set payment for order %s: %w", orderID, err)
	}

	if tag.RowsAffected() == 0 {
		return repository.NewNotFound(OrderResource, "id", orderID)
	}

	return nil
}

// ListUnpaidBefore returns non-COD orders still awaiting payment
// confirmation that were last touched before the cutoff. These are the
// candidates for payment reconciliation.
func (r *OrderRepository) ListUnpaidBefore(ctx context.Context, cutoff time.Time) ([]domain.Order, error) {
	query := fmt.Sprintf(`
SELECT %s FROM orders
WHERE payment = false AND payment_method <> $1 AND updated_at < $2
ORDER BY updated_at ASC
`, orderColumns)

	rows, err := r.pool.Query(ctx, query, domain.PaymentMethodCOD, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query unpaid orders: %w", err)
	}
	defer rows.Close()

	return scanOrders(rows)
}

func scanOrders(rows pgx.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	return orders, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.CustomerEmail,
		&order.Items,
		&order.Amount,
		&order.Address,
		&order.PaymentMethod,
		&order.Payment,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &order, nil
}

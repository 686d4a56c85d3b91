package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewsletterRepository stores newsletter subscriptions.
type NewsletterRepository struct {
	pool *pgxpool.Pool
}

func NewNewsletterRepository(pool *pgxpool.Pool) *NewsletterRepository {
	return &NewsletterRepository{pool: pool}
}

// Subscribe records a subscription. Re-subscribing an existing address is
// a no-op, not an error.
func (r *NewsletterRepository) Subscribe(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}

	_, err := r.pool.Exec(ctx,
		"INSERT INTO newsletter_subscribers (email, subscribed_at) VALUES ($1, now()) ON CONFLICT (email) DO NOTHING",
		email,
	)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", email, err)
	}

	return nil
}

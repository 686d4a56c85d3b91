package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/zerofashion/storefront-api/internal/domain"
	"github.com/zerofashion/storefront-api/internal/repository"
)

const (
	UserResource = "user"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetUserByEmail retrieves a user, including the password hash, by email
// address. Used by the signin flow.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, fmt.Errorf("email cannot be empty")
	}

	const query = `
SELECT id, name, email, password_hash, role, created_at
FROM users
WHERE email = $1
`
	var user domain.User
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.NewNotFound(UserResource, "email", email)
		}
		return nil, fmt.Errorf("query user by email %s: %w", email, err)
	}

	return &user, nil
}

// ListUsers retrieves the admin user registry, newest first.
func (r *UserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	const query = `
SELECT id, name, email, password_hash, role, created_at
FROM users
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

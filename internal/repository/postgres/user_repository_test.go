package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerofashion/storefront-api/internal/domain"
	"github.com/zerofashion/storefront-api/internal/repository"
)

func TestUserRepository_GetUserByEmail(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewUserRepository(pool)
	userID := uuid.New()
	seedUser(t, pool, userID, "admin@example.com", domain.RoleAdmin)
	defer cleanupTestUsers(t, pool)

	testCases := map[string]struct {
		email             string
		expectNotFoundErr bool
		expectedError     string
	}{
		"should return the user with password hash": {
			email: "admin@example.com",
		},
		"should return not found for an unknown email": {
			email:             "ghost@example.com",
			expectNotFoundErr: true,
		},
		"should reject an empty email": {
			email:         "",
			expectedError: "email cannot be empty",
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			user, err := repo.GetUserByEmail(context.Background(), tc.email)

			if tc.expectNotFoundErr {
				var notFoundErr *repository.NotFoundError
				require.ErrorAs(t, err, &notFoundErr)
				return
			}

			if tc.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, userID, user.ID)
			assert.Equal(t, domain.RoleAdmin, user.Role)
			assert.NotEmpty(t, user.PasswordHash)
		})
	}
}

func TestUserRepository_ListUsers(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	repo := NewUserRepository(pool)
	seedUser(t, pool, uuid.New(), "admin@example.com", domain.RoleAdmin)
	seedUser(t, pool, uuid.New(), "customer@example.com", domain.RoleCustomer)
	defer cleanupTestUsers(t, pool)

	users, err := repo.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func seedUser(t *testing.T, pool *pgxpool.Pool, id uuid.UUID, email string, role domain.Role) {
	_, err := pool.Exec(
		context.Background(),
		"INSERT INTO users (id, name, email, password_hash, role) VALUES ($1, $2, $3, $4, $5)",
		id, "Test User", email, "$2a$04$notarealhashnotarealhashno", role,
	)
	require.NoError(t, err)
}

func cleanupTestUsers(t *testing.T, pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), "TRUNCATE TABLE users")
	require.NoError(t, err)
}

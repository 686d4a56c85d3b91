package handler

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zerofashion/storefront-api/internal/api/rest/middleware"
	"github.com/zerofashion/storefront-api/internal/domain"
	"github.com/zerofashion/storefront-api/internal/repository"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type mockPrivateKeyFetcher struct {
	mock.Mock
}

func (m *mockPrivateKeyFetcher) FetchPrivateKey() (*rsa.PrivateKey, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rsa.PrivateKey), args.Error(1)
}

func TestAuthHandler_SignIn(t *testing.T) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)

	adminUser := &domain.User{
		ID:           uuid.New(),
		Name:         "Admin",
		Email:        "admin@example.com",
		PasswordHash: string(passwordHash),
		Role:         domain.RoleAdmin,
	}

	testCases := map[string]struct {
		body           string
		setupMocks     func(*mockUserRepository, *mockPrivateKeyFetcher)
		expectedStatus int
		verifyToken    bool
	}{
		"should issue a token for valid credentials": {
			body: `{"email":"admin@example.com","password":"correct horse"}`,
			setupMocks: func(repo *mockUserRepository, keys *mockPrivateKeyFetcher) {
				repo.On("GetUserByEmail", mock.Anything, "admin@example.com").Return(adminUser, nil)
				keys.On("FetchPrivateKey").Return(privateKey, nil)
			},
			expectedStatus: http.StatusOK,
			verifyToken:    true,
		},
		"should reject a wrong password": {
			body: `{"email":"admin@example.com","password":"wrong"}`,
			setupMocks: func(repo *mockUserRepository, _ *mockPrivateKeyFetcher) {
				repo.On("GetUserByEmail", mock.Anything, "admin@example.com").Return(adminUser, nil)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		"should reject an unknown user": {
			body: `{"email":"ghost@example.com","password":"whatever"}`,
			setupMocks: func(repo *mockUserRepository, _ *mockPrivateKeyFetcher) {
				repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").
					Return(nil, repository.NewNotFound("user", "email", "ghost@example.com"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		"should reject missing credentials": {
			body:           `{"email":"admin@example.com"}`,
			setupMocks:     func(_ *mockUserRepository, _ *mockPrivateKeyFetcher) {},
			expectedStatus: http.StatusBadRequest,
		},
		"should reject a malformed body": {
			body:           `{"email":`,
			setupMocks:     func(_ *mockUserRepository, _ *mockPrivateKeyFetcher) {},
			expectedStatus: http.StatusBadRequest,
		},
		"should not leak store failures": {
			body: `{"email":"admin@example.com","password":"correct horse"}`,
			setupMocks: func(repo *mockUserRepository, _ *mockPrivateKeyFetcher) {
				repo.On("GetUserByEmail", mock.Anything, "admin@example.com").
					Return(nil, errors.New("connection refused"))
			},
			expectedStatus: http.StatusUnauthorized,
		},
		"should fail closed when signing is unavailable": {
			body: `{"email":"admin@example.com","password":"correct horse"}`,
			setupMocks: func(repo *mockUserRepository, keys *mockPrivateKeyFetcher) {
				repo.On("GetUserByEmail", mock.Anything, "admin@example.com").Return(adminUser, nil)
				keys.On("FetchPrivateKey").Return(nil, errors.New("key missing"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			repo := &mockUserRepository{}
			keys := &mockPrivateKeyFetcher{}
			tc.setupMocks(repo, keys)

			h := NewAuthHandler(repo, &AuthConfig{
				KeyFetcher: keys,
				Issuer:     "storefront",
				Audience:   "storefront-admin",
				TokenTTL:   time.Hour,
			}, testLogger())

			req := httptest.NewRequest(http.MethodPost, "/auth/signin", bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()

			h.SignIn(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)

			if tc.verifyToken {
				var resp SignInResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "Bearer", resp.TokenType)

				claims := &middleware.AccessClaims{}
				token, err := jwt.ParseWithClaims(resp.Token, claims, func(*jwt.Token) (any, error) {
					return &privateKey.PublicKey, nil
				})
				require.NoError(t, err)
				assert.True(t, token.Valid)
				assert.Equal(t, adminUser.ID.String(), claims.Subject)
				assert.Equal(t, string(domain.RoleAdmin), claims.Role)
				assert.Equal(t, "storefront", claims.Issuer)
			}
		})
	}
}

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/zerofashion/storefront-api/internal/api/rest/middleware"
	"github.com/zerofashion/storefront-api/internal/domain"
	"github.com/zerofashion/storefront-api/internal/repository"
	"github.com/zerofashion/storefront-api/pkg/keyfetcher"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	KeyFetcher keyfetcher.PrivateKeyFetcher
	Issuer     string
	Audience   string
	TokenTTL   time.Duration
}

// AuthHandler handles authentication requests
type AuthHandler struct {
	userRepo UserRepository
	config   *AuthConfig
	logger   *slog.Logger
}

// SignInRequest represents the signin request payload
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse represents the signin response payload
type SignInResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(userRepo UserRepository, config *AuthConfig, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		config:   config,
		logger:   logger,
	}
}

// SignIn handles user signin requests
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	// Parse request body
	var req SignInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request format", "error", err)
		WriteErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request format")
		return
	}

	// Validate credentials presence
	if req.Email == "" || req.Password == "" {
		h.logger.Warn("Sign in attempt with missing credentials")
		WriteErrorResponse(w, http.StatusBadRequest, "invalid_request", "Email and password are required")
		return
	}

	// Look up user by email
	user, err := h.userRepo.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		var notFoundErr *repository.NotFoundError
		if errors.As(err, &notFoundErr) {
			h.logger.Warn("Sign in attempt for non-existent user", "email", req.Email)
		} else {
			h.logger.Error("Failed to retrieve user during sign in", "email", req.Email, "error", err)
		}
		WriteErrorResponse(w, http.StatusUnauthorized, "authentication_failed", "Authentication failed")
		return
	}

	// Verify password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.logger.Warn("Sign in attempt with wrong password", "email", req.Email)
		WriteErrorResponse(w, http.StatusUnauthorized, "authentication_failed", "Authentication failed")
		return
	}

	// Generate JWT token
	token, err := h.generateJWT(user)
	if err != nil {
		h.logger.Error("Failed to generate JWT token", "user_id", user.ID, "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "authentication_failed", "Authentication failed")
		return
	}

	h.logger.Info("Successful user sign in", "user_id", user.ID, "email", req.Email)

	// Return successful response
	response := SignInResponse{
		Token:     token,
		TokenType: "Bearer",
	}

	WriteJSONResponse(w, http.StatusOK, response)
}

// generateJWT creates a JWT token for the authenticated user
func (h *AuthHandler) generateJWT(user *domain.User) (string, error) {
	// Fetch private key using keyfetcher
	privateKey, err := h.config.KeyFetcher.FetchPrivateKey()
	if err != nil {
		return "", err
	}

	now := time.Now()
	expiresAt := now.Add(h.config.TokenTTL)

	claims := middleware.AccessClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    h.config.Issuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{h.config.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	// Sign and return the token
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tokenString, err := token.SignedString(privateKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

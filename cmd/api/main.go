package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/joho/godotenv/autoload"

	"github.com/zerofashion/storefront-api/internal/api/rest/handler"
	"github.com/zerofashion/storefront-api/internal/api/rest/middleware"
	"github.com/zerofashion/storefront-api/internal/notifier"
	"github.com/zerofashion/storefront-api/internal/paymentgateway"
	"github.com/zerofashion/storefront-api/internal/reporting"
	repository "github.com/zerofashion/storefront-api/internal/repository/postgres"
	"github.com/zerofashion/storefront-api/internal/statusmachine"
	"github.com/zerofashion/storefront-api/internal/version"
	"github.com/zerofashion/storefront-api/pkg/keyfetcher"
)

const (
	DefaultPort = "8080"

	TokenTTL         = 1 * time.Hour
	DashboardRefresh = 30 * time.Second

	PaymentSweepInterval = 1 * time.Minute
	PaymentStaleAfter    = 5 * time.Minute

	JWTClockSkewTolerance = 5 * time.Minute
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger.Info("api_starting", "version", version.Version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database connection
	dbPool, err := initializeDatabase(fmt.Sprintf(
		"postgres://%s:%s@%s/%s?sslmode=%s",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_DB"),
		os.Getenv("POSTGRES_SSL"),
	))
	if err != nil {
		logger.Error("db_init_failed", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// Repositories
	orderRepo := repository.NewOrderRepository(dbPool)
	productRepo := repository.NewProductRepository(dbPool)
	userRepo := repository.NewUserRepository(dbPool)
	newsletterRepo := repository.NewNewsletterRepository(dbPool)

	// Order lifecycle core
	machine := statusmachine.NewMachine(orderRepo, notifier.NewLogNotifier(logger), logger)

	// Dashboard reporting, recomputed on a fixed schedule
	refresher := reporting.NewRefresher(
		reporting.NewAggregator(orderRepo, productRepo),
		DashboardRefresh,
		logger,
	)
	go refresher.Run(ctx)

	// Payment reconciliation against the provider
	reconciler := paymentgateway.NewReconciler(
		orderRepo,
		paymentgateway.NewMemoryGateway(),
		PaymentSweepInterval,
		PaymentStaleAfter,
		logger,
	)
	go reconciler.Run(ctx)

	// Auth config
	issuer := os.Getenv("JWT_ISSUER")
	audience := os.Getenv("JWT_AUDIENCE")

	jwtMiddleware := middleware.NewJWTAuthMiddleware(middleware.JWTConfig{
		KeyFetcher: keyfetcher.FromBase64Env("PUBLIC_KEY_BASE64"),
		Issuer:     issuer,
		Audience:   audience,
		ClockSkew:  JWTClockSkewTolerance,
	})

	rbacMiddleware, err := middleware.NewRBACMiddleware()
	if err != nil {
		logger.Error("rbac_init_failed", "error", err)
		os.Exit(1)
	}

	// REST handlers
	authHandler := handler.NewAuthHandler(
		userRepo,
		&handler.AuthConfig{
			KeyFetcher: keyfetcher.FromBase64Env("PRIVATE_KEY_BASE64"),
			Issuer:     issuer,
			Audience:   audience,
			TokenTTL:   TokenTTL,
		},
		logger,
	)
	orderHandler := handler.NewOrderHandler(orderRepo, machine, logger)
	productHandler := handler.NewProductHandler(productRepo, logger)
	userHandler := handler.NewUserHandler(userRepo, logger)
	dashboardHandler := handler.NewDashboardHandler(refresher, logger)
	newsletterHandler := handler.NewNewsletterHandler(newsletterRepo, logger)

	router := buildRouter(
		authHandler,
		orderHandler,
		productHandler,
		userHandler,
		dashboardHandler,
		newsletterHandler,
		jwtMiddleware,
		rbacMiddleware,
	)

	// HTTP server with sensible timeouts
	port := os.Getenv("PORT")
	if port == "" {
		port = DefaultPort
	}
	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("api_shutdown_failed", "error", err)
		}
	}()

	logger.Info("api_listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("api_serve_failed", "error", err)
		os.Exit(1)
	}

	logger.Info("api_stopped")
}

// initializeDatabase creates a pool and verifies connectivity.
func initializeDatabase(connectionString string) (*pgxpool.Pool, error) {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connectionString)
	if err != nil {
		return nil, fmt.Errorf("create_pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping_db: %w", err)
	}

	return pool, nil
}

// buildRouter wires routes; the management API sits behind JWT
// authentication and role authorization.
func buildRouter(
	authHandler *handler.AuthHandler,
	orderHandler *handler.OrderHandler,
	productHandler *handler.ProductHandler,
	userHandler *handler.UserHandler,
	dashboardHandler *handler.DashboardHandler,
	newsletterHandler *handler.NewsletterHandler,
	jwtMiddleware *middleware.JWTAuthMiddleware,
	rbacMiddleware *middleware.RBACMiddleware,
) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", handleHealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/auth/signin", authHandler.SignIn).Methods(http.MethodPost)
	router.HandleFunc("/newsletter/subscribe", newsletterHandler.Subscribe).Methods(http.MethodPost)

	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(jwtMiddleware.Handler, rbacMiddleware.Handler)

	api.HandleFunc("/orders", orderHandler.ListOrders).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}", orderHandler.GetOrderByID).Methods(http.MethodGet)
	api.HandleFunc("/orders/{id}/status", orderHandler.UpdateStatus).Methods(http.MethodPatch)
	api.HandleFunc("/orders/{id}/history", orderHandler.GetHistory).Methods(http.MethodGet)
	api.HandleFunc("/products", productHandler.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/users", userHandler.ListUsers).Methods(http.MethodGet)
	api.HandleFunc("/dashboard", dashboardHandler.GetDashboard).Methods(http.MethodGet)

	return router
}

// handleHealthCheck returns a basic health status.
func handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dohyunlee/seoultee/internal"
	"github.com/dohyunlee/seoultee/internal/cart"
	"github.com/dohyunlee/seoultee/internal/catalog"
	"github.com/dohyunlee/seoultee/internal/events"
	"github.com/dohyunlee/seoultee/internal/handler"
	"github.com/dohyunlee/seoultee/internal/handler/storefront"
	"github.com/dohyunlee/seoultee/internal/middleware"
	"github.com/dohyunlee/seoultee/internal/payment"
	"github.com/dohyunlee/seoultee/internal/postgres"
	"github.com/dohyunlee/seoultee/internal/router"
	"github.com/dohyunlee/seoultee/internal/routes"
	"github.com/dohyunlee/seoultee/internal/telemetry"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Cart persistence: Postgres when DATABASE_URL is set, local files
	// otherwise. Both backends share the same JSON record format, so a
	// deployment can move between them without losing carts.
	var cartRepo cart.Repository
	var pool *pgxpool.Pool
	if cfg.DatabaseUrl != "" {
		logger.Info("Connecting to database...")
		sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		defer sqlDB.Close()

		if err := sqlDB.Ping(); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}

		logger.Info("Running database migrations...")
		if err := internal.RunMigrations(sqlDB); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logger.Info("Database migrations completed successfully")

		pool, err = pgxpool.New(ctx, cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pool.Close()

		cartRepo = postgres.NewCartRepository(pool)
	} else {
		logger.Info("No DATABASE_URL configured, storing carts on disk",
			"path", cfg.Cart.StoragePath)
		fileRepo, err := cart.NewFileRepository(cfg.Cart.StoragePath)
		if err != nil {
			return fmt.Errorf("failed to initialize cart storage: %w", err)
		}
		cartRepo = fileRepo
	}

	// Confirmed-order events: NATS when configured, dropped otherwise.
	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NatsURL != "" {
		natsPublisher, err := events.NewNATSPublisher(cfg.NatsURL, logger)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
		logger.Info("NATS publisher initialized", "url", cfg.NatsURL)
	}

	// Product catalog with a read-through cache in front of the static set.
	catalogService := catalog.NewCachedService(
		catalog.NewStaticService(),
		time.Duration(cfg.Catalog.ListTTLSeconds)*time.Second,
		time.Duration(cfg.Catalog.DetailTTLSeconds)*time.Second,
	)

	// Cart manager: one store per shopper session.
	pricing := cart.Pricing{
		FreeShippingThreshold: cfg.Cart.FreeShippingThreshold,
		FlatShippingFee:       cfg.Cart.FlatShippingFee,
	}
	carts := cart.NewManager(cartRepo, pricing, logger)

	// Payment provider. Without a secret key the confirm endpoint answers
	// with a configuration error instead of calling out.
	var provider payment.Provider
	if cfg.Toss.SecretKey != "" {
		provider = payment.NewTossClient(cfg.Toss.SecretKey, cfg.Toss.APIBaseURL, logger)
		logger.Info("Toss Payments provider initialized")
	} else {
		logger.Warn("TOSS_PAYMENTS_SECRET_KEY not set; payment confirmation is disabled")
	}

	// Load templates with renderer
	logger.Info("Loading templates...")
	renderer, err := handler.NewRenderer("web/templates")
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	logger.Info("Templates loaded successfully")

	// Prometheus metrics
	metrics := middleware.NewMetrics("seoultee")
	business := telemetry.InitBusinessMetrics("seoultee")

	secure := cfg.Env == "prod"

	deps := routes.StorefrontDeps{
		HomeHandler:     storefront.NewHomeHandler(catalogService, renderer, business),
		ProductHandler:  storefront.NewProductHandler(catalogService, renderer, business),
		CartHandler:     storefront.NewCartHandler(carts, catalogService, renderer, business, secure),
		CheckoutHandler: storefront.NewCheckoutHandler(carts, renderer, business, logger, cfg.Toss.ClientKey, cfg.BaseURL, secure),
		PaymentHandler:  storefront.NewPaymentHandler(provider, carts, publisher, renderer, business, logger, secure),
	}

	r := router.New(
		router.Recovery(logger),
		middleware.RequestID,
		metrics.Middleware,
		router.Logger(logger),
		middleware.WithRequestLogger(logger),
	)

	// Static files
	r.Static("/static/", "./web/static")

	// Metrics endpoint (protect at the network layer in production)
	r.Get("/metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	routes.RegisterStorefrontRoutes(r, deps)
	routes.RegisterAPIRoutes(r, deps)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "address", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

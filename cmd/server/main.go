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

	"github.com/hartono/salesimport/internal"
	"github.com/hartono/salesimport/internal/catalog"
	"github.com/hartono/salesimport/internal/handler"
	"github.com/hartono/salesimport/internal/middleware"
	"github.com/hartono/salesimport/internal/router"
	"github.com/hartono/salesimport/internal/validate"
)

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Initialize the reference catalog
	var provider catalog.Provider
	switch cfg.CatalogProvider {
	case "postgres":
		logger.Info("Connecting to reference database...")
		sqlDB, err := sql.Open("pgx", cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		if err := sqlDB.Ping(); err != nil {
			sqlDB.Close()
			return fmt.Errorf("database ping failed: %w", err)
		}
		logger.Info("Database connection established")

		// The embedded schema/seed exists for local development; the real
		// reference store is managed by the ERP.
		if cfg.Env == "dev" {
			logger.Info("Running reference schema migrations...")
			if err := internal.RunMigrations(sqlDB); err != nil {
				sqlDB.Close()
				return fmt.Errorf("migration failed: %w", err)
			}
			logger.Info("Reference schema migrations completed")
		}
		sqlDB.Close()

		pool, err := pgxpool.New(ctx, cfg.DatabaseUrl)
		if err != nil {
			return fmt.Errorf("failed to create connection pool: %w", err)
		}
		defer pool.Close()

		provider = catalog.NewStore(pool, cfg.ClientID)
	case "static":
		logger.Info("Using static in-memory reference catalog")
		provider = catalog.NewStatic(catalog.DefaultStaticData())
	}

	// Initialize services and handlers
	validator := validate.NewService(provider, logger)
	validateHandler := handler.NewValidateHandler(validator, logger)

	// Router with global middleware
	metrics := middleware.NewMetrics("salesimport")
	r := router.New(
		middleware.RequestID,
		middleware.WithRequestLogger(logger),
		metrics.Middleware,
		middleware.Recover,
	)

	r.Post("/api/validate-sales-order", validateHandler.ValidateSalesOrders)
	r.Handle(http.MethodGet, "/metrics", metrics.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", srv.Addr, "catalog", cfg.CatalogProvider)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	logger.Info("Server stopped")

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

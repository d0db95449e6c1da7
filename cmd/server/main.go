package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Simplici0/cabkit/internal/config"
	"github.com/Simplici0/cabkit/internal/configurator"
	"github.com/Simplici0/cabkit/internal/db"
	"github.com/Simplici0/cabkit/internal/designs"
	"github.com/Simplici0/cabkit/internal/logger"
	"github.com/Simplici0/cabkit/internal/migrations"
	"github.com/Simplici0/cabkit/internal/pricing"
	"github.com/Simplici0/cabkit/internal/seed"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "cabkit server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogJSON); err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	stats, err := seed.Run(database)
	if err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	logger.Info(ctx, "seed complete", logger.Int("inserts", stats.Inserts), logger.Int("updates", stats.Updates))

	catalog := pricing.DefaultCatalog()
	repo := designs.NewRepository(database)
	store := configurator.NewStore(catalog, repo)
	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("failed to restore design state: %w", err)
	}

	srv := newServer(catalog, store, repo, cfg.DefaultPricingPreset)
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "listening", logger.String("addr", httpServer.Addr), logger.String("env", cfg.AppEnv))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

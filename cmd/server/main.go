// Package main implements the entry point for the feed API server, which
// serves the GraphQL endpoint, image uploads and the health check.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/feed-api/internal/config"
	"github.com/phrazzld/feed-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String(
		"migrate",
		"",
		"Run a database migration command and exit: up, down, reset, status, version",
	)
	flag.Parse()

	cfg, err := loadAppConfig()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *migrateCmd != "" {
		if err := handleMigrations(ctx, cfg, *migrateCmd, appLogger); err != nil {
			appLogger.Error("Migration failed", "command", *migrateCmd, "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

// loadAppConfig loads the configuration and logs a summary of it.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver,
		"storage_backend", cfg.Storage.Backend)

	return cfg, nil
}

// run opens the backing stores, builds the application and serves HTTP
// until ctx is canceled.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	stores, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}

	app, err := newApplication(ctx, cfg, logger, stores)
	if err != nil {
		if cerr := stores.close(); cerr != nil {
			logger.Error("Error closing database", "error", cerr)
		}
		return err
	}

	return app.Run(ctx)
}

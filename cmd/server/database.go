package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/feed-api/internal/config"
	mongostore "github.com/phrazzld/feed-api/internal/platform/mongo"
	"github.com/phrazzld/feed-api/internal/platform/postgres"
	"github.com/phrazzld/feed-api/internal/store"
)

// storeSet holds the user and post stores of the configured backend together
// with the function that releases the underlying connection.
type storeSet struct {
	users store.UserStore
	posts store.PostStore
	close func() error
}

// openStores connects to the configured database backend and builds its stores.
func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*storeSet, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := setupAppDatabase(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if cfg.Database.AutoMigrate {
			if err := postgres.RunMigrations(ctx, db, "up", logger); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("failed to apply migrations: %w", err)
			}
		}
		return &storeSet{
			users: postgres.NewPostgresUserStore(db, logger),
			posts: postgres.NewPostgresPostStore(db, logger),
			close: db.Close,
		}, nil

	case "mongo":
		client, db, err := mongostore.Connect(ctx, cfg.Database.URL, cfg.Database.Name)
		if err != nil {
			return nil, err
		}
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		logger.Info("MongoDB connection established", "database", cfg.Database.Name)
		return &storeSet{
			users: mongostore.NewUserStore(db, logger),
			posts: mongostore.NewPostStore(db, logger),
			close: func() error {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return client.Disconnect(ctx)
			},
		}, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// setupAppDatabase establishes a connection to postgres and configures the pool.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established")
	return db, nil
}

// handleMigrations runs a goose command against the postgres database.
func handleMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if cfg.Database.Driver != "postgres" {
		return fmt.Errorf("migrations are only supported for the postgres driver, got %q", cfg.Database.Driver)
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Error closing database connection", "error", err)
		}
	}()

	return postgres.RunMigrations(ctx, db, command, logger)
}

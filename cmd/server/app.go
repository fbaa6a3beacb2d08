package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/graphql-go/graphql"
	"github.com/phrazzld/feed-api/internal/api/graph"
	"github.com/phrazzld/feed-api/internal/config"
	"github.com/phrazzld/feed-api/internal/platform/filestore"
	"github.com/phrazzld/feed-api/internal/service"
	"github.com/phrazzld/feed-api/internal/service/auth"
)

// application holds the shared dependencies so that they can be closed
// together on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	stores     *storeSet
	images     filestore.Store
	closeFiles func() error

	jwtService auth.JWTService
	accounts   service.AccountService
	feed       service.FeedService
	schema     graphql.Schema
}

// newApplication creates the application from already opened stores.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	stores *storeSet,
) (*application, error) {
	images, closeFiles, err := filestore.New(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}
	logger.Info("Image store initialized", "backend", cfg.Storage.Backend)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		_ = closeFiles()
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app, err := assembleApplication(cfg, logger, stores, images, jwtService)
	if err != nil {
		_ = closeFiles()
		return nil, err
	}
	app.closeFiles = closeFiles

	logger.Info("Application initialized successfully")
	return app, nil
}

// assembleApplication wires services and the GraphQL schema around the
// given stores, image store and token service.
func assembleApplication(
	cfg *config.Config,
	logger *slog.Logger,
	stores *storeSet,
	images filestore.Store,
	jwtService auth.JWTService,
) (*application, error) {
	hasher := auth.NewBcryptHasher()

	accounts := service.NewAccountService(stores.users, hasher, hasher, jwtService, logger)
	feed := service.NewFeedService(stores.posts, stores.users, images, logger)

	schema, err := graph.NewSchema(graph.NewResolver(accounts, feed))
	if err != nil {
		return nil, fmt.Errorf("failed to build GraphQL schema: %w", err)
	}

	return &application{
		config:     cfg,
		logger:     logger,
		stores:     stores,
		images:     images,
		closeFiles: func() error { return nil },
		jwtService: jwtService,
		accounts:   accounts,
		feed:       feed,
		schema:     schema,
	}, nil
}

// Run serves HTTP until ctx is canceled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup closes the image store client and the database connection.
func (app *application) cleanup() {
	if app.closeFiles != nil {
		if err := app.closeFiles(); err != nil {
			app.logger.Error("Error closing image store", "error", err)
		}
	}

	if app.stores != nil && app.stores.close != nil {
		if err := app.stores.close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/phrazzld/feed-api/internal/api"
	"github.com/phrazzld/feed-api/internal/api/graph"
	apiMiddleware "github.com/phrazzld/feed-api/internal/api/middleware"
)

// setupRouter creates the router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))
	r.Use(apiMiddleware.TraceMiddleware(app.logger))

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	r.Use(authMiddleware.Identify)

	graphHandler := graph.NewHandler(app.schema, app.logger)
	imageHandler := api.NewImageHandler(app.images, app.config.Storage.MaxUploadMB, app.logger)

	r.Method(http.MethodPost, "/graphql", graphHandler)
	r.Put("/upload", imageHandler.Upload)
	r.Get("/images/*", imageHandler.Serve)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

// Package graph serves the GraphQL endpoint: the schema, its resolvers over
// the account and feed services, and the error formatter.
package graph

import (
	"log/slog"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/phrazzld/feed-api/internal/api/shared"
	"github.com/phrazzld/feed-api/internal/platform/logger"
)

// Request is the JSON body of a GraphQL call.
type Request struct {
	Query         string         `json:"query"         validate:"required"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// Response is the JSON body returned for every executed request.
type Response struct {
	Data   any   `json:"data"`
	Errors []any `json:"errors,omitempty"`
}

// Handler executes GraphQL requests against a schema.
type Handler struct {
	schema graphql.Schema
	logger *slog.Logger
}

// NewHandler creates a Handler for schema.
func NewHandler(schema graphql.Schema, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		schema: schema,
		logger: logger.With(slog.String("component", "graphql")),
	}
}

// ServeHTTP decodes the request, executes it with the request context and
// writes the result. Executed requests always answer 200; errors travel in
// the body.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req Request
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request body.", err)
		return
	}
	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Must provide query string.")
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})

	if result.HasErrors() {
		log.Debug("graphql request completed with errors",
			slog.String("operation", req.OperationName),
			slog.Int("error_count", len(result.Errors)))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, Response{
		Data:   result.Data,
		Errors: FormatErrors(r.Context(), result.Errors),
	})
}

package graph

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/phrazzld/feed-api/internal/api"
	"github.com/phrazzld/feed-api/internal/platform/logger"
	"github.com/phrazzld/feed-api/internal/redact"
	"github.com/phrazzld/feed-api/internal/validation"
)

// ResolverError is the client shape of an error raised by a resolver.
type ResolverError struct {
	Message string               `json:"message"`
	Status  int                  `json:"status"`
	Data    []validation.Message `json:"data"`
}

// FormatErrors converts execution errors for the response. Errors raised by
// resolvers become ResolverErrors with a mapped status; parse, validation
// and other protocol errors are returned unchanged.
func FormatErrors(ctx context.Context, errs []gqlerrors.FormattedError) []any {
	if len(errs) == 0 {
		return nil
	}

	out := make([]any, 0, len(errs))
	for _, fe := range errs {
		cause := resolverCause(fe)
		if cause == nil {
			out = append(out, fe)
			continue
		}

		status := api.MapErrorToStatusCode(cause)
		if status >= http.StatusInternalServerError {
			logger.FromContext(ctx).Error("graphql resolver failed",
				slog.String("error", redact.Error(cause)),
				slog.Any("path", fe.Path))
		}

		out = append(out, ResolverError{
			Message: api.GetSafeErrorMessage(cause),
			Status:  status,
			Data:    api.ValidationMessages(cause),
		})
	}
	return out
}

// resolverCause returns the error a resolver returned, or nil when fe was
// produced by graphql-go itself. Errors re-raised through non-null parents
// are wrapped once per level.
func resolverCause(fe gqlerrors.FormattedError) error {
	err := fe.OriginalError()
	for {
		located, ok := err.(*gqlerrors.Error)
		if !ok {
			return err
		}
		if located.OriginalError == nil {
			return nil
		}
		err = located.OriginalError
	}
}

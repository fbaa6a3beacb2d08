package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/feed-api/internal/platform/logger"
	"github.com/phrazzld/feed-api/internal/redact"
	"github.com/phrazzld/feed-api/internal/service/auth"
)

// bearerPrefix is the Authorization scheme accepted by Identify.
const bearerPrefix = "Bearer "

// AuthMiddleware attaches the caller's identity to requests that carry a
// valid bearer token.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Identify never rejects a request. A missing header, a non-Bearer scheme or
// a token that fails validation all leave the request unauthenticated;
// operations that need an identity refuse on their own.
func (m *AuthMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			logger.FromContext(r.Context()).Debug("ignoring invalid bearer token",
				slog.String("error", redact.Error(err)),
				slog.String("path", r.URL.Path))
			next.ServeHTTP(w, r)
			return
		}

		ctx := auth.WithIdentity(r.Context(), claims.Identity())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

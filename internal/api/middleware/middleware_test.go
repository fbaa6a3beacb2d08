package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/feed-api/internal/api/middleware"
	"github.com/phrazzld/feed-api/internal/api/shared"
	"github.com/phrazzld/feed-api/internal/platform/logger"
	"github.com/phrazzld/feed-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentify(t *testing.T) {
	jwtService := auth.NewTestJWTService(auth.TestSecret, time.Hour, nil)
	userID := uuid.New()
	header := auth.GenerateAuthHeaderForTestingT(t, jwtService, userID, "a@example.com")

	expired := auth.NewTestJWTService(auth.TestSecret, time.Hour, func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	})
	expiredHeader := auth.GenerateAuthHeaderForTestingT(t, expired, userID, "a@example.com")

	tests := []struct {
		name         string
		header       string
		wantIdentity bool
		wantUserID   uuid.UUID
	}{
		{name: "valid token", header: header, wantIdentity: true, wantUserID: userID},
		{name: "no header", header: "", wantIdentity: false},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantIdentity: false},
		{name: "garbage token", header: "Bearer not-a-token", wantIdentity: false},
		{name: "expired token", header: expiredHeader, wantIdentity: false},
	}

	m := middleware.NewAuthMiddleware(jwtService)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			var identity auth.Identity
			var ok bool
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				identity, ok = auth.IdentityFromContext(r.Context())
				w.WriteHeader(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			m.Identify(next).ServeHTTP(rec, req)

			require.True(t, called, "next handler must always run")
			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.wantIdentity, ok)
			if tt.wantIdentity {
				assert.Equal(t, tt.wantUserID, identity.UserID)
				assert.Equal(t, "a@example.com", identity.Email)
			}
		})
	}
}

func TestTraceMiddleware(t *testing.T) {
	log, buf := logger.NewTestLogger()

	var traceID string
	var hasLogger bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		hasLogger = logger.FromContextOrDefault(r.Context(), nil) != nil
		logger.FromContext(r.Context()).Info("inside handler")
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	middleware.TraceMiddleware(log)(next).ServeHTTP(httptest.NewRecorder(), req)

	require.NotEmpty(t, traceID)
	_, err := uuid.Parse(traceID)
	assert.NoError(t, err)
	assert.True(t, hasLogger)

	var found bool
	for _, entry := range buf.Entries() {
		if entry["msg"] == "inside handler" {
			found = true
			assert.Equal(t, traceID, entry["trace_id"])
		}
	}
	assert.True(t, found)
}

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestSecret is a signing secret long enough to pass configuration checks.
const TestSecret = "test-jwt-secret-that-is-32-chars-long"

// NewTestJWTService creates an HMAC JWT service with an explicit secret,
// lifetime and clock, bypassing configuration.
func NewTestJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) JWTService {
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
	}
}

// GenerateAuthHeaderForTestingT creates a Bearer Authorization header value
// for the given user and fails the test if signing fails.
func GenerateAuthHeaderForTestingT(t *testing.T, svc JWTService, userID uuid.UUID, email string) string {
	t.Helper()
	token, err := svc.GenerateToken(context.Background(), userID, email)
	require.NoError(t, err, "Failed to generate auth header")
	return "Bearer " + token
}

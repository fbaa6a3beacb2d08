package auth

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID uuid.UUID
	Email  string
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by the auth middleware.
// The boolean is false for unauthenticated requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.UserID == uuid.Nil {
		return Identity{}, false
	}
	return id, true
}

package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenLifetime is how long an issued token stays valid.
const TokenLifetime = time.Hour

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT token carrying the user's id and email.
	// Returns the token string or an error if signing fails.
	GenerateToken(ctx context.Context, userID uuid.UUID, email string) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken for expired tokens and ErrInvalidToken for
	// anything malformed, tampered with, or signed with another algorithm.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the identity carried by a validated token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Email is the address the user logged in with.
	Email string `json:"email,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// Identity returns the request identity described by the claims.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Email: c.Email}
}

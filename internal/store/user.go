package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/feed-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// The user's password must already be hashed.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID, including the ordered
	// list of post references.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update persists the mutable profile fields (name, status) and bumps
	// UpdatedAt. Post references are managed by the dedicated methods below.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) error

	// AddPostReference appends postID to the user's post list.
	// Returns ErrUserNotFound if the user does not exist.
	AddPostReference(ctx context.Context, userID, postID uuid.UUID) error

	// RemovePostReference removes postID from the user's post list.
	// Removing a reference that is not present is not an error.
	// Returns ErrUserNotFound if the user does not exist.
	RemovePostReference(ctx context.Context, userID, postID uuid.UUID) error
}

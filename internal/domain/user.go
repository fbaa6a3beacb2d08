package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultStatus is the status line every newly registered user starts with.
const DefaultStatus = "I am new!"

// Common validation errors
var (
	ErrEmptyUserID         = fmt.Errorf("%w: user ID cannot be empty", ErrValidation)
	ErrEmptyEmail          = fmt.Errorf("%w: email cannot be empty", ErrValidation)
	ErrEmptyHashedPassword = fmt.Errorf("%w: hashed password cannot be empty", ErrValidation)
)

// User represents a registered author of posts.
type User struct {
	ID             uuid.UUID   `json:"id"`
	Email          string      `json:"email"`
	HashedPassword string      `json:"-"` // Never expose password hash in JSON
	Name           string      `json:"name"`
	Status         string      `json:"status"`
	PostIDs        []uuid.UUID `json:"posts"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// NewUser creates a new User with a fresh ID, the default status and no posts.
// The password must already be hashed; plaintext never reaches the domain.
func NewUser(email, hashedPassword, name string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:             uuid.New(),
		Email:          strings.TrimSpace(email),
		HashedPassword: hashedPassword,
		Name:           name,
		Status:         DefaultStatus,
		PostIDs:        []uuid.UUID{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks that the User holds the fields every stored user must have.
// Input-level rules (email shape, password length) live in the validation
// package and run before a User is ever built.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}

	if u.Email == "" {
		return ErrEmptyEmail
	}

	if u.HashedPassword == "" {
		return ErrEmptyHashedPassword
	}

	return nil
}

// Owns reports whether postID is in the user's post list.
func (u *User) Owns(postID uuid.UUID) bool {
	return slices.Contains(u.PostIDs, postID)
}

// Sanitized returns a copy of the user with the password hash cleared,
// suitable for handing to callers outside the service layer.
func (u *User) Sanitized() *User {
	clone := *u
	clone.HashedPassword = ""
	clone.PostIDs = slices.Clone(u.PostIDs)
	return &clone
}

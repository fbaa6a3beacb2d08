package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used for every stored password.
const BcryptCost = 12

// PasswordHasher defines the interface for hashing plaintext passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// PasswordVerifier defines the interface for comparing passwords.
type PasswordVerifier interface {
	// Compare compares a hashed password with its possible plaintext equivalent.
	// Returns nil on success, or an error on failure (e.g., mismatch).
	Compare(hashedPassword, password string) error
}

// BcryptHasher implements both PasswordHasher and PasswordVerifier using bcrypt.
type BcryptHasher struct {
	cost int
}

var (
	_ PasswordHasher   = (*BcryptHasher)(nil)
	_ PasswordVerifier = (*BcryptHasher)(nil)
)

// NewBcryptHasher creates a hasher using BcryptCost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: BcryptCost}
}

// NewBcryptHasherWithCost creates a hasher with a custom cost. Tests use
// bcrypt.MinCost to stay fast.
func NewBcryptHasherWithCost(cost int) *BcryptHasher {
	return &BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash of password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Compare implements the PasswordVerifier interface using bcrypt.
func (h *BcryptHasher) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

package mocks

import (
	"errors"
	"strings"

	"github.com/phrazzld/feed-api/internal/service/auth"
)

// ErrPasswordMismatch is returned by MockPasswordVerifier on a failed comparison.
var ErrPasswordMismatch = errors.New("password mismatch")

// MockPasswordHasher implements auth.PasswordHasher and auth.PasswordVerifier
// with a reversible "hashed:" prefix instead of bcrypt.
type MockPasswordHasher struct {
	HashFn func(password string) (string, error)
}

var (
	_ auth.PasswordHasher   = (*MockPasswordHasher)(nil)
	_ auth.PasswordVerifier = (*MockPasswordHasher)(nil)
)

// Hash implements the auth.PasswordHasher interface
func (m *MockPasswordHasher) Hash(password string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(password)
	}
	return "hashed:" + password, nil
}

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordHasher) Compare(hashedPassword, password string) error {
	if strings.TrimPrefix(hashedPassword, "hashed:") == password {
		return nil
	}
	return ErrPasswordMismatch
}

// MockPasswordVerifier implements auth.PasswordVerifier for testing
type MockPasswordVerifier struct {
	// ShouldSucceed determines whether the password comparison should succeed
	ShouldSucceed bool

	// CompareFn allows for custom comparison logic in tests
	CompareFn func(hashedPassword, password string) error

	// CompareCalledWith stores the arguments passed to Compare for verification
	CompareCalledWith struct {
		HashedPassword string
		Password       string
	}

	// CompareCallCount tracks how many times Compare was called
	CompareCallCount int
}

var _ auth.PasswordVerifier = (*MockPasswordVerifier)(nil)

// Compare implements the auth.PasswordVerifier interface
func (m *MockPasswordVerifier) Compare(hashedPassword, password string) error {
	m.CompareCalledWith.HashedPassword = hashedPassword
	m.CompareCalledWith.Password = password
	m.CompareCallCount++

	if m.CompareFn != nil {
		return m.CompareFn(hashedPassword, password)
	}
	if m.ShouldSucceed {
		return nil
	}
	return ErrPasswordMismatch
}

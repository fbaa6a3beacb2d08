package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/feed-api/internal/validation"
)

// Common service errors - sentinel errors used across service implementations.
// Callers use errors.Is to check for them; the API layer maps each one to a
// status code and a client-facing message.
var (
	// ErrNotAuthenticated indicates the operation requires an identity and the
	// request carried none. API layer maps this to 401.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrInvalidCredentials indicates an unknown email or a wrong password.
	// Both cases share this error so callers cannot tell them apart. 401.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotAuthorized indicates the requester does not own the post. 403.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrPostNotFound indicates the post does not exist or its id is malformed. 404.
	ErrPostNotFound = errors.New("post not found")

	// ErrUserNotFound indicates the user does not exist. 404.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists indicates an account with the email already exists. 409.
	ErrUserExists = errors.New("user exists")
)

// MsgInvalidInput is the top-level message of every ValidationError.
const MsgInvalidInput = "Invalid input."

// ValidationError reports rejected user input together with the individual
// field messages. API layer maps this to 422.
type ValidationError struct {
	Messages []validation.Message
}

// NewValidationError wraps msgs, or returns nil when there are none.
func NewValidationError(msgs []validation.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return &ValidationError{Messages: msgs}
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return MsgInvalidInput
}

// ServiceError wraps unexpected failures from a service operation with the
// service and operation name.
type ServiceError struct {
	Service string
	Op      string
	Err     error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s operation failed: %v", e.Service, e.Op, e.Err)
	}
	return fmt.Sprintf("%s service %s operation failed", e.Service, e.Op)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

func newServiceError(service, op string, err error) error {
	return &ServiceError{Service: service, Op: op, Err: err}
}

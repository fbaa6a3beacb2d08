package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/feed-api/internal/platform/filestore"
	"github.com/phrazzld/feed-api/internal/service"
	"github.com/phrazzld/feed-api/internal/validation"
)

// Client-facing error messages.
const (
	MsgNotAuthenticated   = "Not authenticated"
	MsgInvalidCredentials = "Invalid credentials."
	MsgNotAuthorized      = "Not authorized."
	MsgNotFound           = "Not found"
	MsgUserExists         = "User exists."
	MsgInvalidFileType    = "Invalid file type."
	MsgInvalidFilePath    = "Invalid file path."
	MsgInternal           = "An error occurred."
)

// ErrInvalidFileType is returned for uploads that are not png or jpeg images.
var ErrInvalidFileType = errors.New("invalid file type")

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErr *service.ValidationError

	switch {
	case errors.Is(err, service.ErrNotAuthenticated),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotAuthorized):
		return http.StatusForbidden

	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, filestore.ErrNotExist):
		return http.StatusNotFound

	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict

	case errors.As(err, &validationErr),
		errors.Is(err, ErrInvalidFileType):
		return http.StatusUnprocessableEntity

	case errors.Is(err, filestore.ErrInvalidName):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	var validationErr *service.ValidationError

	switch {
	case err == nil:
		return MsgInternal
	case errors.Is(err, service.ErrNotAuthenticated):
		return MsgNotAuthenticated
	case errors.Is(err, service.ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, service.ErrNotAuthorized):
		return MsgNotAuthorized
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, filestore.ErrNotExist):
		return MsgNotFound
	case errors.Is(err, service.ErrUserExists):
		return MsgUserExists
	case errors.As(err, &validationErr):
		return service.MsgInvalidInput
	case errors.Is(err, ErrInvalidFileType):
		return MsgInvalidFileType
	case errors.Is(err, filestore.ErrInvalidName):
		return MsgInvalidFilePath
	default:
		return MsgInternal
	}
}

// ValidationMessages returns the field messages carried by err, or nil when
// err is not a validation failure.
func ValidationMessages(err error) []validation.Message {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Messages
	}
	return nil
}

// Package apperrors holds the sentinel errors shared by the service and API
// layers. The API maps them to HTTP status codes with errors.Is.
package apperrors

import "errors"

var (
	// ErrNotFound maps to 404.
	ErrNotFound = errors.New("resource not found")

	// ErrValidation maps to 400. The wrapped message is shown to the client.
	ErrValidation = errors.New("validation failed")

	// ErrConflict maps to 409.
	ErrConflict = errors.New("resource conflict")

	// ErrPermission maps to 403.
	ErrPermission = errors.New("permission denied")

	// ErrUnauthorized maps to 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInternal maps to 500.
	ErrInternal = errors.New("internal server error")
)

// Package apperrors defines the error taxonomy shared by all HTTP handlers.
// Every error that crosses the API boundary is serialized with the same
// shape: name, message, action and status_code. Internal causes are kept
// for logging only and never reach the response body.
package apperrors

import (
	"fmt"
	"net/http"
)

// PublicError is an error safe to serialize to an API client.
type PublicError struct {
	Name       string `json:"name"`
	Message    string `json:"message"`
	Action     string `json:"action"`
	StatusCode int    `json:"status_code"`

	cause error
}

func (e *PublicError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Name, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Unwrap exposes the internal cause to errors.Is/errors.As.
func (e *PublicError) Unwrap() error {
	return e.cause
}

// NewValidationError reports client input that failed a business rule.
func NewValidationError(message, action string) *PublicError {
	return &PublicError{
		Name:       "ValidationError",
		Message:    message,
		Action:     action,
		StatusCode: http.StatusBadRequest,
	}
}

// NewNotFoundError reports a resource that could not be located.
func NewNotFoundError(message, action string) *PublicError {
	return &PublicError{
		Name:       "NotFoundError",
		Message:    message,
		Action:     action,
		StatusCode: http.StatusNotFound,
	}
}

// NewUnauthorizedError reports a failed authentication outcome. Callers
// must pass the same message for every underlying cause they collapse,
// so the response shape never leaks which check failed.
func NewUnauthorizedError(message, action string) *PublicError {
	return &PublicError{
		Name:       "UnauthorizedError",
		Message:    message,
		Action:     action,
		StatusCode: http.StatusUnauthorized,
	}
}

// NoActiveSession is the uniform 401 for every invalid session token:
// never issued, expired and revoked are indistinguishable.
func NoActiveSession() *PublicError {
	return NewUnauthorizedError(
		"User does not have an active session.",
		"Check if the user is logged in and try again.",
	)
}

// InvalidCredentials is the uniform 401 for a failed login: unknown
// email and wrong password are indistinguishable.
func InvalidCredentials() *PublicError {
	return NewUnauthorizedError(
		"Authentication data does not match.",
		"Check if the data sent matches and try again.",
	)
}

// NewMethodNotAllowedError reports an HTTP method the route does not accept.
func NewMethodNotAllowedError() *PublicError {
	return &PublicError{
		Name:       "MethodNotAllowedError",
		Message:    "Method not allowed for this endpoint.",
		Action:     "Check if the HTTP method sent is valid for this endpoint.",
		StatusCode: http.StatusMethodNotAllowed,
	}
}

// NewServiceError reports a failing dependency (database, migrations).
func NewServiceError(cause error, message string) *PublicError {
	return &PublicError{
		Name:       "ServiceError",
		Message:    message,
		Action:     "Check if the service is available.",
		StatusCode: http.StatusServiceUnavailable,
		cause:      cause,
	}
}

// NewInternalServerError wraps an unexpected error before it reaches a
// client. The cause is preserved for logs only.
func NewInternalServerError(cause error) *PublicError {
	return &PublicError{
		Name:       "InternalServerError",
		Message:    "An unexpected internal error happened.",
		Action:     "Contact support.",
		StatusCode: http.StatusInternalServerError,
		cause:      cause,
	}
}

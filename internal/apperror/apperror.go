// Package apperror defines the status-coded error type every handler and
// middleware fails with. A single translator in the api package renders
// these into the JSON failure envelope.
package apperror

import "net/http"

// Error carries a message and the HTTP status it should be rendered with.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New builds an Error with an explicit status code.
func New(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// BadRequest marks a validation or malformed-input failure.
func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

// Unauthorized marks a missing, invalid or expired credential.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// Forbidden marks a role or self-action violation.
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

// NotFound marks a missing record or unmatched route.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Conflict marks a uniqueness violation, e.g. a duplicate email.
func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

// Internal marks anything unanticipated.
func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}

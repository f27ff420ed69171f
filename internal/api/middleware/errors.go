package middleware

import (
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/ODADJE/NoSqLBackendESMT/internal/apperror"
	"github.com/ODADJE/NoSqLBackendESMT/internal/store"

	"github.com/gin-gonic/gin"
)

// failureBody is the JSON envelope every failure is rendered with.
// Stack is populated only outside production.
type failureBody struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// ErrorHandler renders the first error attached to the context into the
// failure envelope. It is the single boundary between error values and
// HTTP responses; handlers and middleware fail with c.Error + c.Abort
// and never write failure JSON themselves.
func ErrorHandler(env string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors[0].Err

		body := failureBody{Message: err.Error()}
		if env != "prod" {
			body.Stack = string(debug.Stack())
		}
		c.JSON(statusFor(err), body)
	}
}

// statusFor maps an error value to its HTTP status, defaulting to 500.
func statusFor(err error) int {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/ODADJE/NoSqLBackendESMT/internal/apperror"
	"github.com/ODADJE/NoSqLBackendESMT/internal/model"
	"github.com/ODADJE/NoSqLBackendESMT/internal/pkg/metrics"
	"github.com/ODADJE/NoSqLBackendESMT/internal/store"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// TokenVerifier checks a bearer token and returns the user id it claims.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserFinder resolves a claimed user id to a live account.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// Protect extracts and verifies the bearer token, resolves it to a live
// user record and attaches that record to the request context. Every
// failure path is a 401; the chain is aborted before any role check or
// resource handler runs.
func Protect(tokens TokenVerifier, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "you are not logged in")
			return
		}

		userID, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				abortUnauthorized(c, "the account belonging to this token no longer exists")
				return
			}
			c.Error(err)
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	metrics.AuthFailuresTotal.Inc()
	c.Error(apperror.Unauthorized(message))
	c.Abort()
}

// CurrentUser returns the user attached by Protect. Calling it on a
// route that is not behind Protect is a programming error and panics.
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		panic("middleware: CurrentUser called without Protect")
	}
	return v.(*model.User)
}

// RoleAllowed reports whether role belongs to the allowed set.
func RoleAllowed(allowed []string, role string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// RequireRoles gates a route on the resolved user's role. The allowed
// set is fixed at route registration. Must be mounted after Protect.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make([]string, len(roles))
	copy(allowed, roles)
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if !RoleAllowed(allowed, user.Role) {
			c.Error(apperror.Forbidden("you do not have permission to perform this action"))
			c.Abort()
			return
		}
		c.Next()
	}
}

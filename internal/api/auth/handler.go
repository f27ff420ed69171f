package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ODADJE/NoSqLBackendESMT/internal/apperror"
	"github.com/ODADJE/NoSqLBackendESMT/internal/api/middleware"
	"github.com/ODADJE/NoSqLBackendESMT/internal/model"
	"github.com/ODADJE/NoSqLBackendESMT/internal/pkg/metrics"
	"github.com/ODADJE/NoSqLBackendESMT/internal/store"

	"github.com/gin-gonic/gin"
)

// UserStore is the slice of the credential store the auth handlers need.
type UserStore interface {
	Create(ctx context.Context, user *model.User, password string) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	UpdatePassword(ctx context.Context, id string, password string) error
}

// Handler serves sign-up, sign-in and the password routes.
type Handler struct {
	users  UserStore
	tokens *TokenService
	logger *slog.Logger
}

// NewHandler creates the auth Handler.
func NewHandler(users UserStore, tokens *TokenService, logger *slog.Logger) *Handler {
	return &Handler{users: users, tokens: tokens, logger: logger}
}

type signUpRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

type forgotPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserView is the public projection of a user record. Password and
// update timestamp never leave the process.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserView projects a user record for the API boundary.
func NewUserView(u *model.User) UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

type userEnvelope struct {
	Status string   `json:"status"`
	Token  string   `json:"token"`
	Data   userData `json:"data"`
}

type userData struct {
	User UserView `json:"user"`
}

// sendUser writes the success envelope with a fresh token for the user.
func (h *Handler) sendUser(c *gin.Context, statusCode int, user *model.User) {
	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("sign token failed", slog.String("email", user.Email), slog.String("error", err.Error()))
		}
		fail(c, apperror.Internal("sign token failed"))
		return
	}
	c.JSON(statusCode, userEnvelope{
		Status: "success",
		Token:  token,
		Data:   userData{User: NewUserView(user)},
	})
}

func fail(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

// SignUp registers a self-service account. The role always defaults to
// user; it is not accepted from the payload.
func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.BadRequest(err.Error()))
		return
	}

	user := model.User{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(strings.ToLower(req.Email)),
		Role:  model.RoleUser,
	}
	if err := h.users.Create(c.Request.Context(), &user, req.Password); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			fail(c, apperror.Conflict("user already exists"))
			return
		}
		if h.logger != nil {
			h.logger.Error("create user failed", slog.String("email", user.Email), slog.String("error", err.Error()))
		}
		fail(c, err)
		return
	}

	if h.logger != nil {
		h.logger.Info("user signed up", slog.String("email", user.Email))
	}
	h.sendUser(c, http.StatusCreated, &user)
}

// SignIn checks an email/password pair and returns a fresh token. The
// unknown-email and wrong-password failures are indistinguishable.
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.BadRequest(err.Error()))
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	user, err := h.users.Authenticate(c.Request.Context(), email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrInvalidCredentials) {
			fail(c, apperror.Unauthorized("incorrect email or password"))
			return
		}
		fail(c, err)
		return
	}

	metrics.SignInsTotal.Inc()
	if h.logger != nil {
		h.logger.Info("user signed in", slog.String("email", email), slog.String("role", user.Role))
	}
	h.sendUser(c, http.StatusOK, user)
}

// Me returns the authenticated user's own record.
func (h *Handler) Me(c *gin.Context) {
	h.sendUser(c, http.StatusOK, middleware.CurrentUser(c))
}

// ChangePassword overwrites the caller's password after proof of the
// old one.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.BadRequest(err.Error()))
		return
	}

	user := middleware.CurrentUser(c)
	if !store.CheckPassword(req.OldPassword, user.Password) {
		fail(c, apperror.Unauthorized("incorrect old password"))
		return
	}
	if err := h.users.UpdatePassword(c.Request.Context(), user.ID, req.NewPassword); err != nil {
		fail(c, err)
		return
	}

	if h.logger != nil {
		h.logger.Info("password changed", slog.String("email", user.Email))
	}
	h.sendUser(c, http.StatusOK, user)
}

// ForgotPassword overwrites a user's password by email. Admin-gated;
// there is no possession-proof step, the new password is taken directly
// from the request.
func (h *Handler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.BadRequest(err.Error()))
		return
	}

	email := strings.TrimSpace(strings.ToLower(req.Email))
	user, err := h.users.FindByEmail(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, apperror.NotFound("no user with this email"))
			return
		}
		fail(c, err)
		return
	}
	if err := h.users.UpdatePassword(c.Request.Context(), user.ID, req.Password); err != nil {
		fail(c, err)
		return
	}

	if h.logger != nil {
		h.logger.Info("password reset", slog.String("email", email))
	}
	h.sendUser(c, http.StatusOK, user)
}

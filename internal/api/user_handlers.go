package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ODADJE/NoSqLBackendESMT/internal/api/auth"
	"github.com/ODADJE/NoSqLBackendESMT/internal/api/middleware"
	"github.com/ODADJE/NoSqLBackendESMT/internal/apperror"
	"github.com/ODADJE/NoSqLBackendESMT/internal/model"
	"github.com/ODADJE/NoSqLBackendESMT/internal/store"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

type updateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=3,max=50"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Role     *string `json:"role" binding:"omitempty,oneof=user admin"`
	Password *string `json:"password"`
}

func sendUser(c *gin.Context, statusCode int, user *model.User) {
	c.JSON(statusCode, gin.H{
		"status": "success",
		"data":   gin.H{"user": auth.NewUserView(user)},
	})
}

func sendUsers(c *gin.Context, statusCode int, users []model.User) {
	views := make([]auth.UserView, 0, len(users))
	for i := range users {
		views = append(views, auth.NewUserView(&users[i]))
	}
	c.JSON(statusCode, gin.H{
		"status":  "success",
		"results": len(views),
		"data":    gin.H{"user": views},
	})
}

func fail(c *gin.Context, err error) {
	c.Error(err)
	c.Abort()
}

// handleListUsers returns every account. Admin only.
func (s *Server) handleListUsers(c *gin.Context) {
	users, err := s.users.List(c.Request.Context())
	if err != nil {
		s.logger.Error("list users failed", slog.String("error", err.Error()))
		fail(c, err)
		return
	}
	sendUsers(c, http.StatusOK, users)
}

// handleGetUser returns a single account by id. Admin only.
func (s *Server) handleGetUser(c *gin.Context) {
	user, err := s.users.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, apperror.NotFound("user not found"))
			return
		}
		fail(c, err)
		return
	}
	sendUser(c, http.StatusOK, user)
}

// handleCreateUser creates an account with a settable role. Admin only.
func (s *Server) handleCreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.BadRequest(err.Error()))
		return
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	user := model.User{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(strings.ToLower(req.Email)),
		Role:  role,
	}
	if err := s.users.Create(c.Request.Context(), &user, req.Password); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			fail(c, apperror.Conflict("user already exists"))
			return
		}
		s.logger.Error("create user failed", slog.String("email", user.Email), slog.String("error", err.Error()))
		fail(c, err)
		return
	}
	sendUser(c, http.StatusCreated, &user)
}

// handleUpdateUser patches name/email/role. Password changes are
// rejected here; they go through the password routes.
func (s *Server) handleUpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.BadRequest(err.Error()))
		return
	}
	if req.Password != nil {
		fail(c, apperror.BadRequest("this route is not for password updates"))
		return
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		updates["email"] = strings.TrimSpace(strings.ToLower(*req.Email))
	}
	if req.Role != nil {
		updates["role"] = *req.Role
	}
	if len(updates) == 0 {
		fail(c, apperror.BadRequest("no updates"))
		return
	}

	user, err := s.users.Update(c.Request.Context(), c.Param("id"), updates)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			fail(c, apperror.NotFound("user not found"))
		case errors.Is(err, store.ErrEmailTaken):
			fail(c, apperror.Conflict("email already in use"))
		default:
			fail(c, err)
		}
		return
	}
	sendUser(c, http.StatusOK, user)
}

// handleDeleteUser removes an account. The bootstrap administrator and
// the caller's own account are protected; ids and emails are compared
// by value.
func (s *Server) handleDeleteUser(c *gin.Context) {
	target, err := s.users.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, apperror.NotFound("user not found"))
			return
		}
		fail(c, err)
		return
	}

	if target.Email == s.cfg.Admin.Email {
		fail(c, apperror.Forbidden("you are not allowed to delete this user"))
		return
	}
	if middleware.CurrentUser(c).ID == target.ID {
		fail(c, apperror.Forbidden("you are not allowed to delete yourself"))
		return
	}

	if err := s.users.Delete(c.Request.Context(), target.ID); err != nil {
		s.logger.Error("delete user failed", slog.String("user_id", target.ID), slog.String("error", err.Error()))
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

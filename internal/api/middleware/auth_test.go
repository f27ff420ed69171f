package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ODADJE/NoSqLBackendESMT/internal/model"
	"github.com/ODADJE/NoSqLBackendESMT/internal/pkg/metrics"
	"github.com/ODADJE/NoSqLBackendESMT/internal/store"

	"github.com/gin-gonic/gin"
)

type mockVerifier struct {
	userID string
	err    error
}

func (m *mockVerifier) Verify(token string) (string, error) {
	return m.userID, m.err
}

type mockFinder struct {
	user *model.User
	err  error
}

func (m *mockFinder) FindByID(ctx context.Context, id string) (*model.User, error) {
	return m.user, m.err
}

func protectedRouter(tokens TokenVerifier, users UserFinder, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	metrics.InitMetrics()
	r := gin.New()
	r.Use(ErrorHandler("test"))
	r.GET("/protected", Protect(tokens, users), handler)
	return r
}

func doGet(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestProtect_MissingHeader(t *testing.T) {
	r := protectedRouter(&mockVerifier{}, &mockFinder{}, func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	w := doGet(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if msg, ok := body["message"].(string); !ok || msg == "" {
		t.Fatal("expected a message in the failure envelope")
	}
}

func TestProtect_BadScheme(t *testing.T) {
	r := protectedRouter(&mockVerifier{userID: "u1"}, &mockFinder{}, func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	if w := doGet(r, "Basic abc"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestProtect_InvalidToken(t *testing.T) {
	r := protectedRouter(&mockVerifier{err: errors.New("bad token")}, &mockFinder{}, func(c *gin.Context) {
		t.Fatal("handler must not run")
	})

	if w := doGet(r, "Bearer whatever"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestProtect_AccountGone(t *testing.T) {
	r := protectedRouter(
		&mockVerifier{userID: "u1"},
		&mockFinder{err: store.ErrNotFound},
		func(c *gin.Context) { t.Fatal("handler must not run") },
	)

	if w := doGet(r, "Bearer tok"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestProtect_AttachesUser(t *testing.T) {
	user := &model.User{ID: "u1", Email: "a@b.com", Role: model.RoleUser}
	r := protectedRouter(
		&mockVerifier{userID: "u1"},
		&mockFinder{user: user},
		func(c *gin.Context) {
			if CurrentUser(c).ID != "u1" {
				t.Fatalf("expected resolved user u1, got %q", CurrentUser(c).ID)
			}
			c.Status(http.StatusOK)
		},
	)

	if w := doGet(r, "Bearer tok"); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRequireRoles_ForbidsAndAllows(t *testing.T) {
	gin.SetMode(gin.TestMode)
	metrics.InitMetrics()

	run := func(role string) int {
		user := &model.User{ID: "u1", Role: role}
		r := gin.New()
		r.Use(ErrorHandler("test"))
		r.GET("/admin",
			Protect(&mockVerifier{userID: "u1"}, &mockFinder{user: user}),
			RequireRoles(model.RoleAdmin),
			func(c *gin.Context) { c.Status(http.StatusOK) },
		)
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer tok")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := run(model.RoleUser); code != http.StatusForbidden {
		t.Fatalf("role user: expected 403, got %d", code)
	}
	if code := run(model.RoleAdmin); code != http.StatusOK {
		t.Fatalf("role admin: expected 200, got %d", code)
	}
}

func TestRoleAllowed(t *testing.T) {
	allowed := []string{model.RoleAdmin}
	if RoleAllowed(allowed, model.RoleUser) {
		t.Fatal("user must not pass an admin-only gate")
	}
	if !RoleAllowed(allowed, model.RoleAdmin) {
		t.Fatal("admin must pass an admin-only gate")
	}
	if RoleAllowed(nil, model.RoleAdmin) {
		t.Fatal("empty set must reject everything")
	}
}

func TestCurrentUser_PanicsWithoutProtect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	CurrentUser(c)
}

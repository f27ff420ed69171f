package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ODADJE/NoSqLBackendESMT/internal/api/auth"
	"github.com/ODADJE/NoSqLBackendESMT/internal/api/middleware"
	"github.com/ODADJE/NoSqLBackendESMT/internal/apperror"
	"github.com/ODADJE/NoSqLBackendESMT/internal/config"
	"github.com/ODADJE/NoSqLBackendESMT/internal/model"
	"github.com/ODADJE/NoSqLBackendESMT/internal/pkg/metrics"
	"github.com/ODADJE/NoSqLBackendESMT/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// Server wires the stores, token service and routes together.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
	router *gin.Engine
	tokens *auth.TokenService
	auth   *auth.Handler
	users  UserStore
	songs  SongStore
}

// UserStore is the slice of the credential store the admin user
// handlers need.
type UserStore interface {
	Create(ctx context.Context, user *model.User, password string) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

// SongStore is the catalog interface the song handlers need.
type SongStore interface {
	List(ctx context.Context) ([]model.Song, error)
	FindByID(ctx context.Context, id string) (*model.Song, error)
	Create(ctx context.Context, song *model.Song) error
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id string, patch store.SongPatch) (*model.Song, error)
	Delete(ctx context.Context, id string) error
}

// NewServer connects to MySQL, migrates the schema and builds the
// router.
func NewServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.User{}, &model.Song{}); err != nil {
		return nil, err
	}
	return newServer(cfg, logger, db), nil
}

// newServer builds a Server on an already opened database handle.
func newServer(cfg *config.Config, logger *slog.Logger, db *gorm.DB) *Server {
	metrics.InitMetrics()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.ErrorHandler(cfg.App.Env))

	users := store.NewUserStore(db)
	tokens := auth.NewTokenService(cfg.Security.JWTSecret, cfg.Security.TokenLifetime)

	s := &Server{
		cfg:    cfg,
		logger: logger,
		db:     db,
		router: r,
		tokens: tokens,
		auth:   auth.NewHandler(users, tokens, logger),
		users:  users,
		songs:  store.NewSongStore(db),
	}
	s.registerRoutes()
	return s
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the database connection.
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// registerRoutes declares the full HTTP surface.
func (s *Server) registerRoutes() {
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.router.GET("/healthz", s.handleHealthz)

	protect := middleware.Protect(s.tokens, s.users)
	adminOnly := middleware.RequireRoles(model.RoleAdmin)

	users := s.router.Group("/api/users")
	users.POST("/sign-up", s.auth.SignUp)
	users.POST("/sign-in", s.auth.SignIn)
	users.GET("/me", protect, s.auth.Me)
	users.PATCH("/change-password", protect, s.auth.ChangePassword)
	users.PATCH("/forgot-password", protect, adminOnly, s.auth.ForgotPassword)
	users.GET("", protect, adminOnly, s.handleListUsers)
	users.POST("", protect, adminOnly, s.handleCreateUser)
	users.GET("/:id", protect, adminOnly, s.handleGetUser)
	users.PATCH("/:id", protect, adminOnly, s.handleUpdateUser)
	users.DELETE("/:id", protect, adminOnly, s.handleDeleteUser)

	songs := s.router.Group("/api/songs")
	songs.Use(protect)
	songs.GET("", s.handleListSongs)
	songs.GET("/:id", s.handleGetSong)
	songs.POST("", adminOnly, s.handleCreateSong)
	songs.PATCH("/:id", adminOnly, s.handleUpdateSong)
	songs.DELETE("/:id", adminOnly, s.handleDeleteSong)

	s.router.NoRoute(func(c *gin.Context) {
		c.Error(apperror.NotFound("this route is not handled"))
	})
}

func (s *Server) handleHealthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	var one int
	if s.db == nil || s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

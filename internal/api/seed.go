package api

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ODADJE/NoSqLBackendESMT/internal/model"

	"gorm.io/gorm"
)

// SeedBootstrapData creates the initial administrator and a sample
// catalog entry when they are missing. Both steps are best effort:
// failures are logged and startup continues.
func (s *Server) SeedBootstrapData(ctx context.Context) {
	s.seedAdmin(ctx)
	s.seedSampleSong(ctx)
}

func (s *Server) seedAdmin(ctx context.Context) {
	var admin model.User
	err := s.db.WithContext(ctx).Where("role = ?", model.RoleAdmin).First(&admin).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Warn("seed admin: lookup failed", slog.String("error", err.Error()))
		return
	}

	if s.cfg.Admin.Password == "" {
		s.logger.Warn("seed admin: no admin exists and ADMIN_PASSWORD is unset, skipping")
		return
	}
	role := s.cfg.Admin.Role
	if role == "" {
		role = model.RoleAdmin
	}
	user := model.User{
		Name:  s.cfg.Admin.Name,
		Email: s.cfg.Admin.Email,
		Role:  role,
	}
	if err := s.users.Create(ctx, &user, s.cfg.Admin.Password); err != nil {
		s.logger.Warn("seed admin: create failed", slog.String("email", user.Email), slog.String("error", err.Error()))
		return
	}
	s.logger.Info("admin created", slog.String("email", user.Email))
}

func (s *Server) seedSampleSong(ctx context.Context) {
	count, err := s.songs.Count(ctx)
	if err != nil {
		s.logger.Warn("seed song: count failed", slog.String("error", err.Error()))
		return
	}
	if count > 0 {
		return
	}

	song := model.Song{
		Name:       "Test_song",
		Artists:    []string{"Test_artist"},
		Album:      "Test_album",
		Genre:      "Test_genre",
		Popularity: 100,
		DurationMS: 1000,
		Explicit:   false,
	}
	if err := s.songs.Create(ctx, &song); err != nil {
		s.logger.Warn("seed song: create failed", slog.String("error", err.Error()))
		return
	}
	s.logger.Info("sample song created", slog.String("name", song.Name))
}

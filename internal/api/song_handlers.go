package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ODADJE/NoSqLBackendESMT/internal/apperror"
	"github.com/ODADJE/NoSqLBackendESMT/internal/model"
	"github.com/ODADJE/NoSqLBackendESMT/internal/store"

	"github.com/gin-gonic/gin"
)

type createSongRequest struct {
	Name       string   `json:"name" binding:"required"`
	Artists    []string `json:"artists" binding:"required,min=1,dive,required"`
	Album      string   `json:"album" binding:"required"`
	Genre      string   `json:"genre" binding:"required"`
	Popularity *int     `json:"popularity" binding:"required"`
	DurationMS *int     `json:"duration_ms" binding:"required"`
	Explicit   *bool    `json:"explicit" binding:"required"`
}

type updateSongRequest struct {
	Name       *string  `json:"name"`
	Artists    []string `json:"artists" binding:"omitempty,min=1,dive,required"`
	Album      *string  `json:"album"`
	Genre      *string  `json:"genre"`
	Popularity *int     `json:"popularity"`
	DurationMS *int     `json:"duration_ms"`
	Explicit   *bool    `json:"explicit"`
}

// songView is the public projection of a catalog entry.
type songView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Album      string   `json:"album"`
	Genre      string   `json:"genre"`
	Popularity int      `json:"popularity"`
	DurationMS int      `json:"duration_ms"`
	Explicit   bool     `json:"explicit"`
}

func newSongView(s *model.Song) songView {
	return songView{
		ID:         s.ID,
		Name:       s.Name,
		Artists:    s.Artists,
		Album:      s.Album,
		Genre:      s.Genre,
		Popularity: s.Popularity,
		DurationMS: s.DurationMS,
		Explicit:   s.Explicit,
	}
}

func sendSong(c *gin.Context, statusCode int, song *model.Song) {
	c.JSON(statusCode, gin.H{
		"status": "success",
		"data":   gin.H{"song": newSongView(song)},
	})
}

func sendSongs(c *gin.Context, statusCode int, songs []model.Song) {
	views := make([]songView, 0, len(songs))
	for i := range songs {
		views = append(views, newSongView(&songs[i]))
	}
	c.JSON(statusCode, gin.H{
		"status":  "success",
		"results": len(views),
		"data":    gin.H{"song": views},
	})
}

// handleListSongs returns the whole catalog.
func (s *Server) handleListSongs(c *gin.Context) {
	songs, err := s.songs.List(c.Request.Context())
	if err != nil {
		s.logger.Error("list songs failed", slog.String("error", err.Error()))
		fail(c, err)
		return
	}
	sendSongs(c, http.StatusOK, songs)
}

// handleGetSong returns a single catalog entry.
func (s *Server) handleGetSong(c *gin.Context) {
	song, err := s.songs.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, apperror.NotFound("song not found"))
			return
		}
		fail(c, err)
		return
	}
	sendSong(c, http.StatusOK, song)
}

// handleCreateSong inserts a catalog entry. Admin only.
func (s *Server) handleCreateSong(c *gin.Context) {
	var req createSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.BadRequest(err.Error()))
		return
	}

	song := model.Song{
		Name:       req.Name,
		Artists:    req.Artists,
		Album:      req.Album,
		Genre:      req.Genre,
		Popularity: *req.Popularity,
		DurationMS: *req.DurationMS,
		Explicit:   *req.Explicit,
	}
	if err := s.songs.Create(c.Request.Context(), &song); err != nil {
		s.logger.Error("create song failed", slog.String("name", song.Name), slog.String("error", err.Error()))
		fail(c, err)
		return
	}
	sendSong(c, http.StatusCreated, &song)
}

// handleUpdateSong patches a subset of fields; the rest keep their
// values. Admin only.
func (s *Server) handleUpdateSong(c *gin.Context) {
	var req updateSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperror.BadRequest(err.Error()))
		return
	}

	patch := store.SongPatch{
		Name:       req.Name,
		Artists:    req.Artists,
		Album:      req.Album,
		Genre:      req.Genre,
		Popularity: req.Popularity,
		DurationMS: req.DurationMS,
		Explicit:   req.Explicit,
	}
	song, err := s.songs.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, apperror.NotFound("song not found"))
			return
		}
		fail(c, err)
		return
	}
	sendSong(c, http.StatusOK, song)
}

// handleDeleteSong removes a catalog entry. Admin only.
func (s *Server) handleDeleteSong(c *gin.Context) {
	if err := s.songs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fail(c, apperror.NotFound("song not found"))
			return
		}
		s.logger.Error("delete song failed", slog.String("song_id", c.Param("id")), slog.String("error", err.Error()))
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

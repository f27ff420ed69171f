package store

import (
	"context"
	"errors"

	"github.com/ODADJE/NoSqLBackendESMT/internal/model"

	"gorm.io/gorm"
)

// SongStore persists catalog entries.
type SongStore struct {
	db *gorm.DB
}

// NewSongStore wraps a gorm handle.
func NewSongStore(db *gorm.DB) *SongStore {
	return &SongStore{db: db}
}

// List returns the whole catalog.
func (s *SongStore) List(ctx context.Context) ([]model.Song, error) {
	songs := []model.Song{}
	if err := s.db.WithContext(ctx).Order("created_at").Find(&songs).Error; err != nil {
		return nil, err
	}
	return songs, nil
}

// FindByID loads a song by primary key.
func (s *SongStore) FindByID(ctx context.Context, id string) (*model.Song, error) {
	var song model.Song
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&song).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &song, nil
}

// Create inserts a new catalog entry.
func (s *SongStore) Create(ctx context.Context, song *model.Song) error {
	return s.db.WithContext(ctx).Create(song).Error
}

// Count returns the catalog size.
func (s *SongStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Song{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// SongPatch carries a partial update; nil fields are left untouched.
type SongPatch struct {
	Name       *string
	Artists    []string
	Album      *string
	Genre      *string
	Popularity *int
	DurationMS *int
	Explicit   *bool
}

// Update applies the patch and returns the fresh record. Untouched
// fields keep their values.
func (s *SongStore) Update(ctx context.Context, id string, patch SongPatch) (*model.Song, error) {
	song, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		song.Name = *patch.Name
	}
	if patch.Artists != nil {
		song.Artists = patch.Artists
	}
	if patch.Album != nil {
		song.Album = *patch.Album
	}
	if patch.Genre != nil {
		song.Genre = *patch.Genre
	}
	if patch.Popularity != nil {
		song.Popularity = *patch.Popularity
	}
	if patch.DurationMS != nil {
		song.DurationMS = *patch.DurationMS
	}
	if patch.Explicit != nil {
		song.Explicit = *patch.Explicit
	}
	if err := s.db.WithContext(ctx).Save(song).Error; err != nil {
		return nil, err
	}
	return song, nil
}

// Delete removes a song by id.
func (s *SongStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Song{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

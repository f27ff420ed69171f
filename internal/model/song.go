package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Song represents a catalog entry.
//
// Artists is stored as a JSON-serialized list; the catalog has no
// relationship to users.
type Song struct {
	ID        string    `gorm:"type:char(36);primaryKey"` // UUID, assigned at creation
	CreatedAt time.Time // first insert time
	UpdatedAt time.Time // last mutation time

	Name       string   `gorm:"not null"`                 // track title
	Artists    []string `gorm:"serializer:json;not null"` // performing artists (non-empty)
	Album      string   `gorm:"not null"`                 // album title
	Genre      string   `gorm:"not null"`                 // genre label
	Popularity int      `gorm:"not null"`                 // popularity score
	DurationMS int      `gorm:"column:duration_ms"`       // track length in milliseconds
	Explicit   bool     // explicit-lyrics flag
}

// BeforeCreate assigns a UUID when none was provided.
func (s *Song) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles an account can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a registered account.
type User struct {
	ID        string    `gorm:"type:char(36);primaryKey"`               // UUID, assigned at creation
	Name      string    `gorm:"type:varchar(50);not null"`              // display name (3-50 chars)
	Email     string    `gorm:"type:varchar(191);uniqueIndex;not null"` // login key, unique
	Password  string    `gorm:"not null"`                               // bcrypt hash
	Role      string    `gorm:"type:varchar(16);default:user"`          // role: user / admin
	CreatedAt time.Time // creation time
	UpdatedAt time.Time // last mutation time
}

// BeforeCreate assigns a UUID when none was provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Package store implements the gorm-backed user and song stores.
//
// The database must be opened with gorm's TranslateError option so
// duplicate-key failures surface as gorm.ErrDuplicatedKey regardless of
// driver; email uniqueness is enforced by the unique index, not by a
// find-then-create check.
package store

import "errors"

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrEmailTaken is returned when an insert hits the unique email index.
	ErrEmailTaken = errors.New("email already in use")

	// ErrInvalidCredentials is returned for an unknown email or a wrong
	// password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("incorrect email or password")
)

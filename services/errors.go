package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("already exists")
	ErrInvalidPage      = errors.New("invalid page")
	ErrInvalidImage     = errors.New("invalid image")
	ErrInvalidReference = errors.New("does not exist")
)

// notFound turns gorm's missing-row error into ErrNotFound, so callers
// get "post not found" and can still match with errors.Is.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}

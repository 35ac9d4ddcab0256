package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: record not found")
	// ErrInvalidSortField indicates a sort key outside the allow-list.
	ErrInvalidSortField = errors.New("repository: invalid sort field")
)

// translate maps driver-level errors onto the repository sentinels.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

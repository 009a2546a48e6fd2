package repositories

import (
	"errors"
	"fmt"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("user not found")
	// ErrStoreUnavailable wraps every failure of the backing store itself.
	ErrStoreUnavailable = errors.New("store unavailable")
)

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

package store

import (
	"errors"
	"fmt"
)

// Error kinds returned by Store operations. Callers test with errors.Is.
var (
	// ErrNotFound means the operation referenced an id that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidOperation means the request was rejected before touching
	// the database, e.g. deleting the default list or a blank title.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrStorage wraps any failure reported by the database driver,
	// including constraint violations.
	ErrStorage = errors.New("storage failure")

	// ErrSerialization means an export document could not be decoded.
	ErrSerialization = errors.New("serialization failure")
)

// dbErr tags a driver error as a storage failure while keeping the
// original error in the chain.
func dbErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}

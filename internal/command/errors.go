package command

import (
	"errors"

	"github.com/nhle/itodo/internal/store"
)

// Kind classifies a command failure for the front end.
type Kind string

const (
	KindNotFound             Kind = "not_found"
	KindInvalidOperation     Kind = "invalid_operation"
	KindStorageFailure       Kind = "storage_failure"
	KindSerializationFailure Kind = "serialization_failure"
)

// Error is the error value every command returns. Message is the
// user-facing text.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`

	err error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the underlying store error.
func (e *Error) Unwrap() error { return e.err }

// FromError classifies err by the store error kinds. Errors of unknown
// origin, such as filesystem failures, are reported as storage failures.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	kind := KindStorageFailure
	switch {
	case errors.Is(err, store.ErrNotFound):
		kind = KindNotFound
	case errors.Is(err, store.ErrInvalidOperation):
		kind = KindInvalidOperation
	case errors.Is(err, store.ErrSerialization):
		kind = KindSerializationFailure
	}

	return &Error{Kind: kind, Message: err.Error(), err: err}
}

// Package apperr defines the sentinel errors shared across the storage and
// collection layers. Handlers map them to HTTP status codes with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a referenced record, scope, or reorder target that
	// does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks malformed caller input; no state was changed.
	ErrValidation = errors.New("invalid input")
	// ErrConflict marks an atomic commit that lost to a concurrent write.
	// The whole transaction was discarded; callers may retry.
	ErrConflict = errors.New("write conflict")
	// ErrNotEmpty marks a parent delete that was refused because the scope
	// still has ordered children.
	ErrNotEmpty = errors.New("not empty")
)

// WrapValidation returns a caller-facing validation error.
func WrapValidation(msg string) error { return fmt.Errorf("%s: %w", msg, ErrValidation) }

// WrapNotEmpty returns a refused-delete error naming the blocking children.
func WrapNotEmpty(msg string) error { return fmt.Errorf("%s: %w", msg, ErrNotEmpty) }

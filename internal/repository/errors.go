package repository

import "errors"

var (
	// ErrNotFound is returned when a lookup or update matches no document.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate key")
)

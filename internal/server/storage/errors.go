package storage

import "errors"

// Common storage errors
var (
	// ErrEntityNotFound indicates that the entity does not exist
	ErrEntityNotFound = errors.New("entity not found")
)

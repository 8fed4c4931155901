package storage

import "errors"

// Common client storage errors
var (
	// ErrEntityNotFound indicates that the entity is not in the local cache
	ErrEntityNotFound = errors.New("entity not found in local cache")

	// ErrItemNotFound indicates that the sync item is not queued
	ErrItemNotFound = errors.New("sync item not found")

	// ErrConflictNotFound indicates that the conflict case is not open
	ErrConflictNotFound = errors.New("conflict not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)

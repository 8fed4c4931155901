package storage

import (
	"context"
	"time"
)

// MetadataStorage defines interface for storing client sync metadata
type MetadataStorage interface {
	// SaveChangeCursor saves the backend change cursor reached by the last pull
	SaveChangeCursor(ctx context.Context, cursor int64) error

	// GetChangeCursor returns 0 if no pull has been performed yet
	GetChangeCursor(ctx context.Context) (int64, error)

	// SaveLastSyncAt saves the completion time of the last successful cycle
	SaveLastSyncAt(ctx context.Context, at time.Time) error

	// GetLastSyncAt returns the zero time if no cycle has completed yet
	GetLastSyncAt(ctx context.Context) (time.Time, error)

	// DeferEntity records that a remote change of the entity was not merged
	// because of a pending local edit or an open conflict
	DeferEntity(ctx context.Context, entityID string) error

	// DeferredEntities returns deferred entity IDs in ascending order
	DeferredEntities(ctx context.Context) ([]string, error)

	// ClearDeferred forgets a deferred entity. Clearing a missing ID is a no-op.
	ClearDeferred(ctx context.Context, entityID string) error
}

// Store is everything the sync core persists locally. The bbolt storage implements it.
type Store interface {
	EntityCache
	QueueStorage
	ConflictStorage
	MetadataStorage
}

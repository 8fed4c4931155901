package storage

import (
	"context"

	"github.com/iudanet/screensync/internal/models"
)

// QueueStorage is the durable queue of SyncItems that the backend has not confirmed yet.
type QueueStorage interface {
	// Enqueue adds a new item. Existing IDs are overwritten.
	Enqueue(ctx context.Context, item *models.SyncItem) error

	// UpdateItem replaces a queued item. Returns ErrItemNotFound if it is not queued.
	UpdateItem(ctx context.Context, item *models.SyncItem) error

	// GetItem returns ErrItemNotFound if the item is not queued.
	GetItem(ctx context.Context, id string) (*models.SyncItem, error)

	// RemoveItem deletes the item. Removing a missing item is a no-op.
	RemoveItem(ctx context.Context, id string) error

	// RemoveItemsForEntity deletes every queued item of an entity and returns how many were removed.
	RemoveItemsForEntity(ctx context.Context, entityID string) (int, error)

	// HasItemsForEntity reports whether any item of the entity is queued.
	HasItemsForEntity(ctx context.Context, entityID string) (bool, error)

	// ListItems returns all queued items in local creation order.
	ListItems(ctx context.Context) ([]*models.SyncItem, error)

	// CountItems returns the queue size without decoding items.
	CountItems(ctx context.Context) (int, error)
}

// Package backend defines the contract through which the sync core talks to a
// remote store, the failure taxonomy of that contract and the registry that
// holds the active implementation.
package backend

import (
	"context"

	"github.com/iudanet/screensync/internal/models"
)

//go:generate moq -out port_mock.go . Port

// Port is the only way the sync core reaches a remote store.
//
// SyncBatch processes items independently: one item's failure never blocks
// items of other entities. Items of the same entity are applied in slice order
// and the chain of an entity stops at its first failure; the remaining items of
// that entity are reported with ErrBlocked. An item ID the backend has already
// applied is reported as success again. Items absent from SyncResult.Errors
// succeeded.
type Port interface {
	// FetchEntity returns ErrNotFound when the entity is absent.
	FetchEntity(ctx context.Context, id string) (*models.Entity, error)

	// FetchEntities pages over all entities including inactive ones.
	// Network/5xx failures are ErrNetwork, malformed responses ErrFatal.
	FetchEntities(ctx context.Context, limit, offset int) ([]*models.Entity, error)

	SaveEntity(ctx context.Context, id string, entity *models.Entity) error
	DeleteEntity(ctx context.Context, id string) error

	// SyncBatch uploads a batch of pending items.
	SyncBatch(ctx context.Context, items []*models.SyncItem) (*models.SyncResult, error)

	// PendingItems lists items the backend received but holds unapplied.
	PendingItems(ctx context.Context) ([]*models.SyncItem, error)

	// ResolveConflict asks the backend for a resolution hint.
	ResolveConflict(ctx context.Context, conflict *models.ConflictCase) (models.Resolution, error)

	// Connect is idempotent and safe to call when already connected.
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	IsConnected() bool

	// Subscribe streams remote changes of one entity until Unsubscribe or ctx is done.
	Subscribe(ctx context.Context, entityID string) (<-chan models.RealtimeEvent[*models.Entity], error)

	// Unsubscribe of an entity without subscription is a no-op.
	Unsubscribe(ctx context.Context, entityID string) error
}

// ChangeFeed is implemented by backends able to return a delta of changes
// after a cursor. The sync core falls back to paging FetchEntities otherwise.
type ChangeFeed interface {
	// FetchChanges returns entities changed after since and the cursor to use next time.
	FetchChanges(ctx context.Context, since int64, limit int) ([]*models.Entity, int64, error)
}

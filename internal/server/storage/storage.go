// Package storage defines persistence of the sync server.
package storage

import (
	"context"
	"time"

	"github.com/iudanet/screensync/internal/models"
)

// Change is a stored write, reported so that it can be pushed to subscribers.
type Change struct {
	Entity *models.Entity
	Kind   models.EventKind
	UserID string
}

// EntityStorage defines interface for entity persistence
type EntityStorage interface {
	// GetEntity returns ErrEntityNotFound if the entity doesn't exist.
	// Soft-deleted entities are returned with IsActive = false.
	GetEntity(ctx context.Context, id string) (*models.Entity, error)

	// ListEntities pages over all entities ordered by id
	ListEntities(ctx context.Context, limit, offset int) ([]*models.Entity, error)

	// ChangesSince returns entities written after cursor since, in write order,
	// and the cursor of the last returned entity (since when nothing changed)
	ChangesSince(ctx context.Context, since int64, limit int) ([]*models.Entity, int64, error)

	// PutEntity stores entity unconditionally
	PutEntity(ctx context.Context, entity *models.Entity, userID string) (*Change, error)

	// DeleteEntity marks entity as deleted and bumps its version.
	// Returns ErrEntityNotFound if entity doesn't exist
	DeleteEntity(ctx context.Context, id, userID string, now time.Time) (*Change, error)
}

// LedgerStorage records uploaded sync items
type LedgerStorage interface {
	// ApplyItem applies item atomically with the optimistic version check.
	// An item applied before is a success with a nil Change. A conflict is
	// returned as *backend.ConflictError and the item is held.
	ApplyItem(ctx context.Context, item *models.SyncItem, userID string, now time.Time) (*Change, error)

	// HeldItems returns items held because of a conflict
	HeldItems(ctx context.Context) ([]*models.SyncItem, error)

	// ReleaseHeld drops held items of an entity
	ReleaseHeld(ctx context.Context, entityID string) error
}

//go:generate moq -out storage_mock.go . Storage

// Storage is the full server store used by handlers
type Storage interface {
	EntityStorage
	LedgerStorage
	Ping(ctx context.Context) error
}

package storage

import (
	"context"

	"github.com/iudanet/screensync/internal/models"
)

// EntityCache stores the local copy of entities the rendering layer reads from.
type EntityCache interface {
	// SaveEntity stores or replaces the entity as a whole.
	SaveEntity(ctx context.Context, entity *models.Entity) error

	// GetEntity returns ErrEntityNotFound if the entity is not cached.
	GetEntity(ctx context.Context, id string) (*models.Entity, error)

	// ListEntities returns cached entities ordered by ID.
	// Inactive (soft deleted) entities are included only if includeInactive is true.
	ListEntities(ctx context.Context, includeInactive bool) ([]*models.Entity, error)
}

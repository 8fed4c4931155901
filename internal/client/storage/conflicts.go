package storage

import (
	"context"

	"github.com/iudanet/screensync/internal/models"
)

// ConflictStorage keeps the set of open conflict cases across restarts.
type ConflictStorage interface {
	SaveConflict(ctx context.Context, conflict *models.ConflictCase) error

	// GetConflict returns ErrConflictNotFound if the case is not open.
	GetConflict(ctx context.Context, id string) (*models.ConflictCase, error)

	// ListConflicts returns open cases ordered by detection time.
	ListConflicts(ctx context.Context) ([]*models.ConflictCase, error)

	// RemoveConflict closes a case. Removing a missing case is a no-op.
	RemoveConflict(ctx context.Context, id string) error
}

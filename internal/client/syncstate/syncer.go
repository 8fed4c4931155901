// Package syncstate drives sync cycles and exposes their lifecycle as a small
// set of observable states.
package syncstate

import (
	"context"

	"github.com/iudanet/screensync/internal/models"
)

//go:generate moq -out syncer_mock.go . Syncer

// Syncer is the part of the sync repository the machine drives.
type Syncer interface {
	SyncCycle(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error)
	PendingCount(ctx context.Context) (int, error)
	OpenConflicts(ctx context.Context) ([]*models.ConflictCase, error)
	ResolveConflict(ctx context.Context, conflictID string, resolution models.Resolution) error
}

package backend

import (
	"fmt"
	"time"

	"github.com/iudanet/screensync/internal/models"
)

// Apply computes the stored version of an entity after applying item on top of
// stored (nil when the backend has no record). Backends share it so that the
// optimistic concurrency rule is the same everywhere:
//
//   - create requires that no record exists
//   - update and delete require stored.Version == item.BaseVersion
//   - every accepted write produces Version = stored.Version + 1
//
// A divergence is reported as *ConflictError with the stored record as Remote.
func Apply(stored *models.Entity, item *models.SyncItem, now time.Time) (*models.Entity, error) {
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	switch item.Operation {
	case models.OperationCreate:
		if stored != nil {
			return nil, &ConflictError{Local: item.Entity.Clone(), Remote: stored.Clone()}
		}
		next := item.Entity.Clone()
		next.ID = item.EntityID
		next.Version = 1
		next.IsActive = true
		stampTimes(next, nil, now)
		return next, nil

	case models.OperationUpdate:
		if stored == nil {
			return nil, ErrNotFound
		}
		if stored.Version != item.BaseVersion {
			return nil, &ConflictError{Local: item.Entity.Clone(), Remote: stored.Clone()}
		}
		next := item.Entity.Clone()
		next.ID = item.EntityID
		next.Version = stored.Version + 1
		stampTimes(next, stored, now)
		return next, nil

	case models.OperationDelete:
		if stored == nil {
			return nil, ErrNotFound
		}
		if stored.Version != item.BaseVersion {
			// Local стороны у delete нет: оркестратор подставит запись из кэша
			return nil, &ConflictError{Remote: stored.Clone()}
		}
		next := stored.Clone()
		next.Version = stored.Version + 1
		next.IsActive = false
		next.UpdatedAt = now
		return next, nil

	default:
		return nil, fmt.Errorf("%w: unknown operation %q", ErrInvalidState, item.Operation)
	}
}

func stampTimes(next, stored *models.Entity, now time.Time) {
	if stored != nil {
		next.CreatedAt = stored.CreatedAt
	} else if next.CreatedAt.IsZero() {
		next.CreatedAt = now
	}
	if next.UpdatedAt.IsZero() {
		next.UpdatedAt = now
	}
}

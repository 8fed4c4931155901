package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/client/storage"
	"github.com/iudanet/screensync/internal/models"
)

// ResolveConflict applies resolution to an open conflict case.
//
//   - UseLocal: the current local state is queued again as a fresh item based on the remote version
//   - UseRemote: the cache takes the remote version, queued items of the entity are dropped
//   - Merge: the merged payload is written to the cache and queued
//   - RequiresUserInput: nothing changes, the case stays open
//   - Abort: queued items of the entity are dropped, the cache is left untouched
//
// An unknown conflict fails with backend.ErrNotFound.
func (r *Repository) ResolveConflict(ctx context.Context, conflictID string, resolution models.Resolution) error {
	if err := resolution.Validate(); err != nil {
		return fmt.Errorf("%w: %v", backend.ErrInvalidState, err)
	}

	c, err := r.store.GetConflict(ctx, conflictID)
	if errors.Is(err, storage.ErrConflictNotFound) {
		return fmt.Errorf("conflict %s: %w: %w", conflictID, backend.ErrNotFound, err)
	}
	if err != nil {
		return fmt.Errorf("failed to read conflict: %w", err)
	}

	unlock := r.locks.Lock(c.EntityID)
	defer unlock()

	// Повторная проверка под блокировкой: конфликт мог быть закрыт параллельно
	if _, err := r.store.GetConflict(ctx, conflictID); err != nil {
		return fmt.Errorf("conflict %s: %w: %w", conflictID, backend.ErrNotFound, err)
	}

	switch resolution.Kind {
	case models.ResolutionRequiresUserInput:
		r.logger.Debug("Conflict deferred to user", "conflict_id", c.ID)
		return nil
	case models.ResolutionUseLocal:
		err = r.resolveUseLocal(ctx, c)
	case models.ResolutionUseRemote:
		err = r.resolveUseRemote(ctx, c)
	case models.ResolutionMerge:
		err = r.resolveMerge(ctx, c, resolution.Payload)
	case models.ResolutionAbort:
		err = r.dropEntityItems(ctx, c)
	default:
		err = fmt.Errorf("%w: unhandled resolution %q", backend.ErrInvalidState, resolution.Kind)
	}
	if err != nil {
		return err
	}

	if err := r.store.RemoveConflict(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to close conflict: %w", err)
	}

	r.logger.Info("Conflict resolved",
		"conflict_id", c.ID,
		"entity_id", c.EntityID,
		"resolution", resolution.Kind)
	return nil
}

func (r *Repository) resolveUseLocal(ctx context.Context, c *models.ConflictCase) error {
	local, err := r.store.GetEntity(ctx, c.EntityID)
	switch {
	case errors.Is(err, storage.ErrEntityNotFound):
		local = c.Local.Clone()
	case err != nil:
		return fmt.Errorf("failed to read cached entity: %w", err)
	}

	if err := r.dropEntityItems(ctx, c); err != nil {
		return err
	}

	entity := local.Clone()
	entity.Version = c.Remote.Version + 1
	entity.UpdatedAt = r.now()

	item := &models.SyncItem{
		ID:          uuid.NewString(),
		EntityID:    c.EntityID,
		BaseVersion: c.Remote.Version,
		CreatedAt:   entity.UpdatedAt,
	}
	if entity.IsActive {
		item.Operation = models.OperationUpdate
		item.Entity = entity.Clone()
	} else {
		item.Operation = models.OperationDelete
	}

	return r.requeue(ctx, item, entity)
}

func (r *Repository) resolveUseRemote(ctx context.Context, c *models.ConflictCase) error {
	if err := r.store.SaveEntity(ctx, c.Remote.Clone()); err != nil {
		return fmt.Errorf("failed to write remote version: %w", err)
	}
	return r.dropEntityItems(ctx, c)
}

func (r *Repository) resolveMerge(ctx context.Context, c *models.ConflictCase, payload []byte) error {
	base, err := r.store.GetEntity(ctx, c.EntityID)
	switch {
	case errors.Is(err, storage.ErrEntityNotFound):
		base = c.Local.Clone()
	case err != nil:
		return fmt.Errorf("failed to read cached entity: %w", err)
	}

	if err := r.dropEntityItems(ctx, c); err != nil {
		return err
	}

	entity := base.Clone()
	entity.Payload = append([]byte(nil), payload...)
	entity.Version = c.Remote.Version + 1
	entity.IsActive = true
	entity.UpdatedAt = r.now()
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = c.Remote.CreatedAt
	}

	item := &models.SyncItem{
		ID:          uuid.NewString(),
		EntityID:    c.EntityID,
		Operation:   models.OperationUpdate,
		BaseVersion: c.Remote.Version,
		Entity:      entity.Clone(),
		CreatedAt:   entity.UpdatedAt,
	}

	return r.requeue(ctx, item, entity)
}

func (r *Repository) requeue(ctx context.Context, item *models.SyncItem, entity *models.Entity) error {
	if err := r.store.Enqueue(ctx, item); err != nil {
		return fmt.Errorf("failed to requeue change: %w", err)
	}
	if err := r.store.SaveEntity(ctx, entity); err != nil {
		return fmt.Errorf("failed to update local cache: %w", err)
	}
	return nil
}

// dropEntityItems удаляет элементы сущности: все они удерживаются этим конфликтом
func (r *Repository) dropEntityItems(ctx context.Context, c *models.ConflictCase) error {
	removed, err := r.store.RemoveItemsForEntity(ctx, c.EntityID)
	if err != nil {
		return fmt.Errorf("failed to drop queued items: %w", err)
	}
	r.logger.Debug("Queued items dropped", "entity_id", c.EntityID, "count", removed)
	return nil
}

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

// cycleState накапливает итоги одного цикла
type cycleState struct {
	port        backend.Port
	result      *models.SyncResult
	conflicted  map[string]bool        // conflicted сущности, получившие конфликт в этом цикле
	stopped     map[string]bool        // stopped сущности, чья цепочка прервана в этом цикле
	autoResolve []*models.ConflictCase // autoResolve новые конфликты для резолвера
}

// SyncCycle performs one upload-detect-merge pass.
//
// When the backend is not connected it returns immediately with Offline set
// and Pending equal to the queue size. An empty queue returns a zero result
// without touching the backend, unless remote changes were deferred earlier
// by pending local state; those entities are fetched again. progress, if not nil, is called after every
// uploaded chunk with the number of confirmed items and the number of items
// selected for upload.
//
// Cancelling ctx stops the cycle between chunks; a chunk already handed to the
// backend runs to completion under its own deadline.
func (r *Repository) SyncCycle(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
	r.cycleMu.Lock()
	defer r.cycleMu.Unlock()

	port, err := r.registry.Get()
	if err != nil {
		return nil, fmt.Errorf("sync cycle: %w", err)
	}

	if !port.IsConnected() {
		pending, err := r.PendingCount(ctx)
		if err != nil {
			return nil, err
		}
		r.logger.Info("Backend not connected, sync cycle skipped", "pending", pending)
		return &models.SyncResult{CompletedAt: r.now(), Pending: pending, Offline: true}, nil
	}

	items, err := r.store.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sync queue: %w", err)
	}
	if len(items) == 0 {
		return r.refreshIdle(ctx, port)
	}

	batch := selectUploadable(items)
	r.logger.Info("Starting sync cycle", "queued", len(items), "uploadable", len(batch))

	state := &cycleState{
		port:       port,
		result:     &models.SyncResult{},
		conflicted: make(map[string]bool),
		stopped:    make(map[string]bool),
	}

	for start := 0; start < len(batch); start += r.batchSize {
		if err := ctx.Err(); err != nil {
			r.logger.Info("Sync cycle interrupted",
				"synced", state.result.Synced,
				"remaining", len(batch)-start)
			return nil, fmt.Errorf("sync cycle interrupted: %w", err)
		}

		end := min(start+r.batchSize, len(batch))
		if err := r.uploadChunk(ctx, state, batch[start:end]); err != nil {
			return nil, err
		}

		if progress != nil {
			progress(state.result.Synced, len(batch))
		}
	}

	for _, c := range state.autoResolve {
		r.autoResolve(ctx, port, c)
	}

	pulled, err := r.pull(ctx, port)
	if err != nil {
		return nil, err
	}
	state.result.Pulled = pulled

	state.result.CompletedAt = r.now()
	if err := r.store.SaveLastSyncAt(ctx, state.result.CompletedAt); err != nil {
		r.logger.Warn("Failed to save last sync time", "error", err)
	}
	if pending, err := r.store.CountItems(ctx); err == nil {
		state.result.Pending = pending
	}

	r.logger.Info("Sync cycle completed",
		"synced", state.result.Synced,
		"failed", state.result.Failed,
		"conflicts", state.result.Conflicts,
		"pulled", state.result.Pulled,
		"pending", state.result.Pending)

	return state.result, nil
}

// refreshIdle завершает цикл с пустой очередью. К бэкенду он обращается,
// только если остались отложенные удаленные изменения.
func (r *Repository) refreshIdle(ctx context.Context, port backend.Port) (*models.SyncResult, error) {
	deferred, err := r.store.DeferredEntities(ctx)
	if err != nil {
		return nil, err
	}

	result := &models.SyncResult{}
	if len(deferred) > 0 {
		refreshed, err := r.refreshDeferred(ctx, port)
		if err != nil {
			return nil, err
		}
		result.Pulled = refreshed
	}
	result.CompletedAt = r.now()
	return result, nil
}

// selectUploadable выбирает элементы для загрузки в порядке создания.
// Цепочка сущности прерывается на первом удерживаемом или уже загружаемом
// элементе: более поздние изменения нельзя отправить раньше него. За один
// цикл по паре (сущность, операция) отправляется не больше одного элемента,
// следующий такой же ждет следующего цикла.
func selectUploadable(items []*models.SyncItem) []*models.SyncItem {
	blocked := make(map[string]bool)
	selected := make(map[string]map[models.Operation]bool)
	batch := make([]*models.SyncItem, 0, len(items))

	for _, item := range items {
		if blocked[item.EntityID] {
			continue
		}
		if item.IsSyncing || item.Held() || selected[item.EntityID][item.Operation] {
			blocked[item.EntityID] = true
			continue
		}
		if selected[item.EntityID] == nil {
			selected[item.EntityID] = make(map[models.Operation]bool)
		}
		selected[item.EntityID][item.Operation] = true
		batch = append(batch, item)
	}
	return batch
}

func (r *Repository) uploadChunk(ctx context.Context, state *cycleState, chunk []*models.SyncItem) error {
	uploading := make([]*models.SyncItem, 0, len(chunk))
	for _, item := range chunk {
		// Цепочка сущности прервана в предыдущем чанке: порядок важнее прогресса
		if state.stopped[item.EntityID] {
			continue
		}
		marked, err := r.markSyncing(ctx, item.ID)
		if err != nil {
			return err
		}
		if marked != nil {
			uploading = append(uploading, marked)
		}
	}
	if len(uploading) == 0 {
		return nil
	}

	// Пауза не прерывает уже отправленный батч, у него свой дедлайн
	callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.batchTimeout)
	res, err := state.port.SyncBatch(callCtx, uploading)
	deadlineHit := errors.Is(callCtx.Err(), context.DeadlineExceeded)
	cancel()

	if err == nil && res == nil {
		err = fmt.Errorf("%w: empty batch result", backend.ErrFatal)
	}
	if err != nil {
		if deadlineHit && !errors.Is(err, backend.ErrTimeout) {
			err = fmt.Errorf("%w: %w", backend.ErrTimeout, err)
		}
		for _, item := range uploading {
			r.markFailed(ctx, item.ID, err)
		}
		r.logger.Warn("Sync batch failed", "items", len(uploading), "error", err)
		return fmt.Errorf("sync batch: %w", err)
	}

	for _, item := range uploading {
		itemErr, failed := res.FailedItem(item.ID)
		if !failed {
			r.confirm(ctx, item)
			state.result.Synced++
			continue
		}

		cause := itemErr.Cause
		if cause == nil {
			cause = errors.New(itemErr.Message)
		}
		switch {
		case backend.IsConflict(cause):
			if !r.handleConflict(ctx, state, item, cause) {
				state.stopped[item.EntityID] = true
			}
		case errors.Is(cause, backend.ErrBlocked) && state.conflicted[item.EntityID]:
			// Элемент удерживается вместе с конфликтом своей сущности
			r.clearSyncing(ctx, item.ID)
		default:
			state.stopped[item.EntityID] = true
			r.markFailed(ctx, item.ID, cause)
			state.result.Failed++
			state.result.Errors = append(state.result.Errors, models.ItemError{
				ItemID:    item.ID,
				EntityID:  item.EntityID,
				Operation: item.Operation,
				Message:   cause.Error(),
				Cause:     cause,
			})
		}
	}
	return nil
}

// markSyncing выставляет IsSyncing; nil означает, что элемент уже недоступен
func (r *Repository) markSyncing(ctx context.Context, itemID string) (*models.SyncItem, error) {
	var marked *models.SyncItem
	err := r.withItem(ctx, itemID, func(item *models.SyncItem) (bool, error) {
		if item.IsSyncing || item.Held() {
			return false, nil
		}
		item.IsSyncing = true
		marked = item.Clone()
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to mark item %s as syncing: %w", itemID, err)
	}
	return marked, nil
}

func (r *Repository) clearSyncing(ctx context.Context, itemID string) {
	err := r.withItem(ctx, itemID, func(item *models.SyncItem) (bool, error) {
		item.IsSyncing = false
		return true, nil
	})
	if err != nil {
		r.logger.Error("Failed to clear syncing flag", "item_id", itemID, "error", err)
	}
}

func (r *Repository) markFailed(ctx context.Context, itemID string, cause error) {
	err := r.withItem(ctx, itemID, func(item *models.SyncItem) (bool, error) {
		item.RetryCount++
		item.LastError = cause.Error()
		item.IsSyncing = false
		return true, nil
	})
	if err != nil {
		r.logger.Error("Failed to record item failure", "item_id", itemID, "error", err)
	}
}

// failLocked - вариант markFailed для вызова под блокировкой сущности
func (r *Repository) failLocked(ctx context.Context, itemID string, cause error) {
	item, err := r.store.GetItem(ctx, itemID)
	if err != nil {
		return
	}
	item.RetryCount++
	item.LastError = cause.Error()
	item.IsSyncing = false
	if err := r.store.UpdateItem(ctx, item); err != nil {
		r.logger.Error("Failed to record item failure", "item_id", itemID, "error", err)
	}
}

func (r *Repository) confirm(ctx context.Context, item *models.SyncItem) {
	unlock := r.locks.Lock(item.EntityID)
	defer unlock()

	if err := r.store.RemoveItem(ctx, item.ID); err != nil {
		r.logger.Error("Failed to remove confirmed item", "item_id", item.ID, "error", err)
	}
}

// withItem перечитывает элемент из очереди под блокировкой сущности и
// сохраняет его, если fn вернула true. Отсутствующий элемент пропускается.
func (r *Repository) withItem(ctx context.Context, itemID string, fn func(item *models.SyncItem) (bool, error)) error {
	item, err := r.store.GetItem(ctx, itemID)
	if errors.Is(err, storage.ErrItemNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	unlock := r.locks.Lock(item.EntityID)
	defer unlock()

	// Между чтением и блокировкой элемент мог измениться
	item, err = r.store.GetItem(ctx, itemID)
	if errors.Is(err, storage.ErrItemNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	save, err := fn(item)
	if err != nil || !save {
		return err
	}
	return r.store.UpdateItem(ctx, item)
}

// handleConflict превращает конфликт в ConflictCase. Возвращает true, если
// расхождения на самом деле нет и элемент подтвержден.
func (r *Repository) handleConflict(ctx context.Context, state *cycleState, item *models.SyncItem, cause error) bool {
	var remote, local *models.Entity
	var conflictErr *backend.ConflictError
	if errors.As(cause, &conflictErr) {
		remote = conflictErr.Remote
		local = conflictErr.Local
	}
	if remote == nil {
		fetched, err := state.port.FetchEntity(ctx, item.EntityID)
		if err != nil {
			r.markFailed(ctx, item.ID, fmt.Errorf("conflict without remote version: %w", err))
			state.result.Failed++
			return false
		}
		remote = fetched
	}

	unlock := r.locks.Lock(item.EntityID)
	defer unlock()

	if local == nil {
		local = item.Entity
	}
	if local == nil {
		// delete: локальная сторона - soft-deleted запись из кэша
		cached, err := r.store.GetEntity(ctx, item.EntityID)
		if err != nil {
			r.logger.Error("Failed to read local side of conflict", "entity_id", item.EntityID, "error", err)
			r.failLocked(ctx, item.ID, err)
			state.result.Failed++
			return false
		}
		local = cached
	}

	// Бэкенд уже хранит ровно это изменение: расхождения нет
	if local.SameContent(remote) {
		if err := r.store.RemoveItem(ctx, item.ID); err != nil {
			r.logger.Error("Failed to remove confirmed item", "item_id", item.ID, "error", err)
		}
		state.result.Synced++
		return true
	}

	c := &models.ConflictCase{
		ID:         uuid.NewString(),
		EntityID:   item.EntityID,
		ItemID:     item.ID,
		Operation:  item.Operation,
		Local:      local.Clone(),
		Remote:     remote.Clone(),
		DetectedAt: r.now(),
	}
	if err := c.Validate(); err != nil {
		r.logger.Error("Rejecting invalid conflict case", "entity_id", item.EntityID, "error", err)
		r.failLocked(ctx, item.ID, err)
		state.result.Failed++
		return false
	}

	if err := r.store.SaveConflict(ctx, c); err != nil {
		r.logger.Error("Failed to save conflict", "entity_id", item.EntityID, "error", err)
		r.failLocked(ctx, item.ID, err)
		state.result.Failed++
		return false
	}
	if err := r.holdEntityItems(ctx, item.EntityID, c.ID); err != nil {
		r.logger.Error("Failed to hold items of conflicted entity", "entity_id", item.EntityID, "error", err)
	}

	state.conflicted[item.EntityID] = true
	state.result.Conflicts++

	r.logger.Info("Conflict detected",
		"conflict_id", c.ID,
		"entity_id", c.EntityID,
		"local_version", c.Local.Version,
		"remote_version", c.Remote.Version)

	r.publishConflict(c)
	state.autoResolve = append(state.autoResolve, c)
	return false
}

// holdEntityItems помечает все элементы сущности как удерживаемые конфликтом.
// Вызывается под блокировкой сущности.
func (r *Repository) holdEntityItems(ctx context.Context, entityID, conflictID string) error {
	items, err := r.store.ListItems(ctx)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.EntityID != entityID {
			continue
		}
		item.ConflictID = conflictID
		item.IsSyncing = false
		if err := r.store.UpdateItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// autoResolve консультируется с резолвером и применяет решение, если оно не требует пользователя
func (r *Repository) autoResolve(ctx context.Context, port backend.Port, c *models.ConflictCase) {
	resolution, err := r.resolver.Resolve(ctx, port, c)
	if err != nil {
		r.logger.Warn("Resolver failed, conflict left open", "conflict_id", c.ID, "error", err)
		return
	}
	if resolution.Kind == models.ResolutionRequiresUserInput {
		return
	}
	if err := r.ResolveConflict(ctx, c.ID, resolution); err != nil {
		r.logger.Warn("Automatic resolution failed, conflict left open",
			"conflict_id", c.ID,
			"resolution", resolution.Kind,
			"error", err)
	}
}

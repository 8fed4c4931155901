package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/client/storage"
	"github.com/iudanet/screensync/internal/models"
)

// Pull downloads remote changes into the local cache outside of a sync cycle.
// It returns the number of cache entries that changed.
func (r *Repository) Pull(ctx context.Context) (int, error) {
	r.cycleMu.Lock()
	defer r.cycleMu.Unlock()

	port, err := r.registry.Get()
	if err != nil {
		return 0, fmt.Errorf("pull: %w", err)
	}
	if !port.IsConnected() {
		return 0, fmt.Errorf("pull: %w", backend.ErrNotConnected)
	}
	return r.pull(ctx, port)
}

// pull использует ленту изменений, если бэкенд ее поддерживает, иначе
// постранично перечитывает все записи. Затем перечитываются сущности,
// чьи удаленные изменения были отложены раньше.
func (r *Repository) pull(ctx context.Context, port backend.Port) (int, error) {
	var merged int
	var err error
	if feed, ok := port.(backend.ChangeFeed); ok {
		merged, err = r.pullChanges(ctx, feed)
	} else {
		merged, err = r.pullAll(ctx, port)
	}
	if err != nil {
		return merged, err
	}

	refreshed, err := r.refreshDeferred(ctx, port)
	return merged + refreshed, err
}

func (r *Repository) pullChanges(ctx context.Context, feed backend.ChangeFeed) (int, error) {
	cursor, err := r.store.GetChangeCursor(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read change cursor: %w", err)
	}

	merged := 0
	for {
		entities, next, err := feed.FetchChanges(ctx, cursor, r.pageSize)
		if err != nil {
			return merged, fmt.Errorf("failed to fetch remote changes: %w", err)
		}

		n, err := r.mergeAll(ctx, entities)
		merged += n
		if err != nil {
			return merged, err
		}

		if next > cursor {
			cursor = next
			if err := r.store.SaveChangeCursor(ctx, cursor); err != nil {
				return merged, fmt.Errorf("failed to save change cursor: %w", err)
			}
		}
		if len(entities) < r.pageSize {
			break
		}
	}

	r.logger.Debug("Remote changes pulled", "merged", merged, "cursor", cursor)
	return merged, nil
}

func (r *Repository) pullAll(ctx context.Context, port backend.Port) (int, error) {
	merged := 0
	for offset := 0; ; offset += r.pageSize {
		entities, err := port.FetchEntities(ctx, r.pageSize, offset)
		if err != nil {
			return merged, fmt.Errorf("failed to fetch remote entities: %w", err)
		}

		n, err := r.mergeAll(ctx, entities)
		merged += n
		if err != nil {
			return merged, err
		}

		if len(entities) < r.pageSize {
			break
		}
	}

	r.logger.Debug("Remote entities pulled", "merged", merged)
	return merged, nil
}

func (r *Repository) mergeAll(ctx context.Context, entities []*models.Entity) (int, error) {
	merged := 0
	for _, remote := range entities {
		ok, err := r.mergeRemote(ctx, remote)
		if err != nil {
			return merged, err
		}
		if ok {
			merged++
		}
	}
	return merged, nil
}

// mergeRemote записывает удаленную версию в кэш, если по сущности нет ни
// неподтвержденных локальных изменений, ни открытого конфликта. Иначе
// сущность запоминается как отложенная: курсор ленты уйдет дальше, и
// refreshDeferred перечитает ее, когда локальное состояние освободится.
func (r *Repository) mergeRemote(ctx context.Context, remote *models.Entity) (bool, error) {
	if remote == nil || remote.ID == "" {
		return false, fmt.Errorf("%w: remote entity without id", backend.ErrFatal)
	}

	unlock := r.locks.Lock(remote.ID)
	defer unlock()

	busy, err := r.hasLocalState(ctx, remote.ID)
	if err != nil {
		return false, err
	}
	if busy {
		r.logger.Debug("Remote change deferred, local state pending", "entity_id", remote.ID)
		if err := r.store.DeferEntity(ctx, remote.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	cached, err := r.store.GetEntity(ctx, remote.ID)
	switch {
	case errors.Is(err, storage.ErrEntityNotFound):
	case err != nil:
		return false, fmt.Errorf("failed to read cached entity: %w", err)
	case cached.SameContent(remote), cached.Version > remote.Version:
		return false, nil
	}

	if err := r.store.SaveEntity(ctx, remote.Clone()); err != nil {
		return false, fmt.Errorf("failed to merge remote entity: %w", err)
	}
	return true, nil
}

// hasLocalState сообщает, есть ли по сущности элементы в очереди или
// открытый конфликт. Вызывается под блокировкой сущности.
func (r *Repository) hasLocalState(ctx context.Context, entityID string) (bool, error) {
	pending, err := r.store.HasItemsForEntity(ctx, entityID)
	if err != nil {
		return false, fmt.Errorf("failed to check queue: %w", err)
	}
	if pending {
		return true, nil
	}

	open, err := r.openConflictFor(ctx, entityID)
	if err != nil {
		return false, err
	}
	return open != nil, nil
}

// refreshDeferred перечитывает с бэкенда отложенные сущности, по которым
// больше нет очереди и открытого конфликта. Текущая удаленная версия
// заменяет кэш, даже если локальная версия выше: бэкенду больше нечего
// от клиента ждать.
func (r *Repository) refreshDeferred(ctx context.Context, port backend.Port) (int, error) {
	ids, err := r.store.DeferredEntities(ctx)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, id := range ids {
		ok, err := r.refreshEntity(ctx, port, id)
		if err != nil {
			return refreshed, err
		}
		if ok {
			refreshed++
		}
	}

	if refreshed > 0 {
		r.logger.Debug("Deferred remote changes merged", "count", refreshed)
	}
	return refreshed, nil
}

func (r *Repository) refreshEntity(ctx context.Context, port backend.Port, entityID string) (bool, error) {
	busy, err := r.entityBusy(ctx, entityID)
	if err != nil || busy {
		return false, err
	}

	remote, err := port.FetchEntity(ctx, entityID)
	if errors.Is(err, backend.ErrNotFound) {
		// Бэкенд не знает сущность, сливать нечего
		return false, r.store.ClearDeferred(ctx, entityID)
	}
	if err != nil {
		return false, fmt.Errorf("failed to fetch deferred entity %s: %w", entityID, err)
	}

	unlock := r.locks.Lock(entityID)
	defer unlock()

	// Пока шел запрос, могла появиться новая локальная правка
	busy, err = r.hasLocalState(ctx, entityID)
	if err != nil || busy {
		return false, err
	}

	changed := true
	cached, err := r.store.GetEntity(ctx, entityID)
	switch {
	case errors.Is(err, storage.ErrEntityNotFound):
	case err != nil:
		return false, fmt.Errorf("failed to read cached entity: %w", err)
	case cached.SameContent(remote):
		changed = false
	}

	if changed {
		if err := r.store.SaveEntity(ctx, remote.Clone()); err != nil {
			return false, fmt.Errorf("failed to merge remote entity: %w", err)
		}
	}
	if err := r.store.ClearDeferred(ctx, entityID); err != nil {
		return changed, err
	}
	return changed, nil
}

func (r *Repository) entityBusy(ctx context.Context, entityID string) (bool, error) {
	unlock := r.locks.Lock(entityID)
	defer unlock()
	return r.hasLocalState(ctx, entityID)
}

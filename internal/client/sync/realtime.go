package sync

import (
	"context"
	"fmt"

	"github.com/iudanet/screensync/internal/models"
)

// Watch subscribes to realtime changes of an entity. Events are merged into
// the cache on a dedicated goroutine under the same per-entity lock as sync
// cycles, so an event never overwrites an unconfirmed local edit. Watching an
// already watched entity is a no-op.
func (r *Repository) Watch(ctx context.Context, entityID string) error {
	port, err := r.registry.Get()
	if err != nil {
		return fmt.Errorf("watch %s: %w", entityID, err)
	}

	r.mu.Lock()
	if _, ok := r.watchers[entityID]; ok {
		r.mu.Unlock()
		return nil
	}
	watchCtx, cancel := context.WithCancel(r.ctx)
	w := &watcher{cancel: cancel}
	r.watchers[entityID] = w
	r.mu.Unlock()

	events, err := port.Subscribe(watchCtx, entityID)
	if err != nil {
		r.dropWatcher(entityID, w)
		return fmt.Errorf("watch %s: %w", entityID, err)
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.consume(watchCtx, entityID, w, events)
	}()

	r.logger.Debug("Watching entity", "entity_id", entityID)
	return nil
}

// Unwatch stops watching an entity. Unwatching an unknown entity is a no-op.
func (r *Repository) Unwatch(ctx context.Context, entityID string) error {
	r.mu.Lock()
	w, ok := r.watchers[entityID]
	delete(r.watchers, entityID)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	w.cancel()

	port := r.registry.GetOrNil()
	if port == nil {
		return nil
	}
	if err := port.Unsubscribe(ctx, entityID); err != nil {
		return fmt.Errorf("unwatch %s: %w", entityID, err)
	}
	return nil
}

// watcher - активная подписка на сущность
type watcher struct {
	cancel context.CancelFunc
}

// dropWatcher отменяет подписку и убирает ее из карты, если ее еще не
// заменил новый Watch той же сущности
func (r *Repository) dropWatcher(entityID string, w *watcher) {
	r.mu.Lock()
	if r.watchers[entityID] == w {
		delete(r.watchers, entityID)
	}
	r.mu.Unlock()

	w.cancel()
}

func (r *Repository) consume(ctx context.Context, entityID string, w *watcher, events <-chan models.RealtimeEvent[*models.Entity]) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				r.logger.Debug("Realtime stream closed", "entity_id", entityID)
				r.dropWatcher(entityID, w)
				return
			}
			r.applyEvent(ctx, ev)
		}
	}
}

func (r *Repository) applyEvent(ctx context.Context, ev models.RealtimeEvent[*models.Entity]) {
	if ev.Payload == nil {
		r.logger.Warn("Realtime event without payload", "kind", ev.Kind)
		return
	}

	merged, err := r.mergeRemote(ctx, ev.Payload)
	if err != nil {
		r.logger.Error("Failed to merge realtime event",
			"entity_id", ev.Payload.ID,
			"kind", ev.Kind,
			"error", err)
		return
	}

	r.logger.Debug("Realtime event processed",
		"entity_id", ev.Payload.ID,
		"kind", ev.Kind,
		"version", ev.Payload.Version,
		"merged", merged)
}

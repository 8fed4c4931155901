package sync

import (
	"context"
	"fmt"
)

// Reconcile clears IsSyncing flags left behind by an interrupted process.
// Items the backend still lists as received but held keep their flag.
// It returns the number of items released for upload.
func (r *Repository) Reconcile(ctx context.Context) (int, error) {
	r.cycleMu.Lock()
	defer r.cycleMu.Unlock()

	items, err := r.store.ListItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read sync queue: %w", err)
	}

	onBackend := make(map[string]bool)
	if port := r.registry.GetOrNil(); port != nil && port.IsConnected() {
		held, err := port.PendingItems(ctx)
		if err != nil {
			return 0, fmt.Errorf("reconcile: %w", err)
		}
		for _, item := range held {
			onBackend[item.ID] = true
		}
	}

	released := 0
	for _, item := range items {
		if !item.IsSyncing || onBackend[item.ID] {
			continue
		}
		r.clearSyncing(ctx, item.ID)
		released++
	}

	if released > 0 {
		r.logger.Info("Stale syncing flags cleared", "count", released)
	}
	return released, nil
}


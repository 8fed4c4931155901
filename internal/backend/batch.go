package backend

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/screensync/internal/models"
)

// DefaultBatchParallelism ограничивает число одновременно обрабатываемых цепочек сущностей.
const DefaultBatchParallelism = 8

// ApplyFunc applies one item and returns its outcome.
type ApplyFunc func(ctx context.Context, item *models.SyncItem) error

// RunChains implements the SyncBatch ordering contract on top of apply.
// Items are grouped into per-entity chains that keep slice order; chains run
// in parallel, items inside a chain run one after another and the first
// failure blocks the rest of the chain with ErrBlocked.
func RunChains(ctx context.Context, items []*models.SyncItem, parallelism int, apply ApplyFunc) *models.SyncResult {
	if parallelism <= 0 {
		parallelism = DefaultBatchParallelism
	}

	// Группируем индексы по сущности, сохраняя порядок первого появления
	var order []string
	chains := make(map[string][]int)
	for i, item := range items {
		if _, ok := chains[item.EntityID]; !ok {
			order = append(order, item.EntityID)
		}
		chains[item.EntityID] = append(chains[item.EntityID], i)
	}

	// Каждая цепочка пишет только в свои индексы, мьютекс не нужен
	outcomes := make([]error, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for _, entityID := range order {
		chain := chains[entityID]
		g.Go(func() error {
			var failed bool
			for _, idx := range chain {
				if failed {
					outcomes[idx] = ErrBlocked
					continue
				}
				if err := gctx.Err(); err != nil {
					outcomes[idx] = ErrTimeout
					failed = true
					continue
				}
				if err := apply(gctx, items[idx]); err != nil {
					outcomes[idx] = err
					failed = true
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	result := &models.SyncResult{CompletedAt: time.Now()}
	for i, err := range outcomes {
		item := items[i]
		if err == nil {
			result.Synced++
			continue
		}
		result.Failed++
		if IsConflict(err) {
			result.Conflicts++
		}
		result.Errors = append(result.Errors, models.ItemError{
			ItemID:    item.ID,
			EntityID:  item.EntityID,
			Operation: item.Operation,
			Message:   err.Error(),
			Cause:     err,
		})
	}

	return result
}

package backend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/screensync/internal/models"
)

func chainItem(id, entityID string) *models.SyncItem {
	return &models.SyncItem{ID: id, EntityID: entityID, Operation: models.OperationDelete}
}

func TestRunChains_OrderWithinEntity(t *testing.T) {
	items := []*models.SyncItem{
		chainItem("a1", "a"),
		chainItem("b1", "b"),
		chainItem("a2", "a"),
		chainItem("a3", "a"),
		chainItem("b2", "b"),
	}

	var mu sync.Mutex
	seen := make(map[string][]string)
	result := RunChains(context.Background(), items, 4, func(_ context.Context, item *models.SyncItem) error {
		mu.Lock()
		defer mu.Unlock()
		seen[item.EntityID] = append(seen[item.EntityID], item.ID)
		return nil
	})

	assert.Equal(t, 5, result.Synced)
	assert.Zero(t, result.Failed)
	assert.Empty(t, result.Errors)
	assert.Equal(t, []string{"a1", "a2", "a3"}, seen["a"])
	assert.Equal(t, []string{"b1", "b2"}, seen["b"])
}

func TestRunChains_FailureBlocksOnlyItsEntity(t *testing.T) {
	items := []*models.SyncItem{
		chainItem("a1", "a"),
		chainItem("a2", "a"),
		chainItem("b1", "b"),
	}

	result := RunChains(context.Background(), items, 0, func(_ context.Context, item *models.SyncItem) error {
		if item.ID == "a1" {
			return &ConflictError{Remote: &models.Entity{ID: "a", Version: 2}}
		}
		return nil
	})

	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 1, result.Conflicts)

	_, ok := result.FailedItem("b1")
	assert.False(t, ok)

	a1, ok := result.FailedItem("a1")
	require.True(t, ok)
	assert.True(t, errors.Is(a1.Cause, ErrConflict))

	a2, ok := result.FailedItem("a2")
	require.True(t, ok)
	assert.True(t, errors.Is(a2.Cause, ErrBlocked))
	assert.True(t, IsRetryable(a2.Cause))
}

func TestRunChains_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	result := RunChains(ctx, []*models.SyncItem{chainItem("a1", "a")}, 1, func(context.Context, *models.SyncItem) error {
		calls++
		return nil
	})

	assert.Zero(t, calls)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, errors.Is(result.Errors[0].Cause, ErrTimeout))
}

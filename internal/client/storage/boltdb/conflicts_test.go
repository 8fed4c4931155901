package boltdb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/screensync/internal/client/storage"
	"github.com/iudanet/screensync/internal/models"
)

func TestConflicts_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	base := time.Now()
	later := &models.ConflictCase{
		ID:         "c2",
		EntityID:   "e2",
		ItemID:     "i2",
		Operation:  models.OperationUpdate,
		DetectedAt: base.Add(time.Second),
		Local:      &models.Entity{ID: "e2", Version: 2},
		Remote:     &models.Entity{ID: "e2", Version: 3},
	}
	earlier := &models.ConflictCase{
		ID:         "c1",
		EntityID:   "e1",
		ItemID:     "i1",
		Operation:  models.OperationUpdate,
		DetectedAt: base,
		Local:      &models.Entity{ID: "e1", Version: 2},
		Remote:     &models.Entity{ID: "e1", Version: 5},
	}
	require.NoError(t, store.SaveConflict(ctx, later))
	require.NoError(t, store.SaveConflict(ctx, earlier))

	list, err := store.ListConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Сортировка по времени обнаружения
	assert.Equal(t, "c1", list[0].ID)
	assert.Equal(t, "c2", list[1].ID)

	got, err := store.GetConflict(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Remote.Version)

	require.NoError(t, store.RemoveConflict(ctx, "c1"))
	require.NoError(t, store.RemoveConflict(ctx, "c1"))

	_, err = store.GetConflict(ctx, "c1")
	assert.ErrorIs(t, err, storage.ErrConflictNotFound)
}

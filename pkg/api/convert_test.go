package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/screensync/internal/models"
)

func TestEntity_Checksum(t *testing.T) {
	e := &models.Entity{ID: "A", Payload: []byte("hello"), Version: 2, IsActive: true}

	wire := FromEntity(e)
	assert.NotEmpty(t, wire.Checksum)
	assert.True(t, wire.Verify())
	assert.Equal(t, e, wire.ToEntity())

	wire.Payload = []byte("tampered")
	assert.False(t, wire.Verify())

	// Без контрольной суммы проверять нечего
	wire.Checksum = ""
	assert.True(t, wire.Verify())

	assert.Nil(t, FromEntity(nil))
	assert.Nil(t, (*Entity)(nil).ToEntity())
}

func TestSyncItem_Convert(t *testing.T) {
	item := &models.SyncItem{
		ID:          "item-1",
		EntityID:    "A",
		Operation:   models.OperationDelete,
		BaseVersion: 4,
		CreatedAt:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		RetryCount:  2,
		IsSyncing:   true,
	}

	got := FromSyncItem(item).ToSyncItem()

	// Служебные поля очереди не передаются
	assert.Zero(t, got.RetryCount)
	assert.False(t, got.IsSyncing)
	assert.Equal(t, item.ID, got.ID)
	assert.Equal(t, item.Operation, got.Operation)
	assert.Equal(t, item.BaseVersion, got.BaseVersion)
	assert.Nil(t, got.Entity)
}

func TestResolution_Convert(t *testing.T) {
	res, err := FromResolution(models.MergeWith([]byte("m"))).ToResolution()
	require.NoError(t, err)
	assert.Equal(t, models.MergeWith([]byte("m")), res)

	_, err = Resolution{Kind: "coin_flip"}.ToResolution()
	assert.Error(t, err)

	_, err = Resolution{Kind: "merge"}.ToResolution()
	assert.Error(t, err)
}

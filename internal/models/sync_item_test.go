package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSyncItem_Validate(t *testing.T) {
	snapshot := &Entity{ID: "A", Version: 1, Payload: []byte("p"), IsActive: true}

	tests := []struct {
		item    *SyncItem
		name    string
		wantErr bool
	}{
		{
			name: "valid create",
			item: &SyncItem{ID: "i1", EntityID: "A", Operation: OperationCreate, Entity: snapshot},
		},
		{
			name: "valid delete",
			item: &SyncItem{ID: "i1", EntityID: "A", Operation: OperationDelete, BaseVersion: 1},
		},
		{
			name:    "update without snapshot",
			item:    &SyncItem{ID: "i1", EntityID: "A", Operation: OperationUpdate},
			wantErr: true,
		},
		{
			name:    "delete with snapshot",
			item:    &SyncItem{ID: "i1", EntityID: "A", Operation: OperationDelete, Entity: snapshot},
			wantErr: true,
		},
		{
			name:    "unknown operation",
			item:    &SyncItem{ID: "i1", EntityID: "A", Operation: "upsert", Entity: snapshot},
			wantErr: true,
		},
		{
			name:    "empty id",
			item:    &SyncItem{EntityID: "A", Operation: OperationCreate, Entity: snapshot},
			wantErr: true,
		},
		{
			name:    "negative retry count",
			item:    &SyncItem{ID: "i1", EntityID: "A", Operation: OperationCreate, Entity: snapshot, RetryCount: -1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSyncItem_Clone(t *testing.T) {
	item := &SyncItem{
		ID:        "i1",
		EntityID:  "A",
		Operation: OperationUpdate,
		Entity:    &Entity{ID: "A", Payload: []byte("p")},
		CreatedAt: time.Now(),
	}

	clone := item.Clone()
	clone.Entity.Payload[0] = 'X'
	clone.RetryCount = 5

	assert.Equal(t, []byte("p"), item.Entity.Payload)
	assert.Equal(t, 0, item.RetryCount)
	assert.False(t, item.Held())
}

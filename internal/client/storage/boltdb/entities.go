package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/screensync/internal/client/storage"
	"github.com/iudanet/screensync/internal/models"
)

// SaveEntity stores or replaces an entity in the local cache
func (s *Storage) SaveEntity(ctx context.Context, entity *models.Entity) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	err = s.update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketEntities)
		if err != nil {
			return err
		}
		return b.Put([]byte(entity.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save entity %s: %w", entity.ID, err)
	}

	return nil
}

// GetEntity retrieves a cached entity by ID
func (s *Storage) GetEntity(ctx context.Context, id string) (*models.Entity, error) {
	var entity *models.Entity

	err := s.view(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketEntities)
		if err != nil {
			return err
		}

		data := b.Get([]byte(id))
		if data == nil {
			return storage.ErrEntityNotFound
		}

		entity = &models.Entity{}
		if err := json.Unmarshal(data, entity); err != nil {
			return fmt.Errorf("failed to unmarshal entity: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entity, nil
}

// ListEntities returns cached entities in key (ID) order
func (s *Storage) ListEntities(ctx context.Context, includeInactive bool) ([]*models.Entity, error) {
	var entities []*models.Entity

	err := s.view(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketEntities)
		if err != nil {
			return err
		}

		return b.ForEach(func(k, v []byte) error {
			var entity models.Entity
			if err := json.Unmarshal(v, &entity); err != nil {
				return fmt.Errorf("failed to unmarshal entity %s: %w", k, err)
			}
			// Фильтруем soft-deleted записи
			if entity.IsActive || includeInactive {
				entities = append(entities, &entity)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}

	return entities, nil
}

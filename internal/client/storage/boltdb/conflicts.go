package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/iudanet/screensync/internal/client/storage"
	"github.com/iudanet/screensync/internal/models"
)

// SaveConflict stores an open conflict case
func (s *Storage) SaveConflict(ctx context.Context, conflict *models.ConflictCase) error {
	data, err := json.Marshal(conflict)
	if err != nil {
		return fmt.Errorf("failed to marshal conflict: %w", err)
	}

	err = s.update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketConflicts)
		if err != nil {
			return err
		}
		return b.Put([]byte(conflict.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save conflict %s: %w", conflict.ID, err)
	}

	return nil
}

// GetConflict retrieves an open conflict case by ID
func (s *Storage) GetConflict(ctx context.Context, id string) (*models.ConflictCase, error) {
	var conflict *models.ConflictCase

	err := s.view(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketConflicts)
		if err != nil {
			return err
		}

		data := b.Get([]byte(id))
		if data == nil {
			return storage.ErrConflictNotFound
		}

		conflict = &models.ConflictCase{}
		if err := json.Unmarshal(data, conflict); err != nil {
			return fmt.Errorf("failed to unmarshal conflict: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return conflict, nil
}

// ListConflicts returns open conflict cases, oldest first
func (s *Storage) ListConflicts(ctx context.Context) ([]*models.ConflictCase, error) {
	var conflicts []*models.ConflictCase

	err := s.view(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketConflicts)
		if err != nil {
			return err
		}

		return b.ForEach(func(k, v []byte) error {
			var c models.ConflictCase
			if err := json.Unmarshal(v, &c); err != nil {
				return fmt.Errorf("failed to unmarshal conflict %s: %w", k, err)
			}
			conflicts = append(conflicts, &c)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}

	sort.SliceStable(conflicts, func(i, j int) bool {
		return conflicts[i].DetectedAt.Before(conflicts[j].DetectedAt)
	})

	return conflicts, nil
}

// RemoveConflict deletes a conflict case
func (s *Storage) RemoveConflict(ctx context.Context, id string) error {
	return s.update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketConflicts)
		if err != nil {
			return err
		}
		return b.Delete([]byte(id))
	})
}

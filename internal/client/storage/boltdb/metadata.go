package boltdb

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	keyChangeCursor = "change_cursor"
	keyLastSyncAt   = "last_sync_at"
)

// SaveChangeCursor saves the backend change cursor reached by the last pull
func (s *Storage) SaveChangeCursor(ctx context.Context, cursor int64) error {
	return s.putInt64(keyChangeCursor, cursor)
}

// GetChangeCursor retrieves the change cursor
// Returns 0 if no pull has been performed yet
func (s *Storage) GetChangeCursor(ctx context.Context) (int64, error) {
	return s.getInt64(keyChangeCursor)
}

// SaveLastSyncAt saves the completion time of the last successful cycle
func (s *Storage) SaveLastSyncAt(ctx context.Context, at time.Time) error {
	return s.putInt64(keyLastSyncAt, at.UnixNano())
}

// GetLastSyncAt returns the zero time if no cycle has completed yet
func (s *Storage) GetLastSyncAt(ctx context.Context) (time.Time, error) {
	ns, err := s.getInt64(keyLastSyncAt)
	if err != nil {
		return time.Time{}, err
	}
	if ns == 0 {
		return time.Time{}, nil
	}
	return time.Unix(0, ns), nil
}

// DeferEntity records an entity whose remote change waits for a merge
func (s *Storage) DeferEntity(ctx context.Context, entityID string) error {
	err := s.update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketDeferred)
		if err != nil {
			return err
		}
		return b.Put([]byte(entityID), []byte{})
	})
	if err != nil {
		return fmt.Errorf("failed to defer entity %s: %w", entityID, err)
	}
	return nil
}

// DeferredEntities returns deferred entity IDs in ascending order
func (s *Storage) DeferredEntities(ctx context.Context) ([]string, error) {
	var ids []string

	err := s.view(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketDeferred)
		if err != nil {
			return err
		}
		return b.ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list deferred entities: %w", err)
	}

	return ids, nil
}

// ClearDeferred forgets a deferred entity
func (s *Storage) ClearDeferred(ctx context.Context, entityID string) error {
	err := s.update(func(tx *bbolt.Tx) error {
		b, err := bucket(tx, bucketDeferred)
		if err != nil {
			return err
		}
		return b.Delete([]byte(entityID))
	})
	if err != nil {
		return fmt.Errorf("failed to clear deferred entity %s: %w", entityID, err)
	}
	return nil
}

func (s *Storage) putInt64(key string, v int64) error {
	err := s.update(func(tx *bbolt.Tx) error {
		meta, err := bucket(tx, bucketMetadata)
		if err != nil {
			return err
		}
		// int64 хранится как 8 байт big-endian
		return meta.Put([]byte(key), itob(uint64(v)))
	})
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (s *Storage) getInt64(key string) (int64, error) {
	var v int64

	err := s.view(func(tx *bbolt.Tx) error {
		meta, err := bucket(tx, bucketMetadata)
		if err != nil {
			return err
		}
		v = readInt64(meta.Get([]byte(key)))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get %s: %w", key, err)
	}

	return v, nil
}

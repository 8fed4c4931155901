package boltdb

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/screensync/internal/client/storage"
	"github.com/iudanet/screensync/internal/models"
)

// keyQueueSize хранит размер очереди в metadata bucket, чтобы CountItems не обходил очередь
const keyQueueSize = "queue_size"

// Enqueue adds an item to the tail of the queue
func (s *Storage) Enqueue(ctx context.Context, item *models.SyncItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal sync item: %w", err)
	}

	err = s.update(func(tx *bbolt.Tx) error {
		queue, ids, meta, err := queueBuckets(tx)
		if err != nil {
			return err
		}

		// Повторная постановка того же ID заменяет запись на прежнем месте
		if seqKey := ids.Get([]byte(item.ID)); seqKey != nil {
			return queue.Put(seqKey, data)
		}

		seq, err := queue.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate queue sequence: %w", err)
		}
		seqKey := itob(seq)

		if err := queue.Put(seqKey, data); err != nil {
			return err
		}
		if err := ids.Put([]byte(item.ID), seqKey); err != nil {
			return err
		}
		return addQueueSize(meta, 1)
	})
	if err != nil {
		return fmt.Errorf("failed to enqueue item %s: %w", item.ID, err)
	}

	return nil
}

// UpdateItem replaces a queued item in place
func (s *Storage) UpdateItem(ctx context.Context, item *models.SyncItem) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to marshal sync item: %w", err)
	}

	return s.update(func(tx *bbolt.Tx) error {
		queue, ids, _, err := queueBuckets(tx)
		if err != nil {
			return err
		}

		seqKey := ids.Get([]byte(item.ID))
		if seqKey == nil {
			return storage.ErrItemNotFound
		}
		return queue.Put(seqKey, data)
	})
}

// GetItem retrieves a queued item by ID
func (s *Storage) GetItem(ctx context.Context, id string) (*models.SyncItem, error) {
	var item *models.SyncItem

	err := s.view(func(tx *bbolt.Tx) error {
		queue, ids, _, err := queueBuckets(tx)
		if err != nil {
			return err
		}

		seqKey := ids.Get([]byte(id))
		if seqKey == nil {
			return storage.ErrItemNotFound
		}

		item = &models.SyncItem{}
		if err := json.Unmarshal(queue.Get(seqKey), item); err != nil {
			return fmt.Errorf("failed to unmarshal sync item: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// RemoveItem deletes an item from the queue
func (s *Storage) RemoveItem(ctx context.Context, id string) error {
	return s.update(func(tx *bbolt.Tx) error {
		queue, ids, meta, err := queueBuckets(tx)
		if err != nil {
			return err
		}

		seqKey := ids.Get([]byte(id))
		if seqKey == nil {
			return nil
		}

		if err := queue.Delete(seqKey); err != nil {
			return err
		}
		if err := ids.Delete([]byte(id)); err != nil {
			return err
		}
		return addQueueSize(meta, -1)
	})
}

// RemoveItemsForEntity deletes all queued items of one entity
func (s *Storage) RemoveItemsForEntity(ctx context.Context, entityID string) (int, error) {
	removed := 0

	err := s.update(func(tx *bbolt.Tx) error {
		queue, ids, meta, err := queueBuckets(tx)
		if err != nil {
			return err
		}

		// Сначала собираем ключи: удалять во время ForEach нельзя
		type victim struct{ seqKey, id []byte }
		var victims []victim

		err = queue.ForEach(func(k, v []byte) error {
			var item models.SyncItem
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("failed to unmarshal sync item: %w", err)
			}
			if item.EntityID == entityID {
				victims = append(victims, victim{seqKey: append([]byte(nil), k...), id: []byte(item.ID)})
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, v := range victims {
			if err := queue.Delete(v.seqKey); err != nil {
				return err
			}
			if err := ids.Delete(v.id); err != nil {
				return err
			}
		}
		removed = len(victims)
		return addQueueSize(meta, -int64(removed))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to remove items of entity %s: %w", entityID, err)
	}

	return removed, nil
}

// HasItemsForEntity reports whether any item of the entity is queued
func (s *Storage) HasItemsForEntity(ctx context.Context, entityID string) (bool, error) {
	found := false

	err := s.view(func(tx *bbolt.Tx) error {
		queue, _, _, err := queueBuckets(tx)
		if err != nil {
			return err
		}

		c := queue.Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var item models.SyncItem
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("failed to unmarshal sync item: %w", err)
			}
			if item.EntityID == entityID {
				found = true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to scan queue: %w", err)
	}

	return found, nil
}

// ListItems returns all queued items in creation order
func (s *Storage) ListItems(ctx context.Context) ([]*models.SyncItem, error) {
	var items []*models.SyncItem

	err := s.view(func(tx *bbolt.Tx) error {
		queue, _, _, err := queueBuckets(tx)
		if err != nil {
			return err
		}

		return queue.ForEach(func(k, v []byte) error {
			var item models.SyncItem
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("failed to unmarshal sync item: %w", err)
			}
			items = append(items, &item)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sync items: %w", err)
	}

	return items, nil
}

// CountItems returns the queue size from the maintained counter
func (s *Storage) CountItems(ctx context.Context) (int, error) {
	var size int64

	err := s.view(func(tx *bbolt.Tx) error {
		meta, err := bucket(tx, bucketMetadata)
		if err != nil {
			return err
		}
		size = readInt64(meta.Get([]byte(keyQueueSize)))
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count sync items: %w", err)
	}

	return int(size), nil
}

func queueBuckets(tx *bbolt.Tx) (queue, ids, meta *bbolt.Bucket, err error) {
	if queue, err = bucket(tx, bucketQueue); err != nil {
		return nil, nil, nil, err
	}
	if ids, err = bucket(tx, bucketQueueIDs); err != nil {
		return nil, nil, nil, err
	}
	if meta, err = bucket(tx, bucketMetadata); err != nil {
		return nil, nil, nil, err
	}
	return queue, ids, meta, nil
}

func addQueueSize(meta *bbolt.Bucket, delta int64) error {
	size := readInt64(meta.Get([]byte(keyQueueSize))) + delta
	if size < 0 {
		size = 0
	}
	return meta.Put([]byte(keyQueueSize), itob(uint64(size)))
}

func readInt64(b []byte) int64 {
	if len(b) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}

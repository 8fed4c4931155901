// Package boltdb implements the client storage interfaces on top of a single bbolt file.
package boltdb

import (
	"context"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/iudanet/screensync/internal/client/storage"
)

var (
	// BoltDB bucket names
	bucketEntities  = []byte("entities")
	bucketQueue     = []byte("queue")     // seq -> SyncItem, порядок ключей = порядок создания
	bucketQueueIDs  = []byte("queue_ids") // item id -> seq
	bucketConflicts = []byte("conflicts")
	bucketMetadata  = []byte("metadata")
	bucketDeferred  = []byte("deferred") // entity id -> пусто, удаленные изменения ждут слияния

	allBuckets = [][]byte{bucketEntities, bucketQueue, bucketQueueIDs, bucketConflicts, bucketMetadata, bucketDeferred}
)

var _ storage.Store = (*Storage)(nil)

// Storage represents BoltDB storage implementation for client.
// It is safe for concurrent use, including Close racing with other calls.
type Storage struct {
	db *bbolt.DB
	mu sync.RWMutex // mu защищает поле db от Close
}

// New creates a new BoltDB storage instance
// dbPath is the path to the BoltDB database file
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Открываем BoltDB; timeout не дает зависнуть, если файл занят другим процессом
	db, err := bbolt.Open(dbPath, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open boltdb: %w", err)
	}

	s := &Storage{db: db}

	if err := s.initBuckets(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize buckets: %w", err)
	}

	return s, nil
}

// Close closes the database connection. Calling Close twice is a no-op.
// Close waits for running transactions to finish.
func (s *Storage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// initBuckets создает необходимые buckets если они не существуют
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// view и update проверяют, что хранилище открыто, и держат mu на время транзакции
func (s *Storage) view(fn func(tx *bbolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.View(fn)
}

func (s *Storage) update(fn func(tx *bbolt.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return storage.ErrStorageClosed
	}
	return s.db.Update(fn)
}

func bucket(tx *bbolt.Tx, name []byte) (*bbolt.Bucket, error) {
	b := tx.Bucket(name)
	if b == nil {
		return nil, fmt.Errorf("%s bucket not found", name)
	}
	return b, nil
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

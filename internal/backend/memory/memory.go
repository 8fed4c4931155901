// Package memory provides an in-process backend.Port. It keeps entities in a
// map, applies batches with the shared backend rules and can simulate
// connectivity loss and injected failures.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/crdt"
	"github.com/iudanet/screensync/internal/models"
)

var (
	_ backend.Port       = (*Backend)(nil)
	_ backend.ChangeFeed = (*Backend)(nil)
)

const subscriberBuffer = 16

type record struct {
	entity *models.Entity
	seq    int64 // seq тик часов Лампорта последней записи
}

type subscription struct {
	ch   chan models.RealtimeEvent[*models.Entity]
	done chan struct{}
}

func (s *subscription) close() {
	close(s.ch)
	close(s.done)
}

type ledgerEntry struct {
	item    *models.SyncItem
	applied bool
}

// Backend is an in-memory backend.Port.
type Backend struct {
	logger      *slog.Logger
	clock       *crdt.LamportClock
	now         func() time.Time
	records     map[string]*record
	ledger      map[string]*ledgerEntry
	subscribers map[string][]*subscription
	itemErrors  map[string]error // itemErrors ошибки, внедряемые для сущностей
	batchErr    error
	parallelism int
	mu          sync.RWMutex
	connected   bool
	reachable   bool
}

// Option configures a Backend.
type Option func(*Backend)

// WithClock overrides the wall clock used for entity timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// WithParallelism sets how many entity chains of a batch run concurrently.
func WithParallelism(n int) Option {
	return func(b *Backend) { b.parallelism = n }
}

// New creates a reachable but not yet connected backend.
func New(logger *slog.Logger, opts ...Option) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Backend{
		logger:      logger,
		clock:       crdt.NewLamportClock(),
		now:         time.Now,
		records:     make(map[string]*record),
		ledger:      make(map[string]*ledgerEntry),
		subscribers: make(map[string][]*subscription),
		itemErrors:  make(map[string]error),
		parallelism: backend.DefaultBatchParallelism,
		reachable:   true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetReachable simulates the network going away (false) or coming back (true).
// Losing reachability also drops the connection.
func (b *Backend) SetReachable(reachable bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.reachable = reachable
	if !reachable {
		b.connected = false
	}
}

// FailEntity makes every SyncBatch item of entityID fail with err until cleared with nil.
func (b *Backend) FailEntity(entityID string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err == nil {
		delete(b.itemErrors, entityID)
		return
	}
	b.itemErrors[entityID] = err
}

// FailBatches makes whole SyncBatch calls fail with err until cleared with nil.
func (b *Backend) FailBatches(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batchErr = err
}

// Put writes an entity as another client would: the version is bumped and
// subscribers are notified.
func (b *Backend) Put(entity *models.Entity) *models.Entity {
	b.mu.Lock()
	defer b.mu.Unlock()

	next := entity.Clone()
	kind := models.EventInsert
	if rec, ok := b.records[next.ID]; ok {
		next.Version = rec.entity.Version + 1
		next.CreatedAt = rec.entity.CreatedAt
		kind = models.EventUpdate
	} else if next.Version == 0 {
		next.Version = 1
	}
	if next.UpdatedAt.IsZero() {
		next.UpdatedAt = b.now()
	}
	if next.CreatedAt.IsZero() {
		next.CreatedAt = next.UpdatedAt
	}
	if !next.IsActive {
		kind = models.EventDelete
	}

	b.storeLocked(next)
	b.publishLocked(kind, next)
	return next.Clone()
}

// Entity returns a copy of the stored entity or nil.
func (b *Backend) Entity(id string) *models.Entity {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if rec, ok := b.records[id]; ok {
		return rec.entity.Clone()
	}
	return nil
}

// Connect fails with ErrNotConnected while the backend is unreachable.
func (b *Backend) Connect(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.reachable {
		return backend.Wrap("connect", backend.ErrNotConnected)
	}
	b.connected = true
	return nil
}

// Disconnect closes every realtime subscription.
func (b *Backend) Disconnect(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.connected = false
	for id, subs := range b.subscribers {
		for _, sub := range subs {
			sub.close()
		}
		delete(b.subscribers, id)
	}
	return nil
}

func (b *Backend) IsConnected() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.connected
}

func (b *Backend) FetchEntity(ctx context.Context, id string) (*models.Entity, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkLocked(); err != nil {
		return nil, backend.Wrap("fetch entity", err)
	}
	rec, ok := b.records[id]
	if !ok {
		return nil, backend.Wrap("fetch entity", backend.ErrNotFound)
	}
	return rec.entity.Clone(), nil
}

// FetchEntities pages over entities ordered by ID.
func (b *Backend) FetchEntities(ctx context.Context, limit, offset int) ([]*models.Entity, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkLocked(); err != nil {
		return nil, backend.Wrap("fetch entities", err)
	}

	ids := make([]string, 0, len(b.records))
	for id := range b.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if offset >= len(ids) {
		return nil, nil
	}
	ids = ids[offset:]
	if limit > 0 && limit < len(ids) {
		ids = ids[:limit]
	}

	entities := make([]*models.Entity, 0, len(ids))
	for _, id := range ids {
		entities = append(entities, b.records[id].entity.Clone())
	}
	return entities, nil
}

// FetchChanges returns entities written after the since tick, oldest first.
func (b *Backend) FetchChanges(ctx context.Context, since int64, limit int) ([]*models.Entity, int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkLocked(); err != nil {
		return nil, since, backend.Wrap("fetch changes", err)
	}

	var changed []*record
	for _, rec := range b.records {
		if rec.seq > since {
			changed = append(changed, rec)
		}
	}
	sort.Slice(changed, func(i, j int) bool { return changed[i].seq < changed[j].seq })
	if limit > 0 && limit < len(changed) {
		changed = changed[:limit]
	}

	cursor := since
	entities := make([]*models.Entity, 0, len(changed))
	for _, rec := range changed {
		entities = append(entities, rec.entity.Clone())
		cursor = rec.seq
	}
	return entities, cursor, nil
}

// SaveEntity stores entity unconditionally under id.
func (b *Backend) SaveEntity(ctx context.Context, id string, entity *models.Entity) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkLocked(); err != nil {
		return backend.Wrap("save entity", err)
	}

	next := entity.Clone()
	next.ID = id
	kind := models.EventInsert
	if _, ok := b.records[id]; ok {
		kind = models.EventUpdate
	}
	b.storeLocked(next)
	b.publishLocked(kind, next)
	return nil
}

// DeleteEntity soft deletes the entity.
func (b *Backend) DeleteEntity(ctx context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkLocked(); err != nil {
		return backend.Wrap("delete entity", err)
	}
	rec, ok := b.records[id]
	if !ok {
		return backend.Wrap("delete entity", backend.ErrNotFound)
	}

	next := rec.entity.Clone()
	next.Version++
	next.IsActive = false
	next.UpdatedAt = b.now()
	b.storeLocked(next)
	b.publishLocked(models.EventDelete, next)
	return nil
}

func (b *Backend) SyncBatch(ctx context.Context, items []*models.SyncItem) (*models.SyncResult, error) {
	b.mu.RLock()
	err := b.checkLocked()
	if err == nil {
		err = b.batchErr
	}
	b.mu.RUnlock()
	if err != nil {
		return nil, backend.Wrap("sync batch", err)
	}

	result := backend.RunChains(ctx, items, b.parallelism, b.applyItem)

	b.logger.Debug("Batch applied",
		"items", len(items),
		"synced", result.Synced,
		"failed", result.Failed,
		"conflicts", result.Conflicts)

	return result, nil
}

func (b *Backend) applyItem(ctx context.Context, item *models.SyncItem) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Повторная загрузка уже примененного элемента - успех
	if entry, ok := b.ledger[item.ID]; ok && entry.applied {
		return nil
	}
	if err, ok := b.itemErrors[item.EntityID]; ok {
		return err
	}

	var stored *models.Entity
	if rec, ok := b.records[item.EntityID]; ok {
		stored = rec.entity
	}

	next, err := backend.Apply(stored, item, b.now())
	if err != nil {
		if backend.IsConflict(err) {
			b.ledger[item.ID] = &ledgerEntry{item: item.Clone()}
		}
		return err
	}

	b.storeLocked(next)
	b.ledger[item.ID] = &ledgerEntry{item: item.Clone(), applied: true}
	b.releaseHeldLocked(item.EntityID)

	kind := models.EventUpdate
	switch item.Operation {
	case models.OperationCreate:
		kind = models.EventInsert
	case models.OperationDelete:
		kind = models.EventDelete
	}
	b.publishLocked(kind, next)
	return nil
}

// PendingItems returns items held because of a conflict, in no particular order.
func (b *Backend) PendingItems(ctx context.Context) ([]*models.SyncItem, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.checkLocked(); err != nil {
		return nil, backend.Wrap("pending items", err)
	}

	var items []*models.SyncItem
	for _, entry := range b.ledger {
		if !entry.applied {
			items = append(items, entry.item.Clone())
		}
	}
	return items, nil
}

// ResolveConflict answers with a last-write-wins hint.
func (b *Backend) ResolveConflict(ctx context.Context, conflict *models.ConflictCase) (models.Resolution, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkLocked(); err != nil {
		return models.Resolution{}, backend.Wrap("resolve conflict", err)
	}
	b.releaseHeldLocked(conflict.EntityID)
	return crdt.ResolveLWW(conflict), nil
}

// Subscribe returns a channel of changes of entityID. The channel is closed on
// Unsubscribe, Disconnect or when ctx is done.
func (b *Backend) Subscribe(ctx context.Context, entityID string) (<-chan models.RealtimeEvent[*models.Entity], error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.checkLocked(); err != nil {
		return nil, backend.Wrap("subscribe", err)
	}

	sub := &subscription{
		ch:   make(chan models.RealtimeEvent[*models.Entity], subscriberBuffer),
		done: make(chan struct{}),
	}
	b.subscribers[entityID] = append(b.subscribers[entityID], sub)

	go func() {
		select {
		case <-ctx.Done():
			b.mu.Lock()
			defer b.mu.Unlock()
			b.dropSubscriberLocked(entityID, sub)
		case <-sub.done:
		}
	}()

	return sub.ch, nil
}

func (b *Backend) Unsubscribe(ctx context.Context, entityID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subscribers[entityID] {
		sub.close()
	}
	delete(b.subscribers, entityID)
	return nil
}

func (b *Backend) checkLocked() error {
	if !b.reachable {
		return backend.ErrNetwork
	}
	if !b.connected {
		return backend.ErrNotConnected
	}
	return nil
}

func (b *Backend) storeLocked(entity *models.Entity) {
	b.records[entity.ID] = &record{entity: entity, seq: b.clock.Tick()}
}

// releaseHeldLocked снимает удержанные элементы сущности: после новой записи они устарели
func (b *Backend) releaseHeldLocked(entityID string) {
	for id, entry := range b.ledger {
		if !entry.applied && entry.item.EntityID == entityID {
			delete(b.ledger, id)
		}
	}
}

func (b *Backend) publishLocked(kind models.EventKind, entity *models.Entity) {
	subs := b.subscribers[entity.ID]
	if len(subs) == 0 {
		return
	}

	event := models.RealtimeEvent[*models.Entity]{
		Kind:      kind,
		Payload:   entity.Clone(),
		Timestamp: b.now(),
		Metadata:  map[string]string{"node_id": b.clock.NodeID()},
	}
	for _, sub := range subs {
		select {
		case sub.ch <- event:
		default:
			b.logger.Warn("Dropping realtime event for slow subscriber",
				"entity_id", entity.ID,
				"kind", kind)
		}
	}
}

func (b *Backend) dropSubscriberLocked(entityID string, target *subscription) {
	subs := b.subscribers[entityID]
	for i, sub := range subs {
		if sub == target {
			sub.close()
			b.subscribers[entityID] = append(subs[:i], subs[i+1:]...)
			if len(b.subscribers[entityID]) == 0 {
				delete(b.subscribers, entityID)
			}
			return
		}
	}
}

func (b *Backend) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return fmt.Sprintf("memory backend (%d entities)", len(b.records))
}

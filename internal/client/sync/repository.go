// Package sync implements the sync orchestrator: it owns the local queue of
// pending changes, uploads it through the registered backend, turns
// divergences into conflict cases and merges remote changes into the local
// cache.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/client/storage"
	"github.com/iudanet/screensync/internal/models"
	"github.com/iudanet/screensync/internal/validation"
)

const (
	// DefaultBatchSize максимальное число элементов в одном вызове SyncBatch
	DefaultBatchSize = 50
	// DefaultBatchTimeout общий дедлайн одного вызова SyncBatch
	DefaultBatchTimeout = 5 * time.Minute
	// DefaultPageSize размер страницы при загрузке удаленных изменений
	DefaultPageSize = 100

	conflictBuffer = 16
)

// Repository is the sync orchestrator. It is safe for concurrent use; only
// one SyncCycle runs at a time.
type Repository struct {
	ctx          context.Context // ctx живет до Close, от него наследуются watcher-ы
	registry     *backend.Registry
	store        storage.Store
	logger       *slog.Logger
	resolver     Resolver
	locks        *entityLocks
	now          func() time.Time
	cancel       context.CancelFunc
	watchers     map[string]*watcher
	conflictSubs map[int]chan *models.ConflictCase
	wg           sync.WaitGroup
	batchTimeout time.Duration
	batchSize    int
	pageSize     int
	nextSubID    int
	cycleMu      sync.Mutex
	mu           sync.Mutex
}

// Option configures a Repository.
type Option func(*Repository)

// WithBatchSize sets how many items are uploaded per SyncBatch call.
func WithBatchSize(n int) Option {
	return func(r *Repository) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// WithBatchTimeout sets the deadline of one SyncBatch call.
func WithBatchTimeout(d time.Duration) Option {
	return func(r *Repository) {
		if d > 0 {
			r.batchTimeout = d
		}
	}
}

// WithPageSize sets the page size used while pulling remote changes.
func WithPageSize(n int) Option {
	return func(r *Repository) {
		if n > 0 {
			r.pageSize = n
		}
	}
}

// WithResolver sets the policy consulted for every new conflict.
func WithResolver(resolver Resolver) Option {
	return func(r *Repository) {
		if resolver != nil {
			r.resolver = resolver
		}
	}
}

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// NewRepository creates an orchestrator over the given registry and local store.
func NewRepository(registry *backend.Registry, store storage.Store, logger *slog.Logger, opts ...Option) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	r := &Repository{
		ctx:          ctx,
		cancel:       cancel,
		registry:     registry,
		store:        store,
		logger:       logger,
		resolver:     ManualResolver{},
		locks:        newEntityLocks(),
		now:          time.Now,
		watchers:     make(map[string]*watcher),
		conflictSubs: make(map[int]chan *models.ConflictCase),
		batchSize:    DefaultBatchSize,
		batchTimeout: DefaultBatchTimeout,
		pageSize:     DefaultPageSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Save creates or updates an entity locally and queues the change.
func (r *Repository) Save(ctx context.Context, id string, payload []byte) (*models.Entity, error) {
	if err := validation.ValidateEntityID(id); err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrInvalidState, err)
	}
	if err := validation.ValidatePayload(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", backend.ErrInvalidState, err)
	}

	unlock := r.locks.Lock(id)
	defer unlock()

	now := r.now()
	item := &models.SyncItem{
		ID:        uuid.NewString(),
		EntityID:  id,
		CreatedAt: now,
	}

	cached, err := r.store.GetEntity(ctx, id)
	var entity *models.Entity
	switch {
	case errors.Is(err, storage.ErrEntityNotFound):
		entity = &models.Entity{
			ID:        id,
			Version:   1,
			CreatedAt: now,
		}
		item.Operation = models.OperationCreate
	case err != nil:
		return nil, fmt.Errorf("failed to read cached entity: %w", err)
	default:
		entity = cached.Clone()
		entity.Version = cached.Version + 1
		item.Operation = models.OperationUpdate
		item.BaseVersion = cached.Version
	}
	entity.Payload = append([]byte(nil), payload...)
	entity.UpdatedAt = now
	entity.IsActive = true
	item.Entity = entity.Clone()

	if err := r.enqueueLocal(ctx, item, entity); err != nil {
		return nil, err
	}

	r.logger.Debug("Local change queued",
		"entity_id", id,
		"item_id", item.ID,
		"operation", item.Operation,
		"version", entity.Version)

	return entity, nil
}

// Delete soft deletes a cached entity and queues the change.
// Deleting an already inactive entity is a no-op.
func (r *Repository) Delete(ctx context.Context, id string) error {
	unlock := r.locks.Lock(id)
	defer unlock()

	cached, err := r.store.GetEntity(ctx, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if !cached.IsActive {
		return nil
	}

	now := r.now()
	entity := cached.Clone()
	entity.Version = cached.Version + 1
	entity.IsActive = false
	entity.UpdatedAt = now

	item := &models.SyncItem{
		ID:          uuid.NewString(),
		EntityID:    id,
		Operation:   models.OperationDelete,
		BaseVersion: cached.Version,
		CreatedAt:   now,
	}

	if err := r.enqueueLocal(ctx, item, entity); err != nil {
		return err
	}

	r.logger.Debug("Local delete queued", "entity_id", id, "item_id", item.ID)
	return nil
}

// enqueueLocal ставит элемент в очередь, затем обновляет кэш. Порядок важен:
// при сбое между шагами изменение не теряется, а кэш догонит pull.
// Вызывается под блокировкой сущности.
func (r *Repository) enqueueLocal(ctx context.Context, item *models.SyncItem, entity *models.Entity) error {
	// Пока по сущности открыт конфликт, новые изменения удерживаются вместе с ним
	open, err := r.openConflictFor(ctx, item.EntityID)
	if err != nil {
		return err
	}
	if open != nil {
		item.ConflictID = open.ID
	}

	if err := r.store.Enqueue(ctx, item); err != nil {
		return fmt.Errorf("failed to enqueue change: %w", err)
	}
	if err := r.store.SaveEntity(ctx, entity); err != nil {
		return fmt.Errorf("failed to update local cache: %w", err)
	}
	return nil
}

// Get returns the cached entity.
func (r *Repository) Get(ctx context.Context, id string) (*models.Entity, error) {
	return r.store.GetEntity(ctx, id)
}

// List returns cached entities ordered by ID.
func (r *Repository) List(ctx context.Context, includeInactive bool) ([]*models.Entity, error) {
	return r.store.ListEntities(ctx, includeInactive)
}

// PendingItems returns the local queue in creation order.
func (r *Repository) PendingItems(ctx context.Context) ([]*models.SyncItem, error) {
	return r.store.ListItems(ctx)
}

// PendingCount returns the queue size. It reads a counter from local storage
// and never talks to the backend.
func (r *Repository) PendingCount(ctx context.Context) (int, error) {
	n, err := r.store.CountItems(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count pending items: %w", err)
	}
	return n, nil
}

// LastSyncAt returns the time of the last successful cycle or nil.
func (r *Repository) LastSyncAt(ctx context.Context) (*time.Time, error) {
	at, err := r.store.GetLastSyncAt(ctx)
	if err != nil {
		return nil, err
	}
	if at.IsZero() {
		return nil, nil
	}
	return &at, nil
}

// OpenConflicts returns unresolved conflict cases, oldest first.
func (r *Repository) OpenConflicts(ctx context.Context) ([]*models.ConflictCase, error) {
	return r.store.ListConflicts(ctx)
}

// Conflicts subscribes to newly detected conflict cases. The returned function
// cancels the subscription. Cases are dropped for a subscriber that does not
// keep up; OpenConflicts always has the full set.
func (r *Repository) Conflicts() (<-chan *models.ConflictCase, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextSubID
	r.nextSubID++
	ch := make(chan *models.ConflictCase, conflictBuffer)
	r.conflictSubs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			defer r.mu.Unlock()
			if sub, ok := r.conflictSubs[id]; ok {
				delete(r.conflictSubs, id)
				close(sub)
			}
		})
	}
}

func (r *Repository) publishConflict(c *models.ConflictCase) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ch := range r.conflictSubs {
		select {
		case ch <- c:
		default:
			r.logger.Warn("Conflict subscriber is not keeping up, dropping notification",
				"conflict_id", c.ID,
				"entity_id", c.EntityID)
		}
	}
}

// Close stops realtime watchers and closes conflict subscriptions.
func (r *Repository) Close() error {
	r.cancel()
	r.wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ch := range r.conflictSubs {
		close(ch)
		delete(r.conflictSubs, id)
	}
	r.watchers = make(map[string]*watcher)
	return nil
}

func (r *Repository) openConflictFor(ctx context.Context, entityID string) (*models.ConflictCase, error) {
	conflicts, err := r.store.ListConflicts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}
	for _, c := range conflicts {
		if c.EntityID == entityID {
			return c, nil
		}
	}
	return nil, nil
}

package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/backend/memory"
	"github.com/iudanet/screensync/internal/client/storage"
	"github.com/iudanet/screensync/internal/client/storage/boltdb"
	"github.com/iudanet/screensync/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRepository создает репозиторий поверх временного bbolt файла
func newTestRepository(t *testing.T, port backend.Port, opts ...Option) (*Repository, *boltdb.Storage) {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)

	registry := backend.NewRegistry(testLogger())
	if port != nil {
		registry.Register(port)
	}

	repo := NewRepository(registry, store, testLogger(), opts...)
	t.Cleanup(func() {
		require.NoError(t, repo.Close())
		require.NoError(t, store.Close())
	})
	return repo, store
}

func connectedBackend(t *testing.T) *memory.Backend {
	t.Helper()
	b := memory.New(testLogger())
	require.NoError(t, b.Connect(context.Background()))
	return b
}

func TestSave_CreateThenUpdate(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepository(t, nil)

	created, err := repo.Save(ctx, "A", []byte("v1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)

	updated, err := repo.Save(ctx, "A", []byte("v2"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.OperationCreate, items[0].Operation)
	assert.Equal(t, int64(0), items[0].BaseVersion)
	assert.Equal(t, models.OperationUpdate, items[1].Operation)
	assert.Equal(t, int64(1), items[1].BaseVersion)
	assert.Equal(t, "v2", string(items[1].Entity.Payload))

	cached, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(cached.Payload))
}

func TestSave_InvalidInput(t *testing.T) {
	repo, _ := newTestRepository(t, nil)

	_, err := repo.Save(context.Background(), "bad id", []byte("x"))
	assert.ErrorIs(t, err, backend.ErrInvalidState)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	repo, store := newTestRepository(t, nil)

	err := repo.Delete(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrEntityNotFound)

	require.NoError(t, store.SaveEntity(ctx, &models.Entity{ID: "A", Version: 4, IsActive: true}))
	require.NoError(t, repo.Delete(ctx, "A"))
	// Повторное удаление ничего не добавляет в очередь
	require.NoError(t, repo.Delete(ctx, "A"))

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, models.OperationDelete, items[0].Operation)
	assert.Nil(t, items[0].Entity)
	assert.Equal(t, int64(4), items[0].BaseVersion)

	cached, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.False(t, cached.IsActive)
	assert.Equal(t, int64(5), cached.Version)
}

func TestPendingCount_NeverTouchesBackend(t *testing.T) {
	ctx := context.Background()
	// Мок без настроенных функций: любой вызов бэкенда приведет к панике
	port := &backend.PortMock{}
	repo, store := newTestRepository(t, port)

	const creates, deletes = 5, 3
	for i := range creates {
		_, err := repo.Save(ctx, fmt.Sprintf("new-%d", i), []byte("x"))
		require.NoError(t, err)
	}
	for i := range deletes {
		id := fmt.Sprintf("old-%d", i)
		require.NoError(t, store.SaveEntity(ctx, &models.Entity{ID: id, Version: 1, IsActive: true}))
		require.NoError(t, repo.Delete(ctx, id))
	}

	count, err := repo.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, creates+deletes, count)

	assert.Empty(t, port.IsConnectedCalls())
	assert.Empty(t, port.SyncBatchCalls())
	assert.Empty(t, port.FetchEntitiesCalls())
	assert.Empty(t, port.PendingItemsCalls())
}

func TestPendingCount_AfterSync(t *testing.T) {
	ctx := context.Background()
	b := connectedBackend(t)
	repo, _ := newTestRepository(t, b)

	for i := range 4 {
		_, err := repo.Save(ctx, fmt.Sprintf("e%d", i), []byte("x"))
		require.NoError(t, err)
	}
	b.FailEntity("e3", backend.ErrNetwork)

	_, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)

	count, err := repo.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSyncCycle_NotRegistered(t *testing.T) {
	repo, _ := newTestRepository(t, nil)

	_, err := repo.SyncCycle(context.Background(), nil)
	assert.ErrorIs(t, err, backend.ErrNotRegistered)
}

func TestSyncCycle_Offline(t *testing.T) {
	ctx := context.Background()
	b := memory.New(testLogger()) // не подключен
	repo, _ := newTestRepository(t, b)

	_, err := repo.Save(ctx, "A", []byte("draft"))
	require.NoError(t, err)

	result, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	assert.True(t, result.Offline)
	assert.Zero(t, result.Synced)
	assert.Zero(t, result.Failed)
	assert.Equal(t, 1, result.Pending)
	assert.Nil(t, b.Entity("A"))
}

func TestSyncCycle_EmptyQueueMakesNoBackendCall(t *testing.T) {
	port := &backend.PortMock{
		IsConnectedFunc: func() bool { return true },
	}
	repo, _ := newTestRepository(t, port)

	result, err := repo.SyncCycle(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, result.Synced)
	assert.Zero(t, result.Failed)
	assert.Empty(t, port.SyncBatchCalls())
	assert.Empty(t, port.FetchEntitiesCalls())
}

func TestSyncCycle_UploadsAndIsIdempotent(t *testing.T) {
	ctx := context.Background()
	b := connectedBackend(t)
	repo, _ := newTestRepository(t, b, WithBatchSize(2))

	_, err := repo.Save(ctx, "A", []byte("a1"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, "A", []byte("a2"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, "B", []byte("b1"))
	require.NoError(t, err)

	var progress [][2]int
	result, err := repo.SyncCycle(ctx, func(synced, total int) {
		progress = append(progress, [2]int{synced, total})
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Synced)
	assert.Zero(t, result.Failed)
	assert.Zero(t, result.Pending)
	assert.Equal(t, [][2]int{{2, 3}, {3, 3}}, progress)

	remote := b.Entity("A")
	require.NotNil(t, remote)
	assert.Equal(t, int64(2), remote.Version)
	assert.Equal(t, "a2", string(remote.Payload))

	// Второй цикл без новых изменений ничего не загружает
	result, err = repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, result.Synced)

	last, err := repo.LastSyncAt(ctx)
	require.NoError(t, err)
	assert.NotNil(t, last)
}

func TestSyncCycle_ItemFailureKeepsItemQueued(t *testing.T) {
	ctx := context.Background()
	b := connectedBackend(t)
	repo, store := newTestRepository(t, b)

	_, err := repo.Save(ctx, "A", []byte("a"))
	require.NoError(t, err)
	_, err = repo.Save(ctx, "B", []byte("b"))
	require.NoError(t, err)
	b.FailEntity("A", backend.ErrNetwork)

	result, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "A", result.Errors[0].EntityID)
	assert.ErrorIs(t, result.Errors[0].Cause, backend.ErrNetwork)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].RetryCount)
	assert.False(t, items[0].IsSyncing)
	assert.Contains(t, items[0].LastError, "network")

	// После восстановления элемент уходит со следующим циклом
	b.FailEntity("A", nil)
	result, err = repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
}

func TestSyncCycle_WholeBatchFailure(t *testing.T) {
	ctx := context.Background()
	b := connectedBackend(t)
	repo, store := newTestRepository(t, b)

	_, err := repo.Save(ctx, "A", []byte("a"))
	require.NoError(t, err)
	b.FailBatches(backend.ErrNetwork)

	_, err = repo.SyncCycle(ctx, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.ErrNetwork)
	assert.True(t, backend.IsRetryable(err))

	item, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, item, 1)
	assert.Equal(t, 1, item[0].RetryCount)
	assert.False(t, item[0].IsSyncing)
}

func TestSyncCycle_BatchDeadline(t *testing.T) {
	ctx := context.Background()
	port := &backend.PortMock{
		IsConnectedFunc: func() bool { return true },
		SyncBatchFunc: func(ctx context.Context, items []*models.SyncItem) (*models.SyncResult, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	repo, _ := newTestRepository(t, port, WithBatchTimeout(20*time.Millisecond))

	_, err := repo.Save(ctx, "A", []byte("a"))
	require.NoError(t, err)

	_, err = repo.SyncCycle(ctx, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, backend.ErrTimeout)
	assert.True(t, backend.IsRetryable(err))
}

func TestSyncCycle_PauseBetweenChunks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := connectedBackend(t)
	repo, store := newTestRepository(t, b, WithBatchSize(1))

	for _, id := range []string{"A", "B", "C"} {
		_, err := repo.Save(ctx, id, []byte(id))
		require.NoError(t, err)
	}

	_, err := repo.SyncCycle(ctx, func(synced, total int) {
		// Пауза после первого чанка
		cancel()
	})
	require.ErrorIs(t, err, context.Canceled)

	count, err := store.CountItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NotNil(t, b.Entity("A"))
	assert.Nil(t, b.Entity("B"))
}

// conflictSetup готовит сущность A: локальная версия 2, удаленная версия 3
func conflictSetup(t *testing.T, opts ...Option) (*Repository, *boltdb.Storage, *memory.Backend) {
	t.Helper()
	ctx := context.Background()
	b := connectedBackend(t)
	repo, store := newTestRepository(t, b, opts...)

	b.Put(&models.Entity{ID: "A", Payload: []byte("remote-1"), IsActive: true})
	require.NoError(t, store.SaveEntity(ctx, b.Entity("A")))
	b.Put(&models.Entity{ID: "A", Payload: []byte("remote-2"), IsActive: true})
	b.Put(&models.Entity{ID: "A", Payload: []byte("remote-3"), IsActive: true})

	_, err := repo.Save(ctx, "A", []byte("local-2"))
	require.NoError(t, err)
	return repo, store, b
}

func TestSyncCycle_ConflictDetected(t *testing.T) {
	ctx := context.Background()
	repo, store, _ := conflictSetup(t)

	conflicts, stop := repo.Conflicts()
	defer stop()

	result, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Conflicts)
	assert.Zero(t, result.Failed)
	assert.Empty(t, result.Errors)

	open, err := repo.OpenConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, int64(2), open[0].Local.Version)
	assert.Equal(t, int64(3), open[0].Remote.Version)
	assert.Equal(t, "A", open[0].EntityID)

	select {
	case c := <-conflicts:
		assert.Equal(t, open[0].ID, c.ID)
	case <-time.After(time.Second):
		t.Fatal("conflict not published")
	}

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, open[0].ID, items[0].ConflictID)

	// Удерживаемый элемент не загружается повторно, новые правки тоже удерживаются
	_, err = repo.Save(ctx, "A", []byte("local-3"))
	require.NoError(t, err)
	result, err = repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, result.Synced)
	assert.Zero(t, result.Conflicts)

	items, err = store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, open[0].ID, items[1].ConflictID)

	// Pull не перезаписывает локальную правку
	cached, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "local-3", string(cached.Payload))
}

func TestSyncCycle_IdenticalRemoteIsNotAConflict(t *testing.T) {
	ctx := context.Background()
	var uploaded *models.SyncItem
	port := &backend.PortMock{
		IsConnectedFunc: func() bool { return true },
		SyncBatchFunc: func(ctx context.Context, items []*models.SyncItem) (*models.SyncResult, error) {
			uploaded = items[0]
			// Бэкенд уже хранит ровно эту версию (например, потерял запись в журнале)
			cause := &backend.ConflictError{Local: items[0].Entity, Remote: items[0].Entity.Clone()}
			return &models.SyncResult{Errors: []models.ItemError{{
				ItemID: items[0].ID, EntityID: items[0].EntityID, Message: cause.Error(), Cause: cause,
			}}}, nil
		},
		FetchEntitiesFunc: func(ctx context.Context, limit, offset int) ([]*models.Entity, error) {
			return nil, nil
		},
	}
	repo, _ := newTestRepository(t, port)

	_, err := repo.Save(ctx, "A", []byte("same"))
	require.NoError(t, err)

	result, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	require.NotNil(t, uploaded)
	assert.Equal(t, 1, result.Synced)
	assert.Zero(t, result.Conflicts)

	open, err := repo.OpenConflicts(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestResolveConflict_UseRemote(t *testing.T) {
	ctx := context.Background()
	repo, store, b := conflictSetup(t)

	_, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	open, err := repo.OpenConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)

	require.NoError(t, repo.ResolveConflict(ctx, open[0].ID, models.UseRemote()))

	cached, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	remote := b.Entity("A")
	assert.Equal(t, remote.Payload, cached.Payload)
	assert.Equal(t, remote.Version, cached.Version)
	assert.Equal(t, remote.Checksum(), cached.Checksum())

	count, err := store.CountItems(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	open, err = repo.OpenConflicts(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestResolveConflict_Abort(t *testing.T) {
	ctx := context.Background()
	repo, store, b := conflictSetup(t)

	_, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	open, err := repo.OpenConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)

	before, err := repo.Get(ctx, "A")
	require.NoError(t, err)

	require.NoError(t, repo.ResolveConflict(ctx, open[0].ID, models.Abort()))

	after, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	count, err := store.CountItems(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Удаленная версия не тронута
	assert.Equal(t, "remote-3", string(b.Entity("A").Payload))
}

func TestResolveConflict_Merge(t *testing.T) {
	ctx := context.Background()
	repo, store, b := conflictSetup(t)

	_, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	open, err := repo.OpenConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)

	merged := []byte("local-2+remote-3")
	require.NoError(t, repo.ResolveConflict(ctx, open[0].ID, models.MergeWith(merged)))

	cached, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, merged, cached.Payload)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Zero(t, items[0].RetryCount)
	assert.False(t, items[0].Held())
	assert.Equal(t, int64(3), items[0].BaseVersion)

	result, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, merged, b.Entity("A").Payload)
	assert.Equal(t, int64(4), b.Entity("A").Version)
}

func TestResolveConflict_UseLocal(t *testing.T) {
	ctx := context.Background()
	repo, store, b := conflictSetup(t)

	_, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	open, err := repo.OpenConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)

	require.NoError(t, repo.ResolveConflict(ctx, open[0].ID, models.UseLocal()))

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Zero(t, items[0].RetryCount)
	assert.NotEqual(t, open[0].ItemID, items[0].ID)

	result, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, "local-2", string(b.Entity("A").Payload))
}

func TestResolveConflict_RequiresUserInputKeepsCase(t *testing.T) {
	ctx := context.Background()
	repo, store, _ := conflictSetup(t)

	_, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	open, err := repo.OpenConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)

	require.NoError(t, repo.ResolveConflict(ctx, open[0].ID, models.RequiresUserInput()))

	still, err := repo.OpenConflicts(ctx)
	require.NoError(t, err)
	assert.Len(t, still, 1)

	count, err := store.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestResolveConflict_Errors(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t, nil)

	err := repo.ResolveConflict(ctx, "missing", models.UseLocal())
	assert.ErrorIs(t, err, backend.ErrNotFound)

	err = repo.ResolveConflict(ctx, "missing", models.Resolution{Kind: models.ResolutionMerge})
	assert.ErrorIs(t, err, backend.ErrInvalidState)
}

func TestSyncCycle_LastWriteWinsResolver(t *testing.T) {
	ctx := context.Background()
	repo, store, _ := conflictSetup(t, WithResolver(LastWriteWinsResolver{}))

	result, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Conflicts)

	// Локальная правка сделана позже удаленной: конфликт закрыт автоматически
	open, err := repo.OpenConflicts(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.False(t, items[0].Held())
}

func TestSyncCycle_PullRespectsPendingEdits(t *testing.T) {
	ctx := context.Background()
	b := connectedBackend(t)
	repo, _ := newTestRepository(t, b)

	b.Put(&models.Entity{ID: "B", Payload: []byte("remote-b"), IsActive: true})

	_, err := repo.Save(ctx, "A", []byte("local-a"))
	require.NoError(t, err)
	b.FailEntity("A", backend.ErrNetwork)
	b.Put(&models.Entity{ID: "A", Payload: []byte("remote-a"), IsActive: true})

	result, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pulled)

	gotB, err := repo.Get(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, "remote-b", string(gotB.Payload))

	gotA, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "local-a", string(gotA.Payload))
}

func TestPull_FallsBackToPaging(t *testing.T) {
	ctx := context.Background()
	remote := []*models.Entity{
		{ID: "a", Version: 1, IsActive: true},
		{ID: "b", Version: 1, IsActive: true},
		{ID: "c", Version: 1, IsActive: true},
	}
	port := &backend.PortMock{
		IsConnectedFunc: func() bool { return true },
		FetchEntitiesFunc: func(ctx context.Context, limit, offset int) ([]*models.Entity, error) {
			if offset >= len(remote) {
				return nil, nil
			}
			return remote[offset:min(offset+limit, len(remote))], nil
		},
	}
	repo, _ := newTestRepository(t, port, WithPageSize(2))

	merged, err := repo.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, merged)
	assert.Len(t, port.FetchEntitiesCalls(), 2)

	list, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestWatch_MergesRealtimeEvents(t *testing.T) {
	ctx := context.Background()
	b := connectedBackend(t)
	repo, _ := newTestRepository(t, b)

	require.NoError(t, repo.Watch(ctx, "A"))
	require.NoError(t, repo.Watch(ctx, "A"))

	b.Put(&models.Entity{ID: "A", Payload: []byte("pushed"), IsActive: true})

	require.Eventually(t, func() bool {
		got, err := repo.Get(ctx, "A")
		return err == nil && string(got.Payload) == "pushed"
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, repo.Unwatch(ctx, "A"))
	require.NoError(t, repo.Unwatch(ctx, "A"))
}

func TestReconcile_ClearsStaleSyncingFlags(t *testing.T) {
	ctx := context.Background()
	b := connectedBackend(t)
	repo, store := newTestRepository(t, b)

	_, err := repo.Save(ctx, "A", []byte("a"))
	require.NoError(t, err)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	items[0].IsSyncing = true
	require.NoError(t, store.UpdateItem(ctx, items[0]))

	// Элемент с зависшим флагом не загружается
	result, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, result.Synced)

	released, err := repo.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, released)

	result, err = repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
}

func TestResolverByName(t *testing.T) {
	for _, name := range []string{"", "manual", "backend", "lww", "last-write-wins"} {
		_, ok := ResolverByName(name)
		assert.True(t, ok, name)
	}
	_, ok := ResolverByName("coin-flip")
	assert.False(t, ok)
}

func TestBackendHintResolver(t *testing.T) {
	port := &backend.PortMock{
		ResolveConflictFunc: func(ctx context.Context, conflict *models.ConflictCase) (models.Resolution, error) {
			return models.Resolution{Kind: "bogus"}, nil
		},
	}
	res, err := BackendHintResolver{}.Resolve(context.Background(), port, &models.ConflictCase{ID: "c"})
	require.NoError(t, err)
	assert.Equal(t, models.ResolutionRequiresUserInput, res.Kind)

	port.ResolveConflictFunc = func(ctx context.Context, conflict *models.ConflictCase) (models.Resolution, error) {
		return models.Resolution{}, backend.ErrNetwork
	}
	_, err = BackendHintResolver{}.Resolve(context.Background(), port, &models.ConflictCase{ID: "c"})
	assert.True(t, errors.Is(err, backend.ErrNetwork))
}

func TestSyncCycle_OneItemPerEntityOperationInFlight(t *testing.T) {
	ctx := context.Background()
	var store *boltdb.Storage
	var batches [][]models.Operation
	maxInFlight := 0

	port := &backend.PortMock{
		IsConnectedFunc: func() bool { return true },
		SyncBatchFunc: func(ctx context.Context, items []*models.SyncItem) (*models.SyncResult, error) {
			queued, err := store.ListItems(ctx)
			if err != nil {
				return nil, err
			}
			inFlight := make(map[string]int)
			for _, item := range queued {
				if !item.IsSyncing {
					continue
				}
				key := item.EntityID + "/" + string(item.Operation)
				inFlight[key]++
				maxInFlight = max(maxInFlight, inFlight[key])
			}

			ops := make([]models.Operation, 0, len(items))
			for _, item := range items {
				ops = append(ops, item.Operation)
			}
			batches = append(batches, ops)
			return &models.SyncResult{}, nil
		},
		FetchEntitiesFunc: func(ctx context.Context, limit, offset int) ([]*models.Entity, error) {
			return nil, nil
		},
	}
	repo, s := newTestRepository(t, port)
	store = s

	for _, payload := range []string{"v1", "v2", "v3"} {
		_, err := repo.Save(ctx, "A", []byte(payload))
		require.NoError(t, err)
	}
	_, err := repo.Save(ctx, "B", []byte("b1"))
	require.NoError(t, err)

	// Второе обновление A ждет следующего цикла
	result, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Synced)
	assert.Equal(t, 1, result.Pending)

	result, err = repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Zero(t, result.Pending)

	assert.Equal(t, 1, maxInFlight)
	assert.Equal(t, [][]models.Operation{
		{models.OperationCreate, models.OperationUpdate, models.OperationCreate},
		{models.OperationUpdate},
	}, batches)
}

func TestSyncCycle_AbortedEntityConvergesToRemote(t *testing.T) {
	ctx := context.Background()
	repo, store, b := conflictSetup(t)

	_, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	open, err := repo.OpenConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)

	// Курсор ленты ушел дальше, удаленная версия A запомнена как отложенная
	deferred, err := store.DeferredEntities(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, deferred)

	before, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	require.NoError(t, repo.ResolveConflict(ctx, open[0].ID, models.Abort()))

	after, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, before, after)

	result, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Pulled)

	cached, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	remote := b.Entity("A")
	assert.Equal(t, "remote-3", string(cached.Payload))
	assert.Equal(t, remote.Version, cached.Version)

	deferred, err = store.DeferredEntities(ctx)
	require.NoError(t, err)
	assert.Empty(t, deferred)

	// Без отложенных сущностей пустой цикл снова ничего не делает
	result, err = repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, result.Pulled)
}

func TestResolveConflict_UseRemoteCatchesUpWithLaterRemoteWrites(t *testing.T) {
	ctx := context.Background()
	repo, _, b := conflictSetup(t)

	_, err := repo.SyncCycle(ctx, nil)
	require.NoError(t, err)
	open, err := repo.OpenConflicts(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)

	// Пока конфликт открыт, бэкенд получает еще одну версию
	b.Put(&models.Entity{ID: "A", Payload: []byte("remote-4"), IsActive: true})
	_, err = repo.SyncCycle(ctx, nil)
	require.NoError(t, err)

	require.NoError(t, repo.ResolveConflict(ctx, open[0].ID, models.UseRemote()))
	cached, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "remote-3", string(cached.Payload))

	merged, err := repo.Pull(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, merged)

	cached, err = repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "remote-4", string(cached.Payload))
	assert.Equal(t, int64(4), cached.Version)
}

func TestPull_DeferredEntityMissingOnBackend(t *testing.T) {
	ctx := context.Background()
	port := &backend.PortMock{
		IsConnectedFunc: func() bool { return true },
		FetchEntitiesFunc: func(ctx context.Context, limit, offset int) ([]*models.Entity, error) {
			return nil, nil
		},
		FetchEntityFunc: func(ctx context.Context, id string) (*models.Entity, error) {
			return nil, backend.Wrap("fetch entity", backend.ErrNotFound)
		},
	}
	repo, store := newTestRepository(t, port)
	require.NoError(t, store.DeferEntity(ctx, "gone"))

	merged, err := repo.Pull(ctx)
	require.NoError(t, err)
	assert.Zero(t, merged)

	deferred, err := store.DeferredEntities(ctx)
	require.NoError(t, err)
	assert.Empty(t, deferred)
}

func TestWatch_EventDuringUploadKeepsLocalEdit(t *testing.T) {
	ctx := context.Background()
	events := make(chan models.RealtimeEvent[*models.Entity], 1)
	inBatch := make(chan struct{})
	release := make(chan struct{})
	remoteEdit := &models.Entity{ID: "A", Version: 7, Payload: []byte("remote-edit"), IsActive: true}

	port := &backend.PortMock{
		IsConnectedFunc: func() bool { return true },
		SubscribeFunc: func(ctx context.Context, entityID string) (<-chan models.RealtimeEvent[*models.Entity], error) {
			return events, nil
		},
		SyncBatchFunc: func(ctx context.Context, items []*models.SyncItem) (*models.SyncResult, error) {
			close(inBatch)
			<-release
			return &models.SyncResult{}, nil
		},
		FetchEntitiesFunc: func(ctx context.Context, limit, offset int) ([]*models.Entity, error) {
			return nil, nil
		},
		FetchEntityFunc: func(ctx context.Context, id string) (*models.Entity, error) {
			return remoteEdit.Clone(), nil
		},
	}
	repo, store := newTestRepository(t, port)

	_, err := repo.Save(ctx, "A", []byte("local"))
	require.NoError(t, err)
	require.NoError(t, repo.Watch(ctx, "A"))

	type outcome struct {
		result *models.SyncResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := repo.SyncCycle(ctx, nil)
		done <- outcome{result: result, err: err}
	}()

	select {
	case <-inBatch:
	case <-time.After(2 * time.Second):
		t.Fatal("upload did not start")
	}
	events <- models.RealtimeEvent[*models.Entity]{
		Kind:      models.EventUpdate,
		Payload:   remoteEdit.Clone(),
		Timestamp: time.Now(),
	}

	// Событие обработано во время загрузки, но неподтвержденная правка осталась в кэше
	require.Eventually(t, func() bool {
		ids, err := store.DeferredEntities(ctx)
		return err == nil && len(ids) == 1
	}, 2*time.Second, 10*time.Millisecond)
	cached, err := repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "local", string(cached.Payload))

	close(release)
	var out outcome
	select {
	case out = <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("sync cycle did not finish")
	}
	require.NoError(t, out.err)
	assert.Equal(t, 1, out.result.Synced)
	assert.Equal(t, 1, out.result.Pulled)

	// После подтверждения загрузки отложенное изменение применяется
	cached, err = repo.Get(ctx, "A")
	require.NoError(t, err)
	assert.Equal(t, "remote-edit", string(cached.Payload))
	assert.Equal(t, int64(7), cached.Version)
}

func TestWatch_ClosedStreamCancelsSubscription(t *testing.T) {
	ctx := context.Background()
	subscribed := make(chan context.Context, 2)
	streams := make(chan chan models.RealtimeEvent[*models.Entity], 2)

	port := &backend.PortMock{
		SubscribeFunc: func(ctx context.Context, entityID string) (<-chan models.RealtimeEvent[*models.Entity], error) {
			events := make(chan models.RealtimeEvent[*models.Entity])
			subscribed <- ctx
			streams <- events
			return events, nil
		},
	}
	repo, _ := newTestRepository(t, port)

	require.NoError(t, repo.Watch(ctx, "A"))
	watchCtx := <-subscribed
	close(<-streams)

	require.Eventually(t, func() bool {
		return watchCtx.Err() != nil
	}, 2*time.Second, 10*time.Millisecond)

	// Закрытый поток освобождает сущность для новой подписки
	require.NoError(t, repo.Watch(ctx, "A"))
	assert.Len(t, port.SubscribeCalls(), 2)
	assert.NoError(t, (<-subscribed).Err())
}

package syncstate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/client/connectivity"
	"github.com/iudanet/screensync/internal/models"
)

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastBackoff() retry.Backoff {
	return retry.NewConstant(time.Millisecond)
}

// startMachine запускает машину и останавливает ее в конце теста
func startMachine(t *testing.T, syncer Syncer, opts ...Option) *Machine {
	t.Helper()

	defaults := []Option{WithBackoff(fastBackoff), WithCompletedHold(time.Hour)}
	m := NewMachine(syncer, testLogger(), append(defaults, opts...)...)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = m.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return m
}

func waitState[T State](t *testing.T, m *Machine) T {
	t.Helper()
	require.Eventually(t, func() bool {
		_, ok := m.State().(T)
		return ok
	}, waitFor, tick, "state is %s", m.State().Name())
	return m.State().(T)
}

func noConflicts(ctx context.Context) ([]*models.ConflictCase, error) {
	return nil, nil
}

func pendingCount(n int) func(ctx context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		return n, nil
	}
}

// blockingCycle возвращает цикл, который ждет release или отмены контекста
func blockingCycle(release <-chan struct{}) func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
	return func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
		select {
		case <-release:
			return &models.SyncResult{Synced: 1, CompletedAt: time.Now()}, nil
		case <-ctx.Done():
			return nil, fmt.Errorf("sync cycle interrupted: %w", ctx.Err())
		}
	}
}

func TestMachine_InitialState(t *testing.T) {
	m := NewMachine(&SyncerMock{}, testLogger())

	idle, ok := m.State().(Idle)
	require.True(t, ok)
	assert.Nil(t, idle.LastSyncAt)
}

func TestMachine_SuccessfulCycle(t *testing.T) {
	syncedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	syncer := &SyncerMock{
		SyncCycleFunc: func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
			progress(1, 2)
			progress(2, 2)
			return &models.SyncResult{Synced: 2, CompletedAt: syncedAt}, nil
		},
		OpenConflictsFunc: noConflicts,
	}
	m := startMachine(t, syncer, WithCompletedHold(20*time.Millisecond))

	states, cancel := m.Subscribe()
	defer cancel()

	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))

	var seen []State
	timeout := time.After(waitFor)
	for {
		select {
		case s := <-states:
			seen = append(seen, s)
		case <-timeout:
			t.Fatalf("no Idle after Completed, seen %v", seen)
		}
		if idle, ok := seen[len(seen)-1].(Idle); ok && idle.LastSyncAt != nil {
			break
		}
	}

	assert.Contains(t, seen, State(InProgress{}))
	assert.Contains(t, seen, State(InProgress{ItemsSynced: 2, TotalItems: 2}))

	var completed *Completed
	for _, s := range seen {
		if c, ok := s.(Completed); ok {
			completed = &c
		}
	}
	require.NotNil(t, completed)
	assert.Equal(t, 2, completed.ItemsCount)
	assert.Equal(t, syncedAt, completed.SyncedAt)

	idle := m.State().(Idle)
	assert.Equal(t, syncedAt, *idle.LastSyncAt)
	assert.Len(t, syncer.SyncCycleCalls(), 1)
}

func TestMachine_BoundedRetry(t *testing.T) {
	syncer := &SyncerMock{
		SyncCycleFunc: func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
			return nil, backend.Wrap("sync batch", backend.ErrNetwork)
		},
	}
	m := startMachine(t, syncer)

	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))

	require.Eventually(t, func() bool {
		return len(syncer.SyncCycleCalls()) == DefaultMaxAttempts
	}, waitFor, tick)

	failed := waitState[Failed](t, m)
	assert.ErrorIs(t, failed.Err, backend.ErrNetwork)
	assert.NotEmpty(t, failed.Message)

	// После третьей неудачи автоматических повторов больше нет
	assert.Never(t, func() bool {
		return len(syncer.SyncCycleCalls()) > DefaultMaxAttempts
	}, 100*time.Millisecond, tick)
	assert.IsType(t, Failed{}, m.State())

	// Ручной запуск начинает новую серию
	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))
	require.Eventually(t, func() bool {
		return len(syncer.SyncCycleCalls()) == 2*DefaultMaxAttempts
	}, waitFor, tick)
}

func TestMachine_RetryRecovers(t *testing.T) {
	var calls atomic.Int32
	syncer := &SyncerMock{
		SyncCycleFunc: func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
			if calls.Add(1) < 3 {
				return nil, backend.ErrTimeout
			}
			return &models.SyncResult{Synced: 1}, nil
		},
		OpenConflictsFunc: noConflicts,
	}
	m := startMachine(t, syncer)

	require.NoError(t, m.Dispatch(StartSync{IsManual: false}))

	completed := waitState[Completed](t, m)
	assert.Equal(t, 1, completed.ItemsCount)
	assert.Equal(t, int32(3), calls.Load())
}

func TestMachine_RetryDelaysFollowBackoff(t *testing.T) {
	var delays []time.Duration
	var mu sync.Mutex
	recording := func() retry.Backoff {
		next := retry.NewExponential(time.Millisecond)
		return retry.BackoffFunc(func() (time.Duration, bool) {
			d, stop := next.Next()
			mu.Lock()
			delays = append(delays, d)
			mu.Unlock()
			return d, stop
		})
	}
	syncer := &SyncerMock{
		SyncCycleFunc: func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
			return nil, backend.ErrNetwork
		},
	}
	m := startMachine(t, syncer, WithBackoff(recording))

	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))
	require.Eventually(t, func() bool {
		return len(syncer.SyncCycleCalls()) == DefaultMaxAttempts
	}, waitFor, tick)
	waitState[Failed](t, m)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, delays)
}

func TestMachine_FourAttemptsAddThirdRetry(t *testing.T) {
	var delays []time.Duration
	var mu sync.Mutex
	recording := func() retry.Backoff {
		next := retry.NewExponential(time.Millisecond)
		return retry.BackoffFunc(func() (time.Duration, bool) {
			d, stop := next.Next()
			mu.Lock()
			delays = append(delays, d)
			mu.Unlock()
			return d, stop
		})
	}
	syncer := &SyncerMock{
		SyncCycleFunc: func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
			return nil, backend.ErrNetwork
		},
	}
	m := startMachine(t, syncer, WithBackoff(recording), WithMaxAttempts(4))

	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))
	require.Eventually(t, func() bool {
		return len(syncer.SyncCycleCalls()) == 4
	}, waitFor, tick)
	waitState[Failed](t, m)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}, delays)
}

func TestMachine_NonRetryableError(t *testing.T) {
	syncer := &SyncerMock{
		SyncCycleFunc: func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
			return nil, fmt.Errorf("sync cycle: %w", backend.ErrAuthentication)
		},
	}
	m := startMachine(t, syncer)

	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))

	failed := waitState[Failed](t, m)
	assert.ErrorIs(t, failed.Err, backend.ErrAuthentication)
	assert.Never(t, func() bool {
		return len(syncer.SyncCycleCalls()) > 1
	}, 50*time.Millisecond, tick)
}

func TestMachine_SingleCycleInFlight(t *testing.T) {
	var inFlight, maxInFlight atomic.Int32
	release := make(chan struct{})
	wait := blockingCycle(release)

	syncer := &SyncerMock{
		SyncCycleFunc: func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)
			for {
				cur := maxInFlight.Load()
				if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
					break
				}
			}
			return wait(ctx, progress)
		},
		OpenConflictsFunc: noConflicts,
	}
	m := startMachine(t, syncer)

	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))
	require.Eventually(t, func() bool {
		return inFlight.Load() == 1
	}, waitFor, tick)

	// Pause/Resume до того, как прерванный цикл вернулся, плюс лишние StartSync
	var wg sync.WaitGroup
	for range 3 {
		require.NoError(t, m.Dispatch(Pause{}))
		require.NoError(t, m.Dispatch(Resume{}))
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 5 {
				_ = m.Dispatch(StartSync{IsManual: true})
			}
		}()
	}
	wg.Wait()

	close(release)
	waitState[Completed](t, m)

	assert.Equal(t, int32(1), maxInFlight.Load())
	assert.Equal(t, int32(0), inFlight.Load())
}

func TestMachine_StartSyncIgnoredWhileInProgress(t *testing.T) {
	release := make(chan struct{})
	syncer := &SyncerMock{
		SyncCycleFunc:     blockingCycle(release),
		OpenConflictsFunc: noConflicts,
	}
	m := startMachine(t, syncer)

	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))
	waitState[InProgress](t, m)
	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))
	require.NoError(t, m.Dispatch(StartSync{IsManual: false}))

	close(release)
	waitState[Completed](t, m)
	assert.Len(t, syncer.SyncCycleCalls(), 1)
}

func TestMachine_PauseResume(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	syncer := &SyncerMock{
		SyncCycleFunc: func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
			if calls.Add(1) == 1 {
				progress(3, 10)
				<-ctx.Done()
				return nil, ctx.Err()
			}
			<-release
			return &models.SyncResult{Synced: 7}, nil
		},
		OpenConflictsFunc: noConflicts,
	}
	m := startMachine(t, syncer)

	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))
	require.Eventually(t, func() bool {
		p, ok := m.State().(InProgress)
		return ok && p.ItemsSynced == 3
	}, waitFor, tick)

	require.NoError(t, m.Dispatch(Pause{}))
	paused := waitState[Paused](t, m)
	assert.Equal(t, 3, paused.ItemsSynced)

	// Прерванный цикл не переводит машину в Failed
	assert.Never(t, func() bool {
		_, ok := m.State().(Failed)
		return ok
	}, 50*time.Millisecond, tick)

	// StartSync в паузе игнорируется
	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))
	require.NoError(t, m.Dispatch(Resume{}))
	waitState[InProgress](t, m)

	close(release)
	completed := waitState[Completed](t, m)
	assert.Equal(t, 7, completed.ItemsCount)
	assert.Equal(t, int32(2), calls.Load())
}

func TestMachine_OfflineScenario(t *testing.T) {
	t.Run("connectivity signal offline", func(t *testing.T) {
		syncer := &SyncerMock{
			SyncCycleFunc: func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
				return &models.SyncResult{}, nil
			},
			PendingCountFunc: pendingCount(1),
		}
		m := startMachine(t, syncer, WithConnectivity(connectivity.NewManual(false)))

		require.NoError(t, m.Dispatch(StartSync{IsManual: true}))

		offline := waitState[Offline](t, m)
		assert.Equal(t, 1, offline.PendingItems)
		assert.Empty(t, syncer.SyncCycleCalls())
	})

	t.Run("cycle reports backend disconnected", func(t *testing.T) {
		syncer := &SyncerMock{
			SyncCycleFunc: func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
				return &models.SyncResult{Offline: true, Pending: 1}, nil
			},
		}
		m := startMachine(t, syncer)

		require.NoError(t, m.Dispatch(StartSync{IsManual: true}))

		offline := waitState[Offline](t, m)
		assert.Equal(t, 1, offline.PendingItems)
		assert.Never(t, func() bool {
			_, ok := m.State().(Failed)
			return ok
		}, 50*time.Millisecond, tick)
	})
}

func TestMachine_ConnectivityChanges(t *testing.T) {
	var calls atomic.Int32
	syncer := &SyncerMock{
		SyncCycleFunc: func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
			if calls.Add(1) == 1 {
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return &models.SyncResult{Synced: 2}, nil
		},
		PendingCountFunc:  pendingCount(2),
		OpenConflictsFunc: noConflicts,
	}
	signal := connectivity.NewManual(true)
	m := startMachine(t, syncer, WithConnectivity(signal))

	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))
	waitState[InProgress](t, m)
	require.Eventually(t, func() bool {
		return calls.Load() == 1
	}, waitFor, tick)

	signal.Set(false)
	offline := waitState[Offline](t, m)
	assert.Equal(t, 2, offline.PendingItems)

	signal.Set(true)
	completed := waitState[Completed](t, m)
	assert.Equal(t, 2, completed.ItemsCount)
	assert.Equal(t, int32(2), calls.Load())
}

func TestMachine_ConflictFlow(t *testing.T) {
	conflict := &models.ConflictCase{
		ID:       "c1",
		EntityID: "A",
		Local:    &models.Entity{ID: "A", Version: 3, Payload: []byte("local")},
		Remote:   &models.Entity{ID: "A", Version: 3, Payload: []byte("remote")},
	}

	var mu sync.Mutex
	open := []*models.ConflictCase{conflict}
	syncer := &SyncerMock{
		SyncCycleFunc: func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
			return &models.SyncResult{Conflicts: 1}, nil
		},
		OpenConflictsFunc: func(ctx context.Context) ([]*models.ConflictCase, error) {
			mu.Lock()
			defer mu.Unlock()
			return open, nil
		},
		ResolveConflictFunc: func(ctx context.Context, conflictID string, resolution models.Resolution) error {
			if conflictID != "c1" {
				return backend.ErrNotFound
			}
			mu.Lock()
			defer mu.Unlock()
			open = nil
			return nil
		},
		PendingCountFunc: pendingCount(0),
	}
	m := startMachine(t, syncer)

	// Вне состояния Conflict решать нечего
	assert.ErrorIs(t, m.Resolve(context.Background(), "c1", models.UseRemote()), ErrNoConflict)

	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))
	state := waitState[Conflict](t, m)
	assert.Equal(t, "c1", state.ConflictID)
	assert.Equal(t, conflict.Local, state.Local)
	assert.Equal(t, conflict.Remote, state.Remote)

	// Новый цикл не запускается, пока конфликт открыт
	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))

	err := m.Resolve(context.Background(), "missing", models.UseRemote())
	assert.ErrorIs(t, err, backend.ErrNotFound)
	assert.IsType(t, Conflict{}, m.State())

	require.NoError(t, m.Resolve(context.Background(), "c1", models.UseRemote()))
	idle := waitState[Idle](t, m)
	assert.NotNil(t, idle.LastSyncAt)

	calls := syncer.ResolveConflictCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, models.UseRemote(), calls[1].Resolution)
	assert.Len(t, syncer.SyncCycleCalls(), 1)
}

func TestMachine_ResolveStartsCycleForQueuedItems(t *testing.T) {
	var resolved atomic.Bool
	syncer := &SyncerMock{
		SyncCycleFunc: func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
			return &models.SyncResult{Synced: 1}, nil
		},
		OpenConflictsFunc: func(ctx context.Context) ([]*models.ConflictCase, error) {
			if resolved.Load() {
				return nil, nil
			}
			return []*models.ConflictCase{{ID: "c1", EntityID: "A"}}, nil
		},
		ResolveConflictFunc: func(ctx context.Context, conflictID string, resolution models.Resolution) error {
			resolved.Store(true)
			return nil
		},
		PendingCountFunc: pendingCount(1),
	}
	m := startMachine(t, syncer)

	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))
	waitState[Conflict](t, m)

	require.NoError(t, m.Resolve(context.Background(), "c1", models.UseLocal()))
	waitState[Completed](t, m)
	assert.Len(t, syncer.SyncCycleCalls(), 2)
}

func TestMachine_ClearSyncState(t *testing.T) {
	syncer := &SyncerMock{
		SyncCycleFunc: func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
			return &models.SyncResult{Synced: 1}, nil
		},
		OpenConflictsFunc: noConflicts,
	}
	m := startMachine(t, syncer)

	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))
	waitState[Completed](t, m)

	require.NoError(t, m.Dispatch(ClearSyncState{}))
	require.Eventually(t, func() bool {
		idle, ok := m.State().(Idle)
		return ok && idle.LastSyncAt == nil
	}, waitFor, tick)

	// Очистка не трогает очередь
	assert.Empty(t, syncer.ResolveConflictCalls())
}

func TestMachine_ClearCancelsRetries(t *testing.T) {
	syncer := &SyncerMock{
		SyncCycleFunc: func(ctx context.Context, progress func(synced, total int)) (*models.SyncResult, error) {
			return nil, backend.ErrNetwork
		},
	}
	slow := func() retry.Backoff {
		return retry.NewConstant(200 * time.Millisecond)
	}
	m := startMachine(t, syncer, WithBackoff(slow))

	require.NoError(t, m.Dispatch(StartSync{IsManual: true}))
	waitState[Failed](t, m)
	require.NoError(t, m.Dispatch(ClearSyncState{}))
	waitState[Idle](t, m)

	assert.Never(t, func() bool {
		return len(syncer.SyncCycleCalls()) > 1
	}, 300*time.Millisecond, 10*time.Millisecond)
}

func TestMachine_DispatchAfterStop(t *testing.T) {
	m := NewMachine(&SyncerMock{}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = m.Run(ctx)
	}()
	cancel()
	<-stopped

	assert.ErrorIs(t, m.Dispatch(StartSync{}), ErrStopped)
}

func TestDescribe(t *testing.T) {
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	tests := []struct {
		state State
		want  string
	}{
		{Idle{}, "idle, never synced"},
		{Idle{LastSyncAt: &at}, "idle, last sync at 2026-01-02T03:04:05Z"},
		{InProgress{ItemsSynced: 1, TotalItems: 4}, "syncing 1/4"},
		{Completed{ItemsCount: 2, Duration: 1500 * time.Millisecond}, "completed: 2 items in 1.5s"},
		{Failed{Message: "boom"}, "failed: boom"},
		{Paused{ItemsSynced: 5}, "paused after 5 items"},
		{Conflict{ConflictID: "c1"}, "conflict c1"},
		{Offline{PendingItems: 3}, "offline, 3 pending"},
	}
	for _, tt := range tests {
		t.Run(tt.state.Name(), func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.state))
		})
	}
}

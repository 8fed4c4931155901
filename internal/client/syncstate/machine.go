package syncstate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/client/connectivity"
	"github.com/iudanet/screensync/internal/models"
)

const (
	// DefaultMaxAttempts - сколько подряд неудачных циклов допускается до остановки в Failed.
	// Считаются попытки, а не повторы: третья неудача подряд окончательная, поэтому
	// автоматических повторов два (паузы 2s и 4s), шага 8s нет. Три повтора с паузой
	// 8s включаются через WithMaxAttempts(4).
	DefaultMaxAttempts = 3

	// DefaultRetryBase первая пауза перед автоматическим повтором, далее она удваивается
	DefaultRetryBase = 2 * time.Second

	// DefaultCompletedHold время, которое машина остается в Completed перед возвратом в Idle
	DefaultCompletedHold = 2 * time.Second

	eventBuffer = 16
	subBuffer   = 16
)

var (
	// ErrStopped is returned by Dispatch after Run has returned.
	ErrStopped = errors.New("sync state machine stopped")

	// ErrNoConflict is reported for ResolveConflict outside of the Conflict state.
	ErrNoConflict = errors.New("no conflict awaiting resolution")
)

// Option configures a Machine.
type Option func(*Machine)

// WithBackoff replaces the retry delay policy. newBackoff is called at the
// start of every failure streak.
func WithBackoff(newBackoff func() retry.Backoff) Option {
	return func(m *Machine) {
		m.newBackoff = newBackoff
	}
}

// WithMaxAttempts sets how many consecutive failed cycles end the streak in Failed.
func WithMaxAttempts(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithCompletedHold sets how long Completed is shown before Idle.
func WithCompletedHold(d time.Duration) Option {
	return func(m *Machine) {
		m.completedHold = d
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) {
		m.now = now
	}
}

// WithConnectivity makes the machine follow a reachability signal. Without a
// signal the network is assumed reachable and offline is detected from cycle
// results only.
func WithConnectivity(signal connectivity.Signal) Option {
	return func(m *Machine) {
		m.signal = signal
	}
}

// Machine owns the sync lifecycle. All transitions happen on the goroutine
// running Run; at most one SyncCycle is in flight at any time.
type Machine struct {
	syncer     Syncer
	signal     connectivity.Signal
	logger     *slog.Logger
	newBackoff func() retry.Backoff
	now        func() time.Time

	events chan Event
	done   chan struct{}

	subs   map[int]chan State
	state  State
	mu     sync.RWMutex
	nextID int

	// Поля ниже принадлежат горутине Run
	ctx           context.Context
	cancelCycle   context.CancelFunc
	backoff       retry.Backoff
	timer         *time.Timer
	lastSyncAt    *time.Time
	startedAt     time.Time
	wg            sync.WaitGroup
	gen           uint64
	failures      int
	maxAttempts   int
	completedHold time.Duration
	running       bool // running цикл запущен и еще не вернул результат
	relaunch      bool // relaunch запустить новый цикл, как только завершится текущий
}

// NewMachine creates a machine in Idle(nil). Call Run to start processing events.
func NewMachine(syncer Syncer, logger *slog.Logger, opts ...Option) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Machine{
		syncer: syncer,
		logger: logger,
		newBackoff: func() retry.Backoff {
			return retry.NewExponential(DefaultRetryBase)
		},
		now:           time.Now,
		events:        make(chan Event, eventBuffer),
		done:          make(chan struct{}),
		subs:          make(map[int]chan State),
		state:         Idle{},
		maxAttempts:   DefaultMaxAttempts,
		completedHold: DefaultCompletedHold,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Subscribe returns a stream of states starting with the current one. A slow
// reader loses the oldest states, never the latest.
func (m *Machine) Subscribe() (<-chan State, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan State, subBuffer)
	ch <- m.state
	m.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
			close(ch)
		})
	}
}

// Dispatch queues an event. It blocks while the event queue is full and fails
// with ErrStopped once Run has returned.
func (m *Machine) Dispatch(ev Event) error {
	select {
	case <-m.done:
		return ErrStopped
	default:
	}

	select {
	case m.events <- ev:
		return nil
	case <-m.done:
		return ErrStopped
	}
}

// Resolve dispatches ResolveConflict and waits for the outcome.
func (m *Machine) Resolve(ctx context.Context, conflictID string, resolution models.Resolution) error {
	result := make(chan error, 1)
	err := m.Dispatch(ResolveConflict{ConflictID: conflictID, Resolution: resolution, Result: result})
	if err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-m.done:
		return ErrStopped
	}
}

// Run processes events until ctx is done. A running cycle is cancelled and
// awaited before Run returns.
func (m *Machine) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	m.ctx = runCtx

	var online <-chan bool
	if m.signal != nil {
		ch, unsubscribe := m.signal.Subscribe()
		defer unsubscribe()
		online = ch
	}

	m.logger.Debug("Sync state machine started")
	defer m.logger.Debug("Sync state machine stopped")

	for {
		select {
		case <-ctx.Done():
			m.shutdown()
			return nil
		case ev := <-m.events:
			m.handle(ev)
		case value, ok := <-online:
			if !ok {
				online = nil
				continue
			}
			m.handle(ConnectivityChanged{Online: value})
		}
	}
}

func (m *Machine) shutdown() {
	m.stopTimer()
	if m.cancelCycle != nil {
		m.cancelCycle()
	}
	close(m.done)
	m.wg.Wait()
}

func (m *Machine) handle(ev Event) {
	switch e := ev.(type) {
	case StartSync:
		m.onStartSync(e)
	case Pause:
		m.onPause()
	case Resume:
		if _, ok := m.State().(Paused); ok {
			m.resetRetries()
			m.start()
		}
	case ResolveConflict:
		m.onResolveConflict(e)
	case ClearSyncState:
		m.interrupt()
		m.resetRetries()
		m.lastSyncAt = nil
		m.setState(Idle{})
	case ConnectivityChanged:
		m.onConnectivity(e.Online)
	case cycleProgress:
		if e.gen != m.gen {
			return
		}
		if _, ok := m.State().(InProgress); ok {
			m.setState(InProgress{ItemsSynced: e.synced, TotalItems: e.total})
		}
	case cycleFinished:
		m.onCycleFinished(e)
	case retryDue:
		if e.gen != m.gen {
			return
		}
		if _, ok := m.State().(Failed); ok {
			m.logger.Info("Retrying sync", "attempt", m.failures+1)
			m.start()
		}
	case completedExpired:
		if e.gen != m.gen {
			return
		}
		if _, ok := m.State().(Completed); ok {
			m.setState(Idle{LastSyncAt: m.lastSyncAt})
		}
	default:
		m.logger.Warn("Unknown sync event", "event", fmt.Sprintf("%T", ev))
	}
}

func (m *Machine) onStartSync(e StartSync) {
	switch m.State().(type) {
	case InProgress, Paused, Conflict:
		m.logger.Debug("StartSync ignored", "state", m.State().Name())
		return
	}
	if e.IsManual {
		m.resetRetries()
	}
	m.start()
}

func (m *Machine) onPause() {
	current, ok := m.State().(InProgress)
	if !ok {
		return
	}
	m.interrupt()
	m.logger.Info("Sync paused", "synced", current.ItemsSynced)
	m.setState(Paused{ItemsSynced: current.ItemsSynced})
}

func (m *Machine) onConnectivity(online bool) {
	if !online {
		switch m.State().(type) {
		case InProgress, Idle, Completed, Failed:
			m.interrupt()
			m.goOffline(-1)
		}
		return
	}
	if _, ok := m.State().(Offline); ok {
		m.logger.Info("Network is back, starting sync")
		m.resetRetries()
		m.start()
	}
}

// start переводит машину в InProgress и запускает цикл.
// Если предыдущий цикл еще не вернулся, запуск откладывается до его завершения.
func (m *Machine) start() {
	m.stopTimer()
	if !m.isOnline() {
		m.goOffline(-1)
		return
	}

	m.gen++
	m.startedAt = m.now()
	m.setState(InProgress{})

	if m.running {
		m.relaunch = true
		return
	}
	m.launch()
}

func (m *Machine) launch() {
	cycleCtx, cancel := context.WithCancel(m.ctx)
	m.cancelCycle = cancel
	m.running = true
	gen := m.gen

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()

		progress := func(synced, total int) {
			m.post(cycleProgress{gen: gen, synced: synced, total: total})
		}
		result, err := m.syncer.SyncCycle(cycleCtx, progress)
		m.post(cycleFinished{gen: gen, result: result, err: err})
	}()
}

// interrupt отменяет текущий цикл и все отложенные действия.
// Результат отмененного цикла будет проигнорирован.
func (m *Machine) interrupt() {
	m.gen++
	m.stopTimer()
	m.relaunch = false
	if m.cancelCycle != nil {
		m.cancelCycle()
	}
}

func (m *Machine) onCycleFinished(e cycleFinished) {
	m.running = false
	m.cancelCycle = nil

	if m.relaunch {
		m.relaunch = false
		m.launch()
		return
	}
	if e.gen != m.gen {
		return
	}

	switch {
	case e.err != nil:
		m.onCycleError(e.err)
	case e.result != nil && e.result.Offline:
		m.goOffline(e.result.Pending)
	default:
		m.onCycleSuccess(e.result)
	}
}

func (m *Machine) onCycleError(err error) {
	if !m.isOnline() {
		m.goOffline(-1)
		return
	}

	m.setState(Failed{Err: err, Message: err.Error()})

	if !backend.IsRetryable(err) {
		m.logger.Error("Sync failed", "error", err)
		m.resetRetries()
		return
	}

	m.failures++
	if m.failures >= m.maxAttempts {
		m.logger.Error("Sync failed, automatic retries exhausted",
			"attempts", m.failures,
			"error", err)
		return
	}

	if m.backoff == nil {
		m.backoff = m.newBackoff()
	}
	delay, stop := m.backoff.Next()
	if stop {
		m.logger.Error("Sync failed, backoff exhausted", "attempts", m.failures, "error", err)
		return
	}

	m.logger.Warn("Sync failed, retry scheduled",
		"attempt", m.failures,
		"delay", delay,
		"error", err)
	m.schedule(delay, retryDue{gen: m.gen})
}

func (m *Machine) onCycleSuccess(result *models.SyncResult) {
	m.resetRetries()

	syncedAt := m.now()
	var synced int
	if result != nil {
		synced = result.Synced
		if !result.CompletedAt.IsZero() {
			syncedAt = result.CompletedAt
		}
	}
	m.lastSyncAt = &syncedAt

	if m.showConflict() {
		return
	}

	m.setState(Completed{
		SyncedAt:   syncedAt,
		ItemsCount: synced,
		Duration:   m.now().Sub(m.startedAt),
	})
	m.schedule(m.completedHold, completedExpired{gen: m.gen})
}

// showConflict переводит машину в Conflict, если есть открытые конфликты.
func (m *Machine) showConflict() bool {
	conflicts, err := m.syncer.OpenConflicts(m.ctx)
	if err != nil {
		m.logger.Warn("Failed to list open conflicts", "error", err)
		return false
	}
	if len(conflicts) == 0 {
		return false
	}

	c := conflicts[0]
	m.logger.Info("Sync needs conflict resolution",
		"conflict_id", c.ID,
		"entity_id", c.EntityID,
		"open", len(conflicts))
	m.setState(Conflict{ConflictID: c.ID, Local: c.Local, Remote: c.Remote})
	return true
}

func (m *Machine) onResolveConflict(e ResolveConflict) {
	reply := func(err error) {
		if e.Result != nil {
			e.Result <- err
		}
	}

	if _, ok := m.State().(Conflict); !ok {
		reply(ErrNoConflict)
		return
	}

	if err := m.syncer.ResolveConflict(m.ctx, e.ConflictID, e.Resolution); err != nil {
		m.logger.Warn("Conflict resolution failed", "conflict_id", e.ConflictID, "error", err)
		reply(err)
		return
	}
	reply(nil)

	if m.showConflict() {
		return
	}

	pending, err := m.syncer.PendingCount(m.ctx)
	if err != nil {
		m.logger.Warn("Failed to count pending items", "error", err)
	}
	if pending > 0 && m.isOnline() {
		m.resetRetries()
		m.start()
		return
	}
	m.setState(Idle{LastSyncAt: m.lastSyncAt})
}

// goOffline переводит машину в Offline. pending < 0 - размер очереди неизвестен.
func (m *Machine) goOffline(pending int) {
	if pending < 0 {
		n, err := m.syncer.PendingCount(m.ctx)
		if err != nil {
			m.logger.Warn("Failed to count pending items", "error", err)
		}
		pending = n
	}
	m.logger.Info("Sync offline", "pending", pending)
	m.setState(Offline{PendingItems: pending})
}

func (m *Machine) isOnline() bool {
	return m.signal == nil || m.signal.Online()
}

func (m *Machine) resetRetries() {
	m.failures = 0
	m.backoff = nil
}

func (m *Machine) schedule(delay time.Duration, ev Event) {
	m.stopTimer()
	m.timer = time.AfterFunc(delay, func() {
		m.post(ev)
	})
}

func (m *Machine) stopTimer() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}

// post отправляет внутреннее событие из фоновой горутины
func (m *Machine) post(ev Event) {
	select {
	case m.events <- ev:
	case <-m.done:
	}
}

func (m *Machine) setState(s State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state = s
	for _, ch := range m.subs {
		select {
		case ch <- s:
		default:
			// Читатель отстал: выбрасываем самое старое состояние
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}

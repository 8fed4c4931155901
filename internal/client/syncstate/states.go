package syncstate

import (
	"fmt"
	"time"

	"github.com/iudanet/screensync/internal/models"
)

// State is one of Idle, InProgress, Completed, Failed, Paused, Conflict, Offline.
type State interface {
	Name() string
	isState()
}

// Idle - синхронизация не выполняется
type Idle struct {
	LastSyncAt *time.Time // LastSyncAt nil, если успешной синхронизации еще не было
}

// InProgress - идет цикл синхронизации
type InProgress struct {
	ItemsSynced int
	TotalItems  int
}

// Completed - цикл успешно завершен; через CompletedHold машина вернется в Idle
type Completed struct {
	SyncedAt   time.Time
	ItemsCount int
	Duration   time.Duration
}

// Failed - цикл завершился ошибкой
type Failed struct {
	Err     error
	Message string
}

// Paused - цикл прерван командой Pause
type Paused struct {
	ItemsSynced int
}

// Conflict - есть открытый конфликт, требующий решения
type Conflict struct {
	Local      *models.Entity
	Remote     *models.Entity
	ConflictID string
}

// Offline - сеть недоступна, изменения ждут в очереди
type Offline struct {
	PendingItems int
}

func (Idle) Name() string       { return "idle" }
func (InProgress) Name() string { return "in_progress" }
func (Completed) Name() string  { return "completed" }
func (Failed) Name() string     { return "failed" }
func (Paused) Name() string     { return "paused" }
func (Conflict) Name() string   { return "conflict" }
func (Offline) Name() string    { return "offline" }

func (Idle) isState()       {}
func (InProgress) isState() {}
func (Completed) isState()  {}
func (Failed) isState()     {}
func (Paused) isState()     {}
func (Conflict) isState()   {}
func (Offline) isState()    {}

// Describe renders a state for humans.
func Describe(s State) string {
	switch st := s.(type) {
	case Idle:
		if st.LastSyncAt == nil {
			return "idle, never synced"
		}
		return fmt.Sprintf("idle, last sync at %s", st.LastSyncAt.Format(time.RFC3339))
	case InProgress:
		return fmt.Sprintf("syncing %d/%d", st.ItemsSynced, st.TotalItems)
	case Completed:
		return fmt.Sprintf("completed: %d items in %s", st.ItemsCount, st.Duration.Round(time.Millisecond))
	case Failed:
		return "failed: " + st.Message
	case Paused:
		return fmt.Sprintf("paused after %d items", st.ItemsSynced)
	case Conflict:
		return "conflict " + st.ConflictID
	case Offline:
		return fmt.Sprintf("offline, %d pending", st.PendingItems)
	default:
		return "unknown"
	}
}

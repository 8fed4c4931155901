package syncstate

import "github.com/iudanet/screensync/internal/models"

// Event is a command or notification handled by Machine.
type Event interface {
	isEvent()
}

// StartSync requests a sync cycle. Manual starts reset the retry counter.
type StartSync struct {
	IsManual bool
}

// Pause interrupts the running cycle between chunks.
type Pause struct{}

// Resume restarts a paused sync.
type Resume struct{}

// ResolveConflict applies resolution to an open conflict. When Result is not
// nil it receives the outcome exactly once.
type ResolveConflict struct {
	Result     chan<- error
	ConflictID string
	Resolution models.Resolution
}

// ClearSyncState resets the machine to Idle. Queued items are kept.
type ClearSyncState struct{}

// ConnectivityChanged reports a change of network reachability.
type ConnectivityChanged struct {
	Online bool
}

// внутренние события, которые машина отправляет сама себе
type (
	cycleProgress struct {
		gen    uint64
		synced int
		total  int
	}

	cycleFinished struct {
		result *models.SyncResult
		err    error
		gen    uint64
	}

	retryDue struct {
		gen uint64
	}

	completedExpired struct {
		gen uint64
	}
)

func (StartSync) isEvent()           {}
func (Pause) isEvent()               {}
func (Resume) isEvent()              {}
func (ResolveConflict) isEvent()     {}
func (ClearSyncState) isEvent()      {}
func (ConnectivityChanged) isEvent() {}
func (cycleProgress) isEvent()       {}
func (cycleFinished) isEvent()       {}
func (retryDue) isEvent()            {}
func (completedExpired) isEvent()    {}

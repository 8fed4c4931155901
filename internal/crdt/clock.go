package crdt

import (
	"sync"

	"github.com/google/uuid"
)

// LamportClock - логические часы Лампорта. Бэкенд использует их как курсор
// ленты изменений: каждая запись получает следующий тик, клиент запрашивает
// изменения "после тика N".
type LamportClock struct {
	nodeID  string     // идентификатор узла, записывается в события как автор
	counter int64      // монотонно возрастающий счетчик
	mu      sync.Mutex // мьютекс для потокобезопасности
}

// NewLamportClock creates a clock with a random node identifier.
func NewLamportClock() *LamportClock {
	return &LamportClock{nodeID: uuid.New().String()}
}

// NewLamportClockWithNodeID creates a clock with the given node identifier.
func NewLamportClockWithNodeID(nodeID string) *LamportClock {
	return &LamportClock{nodeID: nodeID}
}

// Tick advances the clock for a local event and returns the new value.
func (lc *LamportClock) Tick() int64 {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	lc.counter++
	return lc.counter
}

// Witness merges a timestamp observed from another node:
// counter = max(counter, remote) + 1.
func (lc *LamportClock) Witness(remote int64) int64 {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if remote > lc.counter {
		lc.counter = remote
	}
	lc.counter++
	return lc.counter
}

// Now returns the current value without advancing the clock.
func (lc *LamportClock) Now() int64 {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.counter
}

// NodeID returns the node identifier.
func (lc *LamportClock) NodeID() string {
	return lc.nodeID
}

// Restore moves the clock forward to ts after a restart. It never moves backwards.
func (lc *LamportClock) Restore(ts int64) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if ts > lc.counter {
		lc.counter = ts
	}
}

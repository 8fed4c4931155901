// Package connectivity provides the network reachability signal consumed by
// the sync state machine.
package connectivity

import "sync"

// Signal reports whether the network is reachable and streams changes.
type Signal interface {
	Online() bool

	// Subscribe returns a channel receiving the latest value after every
	// change and a function that cancels the subscription.
	Subscribe() (<-chan bool, func())
}

var _ Signal = (*Manual)(nil)

// Manual is a Signal driven by explicit Set calls: the hosting application
// forwards OS network notifications to it.
type Manual struct {
	subs   map[int]chan bool
	nextID int
	mu     sync.Mutex
	online bool
}

// NewManual creates a signal with the given initial value.
func NewManual(online bool) *Manual {
	return &Manual{
		subs:   make(map[int]chan bool),
		online: online,
	}
}

func (m *Manual) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Set updates the value. Subscribers are notified only on change.
func (m *Manual) Set(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.online == online {
		return
	}
	m.online = online

	for _, ch := range m.subs {
		// Подписчику важно только последнее значение
		select {
		case <-ch:
		default:
		}
		ch <- online
	}
}

func (m *Manual) Subscribe() (<-chan bool, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan bool, 1)
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

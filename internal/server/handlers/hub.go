package handlers

import (
	"log/slog"
	"sync"

	"github.com/iudanet/screensync/internal/server/storage"
	"github.com/iudanet/screensync/pkg/api"
)

const hubBuffer = 16

// Hub fans stored changes out to per-entity subscribers.
type Hub struct {
	subs   map[string]map[int]chan api.Event
	logger *slog.Logger
	mu     sync.Mutex
	nextID int
}

// NewHub creates an empty hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[int]chan api.Event),
		logger: logger,
	}
}

// Subscribe returns a channel of changes of entityID and a cancel function
// that closes it.
func (h *Hub) Subscribe(entityID string) (<-chan api.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan api.Event, hubBuffer)
	if h.subs[entityID] == nil {
		h.subs[entityID] = make(map[int]chan api.Event)
	}
	h.subs[entityID][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[entityID], id)
			if len(h.subs[entityID]) == 0 {
				delete(h.subs, entityID)
			}
			close(ch)
		})
	}
}

// Publish delivers change to subscribers of its entity. A subscriber that
// does not keep up loses the event.
func (h *Hub) Publish(change *storage.Change) {
	if change == nil || change.Entity == nil {
		return
	}

	ev := api.Event{
		Timestamp: change.Entity.UpdatedAt,
		Entity:    api.FromEntity(change.Entity),
		Kind:      string(change.Kind),
		UserID:    change.UserID,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[change.Entity.ID] {
		select {
		case ch <- ev:
		default:
			h.logger.Warn("Dropping event for slow subscriber", "entity_id", change.Entity.ID)
		}
	}
}

// Subscribers returns the number of active subscriptions of entityID
func (h *Hub) Subscribers(entityID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[entityID])
}

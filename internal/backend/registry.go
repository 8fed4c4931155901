package backend

import (
	"fmt"
	"log/slog"
	"sync"
)

// Registry holds zero or one Port. It is passed to the orchestrator and the
// state machine at construction time instead of living in a global variable,
// so tests can run several independent registries side by side.
type Registry struct {
	port   Port
	logger *slog.Logger
	mu     sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register stores port, replacing any previous registration.
func (r *Registry) Register(port Port) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.port != nil {
		r.logger.Warn("Replacing registered backend",
			"previous", fmt.Sprintf("%T", r.port),
			"next", fmt.Sprintf("%T", port))
	}
	r.port = port
}

// Unregister removes the current port. Calling it on an empty registry is a no-op.
func (r *Registry) Unregister() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.port = nil
}

// Get returns the registered port or ErrNotRegistered.
func (r *Registry) Get() (Port, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.port == nil {
		return nil, ErrNotRegistered
	}
	return r.port, nil
}

// GetOrNil returns the registered port or nil.
func (r *Registry) GetOrNil() Port {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.port
}

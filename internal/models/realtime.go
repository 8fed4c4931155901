package models

import "time"

// EventKind is the kind of a remote change notification.
type EventKind string

const (
	EventInsert EventKind = "insert"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// RealtimeEvent is an out-of-band change pushed by the backend outside the
// upload/download cycle.
type RealtimeEvent[T any] struct {
	Timestamp time.Time         `json:"timestamp"`
	Payload   T                 `json:"payload"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Kind      EventKind         `json:"kind"`
	UserID    string            `json:"user_id,omitempty"` // UserID автор изменения, если известен
}

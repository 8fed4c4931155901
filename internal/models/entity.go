package models

import (
	"bytes"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Entity представляет версионированную запись ("Screen"), которую синхронизирует ядро.
// Payload непрозрачен для ядра: он читается и записывается только целиком.
type Entity struct {
	CreatedAt time.Time `json:"created_at"` // CreatedAt время создания записи
	UpdatedAt time.Time `json:"updated_at"` // UpdatedAt время последнего изменения
	ID        string    `json:"id"`         // ID идентификатор записи
	Payload   []byte    `json:"payload"`    // Payload непрозрачные данные
	Version   int64     `json:"version"`    // Version монотонно растущая версия (увеличивается при каждой записи)
	IsActive  bool      `json:"is_active"`  // IsActive false означает soft delete
}

// Clone создает глубокую копию записи.
func (e *Entity) Clone() *Entity {
	if e == nil {
		return nil
	}

	var payload []byte
	if e.Payload != nil {
		payload = make([]byte, len(e.Payload))
		copy(payload, e.Payload)
	}

	return &Entity{
		ID:        e.ID,
		Version:   e.Version,
		Payload:   payload,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
		IsActive:  e.IsActive,
	}
}

// Checksum returns the hex-encoded BLAKE2b-256 digest of the payload.
func (e *Entity) Checksum() string {
	sum := blake2b.Sum256(e.Payload)
	return hex.EncodeToString(sum[:])
}

// SameContent reports whether two entities carry the same version, payload and
// activity flag. Timestamps are ignored: they are informational only.
func (e *Entity) SameContent(other *Entity) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.Version == other.Version &&
		e.IsActive == other.IsActive &&
		bytes.Equal(e.Payload, other.Payload)
}

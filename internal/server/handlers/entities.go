package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/server/storage"
	"github.com/iudanet/screensync/internal/validation"
	"github.com/iudanet/screensync/pkg/api"
)

const (
	defaultPageSize = 100
	maxPageSize     = 1000

	heartbeatInterval = 15 * time.Second
)

// EntityHandler handles entity CRUD, change feed and event stream requests
type EntityHandler struct {
	logger *slog.Logger
	store  storage.Storage
	hub    *Hub
	now    func() time.Time
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(logger *slog.Logger, store storage.Storage, hub *Hub) *EntityHandler {
	return &EntityHandler{
		logger: logger,
		store:  store,
		hub:    hub,
		now:    time.Now,
	}
}

// List обрабатывает GET /api/v1/entities?limit=&offset=
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(w, r, "limit", defaultPageSize)
	if !ok {
		return
	}
	offset, ok := queryInt(w, r, "offset", 0)
	if !ok {
		return
	}
	limit = min(max(limit, 1), maxPageSize)

	entities, err := h.store.ListEntities(r.Context(), limit, offset)
	if err != nil {
		writeStoreError(w, h.logger, "list entities", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.EntityList{
		Entities: api.FromEntities(entities),
		Limit:    limit,
		Offset:   offset,
	})
}

// Get обрабатывает GET /api/v1/entities/{id}
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, r)
	if !ok {
		return
	}

	entity, err := h.store.GetEntity(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.logger, "get entity", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, api.FromEntity(entity))
}

// Put обрабатывает PUT /api/v1/entities/{id}: безусловная запись
func (h *EntityHandler) Put(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, r)
	if !ok {
		return
	}

	var req api.Entity
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.Verify() {
		WriteError(w, http.StatusBadRequest, backend.Kind(backend.ErrInvalidState), "payload checksum mismatch")
		return
	}
	if err := validation.ValidatePayload(req.Payload); err != nil {
		WriteError(w, http.StatusBadRequest, backend.Kind(backend.ErrInvalidState), err.Error())
		return
	}

	entity := req.ToEntity()
	entity.ID = id
	now := h.now()
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = now
	}
	if entity.UpdatedAt.IsZero() {
		entity.UpdatedAt = now
	}

	change, err := h.store.PutEntity(r.Context(), entity, GetSubject(r.Context()))
	if err != nil {
		writeStoreError(w, h.logger, "put entity", err)
		return
	}
	h.hub.Publish(change)

	h.logger.Info("Entity saved", "entity_id", id, "version", entity.Version)
	writeJSON(w, h.logger, http.StatusOK, api.FromEntity(change.Entity))
}

// Delete обрабатывает DELETE /api/v1/entities/{id}: soft delete
func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, r)
	if !ok {
		return
	}

	change, err := h.store.DeleteEntity(r.Context(), id, GetSubject(r.Context()), h.now())
	if err != nil {
		writeStoreError(w, h.logger, "delete entity", err)
		return
	}
	h.hub.Publish(change)

	h.logger.Info("Entity deleted", "entity_id", id, "version", change.Entity.Version)
	w.WriteHeader(http.StatusNoContent)
}

// Changes обрабатывает GET /api/v1/changes?since=&limit=
func (h *EntityHandler) Changes(w http.ResponseWriter, r *http.Request) {
	since, ok := queryInt(w, r, "since", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", defaultPageSize)
	if !ok {
		return
	}
	limit = min(max(limit, 1), maxPageSize)

	entities, cursor, err := h.store.ChangesSince(r.Context(), int64(since), limit)
	if err != nil {
		writeStoreError(w, h.logger, "changes", err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, api.ChangesResponse{
		Entities: api.FromEntities(entities),
		Cursor:   cursor,
	})
}

// Events обрабатывает GET /api/v1/entities/{id}/events (Server-Sent Events)
func (h *EntityHandler) Events(w http.ResponseWriter, r *http.Request) {
	id, ok := entityID(w, r)
	if !ok {
		return
	}

	rc := http.NewResponseController(w)
	// Поток живет дольше WriteTimeout сервера
	_ = rc.SetWriteDeadline(time.Time{})

	events, cancel := h.hub.Subscribe(id)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.logger.Error("Streaming not supported", "error", err)
		return
	}

	h.logger.Debug("Event stream opened", "entity_id", id, "subject", GetSubject(r.Context()))

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug("Event stream closed", "entity_id", id)
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error("Failed to encode event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func entityID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if err := validation.ValidateEntityID(id); err != nil {
		WriteError(w, http.StatusBadRequest, backend.Kind(backend.ErrInvalidState), err.Error())
		return "", false
	}
	return id, true
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		WriteError(w, http.StatusBadRequest, backend.Kind(backend.ErrInvalidState), "invalid "+name+" parameter")
		return 0, false
	}
	return v, true
}

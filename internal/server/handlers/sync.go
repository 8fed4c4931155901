package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/crdt"
	"github.com/iudanet/screensync/internal/models"
	"github.com/iudanet/screensync/internal/server/storage"
	"github.com/iudanet/screensync/internal/validation"
	"github.com/iudanet/screensync/pkg/api"
)

// maxBatchItems ограничивает размер одного пакета
const maxBatchItems = 1000

// SyncHandler handles batch upload, held items and conflict hint requests
type SyncHandler struct {
	logger      *slog.Logger
	store       storage.Storage
	hub         *Hub
	now         func() time.Time
	parallelism int
}

// NewSyncHandler creates a new sync handler. parallelism bounds the number of
// entity chains applied at once.
func NewSyncHandler(logger *slog.Logger, store storage.Storage, hub *Hub, parallelism int) *SyncHandler {
	return &SyncHandler{
		logger:      logger,
		store:       store,
		hub:         hub,
		now:         time.Now,
		parallelism: parallelism,
	}
}

// Batch обрабатывает POST /api/v1/sync/batch
func (h *SyncHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req api.BatchRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if len(req.Items) > maxBatchItems {
		WriteError(w, http.StatusRequestEntityTooLarge, backend.Kind(backend.ErrInvalidState),
			fmt.Sprintf("batch exceeds %d items", maxBatchItems))
		return
	}

	items := make([]*models.SyncItem, 0, len(req.Items))
	checksumOK := make(map[string]bool, len(req.Items))
	for _, wire := range req.Items {
		items = append(items, wire.ToSyncItem())
		checksumOK[wire.ID] = wire.Entity.Verify()
	}

	userID := GetSubject(r.Context())
	result := backend.RunChains(r.Context(), items, h.parallelism, func(ctx context.Context, item *models.SyncItem) error {
		if err := validation.ValidateEntityID(item.EntityID); err != nil {
			return fmt.Errorf("%w: %v", backend.ErrInvalidState, err)
		}
		if !checksumOK[item.ID] {
			return fmt.Errorf("%w: payload checksum mismatch", backend.ErrInvalidState)
		}
		change, err := h.store.ApplyItem(ctx, item, userID, h.now())
		if err != nil {
			return err
		}
		h.hub.Publish(change)
		return nil
	})

	h.logger.Info("Batch applied",
		"subject", userID,
		"items", len(items),
		"synced", result.Synced,
		"failed", result.Failed,
		"conflicts", result.Conflicts)

	writeJSON(w, h.logger, http.StatusOK, toBatchResponse(result))
}

// Pending обрабатывает GET /api/v1/sync/pending
func (h *SyncHandler) Pending(w http.ResponseWriter, r *http.Request) {
	held, err := h.store.HeldItems(r.Context())
	if err != nil {
		writeStoreError(w, h.logger, "held items", err)
		return
	}

	resp := api.PendingResponse{Items: make([]api.SyncItem, 0, len(held))}
	for _, item := range held {
		resp.Items = append(resp.Items, api.FromSyncItem(item))
	}
	writeJSON(w, h.logger, http.StatusOK, resp)
}

// Resolve обрабатывает POST /api/v1/conflicts/resolve. Ответ - подсказка по
// правилу last-write-wins; удержанные элементы сущности освобождаются, так как
// решение дальше принимает клиент.
func (h *SyncHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var req api.ConflictCase
	if !decodeJSON(w, r, &req) {
		return
	}

	conflict := req.ToConflict()
	if err := conflict.Validate(); err != nil && !errors.Is(err, models.ErrNoDivergence) {
		WriteError(w, http.StatusBadRequest, backend.Kind(backend.ErrInvalidState), err.Error())
		return
	}

	hint := crdt.ResolveLWW(conflict)
	if err := h.store.ReleaseHeld(r.Context(), conflict.EntityID); err != nil {
		writeStoreError(w, h.logger, "release held", err)
		return
	}

	h.logger.Info("Conflict hint issued",
		"conflict_id", conflict.ID,
		"entity_id", conflict.EntityID,
		"resolution", hint.String())
	writeJSON(w, h.logger, http.StatusOK, api.FromResolution(hint))
}

func toBatchResponse(result *models.SyncResult) api.BatchResponse {
	resp := api.BatchResponse{
		CompletedAt: result.CompletedAt,
		Synced:      result.Synced,
		Failed:      result.Failed,
		Conflicts:   result.Conflicts,
	}
	for _, e := range result.Errors {
		ir := api.ItemResult{
			ItemID:    e.ItemID,
			EntityID:  e.EntityID,
			Operation: string(e.Operation),
			Code:      backend.Kind(e.Cause),
			Message:   e.Message,
		}
		var conflict *backend.ConflictError
		if errors.As(e.Cause, &conflict) {
			ir.Local = api.FromEntity(conflict.Local)
			ir.Remote = api.FromEntity(conflict.Remote)
		}
		resp.Errors = append(resp.Errors, ir)
	}
	return resp
}

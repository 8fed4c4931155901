package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/server/storage"
	"github.com/iudanet/screensync/pkg/api"
)

// maxBodySize ограничивает тело запроса (пакет из множества записей по 1 MiB)
const maxBodySize = 64 << 20

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// WriteError writes an api.ErrorResponse with the given status and code.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(api.ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Message: message,
	})
}

// writeStoreError переводит ошибку хранилища в HTTP ответ
func writeStoreError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, storage.ErrEntityNotFound), errors.Is(err, backend.ErrNotFound):
		WriteError(w, http.StatusNotFound, backend.Kind(backend.ErrNotFound), err.Error())
	case backend.IsConflict(err):
		WriteError(w, http.StatusConflict, backend.Kind(err), err.Error())
	case errors.Is(err, backend.ErrInvalidState):
		WriteError(w, http.StatusBadRequest, backend.Kind(err), err.Error())
	default:
		logger.Error("Storage operation failed", "op", op, "error", err)
		WriteError(w, http.StatusInternalServerError, backend.Kind(backend.ErrNetwork), "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteError(w, http.StatusBadRequest, backend.Kind(backend.ErrInvalidState), "invalid request body: "+err.Error())
		return false
	}
	return true
}

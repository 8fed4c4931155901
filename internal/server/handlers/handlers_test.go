package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/screensync/internal/server/jwt"
	"github.com/iudanet/screensync/internal/server/storage"
	"github.com/iudanet/screensync/internal/server/storage/sqlite"
)

var testNow = time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestStore(t *testing.T) *sqlite.Storage {
	t.Helper()
	s, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// testEnv собирает обработчики поверх одного хранилища и роутер chi
type testEnv struct {
	store    storage.Storage
	hub      *Hub
	entities *EntityHandler
	sync     *SyncHandler
	router   chi.Router
}

func newTestEnv(t *testing.T, store storage.Storage) *testEnv {
	t.Helper()
	logger := setupTestLogger()
	hub := NewHub(logger)

	env := &testEnv{
		store:    store,
		hub:      hub,
		entities: NewEntityHandler(logger, store, hub),
		sync:     NewSyncHandler(logger, store, hub, 4),
	}
	env.entities.now = func() time.Time { return testNow }
	env.sync.now = func() time.Time { return testNow }

	r := chi.NewRouter()
	r.Use(withSubject("device_1"))
	r.Get("/api/v1/entities", env.entities.List)
	r.Get("/api/v1/entities/{id}", env.entities.Get)
	r.Put("/api/v1/entities/{id}", env.entities.Put)
	r.Delete("/api/v1/entities/{id}", env.entities.Delete)
	r.Get("/api/v1/entities/{id}/events", env.entities.Events)
	r.Get("/api/v1/changes", env.entities.Changes)
	r.Post("/api/v1/sync/batch", env.sync.Batch)
	r.Get("/api/v1/sync/pending", env.sync.Pending)
	r.Post("/api/v1/conflicts/resolve", env.sync.Resolve)
	env.router = r
	return env
}

// withSubject подставляет claims так же, как это делает auth middleware
func withSubject(subject string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &jwt.Claims{Scopes: []string{jwt.ScopeRead, jwt.ScopeWrite}}
			claims.Subject = subject
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func (e *testEnv) do(t *testing.T, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}

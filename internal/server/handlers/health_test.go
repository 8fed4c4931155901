package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/screensync/internal/server/storage"
	"github.com/iudanet/screensync/pkg/api"
)

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		pingErr        error
		name           string
		expectedStatus string
		expectedCode   int
	}{
		{
			name:           "storage available",
			expectedCode:   http.StatusOK,
			expectedStatus: "ok",
		},
		{
			name:           "storage unavailable",
			pingErr:        errors.New("database is locked"),
			expectedCode:   http.StatusServiceUnavailable,
			expectedStatus: "unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &storage.StorageMock{
				PingFunc: func(ctx context.Context) error {
					return tt.pingErr
				},
			}
			handler := NewHealthHandler(setupTestLogger(), store, "1.2.3")

			req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
			w := httptest.NewRecorder()
			handler.Health(w, req)

			resp := w.Result()
			defer func() {
				assert.NoError(t, resp.Body.Close())
			}()

			assert.Equal(t, tt.expectedCode, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var health api.HealthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
			assert.Equal(t, tt.expectedStatus, health.Status)
			assert.Equal(t, "1.2.3", health.Version)
			assert.Len(t, store.PingCalls(), 1)
		})
	}
}

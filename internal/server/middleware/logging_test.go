package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(buf *strings.Builder) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		expectedLevel  string
		expectedStatus int
	}{
		{name: "2xx logs as INFO", method: http.MethodGet, expectedStatus: http.StatusOK, expectedLevel: "INFO"},
		{name: "4xx logs as WARN", method: http.MethodGet, expectedStatus: http.StatusNotFound, expectedLevel: "WARN"},
		{name: "5xx logs as ERROR", method: http.MethodPost, expectedStatus: http.StatusInternalServerError, expectedLevel: "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logBuf strings.Builder
			handler := LoggingMiddleware(newBufferLogger(&logBuf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.expectedStatus)
				_, _ = w.Write([]byte("Hello, World!"))
			}))

			req := httptest.NewRequest(tt.method, "/api/v1/health", nil)
			req.RemoteAddr = "192.168.1.1:12345"
			req.Header.Set("User-Agent", "TestAgent/1.0")
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			logOutput := logBuf.String()
			assert.Contains(t, logOutput, "HTTP request")
			assert.Contains(t, logOutput, tt.method)
			assert.Contains(t, logOutput, "/api/v1/health")
			assert.Contains(t, logOutput, "192.168.1.1:12345")
			assert.Contains(t, logOutput, "TestAgent/1.0")
			assert.Contains(t, logOutput, "bytes_written=13")
			assert.Contains(t, logOutput, "level="+tt.expectedLevel)
		})
	}
}

func TestLoggingMiddleware_LogsRoutePattern(t *testing.T) {
	var logBuf strings.Builder

	r := chi.NewRouter()
	r.Use(LoggingMiddleware(newBufferLogger(&logBuf)))
	r.Get("/api/v1/entities/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/entities/screen-42?token=secret", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	logOutput := logBuf.String()
	assert.Contains(t, logOutput, "route=/api/v1/entities/{id}")
	assert.NotContains(t, logOutput, "screen-42")
	assert.NotContains(t, logOutput, "secret")
}

func TestLoggingWithSkip(t *testing.T) {
	var logBuf strings.Builder
	handler := LoggingWithSkip(newBufferLogger(&logBuf), []string{"/api/v1/health"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	t.Run("Skipped path should not be logged", func(t *testing.T) {
		logBuf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, logBuf.String())
	})

	t.Run("Non-skipped path should be logged", func(t *testing.T) {
		logBuf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/entities", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Contains(t, logBuf.String(), "HTTP request")
		assert.Contains(t, logBuf.String(), "/api/v1/entities")
	})
}

func TestResponseWriter_CapturesStatusAndBytes(t *testing.T) {
	w := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusCreated)
	n, err := rw.Write([]byte("Hello, "))
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	_, err = rw.Write([]byte("World!"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rw.statusCode)
	assert.Equal(t, int64(13), rw.written)
}

func TestResponseWriter_SupportsFlush(t *testing.T) {
	w := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

	rc := http.NewResponseController(rw)
	require.NoError(t, rc.Flush())
	assert.True(t, w.Flushed)
}

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/screensync/internal/server/jwt"
	"github.com/iudanet/screensync/internal/server/middleware"
	"github.com/iudanet/screensync/internal/server/storage/sqlite"
	"github.com/iudanet/screensync/pkg/api"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type testAPI struct {
	tokens  *jwt.Service
	handler http.Handler
}

func newTestAPI(t *testing.T, limiter *middleware.RateLimiter) *testAPI {
	t.Helper()

	store, err := sqlite.New(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	tokens, err := jwt.NewService("router-test-secret-0123456789", time.Hour)
	require.NoError(t, err)

	return &testAPI{
		tokens: tokens,
		handler: NewRouter(RouterConfig{
			Logger:  setupTestLogger(),
			Store:   store,
			Tokens:  tokens,
			Limiter: limiter,
			Version: "test",
		}),
	}
}

func (a *testAPI) token(t *testing.T, scopes ...string) string {
	t.Helper()
	token, _, err := a.tokens.Issue("device_1", scopes...)
	require.NoError(t, err)
	return token
}

func (a *testAPI) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthIsPublic(t *testing.T) {
	a := newTestAPI(t, nil)

	w := a.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"test"`)
}

func TestRouter_RequiresToken(t *testing.T) {
	a := newTestAPI(t, nil)

	w := a.do(t, http.MethodGet, "/api/v1/entities", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_Scopes(t *testing.T) {
	a := newTestAPI(t, nil)
	readOnly := a.token(t, jwt.ScopeRead)
	readWrite := a.token(t, jwt.ScopeRead, jwt.ScopeWrite)
	entity := api.Entity{Payload: []byte("p"), Version: 1, IsActive: true}

	w := a.do(t, http.MethodPut, "/api/v1/entities/screen-1", readOnly, entity)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(t, http.MethodPut, "/api/v1/entities/screen-1", readWrite, entity)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = a.do(t, http.MethodGet, "/api/v1/entities/screen-1", readOnly, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	writeOnly := a.token(t, jwt.ScopeWrite)
	w = a.do(t, http.MethodGet, "/api/v1/sync/pending", writeOnly, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_RateLimitPerSubject(t *testing.T) {
	a := newTestAPI(t, middleware.NewRateLimiter(2, time.Minute, setupTestLogger()))
	token := a.token(t, jwt.ScopeRead)

	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/v1/entities", token, nil).Code)
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/v1/changes", token, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, a.do(t, http.MethodGet, "/api/v1/entities", token, nil).Code)

	// health вне группы с лимитом
	assert.Equal(t, http.StatusOK, a.do(t, http.MethodGet, "/api/v1/health", "", nil).Code)
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	a := newTestAPI(t, nil)
	srv := New("127.0.0.1:0", a.handler, time.Second, time.Second, setupTestLogger())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ctx, ln)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/v1/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

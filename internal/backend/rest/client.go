// Package rest implements backend.Port over the HTTP API served by syncd.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/models"
	"github.com/iudanet/screensync/pkg/api"
)

// DefaultTimeout ограничивает обычный запрос; поток событий не ограничен
const DefaultTimeout = 30 * time.Second

var (
	_ backend.Port       = (*Client)(nil)
	_ backend.ChangeFeed = (*Client)(nil)
)

// Client talks to syncd. Every call except Connect requires a successful
// Connect; a transport failure marks the client disconnected again.
type Client struct {
	httpClient   *http.Client
	streamClient *http.Client
	logger       *slog.Logger
	subs         map[string]*subscription
	baseURL      string
	token        string
	wg           sync.WaitGroup
	mu           sync.Mutex
	connected    bool
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the timeout of regular requests.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithTransport replaces the HTTP transport of both regular and streaming requests.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
		c.streamClient.Transport = rt
	}
}

// NewClient создает новый клиент syncd. token - bearer токен, выпущенный `syncd token`.
func NewClient(baseURL, token string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		logger:  logger,
		subs:    make(map[string]*subscription),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			// Токен не пересылается на другой хост при редиректе
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				if req.URL.Host == via[0].URL.Host {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
		streamClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if exp, err := TokenExpiry(token); err == nil && !exp.IsZero() && exp.Before(time.Now()) {
		logger.Warn("Access token has expired", "expired_at", exp)
	}
	return c
}

// Connect checks that the server is reachable and healthy. It is idempotent.
func (c *Client) Connect(ctx context.Context) error {
	var health api.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/health", nil, &health); err != nil {
		c.setConnected(false)
		return backend.Wrap("connect", err)
	}

	c.mu.Lock()
	was := c.connected
	c.connected = true
	c.mu.Unlock()

	if !was {
		c.logger.Info("Connected to sync server", "url", c.baseURL, "server_version", health.Version)
	}
	return nil
}

// Disconnect closes all event streams and marks the client disconnected.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()
	c.connected = false
	subs := c.subs
	c.subs = make(map[string]*subscription)
	c.mu.Unlock()

	for _, sub := range subs {
		sub.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return backend.Wrap("disconnect", fmt.Errorf("%w: %w", backend.ErrTimeout, ctx.Err()))
	}
}

func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = v
}

// FetchEntity загружает запись по идентификатору
func (c *Client) FetchEntity(ctx context.Context, id string) (*models.Entity, error) {
	var resp api.Entity
	if err := c.call(ctx, http.MethodGet, entityPath(id), nil, &resp); err != nil {
		return nil, backend.Wrap("fetch entity", err)
	}
	entity, err := verified(&resp)
	if err != nil {
		return nil, backend.Wrap("fetch entity", err)
	}
	return entity, nil
}

// FetchEntities загружает страницу записей, включая удаленные
func (c *Client) FetchEntities(ctx context.Context, limit, offset int) ([]*models.Entity, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var resp api.EntityList
	if err := c.call(ctx, http.MethodGet, "/api/v1/entities?"+q.Encode(), nil, &resp); err != nil {
		return nil, backend.Wrap("fetch entities", err)
	}
	entities, err := verifiedAll(resp.Entities)
	if err != nil {
		return nil, backend.Wrap("fetch entities", err)
	}
	return entities, nil
}

// FetchChanges загружает записи, измененные после курсора since
func (c *Client) FetchChanges(ctx context.Context, since int64, limit int) ([]*models.Entity, int64, error) {
	q := url.Values{}
	q.Set("since", strconv.FormatInt(since, 10))
	q.Set("limit", strconv.Itoa(limit))

	var resp api.ChangesResponse
	if err := c.call(ctx, http.MethodGet, "/api/v1/changes?"+q.Encode(), nil, &resp); err != nil {
		return nil, since, backend.Wrap("fetch changes", err)
	}
	entities, err := verifiedAll(resp.Entities)
	if err != nil {
		return nil, since, backend.Wrap("fetch changes", err)
	}
	return entities, resp.Cursor, nil
}

// SaveEntity записывает запись безусловно
func (c *Client) SaveEntity(ctx context.Context, id string, entity *models.Entity) error {
	body := api.FromEntity(entity)
	body.ID = id
	if err := c.call(ctx, http.MethodPut, entityPath(id), body, nil); err != nil {
		return backend.Wrap("save entity", err)
	}
	return nil
}

// DeleteEntity помечает запись удаленной
func (c *Client) DeleteEntity(ctx context.Context, id string) error {
	if err := c.call(ctx, http.MethodDelete, entityPath(id), nil, nil); err != nil {
		return backend.Wrap("delete entity", err)
	}
	return nil
}

// SyncBatch отправляет пакет элементов очереди
func (c *Client) SyncBatch(ctx context.Context, items []*models.SyncItem) (*models.SyncResult, error) {
	req := api.BatchRequest{Items: make([]api.SyncItem, 0, len(items))}
	for _, item := range items {
		req.Items = append(req.Items, api.FromSyncItem(item))
	}

	var resp api.BatchResponse
	if err := c.call(ctx, http.MethodPost, "/api/v1/sync/batch", req, &resp); err != nil {
		return nil, backend.Wrap("sync batch", err)
	}
	return toSyncResult(&resp), nil
}

// PendingItems возвращает элементы, удерживаемые сервером из-за конфликта
func (c *Client) PendingItems(ctx context.Context) ([]*models.SyncItem, error) {
	var resp api.PendingResponse
	if err := c.call(ctx, http.MethodGet, "/api/v1/sync/pending", nil, &resp); err != nil {
		return nil, backend.Wrap("pending items", err)
	}

	items := make([]*models.SyncItem, 0, len(resp.Items))
	for _, wire := range resp.Items {
		items = append(items, wire.ToSyncItem())
	}
	return items, nil
}

// ResolveConflict запрашивает у сервера подсказку по конфликту
func (c *Client) ResolveConflict(ctx context.Context, conflict *models.ConflictCase) (models.Resolution, error) {
	var resp api.Resolution
	if err := c.call(ctx, http.MethodPost, "/api/v1/conflicts/resolve", api.FromConflict(conflict), &resp); err != nil {
		return models.Resolution{}, backend.Wrap("resolve conflict", err)
	}

	res, err := resp.ToResolution()
	if err != nil {
		return models.Resolution{}, backend.Wrap("resolve conflict", fmt.Errorf("%w: %v", backend.ErrFatal, err))
	}
	return res, nil
}

// call выполняет запрос, требующий подключения
func (c *Client) call(ctx context.Context, method, path string, body, result any) error {
	if !c.IsConnected() {
		return backend.ErrNotConnected
	}
	return c.do(ctx, method, path, body, result)
}

// do выполняет HTTP запрос и переводит ошибки в таксономию backend
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.transportError(ctx, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.transportError(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, respBody)
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", backend.ErrFatal, err)
		}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to marshal request body: %v", backend.ErrInvalidState, err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", backend.ErrInvalidState, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

// transportError классифицирует сетевую ошибку и сбрасывает подключение
func (c *Client) transportError(ctx context.Context, err error) error {
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return ctx.Err()
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", backend.ErrTimeout, err)
	}

	if c.IsConnected() {
		c.logger.Warn("Sync server unreachable", "url", c.baseURL, "error", err)
	}
	c.setConnected(false)
	return fmt.Errorf("%w: %v", backend.ErrNetwork, err)
}

// statusError переводит HTTP статус в ошибку таксономии
func statusError(status int, body []byte) error {
	msg := http.StatusText(status)
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		msg = errResp.Message
	}

	var sentinel error
	switch {
	case status == http.StatusUnauthorized:
		sentinel = backend.ErrAuthentication
	case status == http.StatusForbidden:
		sentinel = backend.ErrAuthorization
	case status == http.StatusNotFound:
		sentinel = backend.ErrNotFound
	case status == http.StatusConflict:
		sentinel = backend.ErrConflict
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		sentinel = backend.ErrTimeout
	case status == http.StatusTooManyRequests, status >= 500:
		sentinel = backend.ErrNetwork
	case status == http.StatusBadRequest, status == http.StatusRequestEntityTooLarge:
		sentinel = backend.ErrInvalidState
	default:
		sentinel = backend.ErrFatal
	}
	return fmt.Errorf("%w: server responded %d: %s", sentinel, status, msg)
}

func entityPath(id string) string {
	return "/api/v1/entities/" + url.PathEscape(id)
}

// verified проверяет контрольную сумму payload
func verified(e *api.Entity) (*models.Entity, error) {
	if !e.Verify() {
		return nil, fmt.Errorf("%w: payload checksum mismatch for %s", backend.ErrFatal, e.ID)
	}
	return e.ToEntity(), nil
}

func verifiedAll(wire []api.Entity) ([]*models.Entity, error) {
	entities := make([]*models.Entity, 0, len(wire))
	for i := range wire {
		e, err := verified(&wire[i])
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}

// toSyncResult восстанавливает причины ошибок элементов по их кодам
func toSyncResult(resp *api.BatchResponse) *models.SyncResult {
	result := &models.SyncResult{
		CompletedAt: resp.CompletedAt,
		Synced:      resp.Synced,
		Failed:      resp.Failed,
		Conflicts:   resp.Conflicts,
	}
	for _, ir := range resp.Errors {
		var cause error
		if ir.Code == backend.Kind(backend.ErrConflict) {
			cause = &backend.ConflictError{Local: ir.Local.ToEntity(), Remote: ir.Remote.ToEntity()}
		} else {
			cause = fmt.Errorf("%w: %s", backend.FromKind(ir.Code), ir.Message)
		}
		result.Errors = append(result.Errors, models.ItemError{
			ItemID:    ir.ItemID,
			EntityID:  ir.EntityID,
			Operation: models.Operation(ir.Operation),
			Message:   ir.Message,
			Cause:     cause,
		})
	}
	return result
}

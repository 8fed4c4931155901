package rest

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/models"
	"github.com/iudanet/screensync/pkg/api"
)

const (
	streamBuffer = 16
	// maxEventSize вмещает payload 1 MiB в base64 внутри JSON
	maxEventSize = 4 << 20
)

type subscription struct {
	cancel context.CancelFunc
}

// Subscribe opens the Server-Sent Events stream of entityID. A second
// subscription to the same entity replaces the first. The channel is closed
// when the stream ends, on Unsubscribe or when ctx is done.
func (c *Client) Subscribe(ctx context.Context, entityID string) (<-chan models.RealtimeEvent[*models.Entity], error) {
	if !c.IsConnected() {
		return nil, backend.Wrap("subscribe", backend.ErrNotConnected)
	}

	streamCtx, cancel := context.WithCancel(ctx)
	req, err := c.newRequest(streamCtx, http.MethodGet, entityPath(entityID)+"/events", nil)
	if err != nil {
		cancel()
		return nil, backend.Wrap("subscribe", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.streamClient.Do(req)
	if err != nil {
		cancel()
		return nil, backend.Wrap("subscribe", c.transportError(ctx, err))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = resp.Body.Close()
		cancel()
		return nil, backend.Wrap("subscribe", statusError(resp.StatusCode, body))
	}

	c.mu.Lock()
	if prev, ok := c.subs[entityID]; ok {
		prev.cancel()
	}
	sub := &subscription{cancel: cancel}
	c.subs[entityID] = sub
	c.mu.Unlock()

	out := make(chan models.RealtimeEvent[*models.Entity], streamBuffer)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(out)
		defer func() {
			_ = resp.Body.Close()
		}()
		defer c.dropSubscription(entityID, sub)

		if err := readEvents(streamCtx, resp.Body, out); err != nil && streamCtx.Err() == nil {
			c.logger.Warn("Event stream interrupted", "entity_id", entityID, "error", err)
		}
	}()

	c.logger.Debug("Subscribed to entity events", "entity_id", entityID)
	return out, nil
}

// Unsubscribe closes the stream of entityID. Without a subscription it is a no-op.
func (c *Client) Unsubscribe(_ context.Context, entityID string) error {
	c.mu.Lock()
	sub, ok := c.subs[entityID]
	delete(c.subs, entityID)
	c.mu.Unlock()

	if ok {
		sub.cancel()
	}
	return nil
}

// dropSubscription убирает подписку, если ее еще не заменили новой
func (c *Client) dropSubscription(entityID string, sub *subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subs[entityID] == sub {
		delete(c.subs, entityID)
	}
	sub.cancel()
}

// readEvents разбирает поток text/event-stream: строки "event:" и "data:",
// событие завершается пустой строкой, строки-комментарии ":" пропускаются
func readEvents(ctx context.Context, r io.Reader, out chan<- models.RealtimeEvent[*models.Entity]) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64<<10), maxEventSize)

	var data strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			if data.Len() == 0 {
				continue
			}
			ev, err := decodeEvent(data.String())
			data.Reset()
			if err != nil {
				return err
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				return ctx.Err()
			}
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		default:
			// event: дублирует Kind внутри data
		}
	}
	return scanner.Err()
}

func decodeEvent(data string) (models.RealtimeEvent[*models.Entity], error) {
	var wire api.Event
	if err := json.Unmarshal([]byte(data), &wire); err != nil {
		return models.RealtimeEvent[*models.Entity]{}, fmt.Errorf("%w: bad event: %v", backend.ErrFatal, err)
	}
	if wire.Entity == nil {
		return models.RealtimeEvent[*models.Entity]{}, fmt.Errorf("%w: event without entity", backend.ErrFatal)
	}
	entity, err := verified(wire.Entity)
	if err != nil {
		return models.RealtimeEvent[*models.Entity]{}, err
	}
	return models.RealtimeEvent[*models.Entity]{
		Timestamp: wire.Timestamp,
		Payload:   entity,
		Kind:      models.EventKind(wire.Kind),
		UserID:    wire.UserID,
	}, nil
}

package connectivity

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/screensync/internal/backend"
	"github.com/iudanet/screensync/internal/backend/memory"
)

func TestManual_NotifiesOnChange(t *testing.T) {
	m := NewManual(true)
	ch, cancel := m.Subscribe()
	defer cancel()

	// Без изменения уведомления нет
	m.Set(true)
	select {
	case <-ch:
		t.Fatal("unexpected notification")
	default:
	}

	m.Set(false)
	m.Set(true)
	m.Set(false)

	// В канале только последнее значение
	assert.False(t, <-ch)
	assert.False(t, m.Online())

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
}

func TestProber(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := backend.NewRegistry(logger)
	p := NewProber(registry, 0, logger)

	// Без бэкенда - offline
	assert.False(t, p.Probe(ctx))

	b := memory.New(logger)
	registry.Register(b)

	ch, cancel := p.Subscribe()
	defer cancel()

	require.True(t, p.Probe(ctx))
	assert.True(t, b.IsConnected())
	assert.True(t, <-ch)

	b.SetReachable(false)
	assert.False(t, p.Probe(ctx))
	assert.False(t, <-ch)
}

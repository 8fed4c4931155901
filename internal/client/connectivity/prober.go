package connectivity

import (
	"context"
	"log/slog"
	"time"

	"github.com/iudanet/screensync/internal/backend"
)

const (
	// DefaultProbeInterval интервал проверки доступности бэкенда
	DefaultProbeInterval = 15 * time.Second

	probeTimeout = 5 * time.Second
)

// Prober derives the signal from the registered backend: every interval it
// calls Connect on a disconnected port and publishes the outcome.
type Prober struct {
	*Manual
	registry *backend.Registry
	logger   *slog.Logger
	interval time.Duration
}

// NewProber creates a prober that starts offline until the first probe.
func NewProber(registry *backend.Registry, interval time.Duration, logger *slog.Logger) *Prober {
	if interval <= 0 {
		interval = DefaultProbeInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		Manual:   NewManual(false),
		registry: registry,
		logger:   logger,
		interval: interval,
	}
}

// Run probes immediately and then on every tick until ctx is done.
func (p *Prober) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Probe(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Probe(ctx)
		}
	}
}

// Probe checks the backend once and returns the published value.
func (p *Prober) Probe(ctx context.Context) bool {
	port := p.registry.GetOrNil()
	if port == nil {
		p.publish(false, "no backend registered")
		return false
	}
	if port.IsConnected() {
		p.publish(true, "")
		return true
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if err := port.Connect(probeCtx); err != nil {
		p.publish(false, err.Error())
		return false
	}
	p.publish(true, "")
	return true
}

func (p *Prober) publish(online bool, reason string) {
	if p.Online() != online {
		if online {
			p.logger.Info("Backend reachable")
		} else {
			p.logger.Warn("Backend unreachable", "reason", reason)
		}
	}
	p.Set(online)
}

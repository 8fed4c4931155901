package cli

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/screensync/internal/client/connectivity"
	"github.com/iudanet/screensync/internal/client/syncstate"
)

// DaemonOptions настройки фонового режима
type DaemonOptions struct {
	Schedule      string        // Schedule cron-расписание автосинхронизации
	Watch         []string      // Watch сущности, изменения которых принимаются в реальном времени
	ProbeInterval time.Duration // ProbeInterval период проверки доступности бэкенда
	MachineOpts   []syncstate.Option
}

// runDaemon держит машину состояний, планировщик и проверку связи до отмены ctx.
// Каждое новое состояние выводится пользователю.
func (c *Cli) runDaemon(ctx context.Context, opts DaemonOptions) error {
	prober := connectivity.NewProber(c.registry, opts.ProbeInterval, c.logger)
	machineOpts := append([]syncstate.Option{syncstate.WithConnectivity(prober)}, opts.MachineOpts...)
	machine := syncstate.NewMachine(c.repo, c.logger, machineOpts...)

	scheduler := syncstate.NewScheduler(machine, opts.Schedule, c.logger)
	if err := scheduler.Start(); err != nil {
		return err
	}
	defer scheduler.Stop()

	states, unsubscribe := machine.Subscribe()
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return machine.Run(gctx)
	})
	g.Go(func() error {
		prober.Run(gctx)
		return nil
	})
	g.Go(func() error {
		c.printStates(gctx, states)
		return nil
	})

	var watched []string
	if prober.Probe(gctx) {
		// флаги прерванного прошлого запуска снимаются до первого цикла
		if _, err := c.repo.Reconcile(gctx); err != nil {
			c.logger.Warn("Failed to reconcile sync queue", "error", err)
		}
		watched = c.watchAll(gctx, opts.Watch)
		if err := machine.Dispatch(syncstate.StartSync{IsManual: true}); err != nil {
			c.logger.Warn("Failed to start initial sync", "error", err)
		}
	} else if len(opts.Watch) > 0 {
		c.logger.Warn("Backend offline, realtime updates disabled", "entities", len(opts.Watch))
	}

	c.io.Printf("Sync daemon running (schedule %q). Press Ctrl+C to stop.\n", opts.Schedule)

	err := g.Wait()
	c.unwatchAll(watched)
	if err != nil {
		return fmt.Errorf("sync daemon: %w", err)
	}
	c.io.Println("Sync daemon stopped.")
	return nil
}

func (c *Cli) printStates(ctx context.Context, states <-chan syncstate.State) {
	for {
		select {
		case <-ctx.Done():
			return
		case st, ok := <-states:
			if !ok {
				return
			}
			c.io.Printf("[%s] %s\n", c.now().UTC().Format(time.TimeOnly), syncstate.Describe(st))
		}
	}
}

func (c *Cli) watchAll(ctx context.Context, ids []string) []string {
	watched := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := c.repo.Watch(ctx, id); err != nil {
			c.logger.Warn("Failed to watch entity", "entity_id", id, "error", err)
			continue
		}
		watched = append(watched, id)
	}
	return watched
}

func (c *Cli) unwatchAll(ids []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, id := range ids {
		if err := c.repo.Unwatch(ctx, id); err != nil {
			c.logger.Debug("Failed to unwatch entity", "entity_id", id, "error", err)
		}
	}
}

package syncstate

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler dispatches automatic StartSync events on a cron schedule.
type Scheduler struct {
	machine *Machine
	cron    *cron.Cron
	logger  *slog.Logger
	spec    string
	entryID cron.EntryID
}

// NewScheduler creates a scheduler for spec, e.g. "@every 5m" or "*/10 * * * *".
func NewScheduler(machine *Machine, spec string, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		machine: machine,
		cron:    cron.New(),
		logger:  logger,
		spec:    spec,
	}
}

// Start registers the job and starts the cron runner.
func (s *Scheduler) Start() error {
	id, err := s.cron.AddFunc(s.spec, s.trigger)
	if err != nil {
		return fmt.Errorf("invalid sync schedule %q: %w", s.spec, err)
	}
	s.entryID = id
	s.cron.Start()

	s.logger.Info("Sync scheduler started", "schedule", s.spec)
	return nil
}

// Stop stops the runner and waits for a running job to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Sync scheduler stopped")
}

func (s *Scheduler) trigger() {
	if _, ok := s.machine.State().(InProgress); ok {
		s.logger.Debug("Sync already running, skipping scheduled run")
		return
	}
	if err := s.machine.Dispatch(StartSync{IsManual: false}); err != nil {
		s.logger.Warn("Failed to trigger scheduled sync", "error", err)
	}
}

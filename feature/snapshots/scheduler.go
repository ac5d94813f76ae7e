package snapshots

import (
	"context"
	"fmt"
	"time"

	"inventory-reconciler/core/inventory"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// autoTimeout bounds one automatic snapshot run.
const autoTimeout = 2 * time.Minute

// Scheduler takes the daily automatic snapshot.
type Scheduler struct {
	cron     *cron.Cron
	service  *Service
	schedule string
	logger   *zap.Logger
}

// NewScheduler creates a scheduler using the standard five-field cron syntax.
func NewScheduler(service *Service, cfg inventory.SnapshotConfig, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:     cron.New(),
		service:  service,
		schedule: cfg.AutoSchedule,
		logger:   logger,
	}
}

// Start takes today's snapshot if it is missing and schedules the next ones.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.takeDaily); err != nil {
		return fmt.Errorf("invalid snapshot schedule %q: %w", s.schedule, err)
	}

	s.logger.Info("Starting snapshot scheduler", zap.String("schedule", s.schedule))
	s.takeDaily()
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running snapshot to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping snapshot scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) takeDaily() {
	ctx, cancel := context.WithTimeout(context.Background(), autoTimeout)
	defer cancel()

	snap, created, err := s.service.EnsureDailyAuto(ctx)
	if err != nil {
		s.logger.Error("Failed to take automatic snapshot", zap.Error(err))
		return
	}
	if !created {
		s.logger.Debug("Automatic snapshot already taken today", zap.String("id", snap.ID))
	}
}

package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"stride/internal/service"
)

const expireJobTimeout = 30 * time.Second

// Scheduler runs the recurring maintenance jobs. Currently a single job:
// closing instructor edit windows that passed their deadline.
type Scheduler struct {
	cron     *cron.Cron
	services *service.Services
	logger   *zap.Logger
}

func NewScheduler(services *service.Services, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		services: services,
		logger:   logger,
	}
}

func (s *Scheduler) Start() error {
	// Nightly at 02:00; a window granted for "until Friday" closes the
	// following night, which is precise enough for a manual admin grant.
	if _, err := s.cron.AddFunc("0 2 * * *", s.expireEditWindows); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started")
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("cron scheduler stopped")
}

func (s *Scheduler) expireEditWindows() {
	ctx, cancel := context.WithTimeout(context.Background(), expireJobTimeout)
	defer cancel()

	closed, err := s.services.Availability.ExpireEditWindows(ctx)
	if err != nil {
		s.logger.Error("edit window expiry job failed", zap.Error(err))
		return
	}

	s.logger.Info("edit window expiry job finished", zap.Int64("closed", closed))
}

// Package jobs drives the two recurring notification triggers: a cron entry
// firing once a day at the configured hour, and a ticker re-checking the due
// set every interval. Both funnel into NotificationService.NotifyDue, whose
// per-day dedupe makes the overlap harmless.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lmendes/studytrack/internal/logger"
	"github.com/lmendes/studytrack/internal/services"
)

type Scheduler struct {
	notifications services.NotificationService
	notifyHour    int
	interval      time.Duration

	cron   *cron.Cron
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *logger.Logger
}

func NewScheduler(notifications services.NotificationService, notifyHour int, interval time.Duration) *Scheduler {
	return &Scheduler{
		notifications: notifications,
		notifyHour:    notifyHour,
		interval:      interval,
		cron:          cron.New(),
		log:           logger.Default().WithPrefix("jobs"),
	}
}

func (s *Scheduler) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	spec := fmt.Sprintf("0 %d * * *", s.notifyHour)
	if _, err := s.cron.AddFunc(spec, func() {
		s.runDueCheck(ctx, "daily")
	}); err != nil {
		cancel()
		return fmt.Errorf("failed to schedule daily notification: %w", err)
	}
	s.cron.Start()
	s.log.Info("daily notification scheduled at %02d:00", s.notifyHour)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		s.log.Info("due check running every %s", s.interval)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runDueCheck(ctx, "ticker")
			}
		}
	}()
	return nil
}

func (s *Scheduler) runDueCheck(ctx context.Context, trigger string) {
	log := s.log.WithField("trigger", trigger)
	ctx = logger.NewContext(ctx, log)
	if err := s.notifications.NotifyDue(ctx, time.Now()); err != nil {
		log.Error("due check failed: %v", err)
	}
}

func (s *Scheduler) Stop() {
	s.log.Info("stopping job scheduler")
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.log.Info("job scheduler stopped")
}

package scheduler

import (
	"context"
	"time"

	"billing_notifier/internal/app"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// RoutineScheduler triggers the daily billing routine on a cron spec. The
// routine assumes at most one concurrent execution; registering the job once
// on a single cron engine is what provides that guarantee.
type RoutineScheduler struct {
	cronEngine    *cron.Cron
	routine       *app.RoutineService
	logger        *logrus.Logger
	cronSpecDaily string
}

func NewRoutineScheduler(routine *app.RoutineService, logger *logrus.Logger, cronSpecDaily string) *RoutineScheduler {
	return &RoutineScheduler{
		cronEngine:    cron.New(cron.WithLocation(time.Local)), // server's local time
		routine:       routine,
		logger:        logger,
		cronSpecDaily: cronSpecDaily,
	}
}

func (s *RoutineScheduler) Start() {
	s.logger.Info("Starting billing routine scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecDaily, func() {
		s.logger.Info("Cron job triggered for daily billing routine")
		status := s.routine.Execute(context.Background(), time.Now())
		s.logger.WithField("status", status).Info("Daily billing routine completed")
	})
	if err != nil {
		s.logger.Fatalf("Could not add daily billing routine cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.WithField("spec", s.cronSpecDaily).Info("Billing routine scheduler started")
}

func (s *RoutineScheduler) Stop() {
	s.logger.Info("Stopping billing routine scheduler...")
	ctx := s.cronEngine.Stop() // waits for a running job to finish
	<-ctx.Done()
	s.logger.Info("Billing routine scheduler gracefully stopped")
}

package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderRunner is one reminder scan tick.
type ReminderRunner interface {
	RunReminderCheck(ctx context.Context) error
}

// MissedRunner is one overdue scan tick.
type MissedRunner interface {
	RunMissedCheck(ctx context.Context) error
}

// DispatchScheduler owns the cron engine and the lifecycle of the two
// periodic scans. Dependencies arrive at construction; there is no ambient
// scheduler state.
type DispatchScheduler struct {
	cronEngine          *cron.Cron
	reminders           ReminderRunner
	missed              MissedRunner
	logger              *logrus.Entry
	cronSpecReminder    string
	cronSpecMissedCheck string
}

func NewDispatchScheduler(
	reminders ReminderRunner,
	missed MissedRunner,
	logger *logrus.Entry,
	cronSpecReminder string, // e.g. "* * * * *" (every minute)
	cronSpecMissedCheck string, // e.g. "0 * * * *" (hourly)
) *DispatchScheduler {
	return &DispatchScheduler{
		cronEngine:          cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		reminders:           reminders,
		missed:              missed,
		logger:              logger,
		cronSpecReminder:    cronSpecReminder,
		cronSpecMissedCheck: cronSpecMissedCheck,
	}
}

func (s *DispatchScheduler) Start() {
	s.logger.Info("Starting dispatch scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecReminder, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		if err := s.reminders.RunReminderCheck(ctx); err != nil {
			s.logger.Errorf("Error during reminder scan: %v", err)
		}
	})
	if err != nil {
		s.logger.Fatalf("Could not add reminder scan cron job: %v", err)
	}

	_, err = s.cronEngine.AddFunc(s.cronSpecMissedCheck, func() {
		// Longer timeout: the overdue scan walks every active obligation.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.missed.RunMissedCheck(ctx); err != nil {
			s.logger.Errorf("Error during overdue scan: %v", err)
		}
	})
	if err != nil {
		s.logger.Fatalf("Could not add overdue scan cron job: %v", err)
	}

	s.cronEngine.Start()
	s.logger.Infof("Dispatch scheduler started (reminders: %q, missed: %q).", s.cronSpecReminder, s.cronSpecMissedCheck)
}

func (s *DispatchScheduler) Stop() {
	s.logger.Info("Stopping dispatch scheduler...")
	ctx := s.cronEngine.Stop() // Stops new job firings, waits for running jobs.
	<-ctx.Done()
	s.logger.Info("Dispatch scheduler gracefully stopped.")
}

package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"rentaride-backend/internal/jobs"
	"rentaride-backend/internal/logger"
)

// Scheduler manages cron job scheduling for the sweep passes
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all sweep passes with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	entries := []struct {
		name string
		spec string
		fn   func()
	}{
		{"WarnUnstartedRentals", cfg.WarnUnstartedRentals, s.jobs.WarnUnstartedRentals},
		{"WarnOverdueReturns", cfg.WarnOverdueReturns, s.jobs.WarnOverdueReturns},
		{"FollowUpStaleRefunds", cfg.FollowUpStaleRefunds, s.jobs.FollowUpStaleRefunds},
		{"SendUpcomingReminders", cfg.SendUpcomingReminders, s.jobs.SendUpcomingReminders},
		{"ExpireUnconfirmedBookings", cfg.ExpireUnconfirmedBookings, s.jobs.ExpireUnconfirmedBookings},
		{"NudgeUnreadMessages", cfg.NudgeUnreadMessages, s.jobs.NudgeUnreadMessages},
	}
	for _, entry := range entries {
		if _, err := s.cron.AddFunc(entry.spec, entry.fn); err != nil {
			logger.Error("Failed to register job", "job", entry.name, "spec", entry.spec, "error", err)
		}
	}

	logger.Info("All cron jobs registered successfully")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if the scheduler has registered entries
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}

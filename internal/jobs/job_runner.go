package jobs

import (
	"database/sql"

	"rentaride-backend/internal/config"
	"rentaride-backend/internal/logger"
	"rentaride-backend/internal/repository"
	"rentaride-backend/internal/service"
)

// JobRunner coordinates the hourly sweep passes. Each pass selects its
// candidates with a direct query and acts on every booking independently:
// one failing booking is logged and skipped, never fatal to the run.
type JobRunner struct {
	db       *sql.DB
	bookings repository.BookingRepository
	parties  repository.PartyRepository
	chats    repository.ChatRepository
	services *Services
	config   *config.Config
}

// Services holds the service dependencies the sweep passes act through.
type Services struct {
	Booking  service.BookingService
	Email    service.EmailService
	Notifier service.Notifier
}

func NewJobRunner(
	db *sql.DB,
	bookings repository.BookingRepository,
	parties repository.PartyRepository,
	chats repository.ChatRepository,
	services *Services,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		db:       db,
		bookings: bookings,
		parties:  parties,
		chats:    chats,
		services: services,
		config:   cfg,
	}
}

// Config exposes the runner's configuration for the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllSweepJobs runs every sweep pass once (for manual execution)
func (jr *JobRunner) RunAllSweepJobs() {
	jr.WarnUnstartedRentals()
	jr.WarnOverdueReturns()
	jr.FollowUpStaleRefunds()
	jr.SendUpcomingReminders()
	jr.ExpireUnconfirmedBookings()
	jr.NudgeUnreadMessages()
}

package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"rentaride-backend/internal/config"
	"rentaride-backend/internal/events"
	"rentaride-backend/internal/jobs"
	"rentaride-backend/internal/logger"
	"rentaride-backend/internal/realtime"
	"rentaride-backend/internal/repository/postgres"
	"rentaride-backend/internal/scheduler"
	"rentaride-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific sweep pass once and exit (e.g., 'expire-unconfirmed-bookings', 'all-sweeps')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentARide Sweep Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Services
	emailService := service.NewEmailService(
		cfg.Email.APIKey,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
	)

	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.EventTopic)
	defer publisher.Close()

	// The sweep runner has no live sessions; the registry stays empty and
	// the notifier's push leg is always a miss.
	notifier := service.NewNotifier(store.NotificationRepository, publisher, realtime.NewRegistry())

	bookingService := service.NewBookingService(
		store.BookingRepository,
		store.PaymentRepository,
		store.VehicleRepository,
		store.PartyRepository,
		emailService,
		notifier,
	)

	jobServices := &jobs.Services{
		Booking:  bookingService,
		Email:    emailService,
		Notifier: notifier,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(
		db,
		store.BookingRepository,
		store.PartyRepository,
		store.ChatRepository,
		jobServices,
		cfg,
	)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Sweep scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down sweep scheduler...")
	cronScheduler.Stop()
	logger.Info("Sweep scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific sweep pass once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "warn-unstarted-rentals":
		jobRunner.WarnUnstartedRentals()
	case "warn-overdue-returns":
		jobRunner.WarnOverdueReturns()
	case "follow-up-stale-refunds":
		jobRunner.FollowUpStaleRefunds()
	case "send-upcoming-reminders":
		jobRunner.SendUpcomingReminders()
	case "expire-unconfirmed-bookings":
		jobRunner.ExpireUnconfirmedBookings()
	case "nudge-unread-messages":
		jobRunner.NudgeUnreadMessages()
	case "all-sweeps":
		jobRunner.RunAllSweepJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - warn-unstarted-rentals\n")
		fmt.Printf("  - warn-overdue-returns\n")
		fmt.Printf("  - follow-up-stale-refunds\n")
		fmt.Printf("  - send-upcoming-reminders\n")
		fmt.Printf("  - expire-unconfirmed-bookings\n")
		fmt.Printf("  - nudge-unread-messages\n")
		fmt.Printf("  - all-sweeps\n")
		os.Exit(1)
	}
}

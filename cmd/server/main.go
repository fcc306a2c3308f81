package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "rentaride-backend/internal/api/http"
	"rentaride-backend/internal/config"
	"rentaride-backend/internal/events"
	"rentaride-backend/internal/logger"
	"rentaride-backend/internal/realtime"
	"rentaride-backend/internal/repository/postgres"
	"rentaride-backend/internal/security"
	"rentaride-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentARide Booking Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Kafka configuration", "brokers", cfg.Kafka.Brokers, "event_topic", cfg.Kafka.EventTopic)

	// Initialize Database
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

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Pub/Sub and live-session registry
	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.EventTopic)
	defer publisher.Close()
	registry := realtime.NewRegistry()

	// Initialize Services
	emailSvc := service.NewEmailService(
		cfg.Email.APIKey,
		cfg.Email.FromEmail,
		cfg.Email.FromName,
	)
	notifier := service.NewNotifier(store.NotificationRepository, publisher, registry)
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.PaymentRepository,
		store.VehicleRepository,
		store.PartyRepository,
		emailSvc,
		notifier,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// React to vehicle-directory events: a withdrawn or deleted vehicle
	// cancels every booking still riding on it.
	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	consumer := events.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.VehicleTopic, cfg.Kafka.ConsumerGroup, bookingSvc)
	go consumer.Run(consumerCtx)

	// Set up HTTP server
	router := httpapi.NewRouter(bookingSvc, noteSvc, tokenManager)
	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down server...")
	stopConsumer()
	if err := consumer.Close(); err != nil {
		logger.Error("Failed to close event consumer", "error", err)
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}

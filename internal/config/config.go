package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	JWT       JWTConfig       `yaml:"jwt"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// EmailConfig contains SendGrid settings
type EmailConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret string `yaml:"secret"`
}

// KafkaConfig contains the pub/sub channel settings
type KafkaConfig struct {
	Brokers       string `yaml:"brokers"`
	EventTopic    string `yaml:"event_topic"`
	VehicleTopic  string `yaml:"vehicle_topic"`
	ConsumerGroup string `yaml:"consumer_group"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings for the sweep passes
type SchedulerConfig struct {
	WarnUnstartedRentals      string `yaml:"warn_unstarted_rentals"`
	WarnOverdueReturns        string `yaml:"warn_overdue_returns"`
	FollowUpStaleRefunds      string `yaml:"follow_up_stale_refunds"`
	SendUpcomingReminders     string `yaml:"send_upcoming_reminders"`
	ExpireUnconfirmedBookings string `yaml:"expire_unconfirmed_bookings"`
	NudgeUnreadMessages       string `yaml:"nudge_unread_messages"`
}

// Load reads configuration from a YAML file. A .env file in the working
// directory is loaded first so env overrides work in local development.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// Email
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Email.APIKey = val
	}
	if val := os.Getenv("EMAIL_FROM"); val != "" {
		c.Email.FromEmail = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Kafka
	if val := os.Getenv("KAFKA_BROKERS"); val != "" {
		c.Kafka.Brokers = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Email.APIKey == "" {
		return fmt.Errorf("SendGrid API key is required")
	}
	if c.Email.FromEmail == "" {
		return fmt.Errorf("email from address is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	if c.Kafka.Brokers == "" {
		return fmt.Errorf("kafka brokers are required")
	}
	if c.Kafka.EventTopic == "" {
		c.Kafka.EventTopic = "booking-events"
	}
	if c.Kafka.VehicleTopic == "" {
		c.Kafka.VehicleTopic = "vehicle-events"
	}
	if c.Kafka.ConsumerGroup == "" {
		c.Kafka.ConsumerGroup = "booking-engine"
	}

	// Every sweep pass runs hourly unless configured otherwise.
	if c.Scheduler.WarnUnstartedRentals == "" {
		c.Scheduler.WarnUnstartedRentals = "0 0 * * * *"
	}
	if c.Scheduler.WarnOverdueReturns == "" {
		c.Scheduler.WarnOverdueReturns = "0 5 * * * *"
	}
	if c.Scheduler.FollowUpStaleRefunds == "" {
		c.Scheduler.FollowUpStaleRefunds = "0 10 * * * *"
	}
	if c.Scheduler.SendUpcomingReminders == "" {
		c.Scheduler.SendUpcomingReminders = "0 15 * * * *"
	}
	if c.Scheduler.ExpireUnconfirmedBookings == "" {
		c.Scheduler.ExpireUnconfirmedBookings = "0 20 * * * *"
	}
	if c.Scheduler.NudgeUnreadMessages == "" {
		c.Scheduler.NudgeUnreadMessages = "0 25 * * * *"
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

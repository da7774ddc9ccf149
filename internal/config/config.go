package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	LogLevel         string
	SchedulingPolicy string

	TwilioSID       string
	TwilioAuthToken string
	TwilioPhone     string
	SendGridAPIKey  string
	SenderEmail     string

	RedisAddr string

	NotifyHour         int
	DueCheckInterval   time.Duration
	EmailFollowupDelay time.Duration
	NotifyWorkerCount  int
	NotifyQueueSize    int
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "file:studytrack.db"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		SchedulingPolicy: envOr("SCHEDULING_POLICY", "decay"),

		TwilioSID:       os.Getenv("TWILIO_SID"),
		TwilioAuthToken: os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioPhone:     os.Getenv("TWILIO_PHONE"),
		SendGridAPIKey:  os.Getenv("SENDGRID_API_KEY"),
		SenderEmail:     os.Getenv("SENDER_EMAIL"),

		RedisAddr: os.Getenv("REDIS_ADDR"),

		NotifyHour:         envIntOr("NOTIFY_HOUR", 8),
		DueCheckInterval:   envDurationOr("DUE_CHECK_INTERVAL", time.Minute),
		EmailFollowupDelay: envDurationOr("EMAIL_FOLLOWUP_DELAY", 2*time.Hour),
		NotifyWorkerCount:  envIntOr("NOTIFY_WORKER_COUNT", 2),
		NotifyQueueSize:    envIntOr("NOTIFY_QUEUE_SIZE", 32),
	}
}

// Validate checks the configuration and returns all problems at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.SchedulingPolicy != "decay" && c.SchedulingPolicy != "fixed" {
		problems = append(problems, fmt.Sprintf("SCHEDULING_POLICY %q must be decay or fixed", c.SchedulingPolicy))
	}
	if c.NotifyHour < 0 || c.NotifyHour > 23 {
		problems = append(problems, fmt.Sprintf("NOTIFY_HOUR %d must be between 0 and 23", c.NotifyHour))
	}
	if c.DueCheckInterval <= 0 {
		problems = append(problems, "DUE_CHECK_INTERVAL must be positive")
	}
	if c.EmailFollowupDelay <= 0 {
		problems = append(problems, "EMAIL_FOLLOWUP_DELAY must be positive")
	}
	if c.NotifyWorkerCount <= 0 {
		problems = append(problems, "NOTIFY_WORKER_COUNT must be positive")
	}
	if c.NotifyQueueSize <= 0 {
		problems = append(problems, "NOTIFY_QUEUE_SIZE must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// SMSEnabled reports whether Twilio credentials are fully configured.
// Missing provider config means SMS sends are silently skipped.
func (c Config) SMSEnabled() bool {
	return c.TwilioSID != "" && c.TwilioAuthToken != "" && c.TwilioPhone != ""
}

// EmailEnabled reports whether SendGrid is fully configured.
func (c Config) EmailEnabled() bool {
	return c.SendGridAPIKey != "" && c.SenderEmail != ""
}

// CloudSyncEnabled reports whether a cloud mirror is configured; when it is
// not, the server runs in local mode and sync endpoints return 503.
func (c Config) CloudSyncEnabled() bool {
	return c.RedisAddr != ""
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

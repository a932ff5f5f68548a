package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the notification pipeline knobs.
const (
	DefaultMaxRetries            = 3
	DefaultBackoffFactor         = 1.0
	DefaultRequestTimeoutSeconds = 12
	DefaultReminderWindowDays    = 3
	DefaultOverdueDay1Threshold  = 1
	DefaultOverdueBlockThreshold = 10
)

// AppConfig holds all configuration for the application. Every recognized
// option is an explicit field here; nothing is looked up dynamically at run
// time.
type AppConfig struct {
	DatabaseURL          string
	LogLevel             string
	Environment          string
	CronSpecDailyRoutine string

	// WhatsApp Cloud API channel.
	WhatsAppToken          string
	WhatsAppPhoneID        string
	WhatsAppBaseURL        string
	WhatsAppEnabled        bool // kill switch; disables the channel, not the routine
	WhatsAppMaxRetries     int
	WhatsAppBackoffFactor  float64
	WhatsAppRequestTimeout time.Duration

	// Reminder rule thresholds.
	ReminderWindowDays    int
	OverdueDay1Threshold  int
	OverdueBlockThreshold int

	// SMTP channel.
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	EmailFrom    string
}

// Load reads configuration from environment variables and .env file (if
// present). Only DATABASE_URL is required at load time: channel settings are
// validated by the channels themselves before any send attempt.
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.CronSpecDailyRoutine = os.Getenv("CRON_SPEC_DAILY_ROUTINE")
	if cfg.CronSpecDailyRoutine == "" {
		cfg.CronSpecDailyRoutine = "0 9 * * *" // 9 AM daily
	}

	cfg.WhatsAppToken = os.Getenv("WHATSAPP_TOKEN")
	cfg.WhatsAppPhoneID = os.Getenv("WHATSAPP_PHONE_ID")
	cfg.WhatsAppBaseURL = os.Getenv("WHATSAPP_BASE_URL")

	var err error
	if cfg.WhatsAppEnabled, err = boolEnv("WHATSAPP_ENABLED", true); err != nil {
		return nil, err
	}
	if cfg.WhatsAppMaxRetries, err = intEnv("WHATSAPP_MAX_RETRIES", DefaultMaxRetries); err != nil {
		return nil, err
	}
	if cfg.WhatsAppBackoffFactor, err = floatEnv("WHATSAPP_BACKOFF_FACTOR", DefaultBackoffFactor); err != nil {
		return nil, err
	}
	timeoutSeconds, err := intEnv("WHATSAPP_REQUEST_TIMEOUT_SECONDS", DefaultRequestTimeoutSeconds)
	if err != nil {
		return nil, err
	}
	cfg.WhatsAppRequestTimeout = time.Duration(timeoutSeconds) * time.Second

	if cfg.ReminderWindowDays, err = intEnv("REMINDER_WINDOW_DAYS", DefaultReminderWindowDays); err != nil {
		return nil, err
	}
	if cfg.OverdueDay1Threshold, err = intEnv("OVERDUE_DAY1_THRESHOLD", DefaultOverdueDay1Threshold); err != nil {
		return nil, err
	}
	if cfg.OverdueBlockThreshold, err = intEnv("OVERDUE_BLOCK_THRESHOLD", DefaultOverdueBlockThreshold); err != nil {
		return nil, err
	}

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	if cfg.SMTPPort, err = intEnv("SMTP_PORT", 0); err != nil {
		return nil, err
	}
	cfg.SMTPUser = os.Getenv("SMTP_USER")
	cfg.SMTPPassword = os.Getenv("SMTP_PASSWORD")
	cfg.EmailFrom = os.Getenv("EMAIL_FROM")

	return cfg, nil
}

func intEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func floatEnv(name string, fallback float64) (float64, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

func boolEnv(name string, fallback bool) (bool, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}

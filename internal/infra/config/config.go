package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the dispatch service.
type AppConfig struct {
	DatabaseURL string
	LogLevel    string
	Environment string

	// Web Push (VAPID) credentials. Required: push is the primary channel.
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubscriber string // mailto: address sent to the push service

	// Twilio credentials. All optional: without them the SMS channel is
	// permanently skipped, not an error.
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string

	CronSpecReminderCheck string        // cadence of the reminder scan
	CronSpecMissedCheck   string        // cadence of the overdue scan
	ReminderLead          time.Duration // how far ahead a reminder may fire
	MissedGrace           time.Duration // how long past due before marking missed
	DispatchTimeout       time.Duration // per-dispatch, not per-batch
	FanoutWorkers         int           // bounded parallelism for SOS fan-out
	DispatchRatePerSec    int           // gateway send rate limit
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.VAPIDPublicKey = os.Getenv("VAPID_PUBLIC_KEY")
	cfg.VAPIDPrivateKey = os.Getenv("VAPID_PRIVATE_KEY")
	if cfg.VAPIDPublicKey == "" || cfg.VAPIDPrivateKey == "" {
		return nil, fmt.Errorf("VAPID_PUBLIC_KEY and VAPID_PRIVATE_KEY must be set")
	}
	cfg.VAPIDSubscriber = os.Getenv("VAPID_SUBSCRIBER")
	if cfg.VAPIDSubscriber == "" {
		cfg.VAPIDSubscriber = "mailto:admin@example.com"
	}

	// SMS stays optional: the gateway reports 'skipped' when unconfigured.
	cfg.TwilioAccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.TwilioAuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.TwilioPhoneNumber = os.Getenv("TWILIO_PHONE_NUMBER")

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	cfg.CronSpecReminderCheck = os.Getenv("CRON_SPEC_REMINDER_CHECK")
	if cfg.CronSpecReminderCheck == "" {
		cfg.CronSpecReminderCheck = "* * * * *" // every minute
	}

	cfg.CronSpecMissedCheck = os.Getenv("CRON_SPEC_MISSED_CHECK")
	if cfg.CronSpecMissedCheck == "" {
		cfg.CronSpecMissedCheck = "0 * * * *" // hourly
	}

	var err error
	cfg.ReminderLead, err = durationEnv("REMINDER_LEAD_SECONDS", 60*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.MissedGrace, err = durationEnv("MISSED_GRACE_SECONDS", time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.DispatchTimeout, err = durationEnv("DISPATCH_TIMEOUT_SECONDS", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.FanoutWorkers, err = intEnv("FANOUT_WORKERS", 4)
	if err != nil {
		return nil, err
	}
	cfg.DispatchRatePerSec, err = intEnv("DISPATCH_RATE_PER_SEC", 20)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return time.Duration(secs) * time.Second, nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

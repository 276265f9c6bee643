package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/care_test")
	t.Setenv("VAPID_PUBLIC_KEY", "pub")
	t.Setenv("VAPID_PRIVATE_KEY", "priv")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "* * * * *", cfg.CronSpecReminderCheck)
	assert.Equal(t, "0 * * * *", cfg.CronSpecMissedCheck)
	assert.Equal(t, 60*time.Second, cfg.ReminderLead)
	assert.Equal(t, time.Hour, cfg.MissedGrace)
	assert.Equal(t, 10*time.Second, cfg.DispatchTimeout)
	assert.Equal(t, 4, cfg.FanoutWorkers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("VAPID_PUBLIC_KEY", "pub")
	t.Setenv("VAPID_PRIVATE_KEY", "priv")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingVAPIDKeys(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/care_test")
	t.Setenv("VAPID_PUBLIC_KEY", "")
	t.Setenv("VAPID_PRIVATE_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REMINDER_LEAD_SECONDS", "120")
	t.Setenv("MISSED_GRACE_SECONDS", "1800")
	t.Setenv("FANOUT_WORKERS", "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.ReminderLead)
	assert.Equal(t, 30*time.Minute, cfg.MissedGrace)
	assert.Equal(t, 8, cfg.FanoutWorkers)
}

func TestLoad_InvalidDuration(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REMINDER_LEAD_SECONDS", "soon")

	_, err := Load()
	assert.Error(t, err)
}

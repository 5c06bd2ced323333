package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("MAIL_DRIVER", "log")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("AUTH_MODE", "jwt")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "0 9 * * *", cfg.ReportSchedule)
	assert.Equal(t, "America/New_York", cfg.Location().String())
	assert.Equal(t, 4, cfg.ReportConcurrency)
	assert.Equal(t, 10*time.Second, cfg.ReportSendTimeout)
	assert.Equal(t, 2*time.Minute, cfg.ReportBatchTimeout)
	assert.Equal(t, []string{"no groupcest"}, cfg.Groups())
	assert.True(t, cfg.ReportScheduleEnabled)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.DevTokens)
}

func TestLoadOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("REPORT_GROUPS", "flat, office")
	t.Setenv("REPORT_CONCURRENCY", "8")
	t.Setenv("SEED_MEMBERS", "ana@example.com=Ana,broken,ben@example.com=Ben")
	t.Setenv("DEFAULT_GROUP", "flat")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"flat", "office"}, cfg.Groups())
	assert.Equal(t, 8, cfg.ReportConcurrency)

	members := cfg.Members()
	require.Len(t, members, 2)
	assert.Equal(t, "Ana", members[0].Name)
	assert.Equal(t, "flat", members[1].Group)
}

func TestValidateCollectsProblems(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", "99999")
	t.Setenv("DATA_BACKEND", "postgres")
	t.Setenv("MAIL_DRIVER", "sendgrid")
	t.Setenv("REPORT_TIMEZONE", "Mars/Olympus")
	t.Setenv("REPORT_SCHEDULE", "whenever")

	_, err := Load()
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "invalid port 99999")
	assert.Contains(t, msg, "DATABASE_URL is required")
	assert.Contains(t, msg, "SENDGRID_API_KEY is required")
	assert.Contains(t, msg, "MAIL_FROM is required")
	assert.Contains(t, msg, "invalid report timezone")
	assert.Contains(t, msg, "invalid report schedule")
}

func TestValidateAuthMode(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestValidateDevTokens(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DEV_TOKENS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.DevTokens)

	t.Setenv("APP_ENV", "production")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEV_TOKENS cannot be enabled in production")

	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_MODE", "firebase")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DEV_TOKENS requires AUTH_MODE=jwt")
}

package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CSRF_SECRET", "csrf")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10, cfg.ContactRateLimit)
	assert.Equal(t, 2160*time.Hour, cfg.LeadRetention)
	assert.False(t, cfg.IsProduction())
	assert.False(t, cfg.LeadStorageEnabled())
	assert.False(t, cfg.LeadNotificationsEnabled())
}

func TestLoadConfigRequiresCSRFSecret(t *testing.T) {
	t.Setenv("CSRF_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestLoadWorkerConfigWithoutCSRFSecret(t *testing.T) {
	t.Setenv("CSRF_SECRET", "")
	t.Setenv("CONTACT_RATE_LIMIT", "-1")

	cfg, err := LoadWorkerConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9091", cfg.WorkerMetricsAddr)
	assert.Equal(t, 2160*time.Hour, cfg.LeadRetention)
}

func TestLoadWorkerConfigRejectsShortRetention(t *testing.T) {
	t.Setenv("LEAD_RETENTION", "30m")

	_, err := LoadWorkerConfig()
	require.Error(t, err)
}

func TestLoadConfigOptionalFeatures(t *testing.T) {
	t.Setenv("CSRF_SECRET", "csrf")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PG_DSN", "postgres://softsell@localhost/softsell")
	t.Setenv("LEAD_NOTIFY_TO", "sales@softsell.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.LeadStorageEnabled())
	assert.True(t, cfg.LeadNotificationsEnabled())
}

func TestLoadConfigRejectsShortRetention(t *testing.T) {
	for _, retention := range []string{"0s", "-1h", "30m", "59m59s"} {
		t.Run(retention, func(t *testing.T) {
			t.Setenv("CSRF_SECRET", "csrf")
			t.Setenv("LEAD_RETENTION", retention)

			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}

func TestLoadConfigAcceptsOneHourRetention(t *testing.T) {
	t.Setenv("CSRF_SECRET", "csrf")
	t.Setenv("LEAD_RETENTION", "1h")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, time.Hour, cfg.LeadRetention)
}

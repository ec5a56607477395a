package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/softsell/softsell/jobs"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	// PGDSN is optional; leads are not stored when it is empty.
	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr  string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	// CSRFSecret is required by the web server only.
	CSRFSecret string `envconfig:"CSRF_SECRET"`

	ContactRateLimit int           `envconfig:"CONTACT_RATE_LIMIT" default:"10"`
	LeadNotifyTo     string        `envconfig:"LEAD_NOTIFY_TO"`
	LeadRetention    time.Duration `envconfig:"LEAD_RETENTION" default:"2160h"`

	SMTPHost     string `envconfig:"SMTP_HOST" default:"127.0.0.1"`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"1025"`
	SMTPUsername string `envconfig:"SMTP_USERNAME"`
	SMTPPassword string `envconfig:"SMTP_PASSWORD"`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:"no-reply@softsell.local"`

	WorkerMetricsAddr string `envconfig:"WORKER_METRICS_ADDR" default:":9091"`
}

// LoadConfig reads the web server configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg, err := loadEnv()
	if err != nil {
		return nil, err
	}
	if cfg.CSRFSecret == "" {
		return nil, errors.New("csrf secret must be provided")
	}
	if cfg.ContactRateLimit < 0 {
		return nil, errors.New("contact rate limit must not be negative")
	}
	return cfg, nil
}

// LoadWorkerConfig reads the configuration used by the background worker and
// the operations CLI. Web-only settings such as CSRF_SECRET are not checked.
func LoadWorkerConfig() (*Config, error) {
	return loadEnv()
}

func loadEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.LeadRetention < jobs.MinLeadRetention {
		return nil, fmt.Errorf("lead retention must be at least %s", jobs.MinLeadRetention)
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// LeadStorageEnabled reports whether a database is configured for leads.
func (c *Config) LeadStorageEnabled() bool {
	return c != nil && c.PGDSN != ""
}

// LeadNotificationsEnabled reports whether accepted leads trigger an e-mail.
func (c *Config) LeadNotificationsEnabled() bool {
	return c != nil && c.LeadNotifyTo != ""
}

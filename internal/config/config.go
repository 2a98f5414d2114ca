package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Email providers selectable with EMAIL_PROVIDER.
const (
	ProviderLog      = "log"
	ProviderWebhook  = "webhook"
	ProviderShoutrrr = "shoutrrr"
)

// Config holds all runtime configuration loaded from environment variables
// (and from a .env file in the working directory, when present).
// Every field has a default; the demo runs with no environment at all.
type Config struct {
	// Logging
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogEncoding string `env:"LOG_ENCODING" envDefault:"console"`

	// Email delivery
	EmailProvider  string        `env:"EMAIL_PROVIDER" envDefault:"log"`
	EmailSendDelay time.Duration `env:"EMAIL_SEND_DELAY" envDefault:"100ms"`
	// Maximum emails per second; 0 disables the limit.
	EmailRateLimit int           `env:"EMAIL_RATE_LIMIT" envDefault:"0"`
	WebhookURL     string        `env:"EMAIL_WEBHOOK_URL"`
	SendTimeout    time.Duration `env:"EMAIL_SEND_TIMEOUT" envDefault:"10s"`
	ShoutrrrURLs   []string      `env:"EMAIL_SHOUTRRR_URLS" envSeparator:","`

	// Admin HTTP server; disabled when empty.
	AdminAddr       string        `env:"ADMIN_ADDR"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

func Load() (*Config, error) {
	// A missing .env file is the normal case.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.EmailProvider {
	case ProviderLog:
	case ProviderWebhook:
		if c.WebhookURL == "" {
			return errors.New("EMAIL_WEBHOOK_URL is required when EMAIL_PROVIDER=webhook")
		}
	case ProviderShoutrrr:
		if len(c.ShoutrrrURLs) == 0 {
			return errors.New("EMAIL_SHOUTRRR_URLS is required when EMAIL_PROVIDER=shoutrrr")
		}
	default:
		return fmt.Errorf("unknown EMAIL_PROVIDER %q: must be log, webhook, or shoutrrr", c.EmailProvider)
	}
	if c.EmailRateLimit < 0 {
		return errors.New("EMAIL_RATE_LIMIT must not be negative")
	}
	return nil
}

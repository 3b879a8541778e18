package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
)

// Config is the full process configuration, parsed once at startup and
// passed by reference into constructors. There is no global lookup.
type Config struct {
	Port    int    `env:"PORT" envDefault:"8080"`
	Profile string `env:"PROFILE" envDefault:"local"`
	Debug   bool   `env:"APP_DEBUG" envDefault:"false"`

	DSN string `env:"DB_DSN" envDefault:"file:remotebingo.db?cache=shared&_pragma=foreign_keys(1)"`

	Auth AuthConfig
}

// AuthConfig holds the two independent token configurations. The
// secrets are distinct on purpose; a refresh token must never verify
// against the access secret.
type AuthConfig struct {
	AccessSecret  string        `env:"JWT_SECRET"`
	AccessExpiry  time.Duration `env:"JWT_EXPIRY" envDefault:"15m"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	RefreshExpiry time.Duration `env:"JWT_REFRESH_EXPIRY" envDefault:"168h"`
	Issuer        string        `env:"JWT_ISSUER" envDefault:"remotebingo"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate enforces the keys the process cannot run without.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
		validation.Field(&c.DSN, validation.Required),
	); err != nil {
		return err
	}

	return validation.ValidateStruct(&c.Auth,
		validation.Field(&c.Auth.AccessSecret, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.Auth.RefreshSecret, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.Auth.AccessExpiry, validation.Required),
		validation.Field(&c.Auth.RefreshExpiry, validation.Required),
	)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the environment-level configuration. Command flags override it.
type Config struct {
	Locale   string `env:"DUCKS_LOCALE" envDefault:"ja"`
	DB       string `env:"DUCKS_DB" envDefault:":memory:"`
	LogLevel string `env:"DUCKS_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"DUCKS_LOG_FILE"`
	DemoUser string `env:"DUCKS_DEMO_USER" envDefault:"taro"`
	// Session fixes the session token instead of generating a UUIDv7.
	Session string `env:"DUCKS_SESSION"`
}

// Load parses the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that env tags cannot express.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DemoUser) == "" {
		return errors.New("config: DUCKS_DEMO_USER must not be empty")
	}
	if strings.TrimSpace(c.DB) == "" {
		return errors.New("config: DUCKS_DB must not be empty")
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("config: DUCKS_LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return level, nil
}

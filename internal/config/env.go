// Package config reads cardvault settings from CARDVAULT_* environment
// variables. Command-line flags override these values.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"golang.org/x/text/currency"
)

// Config holds environment-provided defaults.
type Config struct {
	DB       string        `env:"CARDVAULT_DB"             envDefault:"cardvault.db"`
	User     string        `env:"CARDVAULT_USER"           envDefault:"local"`
	Catalog  string        `env:"CARDVAULT_CATALOG"        envDefault:"catalog.yaml"`
	LogLevel string        `env:"CARDVAULT_LOG_LEVEL"      envDefault:"info"`
	Currency string        `env:"CARDVAULT_CURRENCY"       envDefault:"CLP"`
	Debounce time.Duration `env:"CARDVAULT_WATCH_DEBOUNCE" envDefault:"100ms"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses and validates Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Level(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Unit(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Unit returns the ISO 4217 currency prices are displayed in.
func (c Config) Unit() (currency.Unit, error) {
	unit, err := currency.ParseISO(strings.TrimSpace(c.Currency))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency %q: %w", c.Currency, err)
	}
	return unit, nil
}

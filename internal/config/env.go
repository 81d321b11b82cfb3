// Package config loads sleuth's environment configuration.
//
// Every setting has a matching CLI flag; flags win over the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the settings read from SLEUTH_* variables.
type Config struct {
	// DB is the SQLite file games are stored in.
	DB string `env:"SLEUTH_DB" envDefault:"sleuth.db"`

	// Deck is an optional CUE deck used by new games. Empty means the
	// standard deck.
	Deck string `env:"SLEUTH_DECK"`

	Format   string `env:"SLEUTH_FORMAT"    envDefault:"text"`
	LogLevel string `env:"SLEUTH_LOG_LEVEL" envDefault:"warn"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads and validates the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	switch c.Format {
	case FormatText, FormatJSON:
	default:
		return fmt.Errorf("SLEUTH_FORMAT: unknown format %q (must be text or json)", c.Format)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("SLEUTH_LOG_LEVEL: %w", err)
	}
	return nil
}

// ParseLevel accepts debug, info, warn or error in any case.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

package config

import (
	"log/slog"
	"os"
	"strings"
	"testing"
)

type envTestConfig struct {
	Passes int `env:"SLEUTH_TEST_PASSES" envDefault:"64"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Passes != 64 {
		t.Fatalf("expected default 64, got %d", cfg.Passes)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("SLEUTH_TEST_PASSES", "many")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SLEUTH_DB", "SLEUTH_DECK", "SLEUTH_FORMAT", "SLEUTH_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := Config{DB: "sleuth.db", Format: FormatText, LogLevel: "warn"}
	if cfg != want {
		t.Fatalf("expected %+v, got %+v", want, cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SLEUTH_DB", "/tmp/games.db")
	t.Setenv("SLEUTH_DECK", "decks/mansion.cue")
	t.Setenv("SLEUTH_FORMAT", "json")
	t.Setenv("SLEUTH_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DB != "/tmp/games.db" || cfg.Deck != "decks/mansion.cue" || cfg.Format != FormatJSON {
		t.Fatalf("unexpected config %+v", cfg)
	}
	level, err := ParseLevel(cfg.LogLevel)
	if err != nil || level != slog.LevelDebug {
		t.Fatalf("expected debug level, got %v (%v)", level, err)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"SLEUTH_FORMAT", "yaml", "SLEUTH_FORMAT"},
		{"SLEUTH_LOG_LEVEL", "loud", "SLEUTH_LOG_LEVEL"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q in %v", tt.want, err)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"Info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"ERROR": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

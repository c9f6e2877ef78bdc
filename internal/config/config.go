// Package config loads program settings from the environment and the command
// line and prepares the logger.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"go.uber.org/multierr"

	"github.com/metcalfc/tale/internal/generate"
	"github.com/metcalfc/tale/internal/story"
)

// Config holds everything needed to run a reading session.
type Config struct {
	APIKey       SecretString `env:"OPENAI_API_KEY"`
	Model        string       `env:"TALE_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL      string       `env:"TALE_BASE_URL"`
	MaxRetries   int          `env:"TALE_MAX_RETRIES" envDefault:"2"`
	LinesPerPage int          `env:"TALE_LINES_PER_PAGE" envDefault:"5"`
	ReplayFile   string       `env:"TALE_REPLAY_FILE"`

	Logging LoggingConfig
}

// LoggingConfig selects where and how much to log. The terminal belongs to
// the reader, so logs only ever go to a file.
type LoggingConfig struct {
	Level       string `env:"TALE_LOG_LEVEL" envDefault:"none"`
	Destination string `env:"TALE_LOG_FILE" envDefault:"tale.log"`
}

var (
	// ErrMissingAPIKey is returned when neither an API key nor a replay file is configured.
	ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set (or use --replay FILE)")
)

// Load parses the environment into a Config with defaults applied.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Default returns a Config with defaults only, ignoring the environment.
func Default() *Config {
	return &Config{
		Model:        generate.DefaultModel,
		MaxRetries:   2,
		LinesPerPage: story.DefaultLinesPerPage,
		Logging:      LoggingConfig{Level: "none", Destination: "tale.log"},
	}
}

// Validate checks that the configuration can run a session.
func (c *Config) Validate() error {
	var err error
	if c.LinesPerPage < 1 {
		err = multierr.Append(err, fmt.Errorf("lines per page must be at least 1, got %d", c.LinesPerPage))
	}
	if c.MaxRetries < 0 {
		err = multierr.Append(err, fmt.Errorf("max retries must not be negative, got %d", c.MaxRetries))
	}
	switch c.Logging.Level {
	case "none", "normal", "debug":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown log level %q (none, normal, debug)", c.Logging.Level))
	}
	if c.Logging.Level != "none" && strings.TrimSpace(c.Logging.Destination) == "" {
		err = multierr.Append(err, errors.New("log destination is required when logging is enabled"))
	}
	if c.ReplayFile == "" && strings.TrimSpace(string(c.APIKey)) == "" {
		err = multierr.Append(err, ErrMissingAPIKey)
	}
	return err
}

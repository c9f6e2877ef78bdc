package main

import (
	"context"
	"testing"

	cli "github.com/urfave/cli/v3"

	"github.com/metcalfc/tale/internal/config"
	"github.com/metcalfc/tale/internal/generate"
)

// parseFlags runs the command with args and returns the default config after
// flag overrides.
func parseFlags(t *testing.T, args ...string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cmd := newCommand()
	cmd.Action = func(_ context.Context, c *cli.Command) error {
		applyFlags(cfg, c)
		return nil
	}
	if err := cmd.Run(context.Background(), append([]string{"tale"}, args...)); err != nil {
		t.Fatalf("Run(%q) error: %v", args, err)
	}
	return cfg
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		lines   int
		model   string
		replay  string
		level   string
		logDest string
	}{
		{"defaults", nil, 5, generate.DefaultModel, "", "none", "tale.log"},
		{"lines and model", []string{"-l", "7", "--model", "gpt-4o"}, 7, "gpt-4o", "", "none", "tale.log"},
		{"replay", []string{"--replay", "story.md"}, 5, generate.DefaultModel, "story.md", "none", "tale.log"},
		{"log enables normal level", []string{"--log", "run.log"}, 5, generate.DefaultModel, "", "normal", "run.log"},
		{"debug", []string{"-d"}, 5, generate.DefaultModel, "", "debug", "tale.log"},
		{"log and debug", []string{"--log", "run.log", "--debug"}, 5, generate.DefaultModel, "", "debug", "run.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := parseFlags(t, tt.args...)
			if cfg.LinesPerPage != tt.lines {
				t.Errorf("LinesPerPage = %d, want %d", cfg.LinesPerPage, tt.lines)
			}
			if cfg.Model != tt.model {
				t.Errorf("Model = %q, want %q", cfg.Model, tt.model)
			}
			if cfg.ReplayFile != tt.replay {
				t.Errorf("ReplayFile = %q, want %q", cfg.ReplayFile, tt.replay)
			}
			if cfg.Logging.Level != tt.level {
				t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, tt.level)
			}
			if cfg.Logging.Destination != tt.logDest {
				t.Errorf("Logging.Destination = %q, want %q", cfg.Logging.Destination, tt.logDest)
			}
		})
	}
}

func TestNewClient(t *testing.T) {
	cfg := config.Default()
	cfg.APIKey = "sk-test"
	if _, ok := newClient(cfg, nil).(*generate.OpenAI); !ok {
		t.Error("expected the OpenAI client without a replay file")
	}

	cfg.ReplayFile = "story.txt"
	if _, ok := newClient(cfg, nil).(*generate.Replay); !ok {
		t.Error("expected the replay client with a replay file")
	}
}

func TestPromptReady(t *testing.T) {
	tests := []struct {
		prompt string
		want   bool
	}{
		{"", false},
		{"   ", false},
		{"\n\t ", false},
		{"a jewel thief", true},
		{"  rain  ", true},
	}
	for _, tt := range tests {
		if got := promptReady(tt.prompt); got != tt.want {
			t.Errorf("promptReady(%q) = %v, want %v", tt.prompt, got, tt.want)
		}
	}
}

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	for _, name := range []string{"OPENAI_API_KEY", "TALE_MODEL", "TALE_BASE_URL", "TALE_MAX_RETRIES",
		"TALE_LINES_PER_PAGE", "TALE_REPLAY_FILE", "TALE_LOG_LEVEL", "TALE_LOG_FILE"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-live")
	t.Setenv("TALE_MODEL", "gpt-4o")
	t.Setenv("TALE_LINES_PER_PAGE", "8")
	t.Setenv("TALE_LOG_LEVEL", "debug")
	t.Setenv("TALE_LOG_FILE", "/tmp/x.log")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, SecretString("sk-live"), cfg.APIKey)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 8, cfg.LinesPerPage)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/x.log", cfg.Logging.Destination)
	assert.NoError(t, cfg.Validate())
}

func TestLoadBadNumber(t *testing.T) {
	t.Setenv("TALE_LINES_PER_PAGE", "five")
	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"api key", func(c *Config) { c.APIKey = "k" }, ""},
		{"replay without key", func(c *Config) { c.ReplayFile = "story.txt" }, ""},
		{"missing key", func(c *Config) {}, "OPENAI_API_KEY"},
		{"zero lines", func(c *Config) { c.APIKey = "k"; c.LinesPerPage = 0 }, "lines per page"},
		{"negative retries", func(c *Config) { c.APIKey = "k"; c.MaxRetries = -1 }, "max retries"},
		{"bad level", func(c *Config) { c.APIKey = "k"; c.Logging.Level = "loud" }, "unknown log level"},
		{"no destination", func(c *Config) { c.APIKey = "k"; c.Logging = LoggingConfig{Level: "debug"} }, "log destination"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Default()
	cfg.LinesPerPage = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Contains(t, err.Error(), "lines per page")
	assert.Contains(t, err.Error(), "unknown log level")
}

func TestSecretString(t *testing.T) {
	s := SecretString("sk-very-secret")
	assert.Equal(t, SecretStringValue, s.String())
	assert.Equal(t, SecretStringValue, fmt.Sprint(s))

	data, err := json.Marshal(struct {
		Key SecretString `json:"key"`
	}{s})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "sk-very-secret")

	assert.Equal(t, "", SecretString("").String())
}

func TestPrepareNone(t *testing.T) {
	conf := LoggingConfig{Level: "none"}
	log, closer, err := conf.Prepare()
	require.NoError(t, err)
	log.Info("dropped")
	assert.NoError(t, closer())
}

func TestPrepareWritesFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "tale.log")
	conf := LoggingConfig{Level: "normal", Destination: dest}

	log, closer, err := conf.Prepare()
	require.NoError(t, err)
	log.Debug("hidden at normal level")
	log.Info("Story loaded", zap.Int("pages", 2))
	require.NoError(t, closer())

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "Story loaded")
	assert.Contains(t, out, AppName)
	assert.False(t, strings.Contains(out, "hidden at normal level"))
}

func TestPrepareBadDestination(t *testing.T) {
	conf := LoggingConfig{Level: "debug", Destination: filepath.Join(t.TempDir(), "missing", "dir", "tale.log")}
	_, _, err := conf.Prepare()
	assert.Error(t, err)
}

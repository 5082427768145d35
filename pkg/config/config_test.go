package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "tgscraper.session", cfg.Telegram.SessionFile)
	assert.Equal(t, 2*time.Second, cfg.RateLimit.MinInterval)
	assert.Equal(t, 0, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 500, cfg.Scrape.MaxMembers)
	assert.Equal(t, []string{"", "a", "e", "i", "o", "u", "s", "t", "n", "r"}, cfg.Scrape.Patterns)
	assert.Equal(t, ".", cfg.Output.Directory)
	assert.Equal(t, "native_scrape_results", cfg.Output.BaseName)
	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TGSCRAPER_API_ID", "12345")
	t.Setenv("TGSCRAPER_API_HASH", "somehash")
	t.Setenv("TGSCRAPER_SESSION_FILE", "/tmp/custom.session")
	t.Setenv("TGSCRAPER_MIN_INTERVAL", "500ms")
	t.Setenv("TGSCRAPER_OUTPUT_DIR", "/tmp/out")
	t.Setenv("TGSCRAPER_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 12345, cfg.Telegram.APIID)
	assert.Equal(t, "somehash", cfg.Telegram.APIHash)
	assert.Equal(t, "/tmp/custom.session", cfg.Telegram.SessionFile)
	assert.Equal(t, 500*time.Millisecond, cfg.RateLimit.MinInterval)
	assert.Equal(t, "/tmp/out", cfg.Output.Directory)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvInvalidValues(t *testing.T) {
	t.Setenv("TGSCRAPER_API_ID", "not-a-number")
	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromEnv())

	t.Setenv("TGSCRAPER_API_ID", "")
	t.Setenv("TGSCRAPER_MIN_INTERVAL", "banana")
	cfg = DefaultConfig()
	assert.Error(t, cfg.LoadFromEnv())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
telegram:
  api_id: 777
  session_file: file.session
scrape:
  max_members: 42
  patterns: ["", "x"]
rate_limit:
  min_interval: 3s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, 777, cfg.Telegram.APIID)
	assert.Equal(t, "file.session", cfg.Telegram.SessionFile)
	assert.Equal(t, 42, cfg.Scrape.MaxMembers)
	assert.Equal(t, []string{"", "x"}, cfg.Scrape.Patterns)
	assert.Equal(t, 3*time.Second, cfg.RateLimit.MinInterval)
	// Untouched sections keep their defaults
	assert.Equal(t, "native_scrape_results", cfg.Output.BaseName)
}

func TestLoadFromFileMissingExplicitPath(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFromFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("telegram: [not a map"), 0600))

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(path))
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MergeCommandLineFlags(map[string]interface{}{
		"api-id":       999,
		"api-hash":     "flaghash",
		"session-file": "flag.session",
		"max-members":  77,
		"min-interval": time.Second,
		"output-dir":   "/flag/out",
		"output":       "flagbase",
		"log-level":    "debug",
	})

	assert.Equal(t, 999, cfg.Telegram.APIID)
	assert.Equal(t, "flaghash", cfg.Telegram.APIHash)
	assert.Equal(t, "flag.session", cfg.Telegram.SessionFile)
	assert.Equal(t, 77, cfg.Scrape.MaxMembers)
	assert.Equal(t, time.Second, cfg.RateLimit.MinInterval)
	assert.Equal(t, "/flag/out", cfg.Output.Directory)
	assert.Equal(t, "flagbase", cfg.Output.BaseName)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
scrape:
  max_members: 100
output:
  base_name: from_file
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("TGSCRAPER_OUTPUT_DIR", "/env/out")

	cfg, err := Load(path, map[string]interface{}{
		"max-members": 200,
	})
	require.NoError(t, err)

	assert.Equal(t, 200, cfg.Scrape.MaxMembers, "flags beat the config file")
	assert.Equal(t, "from_file", cfg.Output.BaseName)
	assert.Equal(t, "/env/out", cfg.Output.Directory)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty session file", func(c *Config) { c.Telegram.SessionFile = "" }},
		{"negative interval", func(c *Config) { c.RateLimit.MinInterval = -time.Second }},
		{"negative rpm", func(c *Config) { c.RateLimit.RequestsPerMinute = -1 }},
		{"negative max members", func(c *Config) { c.Scrape.MaxMembers = -1 }},
		{"empty output dir", func(c *Config) { c.Output.Directory = "" }},
		{"empty base name", func(c *Config) { c.Output.BaseName = "" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved", "config.yaml")

	cfg := DefaultConfig()
	cfg.Telegram.APIID = 555
	cfg.Scrape.MaxMembers = 99
	require.NoError(t, cfg.Save(path))

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, 555, loaded.Telegram.APIID)
	assert.Equal(t, 99, loaded.Scrape.MaxMembers)
}

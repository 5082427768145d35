package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the Telegram scraper
type Config struct {
	// Telegram API credentials and session state
	Telegram TelegramConfig `yaml:"telegram" json:"telegram"`

	// Rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// Enumeration settings
	Scrape ScrapeConfig `yaml:"scrape" json:"scrape"`

	// Output settings
	Output OutputConfig `yaml:"output" json:"output"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TelegramConfig holds Telegram-specific configuration
type TelegramConfig struct {
	APIID         int    `yaml:"api_id" json:"api_id"`
	APIHash       string `yaml:"api_hash" json:"api_hash"`
	SessionFile   string `yaml:"session_file" json:"session_file"`
	DeviceModel   string `yaml:"device_model" json:"device_model"`
	SystemVersion string `yaml:"system_version" json:"system_version"`
	AppVersion    string `yaml:"app_version" json:"app_version"`
	LangCode      string `yaml:"lang_code" json:"lang_code"`
}

// RateLimitConfig holds pacing configuration for enumeration queries
type RateLimitConfig struct {
	// MinInterval is the minimum spacing between consecutive search queries.
	MinInterval time.Duration `yaml:"min_interval" json:"min_interval"`
	// RequestsPerMinute switches the engine to a token bucket when > 0.
	RequestsPerMinute int `yaml:"requests_per_minute" json:"requests_per_minute"`
}

// ScrapeConfig holds enumeration defaults
type ScrapeConfig struct {
	MaxMembers int      `yaml:"max_members" json:"max_members"`
	Patterns   []string `yaml:"patterns" json:"patterns"`
}

// OutputConfig holds result export configuration
type OutputConfig struct {
	Directory string `yaml:"directory" json:"directory"`
	BaseName  string `yaml:"base_name" json:"base_name"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			SessionFile:   "tgscraper.session",
			DeviceModel:   "Telegram Scraper Native",
			SystemVersion: "Linux",
			AppVersion:    "2.0.0",
			LangCode:      "en",
		},
		RateLimit: RateLimitConfig{
			MinInterval:       2 * time.Second,
			RequestsPerMinute: 0,
		},
		Scrape: ScrapeConfig{
			MaxMembers: 500,
			Patterns:   []string{"", "a", "e", "i", "o", "u", "s", "t", "n", "r"},
		},
		Output: OutputConfig{
			Directory: ".",
			BaseName:  "native_scrape_results",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if apiID := os.Getenv("TGSCRAPER_API_ID"); apiID != "" {
		val, err := strconv.Atoi(apiID)
		if err != nil {
			return fmt.Errorf("invalid TGSCRAPER_API_ID: %w", err)
		}
		c.Telegram.APIID = val
	}
	if apiHash := os.Getenv("TGSCRAPER_API_HASH"); apiHash != "" {
		c.Telegram.APIHash = apiHash
	}
	if sessionFile := os.Getenv("TGSCRAPER_SESSION_FILE"); sessionFile != "" {
		c.Telegram.SessionFile = sessionFile
	}
	if interval := os.Getenv("TGSCRAPER_MIN_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return fmt.Errorf("invalid TGSCRAPER_MIN_INTERVAL: %w", err)
		}
		c.RateLimit.MinInterval = d
	}
	if outputDir := os.Getenv("TGSCRAPER_OUTPUT_DIR"); outputDir != "" {
		c.Output.Directory = outputDir
	}
	if logLevel := os.Getenv("TGSCRAPER_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".tgscraper.yaml",
		".tgscraper.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "tgscraper", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".tgscraper.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid. Credentials are not
// required here; they may still arrive from the credential store.
func (c *Config) Validate() error {
	var errs []error

	if c.Telegram.SessionFile == "" {
		errs = append(errs, errors.New("session file path is required"))
	}
	if c.RateLimit.MinInterval < 0 {
		errs = append(errs, errors.New("min interval cannot be negative"))
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, errors.New("requests per minute cannot be negative"))
	}
	if c.Scrape.MaxMembers < 0 {
		errs = append(errs, errors.New("max members cannot be negative"))
	}
	if c.Output.Directory == "" {
		errs = append(errs, errors.New("output directory is required"))
	}
	if c.Output.BaseName == "" {
		errs = append(errs, errors.New("output base name is required"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if apiID, ok := flags["api-id"].(int); ok && apiID > 0 {
		c.Telegram.APIID = apiID
	}
	if apiHash, ok := flags["api-hash"].(string); ok && apiHash != "" {
		c.Telegram.APIHash = apiHash
	}
	if sessionFile, ok := flags["session-file"].(string); ok && sessionFile != "" {
		c.Telegram.SessionFile = sessionFile
	}
	if maxMembers, ok := flags["max-members"].(int); ok && maxMembers >= 0 {
		c.Scrape.MaxMembers = maxMembers
	}
	if interval, ok := flags["min-interval"].(time.Duration); ok && interval > 0 {
		c.RateLimit.MinInterval = interval
	}
	if outputDir, ok := flags["output-dir"].(string); ok && outputDir != "" {
		c.Output.Directory = outputDir
	}
	if baseName, ok := flags["output"].(string); ok && baseName != "" {
		c.Output.BaseName = baseName
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".tgscraper.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

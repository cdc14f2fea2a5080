package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Answer service settings
	AnswerURL      string        `env:"ANSWER_URL"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// Keyword linking
	KeywordsPath string `env:"KEYWORDS_PATH"`

	// Audio capture
	RecordCommand []string `env:"RECORD_COMMAND" envSeparator:" "`
	RecordMIME    string   `env:"RECORD_MIME"`

	// Display settings
	Style     string `env:"STYLE"`
	Plain     bool   `env:"PLAIN"`
	ExportDir string `env:"EXPORT_DIR"`

	// Logging
	LogPath string `env:"LOG_PATH"`
	Verbose bool   `env:"VERBOSE"`
}

// envPrefix namespaces every environment variable
const envPrefix = "FIIHELP_"

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		AnswerURL:      "http://localhost:3000",
		RequestTimeout: 120 * time.Second,

		RecordCommand: []string{"arecord", "-q", "-f", "cd", "-t", "wav", "-"},
		RecordMIME:    "audio/wav",

		Style:     "auto",
		ExportDir: ".",

		LogPath: expandHome("~/.fiihelp/fiihelp.log"),
	}
}

// Load returns defaults overridden by .env files and FIIHELP_* variables
func Load(dotenvFiles ...string) (*Config, error) {
	if err := godotenv.Load(dotenvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := NewConfig()
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: envPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.LogPath = expandHome(cfg.LogPath)
	cfg.KeywordsPath = expandHome(cfg.KeywordsPath)
	cfg.ExportDir = expandHome(cfg.ExportDir)
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.AnswerURL == "" {
		return fmt.Errorf("answer URL cannot be empty")
	}
	u, err := url.Parse(c.AnswerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("answer URL %q is not an absolute URL", c.AnswerURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive")
	}
	if len(c.RecordCommand) == 0 {
		return fmt.Errorf("record command cannot be empty")
	}
	return nil
}

// expandHome expands the ~ in file paths to the user's home directory
func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir := getHomeDir()
		return homeDir + path[1:]
	}
	return path
}

// getHomeDir returns the user's home directory
func getHomeDir() string {
	if home := GetEnv("HOME"); home != "" {
		return home
	}
	// Fallback for Windows
	if home := GetEnv("USERPROFILE"); home != "" {
		return home
	}
	return "."
}

// GetEnv is a wrapper around os.Getenv for easier testing
var GetEnv = func(key string) string {
	// Will be replaced with os.Getenv in main
	return ""
}

// Package config loads runtime configuration for the forumctl CLI.
//
// Sources and precedence, later overriding earlier:
//
//  1. Built-in defaults.
//  2. Optional JSON file selected via -c or -config.
//  3. Environment variables with the FORUMCTL_ prefix (a .env file in the
//     working directory is loaded first, if present).
//  4. Command-line flags.
package config

import "time"

// Config holds runtime settings for the forumctl CLI.
type Config struct {
	// APIBaseURL is the root of the backend gateway, e.g. http://localhost:8000.
	APIBaseURL string `env:"API_BASE_URL"`
	// RequestTimeout bounds every HTTP request.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	// UseMock switches to the in-memory backends; no network access happens.
	UseMock bool `env:"USE_MOCK"`
	// StateDir overrides the per-user state directory. Empty selects the
	// platform default.
	StateDir string `env:"STATE_DIR"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:8000"
	c.RequestTimeout = 15 * time.Second
	c.UseMock = false
	c.StateDir = ""
	c.LogLevel = "info"
}

// LoadConfig constructs a Config by applying defaults, then the JSON file,
// then environment variables, then command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

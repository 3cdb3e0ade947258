// Package config provides application configuration.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default configuration values.
const (
	DefaultLogLevel       = "INFO"
	DefaultSearchLimit    = 10
	DefaultAskTopK        = 15
	DefaultBackfillDelay  = 200 * time.Millisecond
	DefaultMinEmbedLength = 3
)

// AppConfig holds the main application configuration.
type AppConfig struct {
	dataDir       string
	dbURL         string
	logLevel      string
	logFormat     string
	searchLimit   int
	askTopK       int
	backfillDelay time.Duration
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".minddeck"
	}
	return filepath.Join(home, ".minddeck")
}

// NewAppConfig creates an AppConfig with defaults.
func NewAppConfig() AppConfig {
	dataDir := DefaultDataDir()
	return AppConfig{
		dataDir:       dataDir,
		dbURL:         "sqlite:///" + filepath.Join(dataDir, "minddeck.db"),
		logLevel:      DefaultLogLevel,
		logFormat:     "pretty",
		searchLimit:   DefaultSearchLimit,
		askTopK:       DefaultAskTopK,
		backfillDelay: DefaultBackfillDelay,
	}
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the database connection URL.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format (pretty or json).
func (c AppConfig) LogFormat() string { return c.logFormat }

// SearchLimit returns the default retrieval result limit.
func (c AppConfig) SearchLimit() int { return c.searchLimit }

// AskTopK returns how many memories ground a question answer.
func (c AppConfig) AskTopK() int { return c.askTopK }

// BackfillDelay returns the pause between backfill embedding calls.
func (c AppConfig) BackfillDelay() time.Duration { return c.backfillDelay }

// EnsureDataDir creates the data directory if it does not exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) {
		c.dataDir = dir
		if c.dbURL == "" || filepath.Base(c.dbURL) == "minddeck.db" {
			c.dbURL = "sqlite:///" + filepath.Join(dir, "minddeck.db")
		}
	}
}

// WithDBURL sets the database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format string) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithSearchLimit sets the default retrieval result limit.
func WithSearchLimit(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.searchLimit = n
		}
	}
}

// WithAskTopK sets the grounding context size.
func WithAskTopK(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n > 0 {
			c.askTopK = n
		}
	}
}

// WithBackfillDelay sets the pause between backfill embedding calls.
func WithBackfillDelay(d time.Duration) AppConfigOption {
	return func(c *AppConfig) {
		if d >= 0 {
			c.backfillDelay = d
		}
	}
}

// Apply returns a copy of the config with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

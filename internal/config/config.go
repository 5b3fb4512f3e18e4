// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New returns a Config populated with defaults.
// - Load layers an optional YAML file and environment variables on top.
// - Errors returned by Load wrap ErrLoadConfig or ErrInvalidConfig.
package config

import "runtime"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// SeedFile optionally points at a YAML activity catalog that replaces
	// the built-in seed.
	SeedFile string `koanf:"seed_file"`

	// FeedQueueSize bounds the in-memory change feed queue.
	FeedQueueSize int `koanf:"feed_queue_size"`

	// FeedWorkerCount sets the number of change feed workers.
	FeedWorkerCount int `koanf:"feed_worker_count"`

	// HistorySize is the number of recent roster changes kept for GET /changes.
	HistorySize int `koanf:"history_size"`

	// MaxChangesLimit caps GET /changes?limit.
	MaxChangesLimit int `koanf:"max_changes_limit"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		LogFormat:       "text",
		Addr:            ":8000",
		FeedQueueSize:   1024,
		FeedWorkerCount: max(1, runtime.NumCPU()/2),
		HistorySize:     500,
		MaxChangesLimit: 100,
	}
}

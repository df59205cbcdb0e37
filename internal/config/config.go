// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8000".
	Addr string `koanf:"addr"`

	// DefaultLimit is the limit applied to GET /items/{item_id} when the
	// query parameter is absent.
	DefaultLimit int `koanf:"default_limit"`

	// MaxLimit caps the limit query parameter on GET /items/{item_id}.
	MaxLimit int `koanf:"max_limit"`

	// JournalSize bounds the in-memory request journal ring.
	JournalSize int `koanf:"journal_size"`

	// QueueSize bounds the audit record queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of audit workers.
	WorkerCount int `koanf:"worker_count"`

	// HistoryLimit is the default page size for GET /history.
	HistoryLimit int `koanf:"history_limit"`

	// ReplayCacheSize sets the size of the replay fingerprint cache.
	ReplayCacheSize int `koanf:"replay_cache_size"`
}

// New creates a Config with service defaults.
func New() *Config {
	c := &Config{
		LogLevel:        "info",
		Addr:            ":8000",
		DefaultLimit:    10,
		MaxLimit:        100,
		JournalSize:     4096,
		QueueSize:       1024,
		WorkerCount:     runtime.NumCPU() * 2,
		HistoryLimit:    20,
		ReplayCacheSize: 50_000,
	}
	return c
}

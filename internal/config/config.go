// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; file and env layers override them.
// - External errors are wrapped via this package's error kinds.
package config

import (
	"github.com/campuslabs/clubpulse/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// OutputDir is the fixed location both result tables are written to.
	// Each run overwrites the previous files.
	OutputDir string `koanf:"output_dir"`

	// PopularityCeiling is the fixed divisor for the heard-often signal.
	PopularityCeiling float64 `koanf:"popularity_ceiling"`

	// MetricWeights maps metric names to their scoring weights. The
	// defaults sum to 1.0; overrides are applied as-is, unrenormalized.
	MetricWeights map[string]float64 `koanf:"metric_weights"`

	// MaxUploadBytes bounds one multipart upload to POST /process.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":8080",
		OutputDir:         "outputs",
		PopularityCeiling: scoring.DefaultPopularityCeiling,
		MetricWeights:     scoring.DefaultWeights(),
		MaxUploadBytes:    32 << 20, // 32 MiB
	}
}

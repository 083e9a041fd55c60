// Package config defines process configuration structures and loading hooks.
//
// Conventions:
//   - Provide New(ctx) to build a Config with defaults.
//   - All functions accept context.Context as the first parameter.
//   - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"

	"github.com/okian/teambalance/internal/domain/model"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address used by serve mode, e.g. ":9080".
	Addr string `koanf:"addr"`

	// PoolFile is the qualifier JSON read by one-shot runs.
	PoolFile string `koanf:"pool_file"`

	// PoolSize, EventCount and BracketCount describe the tournament shape.
	PoolSize     int `koanf:"pool_size"`
	EventCount   int `koanf:"event_count"`
	BracketCount int `koanf:"bracket_count"`

	// SeedWeights multiplies event seeds per bracket, top bracket first.
	SeedWeights []float64 `koanf:"seed_weights"`

	// RateMin, RateMax and RateStep define the probed tolerance rates.
	RateMin  float64 `koanf:"rate_min"`
	RateMax  float64 `koanf:"rate_max"`
	RateStep float64 `koanf:"rate_step"`

	// MaxRatio caps the seeding change accepted per unit of time zone gain.
	MaxRatio float64 `koanf:"max_ratio"`

	// RateSearchMode is ratchet or independent.
	RateSearchMode string `koanf:"rate_search_mode"`

	// OutputFormat selects the one-shot report: text or json.
	OutputFormat string `koanf:"output_format"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	d := model.DefaultSettings()
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		PoolFile:       "qualifiers.json",
		PoolSize:       d.PoolSize,
		EventCount:     d.EventCount,
		BracketCount:   d.BracketCount,
		SeedWeights:    d.Weights,
		RateMin:        1.01,
		RateMax:        1.20,
		RateStep:       0.01,
		MaxRatio:       50,
		RateSearchMode: "ratchet",
		OutputFormat:   "text",
	}
}

// Settings returns the balancing settings described by the config.
func (c *Config) Settings() model.Settings {
	weights := make([]float64, len(c.SeedWeights))
	copy(weights, c.SeedWeights)
	return model.Settings{
		PoolSize:     c.PoolSize,
		EventCount:   c.EventCount,
		BracketCount: c.BracketCount,
		Weights:      weights,
	}
}

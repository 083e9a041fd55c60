package ratesearch

import "github.com/okian/teambalance/pkg/logger"

// Mode selects how accepted trials are committed.
type Mode string

const (
	// ModeRatchet commits every accepted trial and uses it as the baseline
	// for the next, higher rate.
	ModeRatchet Mode = "ratchet"
	// ModeIndependent runs every rate against the starting state and commits
	// the accepted trial with the lowest time zone total.
	ModeIndependent Mode = "independent"
)

// Default search parameters.
const (
	DefaultRateMin  = 1.01
	DefaultRateMax  = 1.20
	DefaultRateStep = 0.01
	DefaultMaxRatio = 50.0
)

// Option applies a configuration option to the Driver.
type Option func(*Driver)

// WithRateRange sets the inclusive rate range and step.
func WithRateRange(minRate, maxRate, step float64) Option {
	return func(d *Driver) {
		d.rateMin = minRate
		d.rateMax = maxRate
		d.rateStep = step
	}
}

// WithMaxRatio sets the largest accepted seeding change per unit of time zone
// improvement.
func WithMaxRatio(ratio float64) Option {
	return func(d *Driver) {
		d.maxRatio = ratio
	}
}

// WithMode sets the commit mode.
func WithMode(mode Mode) Option {
	return func(d *Driver) {
		if mode != "" {
			d.mode = mode
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Driver) {
		if l != nil {
			d.logger = l
		}
	}
}

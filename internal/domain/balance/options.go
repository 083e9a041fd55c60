package balance

import (
	"github.com/okian/teambalance/internal/domain/scoring"
	"github.com/okian/teambalance/pkg/logger"
)

// Option applies a configuration option to the Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger used for pass and convergence messages.
func WithLogger(l logger.Logger) Option {
	return func(o *Optimizer) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSeedingScore replaces the seeding criterion.
func WithSeedingScore(fn scoring.ScoreFn) Option {
	return func(o *Optimizer) {
		if fn != nil {
			o.seeding = fn
		}
	}
}

// WithTimezoneScore replaces the time zone criterion.
func WithTimezoneScore(fn scoring.ScoreFn) Option {
	return func(o *Optimizer) {
		if fn != nil {
			o.timezone = fn
		}
	}
}

// Package ratesearch probes tolerance rates for the time zone pass.
package ratesearch

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/teambalance/internal/domain/balance"
	"github.com/okian/teambalance/internal/domain/model"
	"github.com/okian/teambalance/internal/domain/scoring"
	"github.com/okian/teambalance/internal/domain/types"
	"github.com/okian/teambalance/pkg/logger"
	"github.com/okian/teambalance/pkg/metrics"
)

// ratePrecision rounds probed rates so that 1.01 + 19*0.01 reads as 1.2.
const ratePrecision = 1e6

// Result describes a search.
type Result struct {
	Initial types.Totals
	Final   types.Totals
	Trials  []types.RateTrial
	Commits int
}

// Driver runs the time zone optimizer at increasing tolerance rates.
type Driver struct {
	optimizer *balance.Optimizer
	rateMin   float64
	rateMax   float64
	rateStep  float64
	maxRatio  float64
	mode      Mode
	logger    logger.Logger
}

// New creates a Driver around opt.
func New(opt *balance.Optimizer, opts ...Option) *Driver {
	d := &Driver{
		optimizer: opt,
		rateMin:   DefaultRateMin,
		rateMax:   DefaultRateMax,
		rateStep:  DefaultRateStep,
		maxRatio:  DefaultMaxRatio,
		mode:      ModeRatchet,
	}
	for _, o := range opts {
		o(d)
	}
	if d.logger == nil {
		d.logger = logger.Get()
	}
	return d
}

// Validate checks the search parameters.
func (d *Driver) Validate() error {
	switch {
	case d.optimizer == nil:
		return fmt.Errorf("%w: optimizer is required", ErrInvalidSearch)
	case !(d.rateStep > 0):
		return fmt.Errorf("%w: rate step must be positive, got %v", ErrInvalidSearch, d.rateStep)
	case !(d.rateMin >= 1):
		return fmt.Errorf("%w: minimum rate must be >= 1, got %v", ErrInvalidSearch, d.rateMin)
	case !(d.rateMax >= d.rateMin):
		return fmt.Errorf("%w: maximum rate %v is below minimum %v", ErrInvalidSearch, d.rateMax, d.rateMin)
	case !(d.maxRatio > 0):
		return fmt.Errorf("%w: max ratio must be positive, got %v", ErrInvalidSearch, d.maxRatio)
	case d.mode != ModeRatchet && d.mode != ModeIndependent:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidSearch, d.mode)
	}
	return nil
}

// Rates returns the probed rates in ascending order.
func (d *Driver) Rates() []float64 {
	n := int(math.Round((d.rateMax - d.rateMin) / d.rateStep))
	rates := make([]float64, 0, n+1)
	for k := 0; k <= n; k++ {
		rates = append(rates, math.Round((d.rateMin+d.rateStep*float64(k))*ratePrecision)/ratePrecision)
	}
	return rates
}

// Search returns the committed assignment; teams itself is left untouched.
// Every trial runs on a deep copy.
func (d *Driver) Search(ctx context.Context, teams model.TeamSet) (model.TeamSet, Result, error) {
	if err := d.Validate(); err != nil {
		return nil, Result{}, err
	}
	committed := teams.Clone()
	base := d.totals(committed)
	res := Result{Initial: base, Final: base}

	var best model.TeamSet
	var bestTotals types.Totals
	for _, rate := range d.Rates() {
		trial := committed.Clone()
		if _, err := d.optimizer.BalanceTimezone(ctx, trial, rate); err != nil {
			return nil, Result{}, err
		}
		after := d.totals(trial)
		dm, dt := after.Delta(base)
		accepted := dt != 0 && dm/dt < d.maxRatio
		res.Trials = append(res.Trials, types.RateTrial{Rate: rate, Before: base, After: after, Accepted: accepted})
		metrics.RecordRateTrial(accepted)
		d.logger.Debug(ctx, "rate trial",
			logger.Float64("rate", rate),
			logger.Float64("seedingDelta", dm),
			logger.Float64("timezoneDelta", dt),
			logger.Any("accepted", accepted),
		)
		if !accepted {
			continue
		}
		switch d.mode {
		case ModeRatchet:
			committed, base = trial, after
			res.Commits++
		case ModeIndependent:
			if best == nil || after.Timezone < bestTotals.Timezone ||
				(after.Timezone == bestTotals.Timezone && after.Seeding < bestTotals.Seeding) {
				best, bestTotals = trial, after
			}
		}
	}
	if best != nil {
		committed = best
		res.Commits = 1
	}
	res.Final = d.totals(committed)

	d.logger.Info(ctx, "rate search finished",
		logger.String("mode", string(d.mode)),
		logger.Int("trials", len(res.Trials)),
		logger.Int("commits", res.Commits),
		logger.Float64("seeding", res.Final.Seeding),
		logger.Float64("timezone", res.Final.Timezone),
	)
	return committed, res, nil
}

func (d *Driver) totals(teams model.TeamSet) types.Totals {
	return types.Totals{
		Seeding:  scoring.Total(teams, d.optimizer.SeedingScore()),
		Timezone: scoring.Total(teams, d.optimizer.TimezoneScore()),
	}
}

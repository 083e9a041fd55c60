// Package balance implements the pairwise swap local search.
package balance

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/teambalance/internal/domain/model"
	"github.com/okian/teambalance/internal/domain/scoring"
	"github.com/okian/teambalance/pkg/logger"
	"github.com/okian/teambalance/pkg/metrics"
)

// Objective names used in logs and metrics.
const (
	ObjectiveSeeding  = "seeding"
	ObjectiveTimezone = "timezone"
)

// Stats describes one optimizer run.
type Stats struct {
	Passes int     // full passes over all team pairs, including the final idle pass
	Swaps  int     // committed swaps
	Before float64 // objective total before the run
	After  float64 // objective total after the run
}

// Optimizer exchanges same-position members between teams until no single
// exchange improves the objective.
type Optimizer struct {
	seeding  scoring.ScoreFn
	timezone scoring.ScoreFn
	logger   logger.Logger
}

// pickFn returns the position to swap between a and b, or -1. sa and sb are
// scratch buffers holding copies of a and b; they are restored on return.
type pickFn func(a, b model.Team, sa, sb []model.Competitor) int

// New creates an Optimizer for s. The default criteria are
// scoring.SeedingImbalance(s) and scoring.TimezoneSpread().
func New(s model.Settings, opts ...Option) *Optimizer {
	o := &Optimizer{
		seeding:  scoring.SeedingImbalance(s),
		timezone: scoring.TimezoneSpread(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = logger.Get()
	}
	return o
}

// SeedingScore returns the seeding criterion in use.
func (o *Optimizer) SeedingScore() scoring.ScoreFn { return o.seeding }

// TimezoneScore returns the time zone criterion in use.
func (o *Optimizer) TimezoneScore() scoring.ScoreFn { return o.timezone }

// Balance mutates teams until no single swap between two teams lowers their
// combined seeding score.
func (o *Optimizer) Balance(ctx context.Context, teams model.TeamSet) Stats {
	stats := o.converge(ctx, teams, ObjectiveSeeding, o.seeding, o.bestSeedingSwap)
	o.logger.Info(ctx, "seeding balance converged",
		logger.Int("passes", stats.Passes),
		logger.Int("swaps", stats.Swaps),
		logger.Float64("before", stats.Before),
		logger.Float64("after", stats.After),
	)
	return stats
}

// BalanceTimezone mutates teams to lower the time zone score. A swap is only
// taken when the pair's combined seeding score stays within rate times its
// value before the swap.
func (o *Optimizer) BalanceTimezone(ctx context.Context, teams model.TeamSet, rate float64) (Stats, error) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate < 1 {
		return Stats{}, fmt.Errorf("%w: %v must be >= 1", ErrInvalidRate, rate)
	}
	pick := func(a, b model.Team, sa, sb []model.Competitor) int {
		return o.bestTimezoneSwap(a, b, sa, sb, rate)
	}
	stats := o.converge(ctx, teams, ObjectiveTimezone, o.timezone, pick)
	o.logger.Debug(ctx, "time zone balance converged",
		logger.Float64("rate", rate),
		logger.Int("passes", stats.Passes),
		logger.Int("swaps", stats.Swaps),
		logger.Float64("before", stats.Before),
		logger.Float64("after", stats.After),
	)
	return stats, nil
}

// converge runs full passes over all pairs i<j until a pass commits nothing.
func (o *Optimizer) converge(ctx context.Context, teams model.TeamSet, objective string, fn scoring.ScoreFn, pick pickFn) Stats {
	stats := Stats{Before: scoring.Total(teams, fn)}
	var sa, sb []model.Competitor
	for {
		stats.Passes++
		metrics.RecordOptimizerPass(objective)
		swaps := 0
		for i := 0; i < len(teams)-1; i++ {
			for j := i + 1; j < len(teams); j++ {
				sa = append(sa[:0], teams[i].Members...)
				sb = append(sb[:0], teams[j].Members...)
				if pos := pick(teams[i], teams[j], sa, sb); pos >= 0 {
					teams.Swap(i, j, pos)
					swaps++
				}
			}
		}
		stats.Swaps += swaps
		metrics.RecordOptimizerSwaps(objective, swaps)
		o.logger.Debug(ctx, "pass complete",
			logger.String("objective", objective),
			logger.Int("pass", stats.Passes),
			logger.Int("swaps", swaps),
		)
		if swaps == 0 {
			break
		}
	}
	stats.After = scoring.Total(teams, fn)
	return stats
}

// bestSeedingSwap returns the position whose swap gives the strictly lowest
// combined seeding score, or -1 when no swap improves on the current pair.
func (o *Optimizer) bestSeedingSwap(a, b model.Team, sa, sb []model.Competitor) int {
	best := o.seeding(a) + o.seeding(b)
	index := -1
	for p := range sa {
		sa[p], sb[p] = b.Members[p], a.Members[p]
		score := o.seeding(model.Team{Members: sa}) + o.seeding(model.Team{Members: sb})
		sa[p], sb[p] = a.Members[p], b.Members[p]
		if score < best {
			best = score
			index = p
		}
	}
	return index
}

// bestTimezoneSwap returns the position whose swap gives the lowest combined
// time zone score among swaps that strictly lower it and keep the seeding
// score within rate times the original; -1 when there is none.
func (o *Optimizer) bestTimezoneSwap(a, b model.Team, sa, sb []model.Competitor, rate float64) int {
	bound := (o.seeding(a) + o.seeding(b)) * rate
	best := o.timezone(a) + o.timezone(b)
	index := -1
	for p := range sa {
		sa[p], sb[p] = b.Members[p], a.Members[p]
		ta, tb := model.Team{Members: sa}, model.Team{Members: sb}
		tz := o.timezone(ta) + o.timezone(tb)
		if tz < best && o.seeding(ta)+o.seeding(tb) <= bound {
			best = tz
			index = p
		}
		sa[p], sb[p] = a.Members[p], b.Members[p]
	}
	return index
}

// Package scoring defines the per-team balance criteria used by the optimizers.
//
// A criterion is any ScoreFn: a pure function of a team that is never negative
// and is zero for a perfectly balanced team. Lower is better.
package scoring

import (
	"math"

	"github.com/okian/teambalance/internal/domain/model"
)

// ScoreFn scores a single team. Implementations must be pure.
type ScoreFn func(t model.Team) float64

// IdealMean returns the expected weighted event-seed sum of a team holding one
// average member of every bracket.
func IdealMean(s model.Settings) float64 {
	size := float64(s.BracketSize())
	mean := 0.0
	for i := 0; i < s.BracketCount; i++ {
		mean += (size*float64(2*i+1)/2 + 0.5) * s.Weights[i]
	}
	return mean
}

// SeedingImbalance returns the seeding criterion for s. Per event, the
// weighted event-seed sum of the team is compared with IdealMean; the squared
// deviations are added to the squared deviation of the overall sum, scaled by
// the event count so both parts carry the same weight.
func SeedingImbalance(s model.Settings) ScoreFn {
	mean := IdealMean(s)
	events := s.EventCount
	return func(t model.Team) float64 {
		distance := 0.0
		total := 0.0
		for e := 0; e < events; e++ {
			sum := 0.0
			for _, c := range t.Members {
				sum += float64(c.EventSeeds[e]) * s.Weights[s.BracketOf(c.Seed)]
			}
			d := sum - mean
			distance += d * d
			total += sum
		}
		d := total - mean*float64(events)
		distance += d * d * float64(events)
		return distance
	}
}

// TimezoneSpread returns the sum of absolute time zone differences over all
// unordered member pairs.
func TimezoneSpread() ScoreFn {
	return func(t model.Team) float64 {
		spread := 0.0
		for i := 0; i < len(t.Members)-1; i++ {
			for j := i + 1; j < len(t.Members); j++ {
				spread += math.Abs(t.Members[i].Timezone - t.Members[j].Timezone)
			}
		}
		return spread
	}
}

// Total sums fn over every team.
func Total(teams model.TeamSet, fn ScoreFn) float64 {
	total := 0.0
	for _, t := range teams {
		total += fn(t)
	}
	return total
}

// Package types contains common types used across the application
package types

// Member is a competitor as shown in a report
type Member struct {
	Name     string  `json:"name"`
	Seed     int     `json:"seed"`
	Timezone float64 `json:"timezone"`
}

// TeamEntry is one team with its scores
type TeamEntry struct {
	Index         int      `json:"index"`
	Members       []Member `json:"members"`
	SeedingScore  float64  `json:"seeding_score"`
	TimezoneScore float64  `json:"timezone_score"`
}

// Totals sums both scores over every team
type Totals struct {
	Seeding  float64 `json:"seeding"`
	Timezone float64 `json:"timezone"`
}

// Delta returns the absolute change of both totals relative to base.
func (t Totals) Delta(base Totals) (seeding, timezone float64) {
	seeding = t.Seeding - base.Seeding
	if seeding < 0 {
		seeding = -seeding
	}
	timezone = t.Timezone - base.Timezone
	if timezone < 0 {
		timezone = -timezone
	}
	return seeding, timezone
}

// RateTrial records the outcome of one tolerance rate probe
type RateTrial struct {
	Rate     float64 `json:"rate"`
	Before   Totals  `json:"before"`
	After    Totals  `json:"after"`
	Accepted bool    `json:"accepted"`
}

// Summary is the result of a full balancing run
type Summary struct {
	RunID       string      `json:"run_id"`
	Teams       []TeamEntry `json:"teams"`
	BeforeTeams []TeamEntry `json:"before_timezone_teams"`
	Initial     Totals      `json:"initial"`
	Balanced    Totals      `json:"balanced"`
	Final       Totals      `json:"final"`
	SeedPasses  int         `json:"seed_passes"`
	SeedSwaps   int         `json:"seed_swaps"`
	RateTrials  []RateTrial `json:"rate_trials"`
	CommitCount int         `json:"commit_count"`
}

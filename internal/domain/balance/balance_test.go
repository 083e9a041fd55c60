package balance_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/okian/teambalance/internal/domain/balance"
	"github.com/okian/teambalance/internal/domain/draft"
	"github.com/okian/teambalance/internal/domain/model"
	"github.com/okian/teambalance/internal/domain/scoring"
	"github.com/okian/teambalance/internal/poolgen"
	"github.com/okian/teambalance/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func competitor(seed int, tz float64, eventSeeds ...int) model.Competitor {
	return model.Competitor{Name: fmt.Sprintf("s%d", seed), Seed: seed, EventSeeds: eventSeeds, Timezone: tz}
}

func sortedNames(teams model.TeamSet) []string {
	names := teams.Names()
	sort.Strings(names)
	return names
}

func TestBalance_EndToEnd(t *testing.T) {
	Convey("Given 8 competitors in 2 brackets with 2 events", t, func() {
		s := model.Settings{PoolSize: 8, EventCount: 2, BracketCount: 2, Weights: []float64{1, 1}}
		c := make([]model.Competitor, 9)
		for seed := 1; seed <= 8; seed++ {
			c[seed] = competitor(seed, 0, seed, seed)
		}
		// Strongest top seeds paired with strongest bottom seeds.
		teams := model.TeamSet{
			{Members: []model.Competitor{c[1], c[5]}},
			{Members: []model.Competitor{c[2], c[6]}},
			{Members: []model.Competitor{c[3], c[7]}},
			{Members: []model.Competitor{c[4], c[8]}},
		}
		namesBefore := sortedNames(teams)
		fn := scoring.SeedingImbalance(s)
		before := scoring.Total(teams, fn)

		Convey("When balancing", func() {
			stats := balance.New(s).Balance(context.Background(), teams)

			Convey("Then the seeding total strictly decreases", func() {
				So(before, ShouldEqual, 200)
				So(stats.Before, ShouldEqual, before)
				So(stats.After, ShouldBeLessThan, before)
				So(scoring.Total(teams, fn), ShouldEqual, stats.After)
				So(stats.Swaps, ShouldBeGreaterThan, 0)
			})

			Convey("And it terminates within team_count² passes", func() {
				So(stats.Passes, ShouldBeLessThanOrEqualTo, len(teams)*len(teams))
			})

			Convey("And the teams still partition the pool by bracket", func() {
				So(draft.CheckPositions(s, teams), ShouldBeNil)
				So(sortedNames(teams), ShouldResemble, namesBefore)
			})
		})
	})
}

func TestBalance_LocalOptimum(t *testing.T) {
	Convey("Given a drafted synthetic pool", t, func() {
		s := model.Settings{PoolSize: 32, EventCount: 4, BracketCount: 4, Weights: []float64{1.0, 1.0, 1.1, 1.2}}
		teams, err := draft.Assemble(s, poolgen.Generate(s, poolgen.WithSeed(3)))
		So(err, ShouldBeNil)
		namesBefore := sortedNames(teams)

		Convey("When balancing", func() {
			opt := balance.New(s)
			stats := opt.Balance(context.Background(), teams)
			fn := opt.SeedingScore()

			Convey("Then no single swap lowers any pair's combined score", func() {
				improving := 0
				for i := 0; i < len(teams)-1; i++ {
					for j := i + 1; j < len(teams); j++ {
						base := fn(teams[i]) + fn(teams[j])
						for p := 0; p < s.BracketCount; p++ {
							trial := model.TeamSet{teams[i].Clone(), teams[j].Clone()}
							trial.Swap(0, 1, p)
							if fn(trial[0])+fn(trial[1]) < base {
								improving++
							}
						}
					}
				}
				So(improving, ShouldEqual, 0)
			})

			Convey("And the score never increases", func() {
				So(stats.After, ShouldBeLessThanOrEqualTo, stats.Before)
			})

			Convey("And membership is preserved", func() {
				So(draft.CheckPositions(s, teams), ShouldBeNil)
				So(sortedNames(teams), ShouldResemble, namesBefore)
			})

			Convey("And a second run is idle", func() {
				again := opt.Balance(context.Background(), teams)
				So(again.Swaps, ShouldEqual, 0)
				So(again.Passes, ShouldEqual, 1)
			})
		})
	})
}

func TestBalance_PluggableScore(t *testing.T) {
	Convey("Given an optimizer with a criterion that is always zero", t, func() {
		s := model.Settings{PoolSize: 8, EventCount: 1, BracketCount: 2, Weights: []float64{1, 1}}
		teams, err := draft.Assemble(s, poolgen.Generate(s))
		So(err, ShouldBeNil)
		names := teams.Names()
		opt := balance.New(s, balance.WithSeedingScore(func(model.Team) float64 { return 0 }))

		Convey("When balancing", func() {
			stats := opt.Balance(context.Background(), teams)

			Convey("Then nothing moves", func() {
				So(stats.Swaps, ShouldEqual, 0)
				So(stats.Passes, ShouldEqual, 1)
				So(teams.Names(), ShouldResemble, names)
			})
		})
	})
}

// timezonePair returns two teams whose only time zone improving swaps push
// the seeding score from 2 to 10.
func timezonePair() (model.Settings, model.TeamSet) {
	s := model.Settings{PoolSize: 4, EventCount: 1, BracketCount: 2, Weights: []float64{1, 1}}
	s1 := competitor(1, 0, 1)
	s2 := competitor(2, 10, 2)
	s3 := competitor(3, 0, 3)
	s4 := competitor(4, 10, 5)
	return s, model.TeamSet{
		{Members: []model.Competitor{s1, s4}},
		{Members: []model.Competitor{s2, s3}},
	}
}

func TestBalanceTimezone(t *testing.T) {
	Convey("Given a pair where improving time zones worsens seeding beyond the bound", t, func() {
		s, teams := timezonePair()
		opt := balance.New(s)
		seed := opt.SeedingScore()

		So(scoring.Total(teams, seed), ShouldEqual, 2)
		So(scoring.Total(teams, opt.TimezoneScore()), ShouldEqual, 20)

		Convey("When the tolerance rate is 1.2", func() {
			stats, err := opt.BalanceTimezone(context.Background(), teams, 1.2)

			Convey("Then the swap is rejected", func() {
				So(err, ShouldBeNil)
				So(stats.Swaps, ShouldEqual, 0)
				So(teams.Names(), ShouldResemble, []string{"s1", "s4", "s2", "s3"})
				So(scoring.Total(teams, seed), ShouldEqual, 2)
			})
		})

		Convey("When the tolerance rate allows the degradation", func() {
			stats, err := opt.BalanceTimezone(context.Background(), teams, 6)

			Convey("Then the first best position is swapped", func() {
				So(err, ShouldBeNil)
				So(stats.Swaps, ShouldEqual, 1)
				So(stats.Before, ShouldEqual, 20)
				So(stats.After, ShouldEqual, 0)
				So(teams.Names(), ShouldResemble, []string{"s2", "s4", "s1", "s3"})
			})

			Convey("And the seeding score stays within the bound", func() {
				So(scoring.Total(teams, seed), ShouldBeLessThanOrEqualTo, 6*2)
			})
		})

		Convey("When the rate is below 1", func() {
			_, err := opt.BalanceTimezone(context.Background(), teams, 0.5)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, balance.ErrInvalidRate), ShouldBeTrue)
			})
		})
	})
}

func TestBalanceTimezone_AfterSeeding(t *testing.T) {
	Convey("Given a pool balanced on seeding", t, func() {
		s := model.Settings{PoolSize: 32, EventCount: 4, BracketCount: 4, Weights: []float64{1.0, 1.0, 1.1, 1.2}}
		teams, err := draft.Assemble(s, poolgen.Generate(s, poolgen.WithSeed(11)))
		So(err, ShouldBeNil)
		opt := balance.New(s)
		opt.Balance(context.Background(), teams)
		names := sortedNames(teams)

		Convey("When balancing time zones at 1.05", func() {
			stats, err := opt.BalanceTimezone(context.Background(), teams, 1.05)
			So(err, ShouldBeNil)

			Convey("Then the time zone total does not grow", func() {
				So(stats.After, ShouldBeLessThanOrEqualTo, stats.Before)
				So(scoring.Total(teams, opt.TimezoneScore()), ShouldEqual, stats.After)
			})

			Convey("And the invariants hold", func() {
				So(draft.CheckPositions(s, teams), ShouldBeNil)
				So(sortedNames(teams), ShouldResemble, names)
			})
		})
	})
}

package scoring_test

import (
	"testing"

	"github.com/okian/teambalance/internal/domain/model"
	scoring "github.com/okian/teambalance/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func member(name string, seed int, tz float64, eventSeeds ...int) model.Competitor {
	return model.Competitor{Name: name, Seed: seed, EventSeeds: eventSeeds, Timezone: tz}
}

func TestIdealMean(t *testing.T) {
	Convey("Given a pool of 4 split into 2 brackets with unit weights", t, func() {
		s := model.Settings{PoolSize: 4, EventCount: 1, BracketCount: 2, Weights: []float64{1, 1}}

		Convey("Then the ideal mean is the sum of the bracket midpoints", func() {
			// bracket 0 holds seeds 1-2 (mean 1.5), bracket 1 holds 3-4 (mean 3.5)
			So(scoring.IdealMean(s), ShouldEqual, 5.0)
		})
	})

	Convey("Given the default tournament settings", t, func() {
		s := model.DefaultSettings()

		Convey("Then weights scale each bracket midpoint", func() {
			want := 16.5*1.0 + 48.5*1.0 + 80.5*1.1 + 112.5*1.2
			So(scoring.IdealMean(s), ShouldAlmostEqual, want, 1e-9)
		})
	})
}

func TestSeedingImbalance(t *testing.T) {
	Convey("Given a single event pool of 4 with unit weights", t, func() {
		s := model.Settings{PoolSize: 4, EventCount: 1, BracketCount: 2, Weights: []float64{1, 1}}
		score := scoring.SeedingImbalance(s)

		Convey("When the team sum equals the ideal mean", func() {
			team := model.Team{Members: []model.Competitor{member("a", 1, 0, 1), member("d", 4, 0, 4)}}

			Convey("Then the score is zero", func() {
				So(score(team), ShouldEqual, 0)
			})
		})

		Convey("When the team sum is one above the mean", func() {
			team := model.Team{Members: []model.Competitor{member("b", 2, 0, 2), member("d", 4, 0, 4)}}

			Convey("Then the per-event and aggregate terms both contribute", func() {
				So(score(team), ShouldEqual, 2)
			})
		})
	})

	Convey("Given two events and weighted bottom bracket", t, func() {
		s := model.Settings{PoolSize: 4, EventCount: 2, BracketCount: 2, Weights: []float64{1, 2}}
		score := scoring.SeedingImbalance(s)
		// mean = 1.5*1 + 3.5*2 = 8.5

		Convey("When scoring a team", func() {
			team := model.Team{Members: []model.Competitor{member("a", 1, 0, 1, 2), member("c", 3, 0, 3, 4)}}

			Convey("Then the bottom bracket seeds are weighted", func() {
				// event sums: 1+6=7, 2+8=10; deviations -1.5, 1.5; total 17 vs 17
				So(score(team), ShouldAlmostEqual, 4.5, 1e-9)
			})
		})

		Convey("Then scores are never negative", func() {
			team := model.Team{Members: []model.Competitor{member("b", 2, 0, 4, 4), member("d", 4, 0, 1, 1)}}
			So(score(team), ShouldBeGreaterThanOrEqualTo, 0)
		})
	})
}

func TestTimezoneSpread(t *testing.T) {
	Convey("Given the time zone criterion", t, func() {
		spread := scoring.TimezoneSpread()

		Convey("When all members share a time zone", func() {
			team := model.Team{Members: []model.Competitor{
				member("a", 1, 2, 5, 5), member("b", 2, 2, 5, 5), member("c", 3, 2, 5, 5),
			}}

			Convey("Then the spread is zero", func() {
				So(spread(team), ShouldEqual, 0)
			})
		})

		Convey("When time zones differ", func() {
			team := model.Team{Members: []model.Competitor{
				member("a", 1, -5, 1), member("b", 2, 1, 1), member("c", 3, 3, 1), member("d", 4, 3, 1),
			}}

			Convey("Then every unordered pair is counted once", func() {
				// |-5-1| + |-5-3|*2 + |1-3|*2 + 0 = 6 + 16 + 4
				So(spread(team), ShouldEqual, 26)
			})
		})
	})
}

func TestTotal(t *testing.T) {
	Convey("Given a team set", t, func() {
		teams := model.TeamSet{
			{Members: []model.Competitor{member("a", 1, 0, 1), member("b", 2, 4, 1)}},
			{Members: []model.Competitor{member("c", 3, 1, 1), member("d", 4, 2, 1)}},
		}

		Convey("Then Total sums the criterion over teams", func() {
			So(scoring.Total(teams, scoring.TimezoneSpread()), ShouldEqual, 5)
		})
	})
}

package service_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/google/uuid"
	service "github.com/okian/teambalance/internal/app"
	"github.com/okian/teambalance/internal/domain/model"
	"github.com/okian/teambalance/internal/domain/ratesearch"
	"github.com/okian/teambalance/internal/domain/types"
	"github.com/okian/teambalance/internal/poolgen"
	"github.com/okian/teambalance/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func smallSettings() model.Settings {
	return model.Settings{PoolSize: 32, EventCount: 4, BracketCount: 4, Weights: []float64{1, 1, 1.1, 1.2}}
}

func entryNames(entries []types.TeamEntry) []string {
	var names []string
	for _, e := range entries {
		for _, m := range e.Members {
			names = append(names, m.Name)
		}
	}
	sort.Strings(names)
	return names
}

func poolNames(pool []model.Competitor) []string {
	names := make([]string, len(pool))
	for i, c := range pool {
		names[i] = c.Name
	}
	sort.Strings(names)
	return names
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it should have sensible defaults", func() {
			So(svc, ShouldNotBeNil)
			stats := svc.GetStats()
			So(stats["runs"], ShouldEqual, 0)
			So(stats["poolSize"], ShouldEqual, 128)
			So(stats["teamCount"], ShouldEqual, 32)
			So(stats["rateSearch"], ShouldEqual, "ratchet")
		})
	})

	Convey("Given custom settings", t, func() {
		s := smallSettings()
		svc := service.New(service.WithSettings(s), service.WithMode(ratesearch.ModeIndependent))

		Convey("Then the service keeps its own copy", func() {
			s.Weights[0] = 99
			So(svc.Settings().Weights[0], ShouldEqual, 1)
			So(svc.GetStats()["rateSearch"], ShouldEqual, "independent")
		})
	})
}

func TestService_Run(t *testing.T) {
	Convey("Given a service and a synthetic pool", t, func() {
		s := smallSettings()
		svc := service.New(service.WithSettings(s))
		pool := poolgen.Generate(s, poolgen.WithSeed(11))
		original := make([]model.Competitor, len(pool))
		copy(original, pool)

		Convey("When running a balancing job", func() {
			summary, err := svc.Run(context.Background(), pool)
			So(err, ShouldBeNil)

			Convey("Then the summary carries a run id", func() {
				_, perr := uuid.Parse(summary.RunID)
				So(perr, ShouldBeNil)
				So(svc.GetStats()["lastRunId"], ShouldEqual, summary.RunID)
				So(svc.GetStats()["runs"], ShouldEqual, 1)
			})

			Convey("And every stage keeps the same competitors", func() {
				So(summary.Teams, ShouldHaveLength, s.TeamCount())
				So(summary.BeforeTeams, ShouldHaveLength, s.TeamCount())
				So(entryNames(summary.Teams), ShouldResemble, poolNames(pool))
				So(entryNames(summary.BeforeTeams), ShouldResemble, poolNames(pool))
			})

			Convey("And position i of every team holds a bracket i seed", func() {
				for _, e := range summary.Teams {
					So(e.Members, ShouldHaveLength, s.BracketCount)
					for i, m := range e.Members {
						So(s.BracketOf(m.Seed), ShouldEqual, i)
					}
				}
			})

			Convey("And the totals never get worse on their own objective", func() {
				So(summary.Balanced.Seeding, ShouldBeLessThanOrEqualTo, summary.Initial.Seeding)
				So(summary.Final.Timezone, ShouldBeLessThanOrEqualTo, summary.Balanced.Timezone)
				So(summary.SeedPasses, ShouldBeGreaterThanOrEqualTo, 1)
			})

			Convey("And every rate was probed once", func() {
				So(summary.RateTrials, ShouldHaveLength, 20)
				accepted := 0
				for _, tr := range summary.RateTrials {
					if tr.Accepted {
						accepted++
					}
				}
				So(summary.CommitCount, ShouldEqual, accepted)
			})

			Convey("And the input pool is untouched", func() {
				So(pool, ShouldResemble, original)
			})
		})
	})
}

func TestService_RunErrors(t *testing.T) {
	Convey("Given a service", t, func() {
		s := smallSettings()
		ctx := context.Background()

		Convey("When the pool has the wrong size", func() {
			svc := service.New(service.WithSettings(s))
			pool := poolgen.Generate(s, poolgen.WithSeed(3))
			_, err := svc.Run(ctx, pool[:len(pool)-1])

			Convey("Then it reports malformed input and counts the failure", func() {
				So(errors.Is(err, model.ErrMalformedInput), ShouldBeTrue)
				So(svc.GetStats()["failures"], ShouldEqual, 1)
			})
		})

		Convey("When the rate range is invalid", func() {
			svc := service.New(service.WithSettings(s), service.WithRateRange(0.5, 1, 0.1))
			_, err := svc.Run(ctx, poolgen.Generate(s, poolgen.WithSeed(3)))

			Convey("Then it reports a configuration error", func() {
				So(errors.Is(err, model.ErrInvalidConfiguration), ShouldBeTrue)
				So(errors.Is(err, ratesearch.ErrInvalidSearch), ShouldBeTrue)
			})
		})

		Convey("When the settings are inconsistent", func() {
			bad := s
			bad.BracketCount = 3
			bad.Weights = []float64{1, 1, 1}
			svc := service.New(service.WithSettings(bad))
			_, err := svc.Run(ctx, poolgen.Generate(s, poolgen.WithSeed(3)))

			Convey("Then it reports a configuration error", func() {
				So(errors.Is(err, model.ErrInvalidConfiguration), ShouldBeTrue)
			})
		})
	})
}

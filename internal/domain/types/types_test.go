package types_test

import (
	"encoding/json"
	"testing"

	types "github.com/okian/teambalance/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTotals_Delta(t *testing.T) {
	Convey("Given two totals", t, func() {
		base := types.Totals{Seeding: 100, Timezone: 40}

		Convey("When the seeding total grew and the time zone total shrank", func() {
			after := types.Totals{Seeding: 112.5, Timezone: 30}
			seeding, timezone := after.Delta(base)

			Convey("Then both deltas should be absolute", func() {
				So(seeding, ShouldEqual, 12.5)
				So(timezone, ShouldEqual, 10)
			})
		})

		Convey("When nothing changed", func() {
			seeding, timezone := base.Delta(base)

			Convey("Then both deltas should be zero", func() {
				So(seeding, ShouldEqual, 0)
				So(timezone, ShouldEqual, 0)
			})
		})
	})
}

func TestSummary_JSON(t *testing.T) {
	Convey("Given a summary", t, func() {
		s := types.Summary{
			RunID: "run-1",
			Teams: []types.TeamEntry{{
				Index:         0,
				Members:       []types.Member{{Name: "a", Seed: 1, Timezone: -5}},
				SeedingScore:  1.5,
				TimezoneScore: 0,
			}},
			RateTrials: []types.RateTrial{{Rate: 1.01, Accepted: true}},
		}

		Convey("When encoding it", func() {
			raw, err := json.Marshal(s)
			So(err, ShouldBeNil)

			Convey("Then it should use snake_case keys", func() {
				out := string(raw)
				So(out, ShouldContainSubstring, `"run_id":"run-1"`)
				So(out, ShouldContainSubstring, `"seeding_score":1.5`)
				So(out, ShouldContainSubstring, `"rate_trials":[{"rate":1.01`)
			})
		})
	})
}

package config_test

import (
	"context"
	"testing"

	"github.com/okian/teambalance/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should describe a 128 player, 8 map, 4 seed tournament", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.PoolSize, convey.ShouldEqual, 128)
			convey.So(cfg.EventCount, convey.ShouldEqual, 8)
			convey.So(cfg.BracketCount, convey.ShouldEqual, 4)
			convey.So(cfg.SeedWeights, convey.ShouldResemble, []float64{1.0, 1.0, 1.1, 1.2})
			convey.So(cfg.RateMin, convey.ShouldEqual, 1.01)
			convey.So(cfg.RateMax, convey.ShouldEqual, 1.20)
			convey.So(cfg.MaxRatio, convey.ShouldEqual, 50)
			convey.So(cfg.RateSearchMode, convey.ShouldEqual, "ratchet")
		})

		convey.Convey("And the default settings should be valid", func() {
			convey.So(cfg.Settings().Validate(), convey.ShouldBeNil)
		})

		convey.Convey("And Settings should copy the weights", func() {
			s := cfg.Settings()
			s.Weights[0] = 9
			convey.So(cfg.SeedWeights[0], convey.ShouldEqual, 1.0)
			convey.So(cfg.Settings().Weights[0], convey.ShouldEqual, 1.0)
		})
	})
}

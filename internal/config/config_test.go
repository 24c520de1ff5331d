package config_test

import (
	"context"
	"testing"
	"time"

	"github.com/okian/pixwatch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have the monitor defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":5001")
			convey.So(cfg.CheckInterval(), convey.ShouldEqual, time.Minute)
			convey.So(cfg.InitialDelay(), convey.ShouldEqual, 2*time.Second)
			convey.So(cfg.ProbeTimeout(), convey.ShouldEqual, 3*time.Second)
			convey.So(cfg.MaxLogEntries, convey.ShouldEqual, 50)
			convey.So(cfg.FailTolerance, convey.ShouldEqual, 3)
			convey.So(cfg.WindowSize, convey.ShouldEqual, 10)
			convey.So(cfg.OKThreshold(), convey.ShouldEqual, 2500*time.Millisecond)
			convey.So(cfg.SlowThreshold(), convey.ShouldEqual, 5*time.Second)
			convey.So(cfg.Targets, convey.ShouldHaveLength, 2)
			convey.So(cfg.Targets[0].Primary, convey.ShouldBeTrue)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

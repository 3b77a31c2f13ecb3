package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/ridestats/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.DataDir, convey.ShouldEqual, "/datasets")
			convey.So(cfg.FallbackDataDir, convey.ShouldEqual, "./datasets")
			convey.So(cfg.TopN, convey.ShouldEqual, 10)
			convey.So(cfg.Alpha, convey.ShouldEqual, 0.05)
			convey.So(cfg.ChartFormat, convey.ShouldEqual, "xlsx")
		})

		convey.Convey("And the defaults should validate", func() {
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("And the default window should be Saturdays in November 2017", func() {
			day, err := cfg.ParseWeekday()
			convey.So(err, convey.ShouldBeNil)
			convey.So(day, convey.ShouldEqual, time.Saturday)

			start, end, err := cfg.ParseWindow()
			convey.So(err, convey.ShouldBeNil)
			convey.So(start, convey.ShouldEqual, time.Date(2017, time.November, 1, 0, 0, 0, 0, time.UTC))
			convey.So(end, convey.ShouldEqual, time.Date(2017, time.November, 30, 0, 0, 0, 0, time.UTC))
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a default config", t, func() {
		cfg := config.New()

		cases := []struct {
			name   string
			mutate func(*config.Config)
		}{
			{"empty data dir", func(c *config.Config) { c.DataDir = "" }},
			{"empty rides file", func(c *config.Config) { c.RidesFile = "" }},
			{"empty timestamp layout", func(c *config.Config) { c.TimestampLayout = "" }},
			{"negative top_n", func(c *config.Config) { c.TopN = -1 }},
			{"alpha of zero", func(c *config.Config) { c.Alpha = 0 }},
			{"alpha of one", func(c *config.Config) { c.Alpha = 1 }},
			{"unknown weekday", func(c *config.Config) { c.Weekday = "caturday" }},
			{"bad window start", func(c *config.Config) { c.WindowStart = "11/01/2017" }},
			{"reversed window", func(c *config.Config) { c.WindowStart, c.WindowEnd = "2017-11-30", "2017-11-01" }},
		}

		for _, tc := range cases {
			tc := tc
			convey.Convey("When the config has "+tc.name, func() {
				tc.mutate(cfg)

				convey.Convey("Then Validate should return ErrInvalidConfig", func() {
					err := cfg.Validate()
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}

		convey.Convey("When the weekday is abbreviated and mixed case", func() {
			cfg.Weekday = " Sat "

			convey.Convey("Then it should resolve", func() {
				day, err := cfg.ParseWeekday()
				convey.So(err, convey.ShouldBeNil)
				convey.So(day, convey.ShouldEqual, time.Saturday)
			})
		})

		convey.Convey("When the window is a single day", func() {
			cfg.WindowStart, cfg.WindowEnd = "2017-11-04", "2017-11-04"

			convey.Convey("Then it should be valid", func() {
				convey.So(cfg.Validate(), convey.ShouldBeNil)
			})
		})
	})
}

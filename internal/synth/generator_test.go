package synth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/ridestats/internal/adapters/dataset"
	"github.com/okian/ridestats/internal/domain/ranking"
	"github.com/okian/ridestats/internal/synth"
	"github.com/okian/ridestats/pkg/logger"
	"github.com/okian/ridestats/pkg/metrics"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func smallConfig(dir string) synth.Config {
	cfg := synth.DefaultConfig()
	cfg.Dir = dir
	cfg.Operators = 12
	cfg.Neighborhoods = 15
	cfg.Start = time.Date(2017, time.November, 1, 0, 0, 0, 0, time.UTC)
	cfg.End = time.Date(2017, time.November, 7, 0, 0, 0, 0, time.UTC)
	cfg.RidesPerDay = 5
	return cfg
}

func TestGenerate(t *testing.T) {
	convey.Convey("Given a small synthetic config", t, func() {
		dir := t.TempDir()
		cfg := smallConfig(dir)
		ctx := context.Background()

		convey.Convey("When generating csv files", func() {
			stats, err := synth.Generate(ctx, cfg)

			convey.Convey("Then the loader should accept them", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stats.Rides, convey.ShouldEqual, 35)
				convey.So(stats.GoodRides+stats.BadRides, convey.ShouldEqual, 35)

				loader := dataset.New(dir, dataset.WithMetrics(metrics.NewManager()))
				ds, loadErr := loader.LoadAll(ctx, cfg.Files())
				convey.So(loadErr, convey.ShouldBeNil)
				convey.So(ds.Operators, convey.ShouldHaveLength, 12)
				convey.So(ds.Neighborhoods, convey.ShouldHaveLength, 15)
				convey.So(ds.Rides, convey.ShouldHaveLength, 35)
			})

			convey.Convey("Then the busiest operator and neighborhood should be known", func() {
				loader := dataset.New(dir, dataset.WithMetrics(metrics.NewManager()))
				ds, loadErr := loader.LoadAll(ctx, cfg.Files())
				convey.So(loadErr, convey.ShouldBeNil)
				convey.So(ranking.RankByCount(ds.Operators)[0].Name, convey.ShouldEqual, "Flash Cab")
				top := ranking.TopN(ds.Neighborhoods, 2)
				convey.So(top[0].Name, convey.ShouldEqual, "Loop")
				convey.So(top[1].Name, convey.ShouldEqual, "River North")
			})
		})

		convey.Convey("When generating xlsx files", func() {
			cfg.Format = synth.FormatXLSX
			_, err := synth.Generate(ctx, cfg)

			convey.Convey("Then the loader should read the workbooks", func() {
				convey.So(err, convey.ShouldBeNil)
				loader := dataset.New(dir, dataset.WithMetrics(metrics.NewManager()))
				ds, loadErr := loader.LoadAll(ctx, cfg.Files())
				convey.So(loadErr, convey.ShouldBeNil)
				convey.So(ds.Rides, convey.ShouldHaveLength, 35)
			})
		})

		convey.Convey("When the same seed is used twice", func() {
			first, errA := synth.Generate(ctx, cfg)
			cfg.Dir = t.TempDir()
			second, errB := synth.Generate(ctx, cfg)

			convey.Convey("Then the weather split should repeat", func() {
				convey.So(errA, convey.ShouldBeNil)
				convey.So(errB, convey.ShouldBeNil)
				convey.So(second.GoodRides, convey.ShouldEqual, first.GoodRides)
			})
		})

		convey.Convey("When the config is invalid", func() {
			cfg.End = cfg.Start.AddDate(0, 0, -1)
			_, err := synth.Generate(ctx, cfg)

			convey.Convey("Then it should fail with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, synth.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the context is canceled", func() {
			canceled, cancel := context.WithCancel(ctx)
			cancel()
			_, err := synth.Generate(canceled, cfg)

			convey.Convey("Then generation should stop", func() {
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
			})
		})
	})
}

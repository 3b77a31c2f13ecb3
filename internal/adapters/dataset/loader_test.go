package dataset_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"

	"github.com/okian/ridestats/internal/adapters/dataset"
	"github.com/okian/ridestats/internal/domain/model"
	"github.com/okian/ridestats/pkg/metrics"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func writeSheet(t *testing.T, dir, name string, rows [][]interface{}) {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		r := row
		if err := f.SetSheetRow("Sheet1", cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(filepath.Join(dir, name)); err != nil {
		t.Fatalf("save %s: %v", name, err)
	}
}

func TestLoaderOperators(t *testing.T) {
	convey.Convey("Given an operators csv", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "ops.csv", " Company_Name ,TRIPS_AMOUNT\nFlash Cab,19558\nTaxi Affiliation Services,11422\nBlue Ribbon Taxi Association Inc.,5953.0\n")
		loader := dataset.New(dir, dataset.WithMetrics(metrics.NewManager()))

		convey.Convey("When loading it", func() {
			ops, err := loader.Operators(context.Background(), "ops.csv")

			convey.Convey("Then headers should be normalized and rows kept in order", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ops, convey.ShouldHaveLength, 3)
				convey.So(ops[0], convey.ShouldResemble, model.Operator{Name: "Flash Cab", TripCount: 19558})
				convey.So(ops[1].TripCount, convey.ShouldEqual, 11422)
				convey.So(ops[2].TripCount, convey.ShouldEqual, 5953)
			})
		})

		convey.Convey("When a count is negative", func() {
			writeFile(t, dir, "bad.csv", "company_name,trips_amount\nFlash Cab,19558\nGhost Cab,-4\n")
			_, err := loader.Operators(context.Background(), "bad.csv")

			convey.Convey("Then it should report the row and column", func() {
				convey.So(errors.Is(err, dataset.ErrSchema), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "row 2")
				convey.So(err.Error(), convey.ShouldContainSubstring, `"trips_amount"`)
			})
		})

		convey.Convey("When a column is missing", func() {
			writeFile(t, dir, "short.csv", "company_name,trips\nFlash Cab,19558\n")
			_, err := loader.Operators(context.Background(), "short.csv")

			convey.Convey("Then it should fail with ErrSchema naming the column", func() {
				convey.So(errors.Is(err, dataset.ErrSchema), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "trips_amount")
			})
		})

		convey.Convey("When the file starts with a byte order mark", func() {
			writeFile(t, dir, "bom.csv", "\ufeffcompany_name,trips_amount\nFlash Cab,19558\n")
			ops, err := loader.Operators(context.Background(), "bom.csv")

			convey.Convey("Then the first header should still match", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ops, convey.ShouldResemble, []model.Operator{{Name: "Flash Cab", TripCount: 19558}})
			})
		})

		convey.Convey("When counts exceed 32 bits", func() {
			writeFile(t, dir, "big.csv", "company_name,trips_amount\nA,3000000000\nB,3000000000.0\n")
			ops, err := loader.Operators(context.Background(), "big.csv")

			convey.Convey("Then integer and float spellings should both load", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ops[0].TripCount, convey.ShouldEqual, 3000000000)
				convey.So(ops[1].TripCount, convey.ShouldEqual, 3000000000)
			})
		})

		convey.Convey("When a count does not fit in an int", func() {
			writeFile(t, dir, "huge.csv", "company_name,trips_amount\nA,1e30\n")
			_, err := loader.Operators(context.Background(), "huge.csv")

			convey.Convey("Then it should be reported as out of range", func() {
				convey.So(errors.Is(err, dataset.ErrSchema), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "out of range")
			})
		})

		convey.Convey("When the file has a header but no rows", func() {
			writeFile(t, dir, "header.csv", "company_name,trips_amount\n")
			ops, err := loader.Operators(context.Background(), "header.csv")

			convey.Convey("Then it should load an empty dataset", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ops, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When two headers differ only in case", func() {
			writeFile(t, dir, "dup.csv", "company_name,Company_Name,trips_amount\na,b,1\n")
			_, err := loader.Operators(context.Background(), "dup.csv")

			convey.Convey("Then it should fail with ErrSchema", func() {
				convey.So(errors.Is(err, dataset.ErrSchema), convey.ShouldBeTrue)
			})
		})
	})
}

func TestLoaderNeighborhoods(t *testing.T) {
	convey.Convey("Given a neighborhoods xlsx workbook", t, func() {
		dir := t.TempDir()
		writeSheet(t, dir, "hoods.xlsx", [][]interface{}{
			{"dropoff_location_name", "average_trips"},
			{"Loop", 10727.466667},
			{"River North", 9523.666667},
			{"Streeterville", 6664.666667},
		})
		loader := dataset.New(dir, dataset.WithMetrics(metrics.NewManager()))

		convey.Convey("When loading it", func() {
			hoods, err := loader.Neighborhoods(context.Background(), "hoods.xlsx")

			convey.Convey("Then every row should be decoded", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(hoods, convey.ShouldHaveLength, 3)
				convey.So(hoods[0].Name, convey.ShouldEqual, "Loop")
				convey.So(hoods[0].AverageTrips, convey.ShouldAlmostEqual, 10727.466667, 1e-6)
				convey.So(hoods[2].Name, convey.ShouldEqual, "Streeterville")
			})
		})

		convey.Convey("When an average is not a finite number", func() {
			writeFile(t, dir, "nan.csv", "dropoff_location_name,average_trips\nLoop,Inf\n")
			_, err := loader.Neighborhoods(context.Background(), "nan.csv")

			convey.Convey("Then it should be rejected", func() {
				convey.So(errors.Is(err, dataset.ErrSchema), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the extension is unsupported", func() {
			writeFile(t, dir, "hoods.json", "[]")
			_, err := loader.Neighborhoods(context.Background(), "hoods.json")

			convey.Convey("Then it should fail with ErrFormat", func() {
				convey.So(errors.Is(err, dataset.ErrFormat), convey.ShouldBeTrue)
			})
		})
	})
}

func TestLoaderRides(t *testing.T) {
	convey.Convey("Given a rides csv", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "rides.csv", "start_ts,weather_conditions,duration_seconds\n"+
			"2017-11-25 16:00:00,Good,2410.0\n"+
			"2017-11-25 14:00:00,bad,1920\n")
		loader := dataset.New(dir, dataset.WithMetrics(metrics.NewManager()))

		convey.Convey("When loading it", func() {
			rides, err := loader.Rides(context.Background(), "rides.csv")

			convey.Convey("Then timestamps and weather should be parsed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rides, convey.ShouldHaveLength, 2)
				convey.So(rides[0].Start.Equal(time.Date(2017, time.November, 25, 16, 0, 0, 0, time.UTC)), convey.ShouldBeTrue)
				convey.So(rides[0].Weather, convey.ShouldEqual, model.WeatherGood)
				convey.So(rides[0].DurationSeconds, convey.ShouldEqual, 2410)
				convey.So(rides[1].Weather, convey.ShouldEqual, model.WeatherBad)
			})
		})

		convey.Convey("When a weather value is outside the categories", func() {
			writeFile(t, dir, "fog.csv", "start_ts,weather_conditions,duration_seconds\n2017-11-25 16:00:00,Foggy,2410\n")
			_, err := loader.Rides(context.Background(), "fog.csv")

			convey.Convey("Then it should fail with ErrSchema", func() {
				convey.So(errors.Is(err, dataset.ErrSchema), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "weather_conditions")
			})
		})

		convey.Convey("When a duration is zero", func() {
			writeFile(t, dir, "zero.csv", "start_ts,weather_conditions,duration_seconds\n2017-11-25 16:00:00,Good,0\n")
			_, err := loader.Rides(context.Background(), "zero.csv")

			convey.Convey("Then it should fail with ErrSchema", func() {
				convey.So(errors.Is(err, dataset.ErrSchema), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "duration_seconds")
			})
		})

		convey.Convey("When a header-only file lacks a column", func() {
			writeFile(t, dir, "partial.csv", "start_ts,weather_conditions\n")
			_, err := loader.Rides(context.Background(), "partial.csv")

			convey.Convey("Then it should fail with ErrSchema naming the column", func() {
				convey.So(errors.Is(err, dataset.ErrSchema), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "duration_seconds")
			})
		})

		convey.Convey("When a header-only workbook has every column", func() {
			writeSheet(t, dir, "empty.xlsx", [][]interface{}{
				{"start_ts", "weather_conditions", "duration_seconds"},
			})
			rides, err := loader.Rides(context.Background(), "empty.xlsx")

			convey.Convey("Then it should load no rides", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rides, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When timestamps use a custom layout", func() {
			writeFile(t, dir, "iso.csv", "start_ts,weather_conditions,duration_seconds\n2017-11-25T16:00:00,Good,60\n")
			custom := dataset.New(dir,
				dataset.WithTimestampLayout("2006-01-02T15:04:05"),
				dataset.WithMetrics(metrics.NewManager()),
			)
			rides, err := custom.Rides(context.Background(), "iso.csv")

			convey.Convey("Then the layout should be honored", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(rides[0].Start.Hour(), convey.ShouldEqual, 16)
			})
		})
	})
}

func TestLoaderResolution(t *testing.T) {
	convey.Convey("Given a primary and a fallback directory", t, func() {
		primary := filepath.Join(t.TempDir(), "absent")
		fallback := t.TempDir()
		writeFile(t, fallback, "ops.csv", "company_name,trips_amount\nFlash Cab,19558\n")
		m := metrics.NewManager()
		loader := dataset.New(primary, dataset.WithFallbackDir(fallback), dataset.WithMetrics(m))

		convey.Convey("When the file only exists in the fallback", func() {
			ops, err := loader.Operators(context.Background(), "ops.csv")

			convey.Convey("Then it should load from the fallback and count it", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ops, convey.ShouldHaveLength, 1)
				n, gatherErr := testutil.GatherAndCount(m.Registry(), "ridestats_pipeline_fallback_path_used_total")
				convey.So(gatherErr, convey.ShouldBeNil)
				convey.So(n, convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When the file exists nowhere", func() {
			_, err := loader.Rides(context.Background(), "rides.csv")

			convey.Convey("Then it should fail with ErrNotFound naming both paths", func() {
				convey.So(errors.Is(err, dataset.ErrNotFound), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, primary)
				convey.So(err.Error(), convey.ShouldContainSubstring, fallback)
			})
		})

		convey.Convey("When the context is already canceled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := loader.Operators(ctx, "ops.csv")

			convey.Convey("Then it should return the context error", func() {
				convey.So(errors.Is(err, context.Canceled), convey.ShouldBeTrue)
			})
		})
	})
}

func TestLoadAll(t *testing.T) {
	convey.Convey("Given all three datasets in one directory", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "ops.csv", "company_name,trips_amount\nFlash Cab,19558\n")
		writeFile(t, dir, "hoods.csv", "dropoff_location_name,average_trips\nLoop,10727.47\n")
		writeFile(t, dir, "rides.csv", "start_ts,weather_conditions,duration_seconds\n2017-11-04 06:00:00,Good,2410\n")
		loader := dataset.New(dir, dataset.WithMetrics(metrics.NewManager()))

		convey.Convey("When loading everything", func() {
			ds, err := loader.LoadAll(context.Background(), dataset.Files{
				Operators:     "ops.csv",
				Neighborhoods: "hoods.csv",
				Rides:         "rides.csv",
			})

			convey.Convey("Then each dataset should be populated", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(ds.Operators, convey.ShouldHaveLength, 1)
				convey.So(ds.Neighborhoods, convey.ShouldHaveLength, 1)
				convey.So(ds.Rides, convey.ShouldHaveLength, 1)
			})
		})

		convey.Convey("When one file is missing", func() {
			_, err := loader.LoadAll(context.Background(), dataset.Files{
				Operators:     "ops.csv",
				Neighborhoods: "missing.csv",
				Rides:         "rides.csv",
			})

			convey.Convey("Then it should stop with ErrNotFound", func() {
				convey.So(errors.Is(err, dataset.ErrNotFound), convey.ShouldBeTrue)
			})
		})
	})
}

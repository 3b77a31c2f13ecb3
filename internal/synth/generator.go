// Package synth writes synthetic operator, neighborhood and ride datasets
// with known properties, for demos and end-to-end runs.
package synth

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/okian/ridestats/internal/adapters/dataset"
	"github.com/okian/ridestats/pkg/logger"
)

const (
	filePermission = 0o600
	dirPermission  = 0o755

	// Trips of the busiest operator and drop-offs of the busiest
	// neighborhood; the rest decay as a power law of rank.
	peakTrips    = 19558
	peakDropoffs = 10727.47
	decayTrips   = 0.9
	decayAvg     = 0.8

	minDuration = 60.0 // seconds
)

var operatorNames = []string{ //nolint:gochecknoglobals // fixed name pool
	"Flash Cab", "Taxi Affiliation Services", "Medallion Leasing", "Yellow Cab",
	"Taxi Affiliation Service Yellow", "Chicago Carriage Cab Corp", "City Service",
	"Sun Taxi", "Star North Management LLC", "Blue Ribbon Taxi Association Inc.",
}

var neighborhoodNames = []string{ //nolint:gochecknoglobals // fixed name pool
	"Loop", "River North", "Streeterville", "West Loop", "O'Hare", "Lake View",
	"Grant Park", "Museum Campus", "Gold Coast", "Sheffield & DePaul",
}

// Generate writes the three datasets described by cfg into cfg.Dir.
// Operators and neighborhoods are written in shuffled order so that
// consumers have to rank them.
func Generate(ctx context.Context, cfg Config) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	if err := os.MkdirAll(cfg.Dir, dirPermission); err != nil {
		return Stats{}, fmt.Errorf("create output dir: %w", err)
	}

	log := logger.Get().Named("synth")
	started := time.Now()
	rng := rand.New(rand.NewSource(cfg.Seed))
	files := cfg.Files()
	stats := Stats{Files: files}

	ops := operatorFrame(cfg.Operators, rng)
	if err := writeFrame(cfg, files.Operators, ops); err != nil {
		return Stats{}, err
	}
	stats.Operators = ops.Nrow()

	hoods := neighborhoodFrame(cfg.Neighborhoods, rng)
	if err := writeFrame(cfg, files.Neighborhoods, hoods); err != nil {
		return Stats{}, err
	}
	stats.Neighborhoods = hoods.Nrow()

	rides, good, bad, err := rideFrame(ctx, cfg, rng)
	if err != nil {
		return Stats{}, err
	}
	if err := writeFrame(cfg, files.Rides, rides); err != nil {
		return Stats{}, err
	}
	stats.Rides, stats.GoodRides, stats.BadRides = rides.Nrow(), good, bad
	stats.Duration = time.Since(started)

	log.Info(ctx, "synthetic datasets written",
		logger.String("dir", cfg.Dir),
		logger.Int("operators", stats.Operators),
		logger.Int("neighborhoods", stats.Neighborhoods),
		logger.Int("rides", stats.Rides),
		logger.Duration("took", stats.Duration),
	)
	return stats, nil
}

func operatorFrame(n int, rng *rand.Rand) dataframe.DataFrame {
	names := make([]string, n)
	trips := make([]int, n)
	for i, j := range rng.Perm(n) {
		names[i] = pick(operatorNames, j, "Operator")
		trips[i] = int(math.Round(peakTrips / math.Pow(float64(j+1), decayTrips)))
	}
	return dataframe.New(
		series.New(names, series.String, dataset.ColCompanyName),
		series.New(trips, series.Int, dataset.ColTripsAmount),
	)
}

func neighborhoodFrame(n int, rng *rand.Rand) dataframe.DataFrame {
	names := make([]string, n)
	avgs := make([]float64, n)
	for i, j := range rng.Perm(n) {
		names[i] = pick(neighborhoodNames, j, "Area")
		avgs[i] = math.Round(100*peakDropoffs/math.Pow(float64(j+1), decayAvg)) / 100
	}
	return dataframe.New(
		series.New(names, series.String, dataset.ColDropoffName),
		series.New(avgs, series.Float, dataset.ColAverageTrips),
	)
}

// rideFrame draws RidesPerDay rides for every date in the range. Each ride
// also carries a ride_id column that the loader ignores.
func rideFrame(ctx context.Context, cfg Config, rng *rand.Rand) (dataframe.DataFrame, int, int, error) {
	good := distuv.Normal{Mu: cfg.GoodMean, Sigma: cfg.StdDev, Src: rng}
	bad := distuv.Normal{Mu: cfg.BadMean, Sigma: cfg.StdDev, Src: rng}

	var (
		ids, starts, weather []string
		durations            []float64
		nGood, nBad          int
	)
	for day := cfg.Start; !day.After(cfg.End); day = day.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return dataframe.DataFrame{}, 0, 0, err
		}
		for i := 0; i < cfg.RidesPerDay; i++ {
			start := day.Add(time.Duration(rng.Intn(24*60)) * time.Minute)
			dist, label := bad, "Bad"
			if rng.Float64() < cfg.GoodShare {
				dist, label = good, "Good"
				nGood++
			} else {
				nBad++
			}
			d := math.Max(minDuration, math.Round(dist.Rand()))

			ids = append(ids, uuid.NewString())
			starts = append(starts, start.Format(dataset.DefaultTimestampLayout))
			weather = append(weather, label)
			durations = append(durations, d)
		}
	}

	return dataframe.New(
		series.New(ids, series.String, "ride_id"),
		series.New(starts, series.String, dataset.ColStartTS),
		series.New(weather, series.String, dataset.ColWeather),
		series.New(durations, series.Float, dataset.ColDuration),
	), nGood, nBad, nil
}

func writeFrame(cfg Config, name string, df dataframe.DataFrame) error {
	if df.Err != nil {
		return fmt.Errorf("build %s: %w", name, df.Err)
	}
	path := filepath.Join(cfg.Dir, name)
	if cfg.Format == FormatXLSX {
		return writeWorkbook(path, df)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := df.WriteCSV(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func writeWorkbook(path string, df dataframe.DataFrame) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	for i, rec := range df.Records() {
		row := make([]interface{}, len(rec))
		for j, v := range rec {
			row[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// pick returns pool[i], or a numbered name once the pool runs out.
func pick(pool []string, i int, prefix string) string {
	if i < len(pool) {
		return pool[i]
	}
	return fmt.Sprintf("%s %03d", prefix, i+1)
}

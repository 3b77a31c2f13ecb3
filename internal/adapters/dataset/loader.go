// Package dataset loads the operator, neighborhood and ride tables from
// CSV or XLSX files and validates them against fixed schemas.
package dataset

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/okian/ridestats/internal/domain/model"
	"github.com/okian/ridestats/pkg/logger"
	"github.com/okian/ridestats/pkg/metrics"
)

// Dataset names used in logs, errors and metric labels.
const (
	Operators     = "operators"
	Neighborhoods = "neighborhoods"
	Rides         = "rides"
)

// Column names after normalization.
const (
	ColCompanyName  = "company_name"
	ColTripsAmount  = "trips_amount"
	ColDropoffName  = "dropoff_location_name"
	ColAverageTrips = "average_trips"
	ColStartTS      = "start_ts"
	ColWeather      = "weather_conditions"
	ColDuration     = "duration_seconds"
)

// DefaultTimestampLayout matches values like "2017-11-25 16:00:00".
const DefaultTimestampLayout = "2006-01-02 15:04:05"

// Schemas lists the required columns of each dataset.
var Schemas = map[string][]string{ //nolint:gochecknoglobals // fixed schema table
	Operators:     {ColCompanyName, ColTripsAmount},
	Neighborhoods: {ColDropoffName, ColAverageTrips},
	Rides:         {ColStartTS, ColWeather, ColDuration},
}

// Files names the three input files.
type Files struct {
	Operators     string
	Neighborhoods string
	Rides         string
}

// Datasets is the validated content of the three inputs. Treat it as
// read-only once loaded.
type Datasets struct {
	Operators     []model.Operator
	Neighborhoods []model.Neighborhood
	Rides         []model.Ride
}

// Loader reads datasets from a primary directory with a single fallback.
type Loader struct {
	dir             string
	fallbackDir     string
	timestampLayout string
	logger          logger.Logger
	metrics         *metrics.Manager
}

// New creates a Loader reading from dir.
func New(dir string, opts ...Option) *Loader {
	l := &Loader{
		dir:             dir,
		timestampLayout: DefaultTimestampLayout,
		logger:          logger.Nop(),
		metrics:         metrics.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadAll loads the three datasets, stopping at the first failure.
func (l *Loader) LoadAll(ctx context.Context, files Files) (Datasets, error) {
	var (
		ds  Datasets
		err error
	)
	if ds.Operators, err = l.Operators(ctx, files.Operators); err != nil {
		return Datasets{}, err
	}
	if ds.Neighborhoods, err = l.Neighborhoods(ctx, files.Neighborhoods); err != nil {
		return Datasets{}, err
	}
	if ds.Rides, err = l.Rides(ctx, files.Rides); err != nil {
		return Datasets{}, err
	}
	return ds, nil
}

// Operators loads operator trip counts from name.
func (l *Loader) Operators(ctx context.Context, name string) ([]model.Operator, error) {
	df, path, err := l.frame(ctx, Operators, name)
	if err != nil {
		return nil, err
	}
	names := df.Col(ColCompanyName).Records()
	counts := df.Col(ColTripsAmount).Records()

	out := make([]model.Operator, len(names))
	for i := range names {
		n, err := parseCount(counts[i])
		if err != nil {
			return nil, l.reject(Operators, path, i, ColTripsAmount, err)
		}
		out[i] = model.Operator{Name: strings.TrimSpace(names[i]), TripCount: n}
	}
	l.loaded(ctx, Operators, path, len(out))
	return out, nil
}

// Neighborhoods loads average drop-offs per neighborhood from name.
func (l *Loader) Neighborhoods(ctx context.Context, name string) ([]model.Neighborhood, error) {
	df, path, err := l.frame(ctx, Neighborhoods, name)
	if err != nil {
		return nil, err
	}
	names := df.Col(ColDropoffName).Records()
	avgs := df.Col(ColAverageTrips).Records()

	out := make([]model.Neighborhood, len(names))
	for i := range names {
		avg, err := parseFloat(avgs[i])
		if err == nil && avg < 0 {
			err = fmt.Errorf("must not be negative, got %v", avg)
		}
		if err != nil {
			return nil, l.reject(Neighborhoods, path, i, ColAverageTrips, err)
		}
		out[i] = model.Neighborhood{Name: strings.TrimSpace(names[i]), AverageTrips: avg}
	}
	l.loaded(ctx, Neighborhoods, path, len(out))
	return out, nil
}

// Rides loads individual rides from name.
func (l *Loader) Rides(ctx context.Context, name string) ([]model.Ride, error) {
	df, path, err := l.frame(ctx, Rides, name)
	if err != nil {
		return nil, err
	}
	starts := df.Col(ColStartTS).Records()
	weathers := df.Col(ColWeather).Records()
	durations := df.Col(ColDuration).Records()

	out := make([]model.Ride, len(starts))
	for i := range starts {
		start, err := time.Parse(l.timestampLayout, strings.TrimSpace(starts[i]))
		if err != nil {
			return nil, l.reject(Rides, path, i, ColStartTS, err)
		}
		weather, ok := model.ParseWeather(weathers[i])
		if !ok {
			return nil, l.reject(Rides, path, i, ColWeather, fmt.Errorf("unknown category %q", weathers[i]))
		}
		dur, err := parseFloat(durations[i])
		if err == nil && dur <= 0 {
			err = fmt.Errorf("must be positive, got %v", dur)
		}
		if err != nil {
			return nil, l.reject(Rides, path, i, ColDuration, err)
		}
		out[i] = model.Ride{Start: start, Weather: weather, DurationSeconds: dur}
	}
	l.loaded(ctx, Rides, path, len(out))
	return out, nil
}

// frame resolves, reads and schema-checks one dataset.
func (l *Loader) frame(ctx context.Context, dataset, name string) (dataframe.DataFrame, string, error) {
	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, "", err
	}

	path, fallback, err := l.resolve(name)
	if err != nil {
		return dataframe.DataFrame{}, "", err
	}
	if fallback {
		l.metrics.RecordFallbackUsed(dataset)
		l.logger.Warn(ctx, "dataset missing from primary location, using fallback",
			logger.String("dataset", dataset), logger.String("path", path))
	}

	df, err := readFrame(path)
	if err != nil {
		return dataframe.DataFrame{}, path, err
	}

	var missing []string
	have := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		have[n] = true
	}
	for _, col := range Schemas[dataset] {
		if !have[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return dataframe.DataFrame{}, path, fmt.Errorf("%w: %s: missing columns %s (have %s)",
			ErrSchema, path, strings.Join(missing, ", "), strings.Join(df.Names(), ", "))
	}
	return df, path, nil
}

// reject records a bad row and builds the error naming it. row is the
// zero-based data row index.
func (l *Loader) reject(dataset, path string, row int, column string, cause error) error {
	l.metrics.RecordRowRejected(dataset)
	return fmt.Errorf("%w: %s: row %d, column %q: %v", ErrSchema, path, row+1, column, cause)
}

func (l *Loader) loaded(ctx context.Context, dataset, path string, rows int) {
	l.metrics.RecordRowsLoaded(dataset, rows)
	l.logger.Info(ctx, "dataset loaded",
		logger.String("dataset", dataset), logger.String("path", path), logger.Int("rows", rows))
}

func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		// Counts exported from spreadsheets sometimes arrive as "19558.0".
		f, ferr := parseFloat(s)
		switch {
		case ferr != nil || f != math.Trunc(f):
			return 0, fmt.Errorf("not an integer: %q", s)
		case f >= math.MaxInt || f < math.MinInt:
			return 0, fmt.Errorf("out of range: %q", s)
		}
		n = int(f)
	}
	if n < 0 {
		return 0, fmt.Errorf("must not be negative, got %d", n)
	}
	return n, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return f, nil
}

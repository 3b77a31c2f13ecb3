package synth

import (
	"fmt"
	"time"

	"github.com/okian/ridestats/internal/adapters/dataset"
)

// Output formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Config holds the shape of the generated datasets.
type Config struct {
	Dir    string // output directory, created if missing
	Format string // csv or xlsx

	Operators     int // number of taxi companies
	Neighborhoods int // number of drop-off locations

	Start       time.Time // first ride date
	End         time.Time // last ride date, inclusive
	RidesPerDay int
	GoodShare   float64 // probability a ride has Good weather

	GoodMean float64 // mean duration in seconds under Good weather
	BadMean  float64 // mean duration in seconds under Bad weather
	StdDev   float64 // duration standard deviation in seconds

	Seed uint64
}

// DefaultConfig mirrors the shape of the real November 2017 extract.
func DefaultConfig() Config {
	return Config{
		Dir:           ".",
		Format:        FormatCSV,
		Operators:     64,
		Neighborhoods: 94,
		Start:         time.Date(2017, time.November, 1, 0, 0, 0, 0, time.UTC),
		End:           time.Date(2017, time.November, 30, 0, 0, 0, 0, time.UTC),
		RidesPerDay:   40,
		GoodShare:     0.8,
		GoodMean:      2000,
		BadMean:       2400,
		StdDev:        500,
		Seed:          1,
	}
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch {
	case c.Format != FormatCSV && c.Format != FormatXLSX:
		return fmt.Errorf("%w: format %q", ErrInvalidConfig, c.Format)
	case c.Operators < 0 || c.Neighborhoods < 0 || c.RidesPerDay < 0:
		return fmt.Errorf("%w: counts must not be negative", ErrInvalidConfig)
	case c.End.Before(c.Start):
		return fmt.Errorf("%w: end %s before start %s", ErrInvalidConfig, c.End.Format(time.DateOnly), c.Start.Format(time.DateOnly))
	case c.GoodShare < 0 || c.GoodShare > 1:
		return fmt.Errorf("%w: good share %v outside [0, 1]", ErrInvalidConfig, c.GoodShare)
	case c.GoodMean <= 0 || c.BadMean <= 0 || c.StdDev < 0:
		return fmt.Errorf("%w: durations must be positive", ErrInvalidConfig)
	}
	return nil
}

// Files returns the dataset file names Generate writes for this config.
func (c Config) Files() dataset.Files {
	return dataset.Files{
		Operators:     "project_sql_result_01." + c.Format,
		Neighborhoods: "project_sql_result_04." + c.Format,
		Rides:         "project_sql_result_07." + c.Format,
	}
}

// Stats describes what Generate wrote.
type Stats struct {
	Files         dataset.Files
	Operators     int
	Neighborhoods int
	Rides         int
	GoodRides     int
	BadRides      int
	Duration      time.Duration
}

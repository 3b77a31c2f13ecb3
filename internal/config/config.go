// Package config defines the ridestats configuration and how it is loaded.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers a YAML file and environment variables over the defaults.
// - Errors are wrapped with this package's sentinel kinds.
package config

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the layout of window_start and window_end.
const DateLayout = "2006-01-02"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// DataDir is the primary location of the input datasets.
	DataDir string `koanf:"data_dir"`

	// FallbackDataDir is tried when a dataset is missing from DataDir.
	FallbackDataDir string `koanf:"fallback_data_dir"`

	// Dataset file names, resolved against DataDir then FallbackDataDir.
	OperatorsFile     string `koanf:"operators_file"`
	NeighborhoodsFile string `koanf:"neighborhoods_file"`
	RidesFile         string `koanf:"rides_file"`

	// TimestampLayout is the Go time layout of the rides start_ts column.
	TimestampLayout string `koanf:"timestamp_layout"`

	// TopN caps the neighborhood ranking.
	TopN int `koanf:"top_n"`

	// Weekday, WindowStart and WindowEnd select the rides under test.
	Weekday     string `koanf:"weekday"`
	WindowStart string `koanf:"window_start"`
	WindowEnd   string `koanf:"window_end"`

	// Alpha is the significance level of the weather test.
	Alpha float64 `koanf:"alpha"`

	// ChartDir receives the rendered charts; ChartFormat is xlsx or pdf.
	ChartDir    string `koanf:"chart_dir"`
	ChartFormat string `koanf:"chart_format"`

	// MetricsFile, when set, receives a Prometheus text dump of the run.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		DataDir:           "/datasets",
		FallbackDataDir:   "./datasets",
		OperatorsFile:     "project_sql_result_01.csv",
		NeighborhoodsFile: "project_sql_result_04.csv",
		RidesFile:         "project_sql_result_07.csv",
		TimestampLayout:   "2006-01-02 15:04:05",
		TopN:              10,
		Weekday:           "saturday",
		WindowStart:       "2017-11-01",
		WindowEnd:         "2017-11-30",
		Alpha:             0.05,
		ChartDir:          "charts",
		ChartFormat:       "xlsx",
	}
}

// Validate checks field values and returns ErrInvalidConfig on the first problem.
func (c *Config) Validate() error {
	switch {
	case c.DataDir == "":
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case c.OperatorsFile == "" || c.NeighborhoodsFile == "" || c.RidesFile == "":
		return fmt.Errorf("%w: dataset file names must not be empty", ErrInvalidConfig)
	case c.TimestampLayout == "":
		return fmt.Errorf("%w: timestamp_layout must not be empty", ErrInvalidConfig)
	case c.TopN < 0:
		return fmt.Errorf("%w: top_n must not be negative, got %d", ErrInvalidConfig, c.TopN)
	case c.Alpha <= 0 || c.Alpha >= 1:
		return fmt.Errorf("%w: alpha must be in (0, 1), got %v", ErrInvalidConfig, c.Alpha)
	}
	if _, err := c.ParseWeekday(); err != nil {
		return err
	}
	if _, _, err := c.ParseWindow(); err != nil {
		return err
	}
	return nil
}

// ParseWeekday resolves the configured weekday name, e.g. "Saturday" or "sat".
func (c *Config) ParseWeekday() (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(c.Weekday))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidConfig, c.Weekday)
}

// ParseWindow parses the inclusive date window.
func (c *Config) ParseWindow() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, c.WindowStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: window_start: %v", ErrInvalidConfig, err)
	}
	end, err := time.Parse(DateLayout, c.WindowEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: window_end: %v", ErrInvalidConfig, err)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: window_end %s is before window_start %s", ErrInvalidConfig, c.WindowEnd, c.WindowStart)
	}
	return start, end, nil
}

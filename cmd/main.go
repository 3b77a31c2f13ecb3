package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/ridestats/internal/adapters/chart"
	"github.com/okian/ridestats/internal/adapters/dataset"
	app "github.com/okian/ridestats/internal/app"
	"github.com/okian/ridestats/internal/config"
	"github.com/okian/ridestats/internal/domain/hypothesis"
	"github.com/okian/ridestats/pkg/logger"
	"github.com/okian/ridestats/pkg/metrics"
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, loggerInstance, os.Stdout); err != nil {
		loggerInstance.Error(ctx, "run failed", logger.Error(err))
		os.Stderr.WriteString("ridestats: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}

// run executes one analysis and prints the report to out.
func run(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) error {
	pipeline, err := buildPipeline(cfg, log, metrics.Default())
	if err != nil {
		return err
	}
	report, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}
	return report.WriteText(out)
}

// buildPipeline wires the loader, renderer and test window from cfg.
func buildPipeline(cfg *config.Config, log logger.Logger, m *metrics.Manager) (*app.Pipeline, error) {
	weekday, err := cfg.ParseWeekday()
	if err != nil {
		return nil, err
	}
	start, end, err := cfg.ParseWindow()
	if err != nil {
		return nil, err
	}
	renderer, err := chart.New(cfg.ChartFormat)
	if err != nil {
		return nil, fmt.Errorf("chart_format: %w", err)
	}

	loader := dataset.New(cfg.DataDir,
		dataset.WithFallbackDir(cfg.FallbackDataDir),
		dataset.WithTimestampLayout(cfg.TimestampLayout),
		dataset.WithLogger(log.Named("loader")),
		dataset.WithMetrics(m),
	)

	return app.New(
		app.WithLogger(log),
		app.WithLoader(loader),
		app.WithFiles(dataset.Files{
			Operators:     cfg.OperatorsFile,
			Neighborhoods: cfg.NeighborhoodsFile,
			Rides:         cfg.RidesFile,
		}),
		app.WithRenderer(renderer),
		app.WithChartDir(cfg.ChartDir),
		app.WithWindow(hypothesis.Window{Weekday: weekday, Start: start, End: end}),
		app.WithTopN(cfg.TopN),
		app.WithAlpha(cfg.Alpha),
		app.WithMetrics(m),
		app.WithMetricsFile(cfg.MetricsFile),
	), nil
}

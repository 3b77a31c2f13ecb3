// Package service runs the ride analysis: load, aggregate, render and test.
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/okian/ridestats/internal/adapters/chart"
	"github.com/okian/ridestats/internal/adapters/dataset"
	"github.com/okian/ridestats/internal/config"
	"github.com/okian/ridestats/internal/domain/hypothesis"
	"github.com/okian/ridestats/internal/domain/ranking"
	"github.com/okian/ridestats/internal/domain/summary"
	"github.com/okian/ridestats/pkg/logger"
	"github.com/okian/ridestats/pkg/metrics"
)

// Stage names used in logs and metric labels.
const (
	StageLoad      = "load"
	StageAggregate = "aggregate"
	StageRender    = "render"
	StageTest      = "test"
)

const (
	defaultTopN  = 10
	defaultAlpha = 0.05
	chartBase    = "ridestats"
)

// Pipeline runs every stage once, in order. It holds no state between runs.
type Pipeline struct {
	loader   *dataset.Loader
	files    dataset.Files
	renderer chart.Renderer
	chartDir string

	window hypothesis.Window
	topN   int
	alpha  float64

	metrics     *metrics.Manager
	metricsFile string
	logger      logger.Logger
}

// New constructs a Pipeline. Without options it reads the default file
// names from the configured default data directories, tests November 2017
// Saturdays and writes an xlsx workbook to ./charts.
func New(opts ...Option) *Pipeline {
	defaults := config.New()
	p := &Pipeline{
		files: dataset.Files{
			Operators:     defaults.OperatorsFile,
			Neighborhoods: defaults.NeighborhoodsFile,
			Rides:         defaults.RidesFile,
		},
		renderer: chart.NewXLSX(),
		chartDir: "charts",
		window: hypothesis.Window{
			Weekday: time.Saturday,
			Start:   time.Date(2017, time.November, 1, 0, 0, 0, 0, time.UTC),
			End:     time.Date(2017, time.November, 30, 0, 0, 0, 0, time.UTC),
		},
		topN:    defaultTopN,
		alpha:   defaultAlpha,
		metrics: metrics.Default(),
		logger:  nil, // resolved in Run
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.loader == nil {
		p.loader = dataset.New(defaults.DataDir,
			dataset.WithFallbackDir(defaults.FallbackDataDir),
			dataset.WithMetrics(p.metrics),
		)
	}
	return p
}

// Run executes the pipeline and returns the report. Any stage error ends
// the run; a canceled context yields ErrCanceled.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	if p.logger == nil {
		p.logger = logger.Get()
	}
	if p.metricsFile != "" {
		defer p.flushMetrics(ctx)
	}

	started := time.Now()
	rep := &Report{
		RunID:     uuid.NewString(),
		StartedAt: started.UTC(),
		Window:    p.window,
	}
	log := p.logger.Named("pipeline")
	log.Info(ctx, "run started", logger.String("run_id", rep.RunID))

	var ds dataset.Datasets
	err := p.stage(ctx, StageLoad, func() error {
		var err error
		ds, err = p.loader.LoadAll(ctx, p.files)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = p.stage(ctx, StageAggregate, func() error {
		rep.Operators = ranking.RankByCount(ds.Operators)
		rep.Shares = ranking.MarketShare(rep.Operators)
		rep.TopNeighborhoods = ranking.TopN(ds.Neighborhoods, p.topN)

		counts := make([]int, len(ds.Operators))
		for i, op := range ds.Operators {
			counts[i] = op.TripCount
		}
		avgs := make([]float64, len(ds.Neighborhoods))
		for i, n := range ds.Neighborhoods {
			avgs[i] = n.AverageTrips
		}
		durations := make([]float64, len(ds.Rides))
		for i, r := range ds.Rides {
			durations[i] = r.DurationSeconds
		}
		rep.Summaries = []summary.Stats{
			summary.Describe(dataset.ColTripsAmount, summary.Ints(counts)),
			summary.Describe(dataset.ColAverageTrips, avgs),
			summary.Describe(dataset.ColDuration, durations),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if p.renderer != nil {
		err = p.stage(ctx, StageRender, func() error {
			path, err := p.render(ctx, rep)
			rep.ChartPath = path
			return err
		})
		if err != nil {
			return nil, err
		}
	}

	err = p.stage(ctx, StageTest, func() error {
		rides := hypothesis.SelectWindow(ds.Rides, p.window)
		part := hypothesis.PartitionByWeather(rides)
		rep.WindowRides = len(rides)
		rep.GoodN, rep.BadN, rep.Discarded = len(part.Good), len(part.Bad), part.Discarded
		rep.Summaries = append(rep.Summaries,
			summary.Describe("duration_good", part.Good),
			summary.Describe("duration_bad", part.Bad),
		)
		p.metrics.UpdateWindowRides(len(rides))

		res, err := hypothesis.WelchTTest(part.Good, part.Bad)
		if err != nil {
			return err
		}
		dec, err := hypothesis.Decide(res, p.alpha)
		if err != nil {
			return err
		}
		rep.Test, rep.Decision = res, dec
		p.metrics.UpdateHypothesisResult(res.T, res.P, res.NA, res.NB)
		return nil
	})
	if err != nil {
		return nil, err
	}

	rep.Duration = time.Since(started)
	log.Info(ctx, "run finished",
		logger.String("run_id", rep.RunID),
		logger.Float64("t", rep.Test.T),
		logger.Float64("p", rep.Test.P),
		logger.Duration("took", rep.Duration),
	)
	return rep, nil
}

// stage runs fn after checking ctx, timing it and recording failures.
func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: before %s: %w", ErrCanceled, name, err)
	}

	start := time.Now()
	err := fn()
	took := time.Since(start)
	p.metrics.RecordStageLatency(name, float64(took)/float64(time.Millisecond))

	if err != nil {
		p.metrics.RecordStageError(name)
		p.logger.Error(ctx, "stage failed", logger.String("stage", name), logger.Error(err))
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s: %w", ErrCanceled, name, err)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	p.logger.Debug(ctx, "stage finished", logger.String("stage", name), logger.Duration("took", took))
	return nil
}

func (p *Pipeline) render(ctx context.Context, rep *Report) (string, error) {
	if err := os.MkdirAll(p.chartDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", chart.ErrRender, err)
	}
	path := filepath.Join(p.chartDir, chartBase+"."+p.renderer.Format())
	charts := []chart.Chart{
		operatorChart(rep.Operators),
		neighborhoodChart(rep.TopNeighborhoods),
	}
	if err := p.renderer.Render(ctx, path, charts...); err != nil {
		return "", err
	}
	for range charts {
		p.metrics.RecordChartRendered(p.renderer.Format())
	}
	p.logger.Info(ctx, "charts written", logger.String("path", path), logger.Int("charts", len(charts)))
	return path, nil
}

func (p *Pipeline) flushMetrics(ctx context.Context) {
	if err := p.metrics.WriteTextfile(p.metricsFile); err != nil {
		p.logger.Warn(ctx, "failed to write metrics file", logger.String("path", p.metricsFile), logger.Error(err))
	}
}

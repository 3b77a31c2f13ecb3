package service

import (
	"github.com/okian/ridestats/internal/adapters/chart"
	"github.com/okian/ridestats/internal/adapters/dataset"
	"github.com/okian/ridestats/internal/domain/hypothesis"
	"github.com/okian/ridestats/pkg/logger"
	"github.com/okian/ridestats/pkg/metrics"
)

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.logger = log
		}
	}
}

// WithLoader sets the dataset loader.
func WithLoader(l *dataset.Loader) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.loader = l
		}
	}
}

// WithFiles sets the three input file names.
func WithFiles(files dataset.Files) Option {
	return func(p *Pipeline) {
		p.files = files
	}
}

// WithRenderer sets the chart renderer. A nil renderer disables charts.
func WithRenderer(r chart.Renderer) Option {
	return func(p *Pipeline) {
		p.renderer = r
	}
}

// WithChartDir sets the directory charts are written to.
func WithChartDir(dir string) Option {
	return func(p *Pipeline) {
		if dir != "" {
			p.chartDir = dir
		}
	}
}

// WithWindow sets the weekday and date range of the hypothesis test.
func WithWindow(w hypothesis.Window) Option {
	return func(p *Pipeline) {
		p.window = w
	}
}

// WithTopN sets how many neighborhoods the ranking keeps. Zero keeps none.
func WithTopN(n int) Option {
	return func(p *Pipeline) {
		if n >= 0 {
			p.topN = n
		}
	}
}

// WithAlpha sets the significance level.
func WithAlpha(alpha float64) Option {
	return func(p *Pipeline) {
		p.alpha = alpha
	}
}

// WithMetrics sets the metrics manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(p *Pipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

// WithMetricsFile makes Run write the metrics registry to path when it
// finishes, successfully or not.
func WithMetricsFile(path string) Option {
	return func(p *Pipeline) {
		p.metricsFile = path
	}
}

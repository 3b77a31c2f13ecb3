package dataset

import (
	"github.com/okian/ridestats/pkg/logger"
	"github.com/okian/ridestats/pkg/metrics"
)

// Option applies a configuration option to the Loader.
type Option func(*Loader)

// WithFallbackDir sets the directory tried when a file is missing from
// the primary directory.
func WithFallbackDir(dir string) Option {
	return func(l *Loader) {
		if dir != "" {
			l.fallbackDir = dir
		}
	}
}

// WithTimestampLayout sets the Go time layout of the rides start_ts column.
func WithTimestampLayout(layout string) Option {
	return func(l *Loader) {
		if layout != "" {
			l.timestampLayout = layout
		}
	}
}

// WithLogger sets the loader's logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.logger = log
		}
	}
}

// WithMetrics sets the metrics manager that counts loaded and rejected rows.
func WithMetrics(m *metrics.Manager) Option {
	return func(l *Loader) {
		if m != nil {
			l.metrics = m
		}
	}
}

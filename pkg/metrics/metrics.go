package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every metric recorded during a pipeline run.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         *prometheus.Registry

	// Loader
	rowsLoaded   *prometheus.CounterVec
	rowsRejected *prometheus.CounterVec
	fallbackUsed *prometheus.CounterVec

	// Stages
	stageLatency *prometheus.HistogramVec
	stageErrors  *prometheus.CounterVec

	// Renderer
	chartsRendered *prometheus.CounterVec

	// Hypothesis test
	tStatistic  prometheus.Gauge
	pValue      prometheus.Gauge
	sampleSize  *prometheus.GaugeVec
	windowRides prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager. Without WithPrometheusRegistry
// the manager gets a private registry of its own.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "ridestats",
		subsystem: "pipeline",
		// Stage latencies in milliseconds; loads of small files sit well under a second.
		histogramBuckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		enabled:          true,
		constLabels:      map[string]string{},
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.rowsLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_loaded_total",
		Help:        "Rows accepted by the dataset loader",
		ConstLabels: m.constLabels,
	}, []string{"dataset"})

	m.rowsRejected = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rows_rejected_total",
		Help:        "Rows that failed schema validation",
		ConstLabels: m.constLabels,
	}, []string{"dataset"})

	m.fallbackUsed = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "fallback_path_used_total",
		Help:        "Datasets read from the fallback location",
		ConstLabels: m.constLabels,
	}, []string{"dataset"})

	m.stageLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_latency_milliseconds",
		Help:        "Wall time of each pipeline stage in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.stageErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "stage_errors_total",
		Help:        "Pipeline stages that ended in an error",
		ConstLabels: m.constLabels,
	}, []string{"stage"})

	m.chartsRendered = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "charts_rendered_total",
		Help:        "Charts written by the renderer",
		ConstLabels: m.constLabels,
	}, []string{"format"})

	m.tStatistic = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "welch_t_statistic",
		Help:        "t statistic of the last weather duration test",
		ConstLabels: m.constLabels,
	})

	m.pValue = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "welch_p_value",
		Help:        "Two-tailed p-value of the last weather duration test",
		ConstLabels: m.constLabels,
	})

	m.sampleSize = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "sample_size",
		Help:        "Observations per weather category in the test window",
		ConstLabels: m.constLabels,
	}, []string{"weather"})

	m.windowRides = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "window_rides",
		Help:        "Rides selected by the weekday/date window",
		ConstLabels: m.constLabels,
	})
}

// RecordRowsLoaded adds n accepted rows for dataset.
func (m *Manager) RecordRowsLoaded(dataset string, n int) {
	if !m.enabled {
		return
	}
	m.rowsLoaded.WithLabelValues(dataset).Add(float64(n))
}

// RecordRowRejected counts one rejected row for dataset.
func (m *Manager) RecordRowRejected(dataset string) {
	if !m.enabled {
		return
	}
	m.rowsRejected.WithLabelValues(dataset).Inc()
}

// RecordFallbackUsed counts a dataset read from the fallback location.
func (m *Manager) RecordFallbackUsed(dataset string) {
	if !m.enabled {
		return
	}
	m.fallbackUsed.WithLabelValues(dataset).Inc()
}

// RecordStageLatency records how long a stage took.
func (m *Manager) RecordStageLatency(stage string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.stageLatency.WithLabelValues(stage).Observe(latencyMs)
}

// RecordStageError counts a failed stage.
func (m *Manager) RecordStageError(stage string) {
	if !m.enabled {
		return
	}
	m.stageErrors.WithLabelValues(stage).Inc()
}

// RecordChartRendered counts one chart written in format.
func (m *Manager) RecordChartRendered(format string) {
	if !m.enabled {
		return
	}
	m.chartsRendered.WithLabelValues(format).Inc()
}

// UpdateHypothesisResult publishes the outcome of the t-test.
func (m *Manager) UpdateHypothesisResult(t, p float64, goodN, badN int) {
	if !m.enabled {
		return
	}
	m.tStatistic.Set(t)
	m.pValue.Set(p)
	m.sampleSize.WithLabelValues("good").Set(float64(goodN))
	m.sampleSize.WithLabelValues("bad").Set(float64(badN))
}

// UpdateWindowRides sets the number of rides inside the test window.
func (m *Manager) UpdateWindowRides(n int) {
	if !m.enabled {
		return
	}
	m.windowRides.Set(float64(n))
}

// WriteTextfile writes the registry in the Prometheus text exposition
// format, suitable for the node_exporter textfile collector.
func (m *Manager) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteTextfile, path, err)
	}
	return nil
}

// Registry returns the registry backing this manager.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Default returns the process-wide manager.
func Default() *Manager {
	return globalManager
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

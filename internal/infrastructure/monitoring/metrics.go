package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "etlbench"

// Metrics holds all Prometheus metrics
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// Pipeline metrics
	StageDuration *prometheus.HistogramVec
	StageFailures *prometheus.CounterVec
	StageRows     *prometheus.GaugeVec

	// Benchmark metrics
	Runs         *prometheus.CounterVec
	RunDuration  *prometheus.HistogramVec
	CacheHits    prometheus.Counter
	CacheMisses  prometheus.Counter
	CacheEntries prometheus.Gauge

	startTime time.Time
}

// NewMetrics creates a metrics collector on its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "path"},
		),

		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Pipeline stage duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
			},
			[]string{"stage"},
		),
		StageFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "stage_failures_total",
				Help:      "Total number of failed pipeline stages",
			},
			[]string{"stage"},
		),
		StageRows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "stage_rows",
				Help:      "Rows in the dataset after the most recent run of each stage",
			},
			[]string{"stage"},
		),

		Runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "benchmark_runs_total",
				Help:      "Total number of benchmark runs by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		RunDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "benchmark_run_duration_seconds",
				Help:      "Benchmark run duration in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
			},
			[]string{"mode"},
		),
		CacheHits: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "benchmark_cache_hits_total",
				Help:      "Live benchmark requests served from cache",
			},
		),
		CacheMisses: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "benchmark_cache_misses_total",
				Help:      "Live benchmark requests that ran the pipeline",
			},
		),
		CacheEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "benchmark_cache_entries",
				Help:      "Cached live benchmark results",
			},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Process uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))
}

// ObserveStage implements pipeline.Observer
func (m *Metrics) ObserveStage(stage string, d time.Duration, err error) {
	m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		m.StageFailures.WithLabelValues(stage).Inc()
	}
}

// ObserveRows implements pipeline.Observer
func (m *Metrics) ObserveRows(stage string, rows int) {
	m.StageRows.WithLabelValues(stage).Set(float64(rows))
}

// RecordRun records a finished benchmark run
func (m *Metrics) RecordRun(mode, outcome string, duration time.Duration) {
	m.Runs.WithLabelValues(mode, outcome).Inc()
	m.RunDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordCacheLookup counts a live cache lookup
func (m *Metrics) RecordCacheLookup(hit bool) {
	if hit {
		m.CacheHits.Inc()
		return
	}
	m.CacheMisses.Inc()
}

// SetCacheEntries sets the live cache size
func (m *Metrics) SetCacheEntries(n int) {
	m.CacheEntries.Set(float64(n))
}

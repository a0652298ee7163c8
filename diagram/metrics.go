package diagram

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics collects Prometheus metrics for diagram generation.
//
// Metrics exposed (all namespaced with "procdiagram_"):
//
// 1. generations_total (counter): Generate calls by outcome.
// Labels: status (success, error).
//
// 2. parse_errors_total (counter): Segmenter failures.
// Labels: code (EMPTY_INPUT, MALFORMED_DECISION).
//
// 3. steps_per_diagram (histogram): Steps parsed per successful call.
//
// 4. decision_branches (histogram): Branches per decision step.
//
// 5. generate_latency_ms (histogram): Wall time of one Generate call.
// Labels: status.
//
// Usage:
//
//	registry := prometheus.NewRegistry()
//	metrics := diagram.NewPrometheusMetrics(registry)
//	gen, _ := diagram.NewGenerator(diagram.WithMetrics(metrics))
//	http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
type PrometheusMetrics struct {
	generations      *prometheus.CounterVec
	parseErrors      *prometheus.CounterVec
	stepsPerDiagram  prometheus.Histogram
	decisionBranches prometheus.Histogram
	latency          *prometheus.HistogramVec

	mu      sync.RWMutex
	enabled bool
}

// NewPrometheusMetrics creates and registers all metrics with registry.
// A nil registry means prometheus.DefaultRegisterer.
//
// Registering twice on the same registry panics, as with any promauto
// collector; use one PrometheusMetrics per registry.
func NewPrometheusMetrics(registry prometheus.Registerer) *PrometheusMetrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &PrometheusMetrics{
		enabled: true,

		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procdiagram",
			Name:      "generations_total",
			Help:      "Generate calls by outcome",
		}, []string{"status"}),

		parseErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "procdiagram",
			Name:      "parse_errors_total",
			Help:      "Descriptions rejected by the segmenter, by error code",
		}, []string{"code"}),

		stepsPerDiagram: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "procdiagram",
			Name:      "steps_per_diagram",
			Help:      "Number of steps parsed from one description",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34, 55, 100},
		}),

		decisionBranches: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "procdiagram",
			Name:      "decision_branches",
			Help:      "Number of branches on one decision step",
			Buckets:   []float64{1, 2, 3, 4, 5, 8},
		}),

		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "procdiagram",
			Name:      "generate_latency_ms",
			Help:      "Duration of one Generate call in milliseconds",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 5, 10, 50, 100},
		}, []string{"status"}),
	}
}

// RecordSuccess records a successful Generate call over steps.
func (pm *PrometheusMetrics) RecordSuccess(steps []Step, latency time.Duration) {
	if !pm.isEnabled() {
		return
	}

	pm.generations.WithLabelValues("success").Inc()
	pm.stepsPerDiagram.Observe(float64(len(steps)))
	for _, step := range steps {
		if d, ok := step.(DecisionStep); ok {
			pm.decisionBranches.Observe(float64(len(d.Branches)))
		}
	}
	pm.latency.WithLabelValues("success").Observe(durationMs(latency))
}

// RecordError records a failed Generate call. code is the ParseError code,
// or "UNKNOWN" for other failures.
func (pm *PrometheusMetrics) RecordError(code string, latency time.Duration) {
	if !pm.isEnabled() {
		return
	}

	pm.generations.WithLabelValues("error").Inc()
	pm.parseErrors.WithLabelValues(code).Inc()
	pm.latency.WithLabelValues("error").Observe(durationMs(latency))
}

// Disable temporarily disables metric recording.
func (pm *PrometheusMetrics) Disable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = false
}

// Enable re-enables metric recording after Disable.
func (pm *PrometheusMetrics) Enable() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.enabled = true
}

func (pm *PrometheusMetrics) isEnabled() bool {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return pm.enabled
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

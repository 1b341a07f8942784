// Package metrics defines the Prometheus collectors for the extraction
// pipeline and its HTTP surface.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "recipe_keeper"

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	strategyOutcomes *prometheus.CounterVec
	extractDuration  *prometheus.HistogramVec
	extractResults   *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.strategyOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "strategy_outcomes_total",
			Help:      "Extraction strategy attempts by outcome reason",
		},
		[]string{"strategy", "reason"},
	)
	m.extractDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extract_duration_seconds",
			Help:      "End-to-end extraction duration by branch",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"branch"},
	)
	m.extractResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extract_results_total",
			Help:      "Extraction results by branch and whether recipe fields were found",
		},
		[]string{"branch", "result"},
	)
	m.cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Result cache lookups by backend and result",
		},
		[]string{"backend", "result"},
	)
	m.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	m.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.registry.MustRegister(
		m.strategyOutcomes,
		m.extractDuration,
		m.extractResults,
		m.cacheLookups,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveStrategy counts one strategy attempt.
func (m *Metrics) ObserveStrategy(strategy, reason string) {
	if m == nil {
		return
	}
	m.strategyOutcomes.WithLabelValues(strategy, reason).Inc()
}

// ObserveExtraction records one finished extraction.
func (m *Metrics) ObserveExtraction(branch, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.extractDuration.WithLabelValues(branch).Observe(elapsed.Seconds())
	m.extractResults.WithLabelValues(branch, result).Inc()
}

// ObserveCache counts a cache lookup; result is hit, miss or error.
func (m *Metrics) ObserveCache(backend, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(backend, result).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

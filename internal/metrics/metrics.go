// Package metrics defines the Prometheus collectors for the marketplace API and
// exposes an HTTP handler for scraping.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK    = "ok"
	ResultEmpty = "empty"
	ResultError = "error"
)

// Metrics holds all Prometheus collectors. A nil *Metrics is valid and
// records nothing, so components can take it as an optional dependency.
type Metrics struct {
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	SearchRequestsTotal   *prometheus.CounterVec
	CompileDuration       prometheus.Histogram
	BusinessLookupsTotal  *prometheus.CounterVec
	BusinessLookupMatches *prometheus.HistogramVec
	CacheHitsTotal        prometheus.Counter
	CacheMissesTotal      prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates all collectors and registers them on a fresh registry together
// with the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := newMetrics(reg)
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func newMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		SearchRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listing_search_requests_total",
				Help: "Listing searches by result (ok, empty, error).",
			},
			[]string{"result"},
		),
		CompileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "listing_search_compile_duration_seconds",
				Help:    "Time spent compiling a search into a listing filter, including business lookups.",
				Buckets: prometheus.DefBuckets,
			},
		),
		BusinessLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "business_lookups_total",
				Help: "Business store lookups made to resolve business fields, by field.",
			},
			[]string{"field"},
		),
		BusinessLookupMatches: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "business_lookup_matches",
				Help:    "Number of businesses matched per lookup, by field.",
				Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000},
			},
			[]string{"field"},
		),
		CacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "business_cache_hits_total",
				Help: "Business lookups served from the cache.",
			},
		),
		CacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "business_cache_misses_total",
				Help: "Business lookups that missed the cache.",
			},
		),
		gatherer: reg,
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.SearchRequestsTotal,
		m.CompileDuration,
		m.BusinessLookupsTotal,
		m.BusinessLookupMatches,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
	)
	return m
}

// Handler returns an http.Handler that serves the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveSearch(result string) {
	if m == nil {
		return
	}
	m.SearchRequestsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCompile(d time.Duration) {
	if m == nil {
		return
	}
	m.CompileDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveBusinessLookup(field string, matches int) {
	if m == nil {
		return
	}
	m.BusinessLookupsTotal.WithLabelValues(field).Inc()
	m.BusinessLookupMatches.WithLabelValues(field).Observe(float64(matches))
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.CacheMissesTotal.Inc()
}

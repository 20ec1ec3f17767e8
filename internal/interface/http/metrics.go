package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ══════════════════════════════════════════════════════════════════════════════
// METRICS
// Prometheus collectors for the HTTP API and the two screens it serves.
// Exposed on GET /metrics when Dependencies.Metrics is set.
// ══════════════════════════════════════════════════════════════════════════════

const metricsNamespace = "aviato"

// Metrics holds the service collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	matchLists  *prometheus.CounterVec
	pickerOps   *prometheus.CounterVec
	selectionSz prometheus.Histogram
}

// NewMetrics creates the collectors in a fresh registry together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by method, route pattern and status code.",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request latency by route pattern.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		matchLists: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "matching",
				Name:      "lists_served_total",
				Help:      "Match lists served, by ordering mode (browse or match).",
			},
			[]string{"mode"},
		),
		pickerOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "picker",
				Name:      "operations_total",
				Help:      "Interest picker operations by name and result.",
			},
			[]string{"operation", "result"},
		),
		selectionSz: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "picker",
				Name:      "committed_selection_size",
				Help:      "Number of interests in selections committed by Apply.",
				Buckets:   prometheus.LinearBuckets(0, 5, 5),
			},
		),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.matchLists,
		m.pickerOps,
		m.selectionSz,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// TrackPickerSessions exports the live picker session count as a gauge.
// Repeated calls keep the first registration.
func (m *Metrics) TrackPickerSessions(count func() int) {
	gauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "picker",
			Name:      "sessions",
			Help:      "Live interest picker sessions.",
		},
		func() float64 { return float64(count()) },
	)
	if err := m.registry.Register(gauge); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			panic(err)
		}
	}
}

func (m *Metrics) observeRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (m *Metrics) observeMatchList(mode string) {
	m.matchLists.WithLabelValues(mode).Inc()
}

func (m *Metrics) observePicker(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.pickerOps.WithLabelValues(operation, result).Inc()
}

func (m *Metrics) observeCommitted(size int) {
	m.selectionSz.Observe(float64(size))
}

// metricsMiddleware records request counts and latency per route pattern.
// It must wrap the router directly: ServeMux sets r.Pattern on the request
// it receives, and middleware that calls r.WithContext hides that.
func (s *Server) metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.observeRequest(r.Method, route, rw.statusCode, time.Since(start))
	})
}

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Engine operation metrics
	engineOperationsTotal   *prometheus.CounterVec
	engineOperationDuration *prometheus.HistogramVec

	// Collection metrics
	collectionRecords prometheus.Gauge
	collectionLoads   *prometheus.CounterVec

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics on reg.
// A nil registry uses the default registerer and gatherer.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if reg != nil {
		registerer, gatherer = reg, reg
	}
	factory := promauto.With(registerer)

	m := &Metrics{
		registerer: registerer,
		gatherer:   gatherer,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cpgrams_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cpgrams_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cpgrams_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		engineOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cpgrams_engine_operations_total",
				Help: "Total number of query engine operations",
			},
			[]string{"operation", "status"},
		),

		engineOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cpgrams_engine_operation_duration_seconds",
				Help:    "Query engine operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		collectionRecords: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "cpgrams_collection_records",
				Help: "Number of records in the current collection snapshot",
			},
		),

		collectionLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cpgrams_collection_loads_total",
				Help: "Total number of collection load attempts",
			},
			[]string{"status"},
		),

		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cpgrams_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),

		healthChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cpgrams_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

func statusLabel(success bool) string {
	if success {
		return statusSuccess
	}
	return statusError
}

// Handler serves the registered metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.InstrumentMetricHandler(m.registerer, promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{}))
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// ObserveOperation records an engine operation
func (m *Metrics) ObserveOperation(op string, d time.Duration, err error) {
	m.engineOperationsTotal.WithLabelValues(op, statusLabel(err == nil)).Inc()
	m.engineOperationDuration.WithLabelValues(op).Observe(d.Seconds())
}

// RecordCollectionLoad records a collection load attempt and the resulting record count
func (m *Metrics) RecordCollectionLoad(records int, success bool) {
	m.collectionLoads.WithLabelValues(statusLabel(success)).Inc()
	if success {
		m.collectionRecords.Set(float64(records))
	}
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	m.authRequestsTotal.WithLabelValues(statusLabel(success)).Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	m.healthChecksTotal.WithLabelValues(statusLabel(success)).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// InstrumentAuthMiddleware instruments the authentication middleware
func (m *Metrics) InstrumentAuthMiddleware(next func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		wrapped := next(h)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hasAPIKey := r.Header.Get(apiKeyHeader) != ""

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			wrapped.ServeHTTP(rw, r)

			if hasAPIKey {
				m.RecordAuthRequest(rw.statusCode != http.StatusUnauthorized)
			}
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

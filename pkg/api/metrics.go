package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the ingest service.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	recordsTotal     *prometheus.CounterVec
	recordBytesTotal prometheus.Counter
	formatsAnnounced prometheus.Counter
	formatsActive    prometheus.Gauge

	authRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sdlog_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sdlog_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		recordsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sdlog_records_written_total",
				Help: "Total number of log records written",
			},
			[]string{"type", "status"},
		),

		recordBytesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sdlog_record_bytes_total",
				Help: "Total number of record bytes written, headers included",
			},
		),

		formatsAnnounced: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sdlog_formats_announced_total",
				Help: "Total number of FMT records emitted",
			},
		),

		formatsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "sdlog_formats_registered",
				Help: "Number of message formats currently registered",
			},
		),

		authRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sdlog_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),
	}
}

// RecordHTTPRequest records one handled HTTP request.
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordWrite records one record append attempt.
func (m *Metrics) RecordWrite(messageType string, bytes int, success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.recordsTotal.WithLabelValues(messageType, status).Inc()
	if success {
		m.recordBytesTotal.Add(float64(bytes))
	}
}

// RecordAnnouncement records one FMT record emission.
func (m *Metrics) RecordAnnouncement() {
	m.formatsAnnounced.Inc()
}

// SetRegisteredFormats updates the registered-format gauge.
func (m *Metrics) SetRegisteredFormats(n int) {
	m.formatsActive.Set(float64(n))
}

// RecordAuthRequest records an authentication attempt.
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with request metrics.
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

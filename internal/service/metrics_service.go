package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsSnapshot is a compact view of the collected counters.
type MetricsSnapshot struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	ActiveSessions           int64     `json:"active_sessions"`
	MutationsSucceeded       uint64    `json:"mutations_succeeded"`
	MutationsFailed          uint64    `json:"mutations_failed"`
	WelcomeEmailsSent        uint64    `json:"welcome_emails_sent"`
	WelcomeEmailsFailed      uint64    `json:"welcome_emails_failed"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

// MetricsService encapsulates Prometheus instrumentation for the table API.
// A nil *MetricsService is valid and records nothing.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	remoteDuration  *prometheus.HistogramVec
	mutations       *prometheus.CounterVec
	pipelineLatency prometheus.Histogram
	sessions        prometheus.Gauge
	notifications   *prometheus.CounterVec

	requestCount         uint64
	requestDurationTotal uint64
	mutationOK           uint64
	mutationFailed       uint64
	notifySent           uint64
	notifyFailed         uint64
	activeSessions       int64
}

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	remoteDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "user_api_call_duration_seconds",
		Help:    "Duration of calls to the remote user API",
		Buckets: []float64{.05, .1, .25, .5, 1, 2, 5},
	}, []string{"op"})

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "user_table_mutations_total",
		Help: "Record store mutations by operation and outcome",
	}, []string{"op", "outcome"})

	pipelineLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "user_table_view_seconds",
		Help:    "Time spent computing filter, sort and pagination for a view",
		Buckets: []float64{.0001, .0005, .001, .005, .01, .05},
	})

	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "user_table_sessions_active",
		Help: "Open table sessions",
	})

	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "welcome_emails_total",
		Help: "Welcome e-mail deliveries by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, remoteDuration, mutations, pipelineLatency, sessions, notifications, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		remoteDuration:  remoteDuration,
		mutations:       mutations,
		pipelineLatency: pipelineLatency,
		sessions:        sessions,
		notifications:   notifications,
	}
}

// Registry exposes the underlying registry for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// ObserveRemoteCall records the latency of one remote user API call.
func (m *MetricsService) ObserveRemoteCall(op string, duration time.Duration) {
	if m == nil {
		return
	}
	m.remoteDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordMutation counts a store mutation outcome.
func (m *MetricsService) RecordMutation(op string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
		atomic.AddUint64(&m.mutationFailed, 1)
	} else {
		atomic.AddUint64(&m.mutationOK, 1)
	}
	m.mutations.WithLabelValues(op, outcome).Inc()
}

// ObserveView records how long a view computation took.
func (m *MetricsService) ObserveView(duration time.Duration) {
	if m == nil {
		return
	}
	m.pipelineLatency.Observe(duration.Seconds())
}

// SessionOpened increments the active session gauge.
func (m *MetricsService) SessionOpened() {
	if m == nil {
		return
	}
	m.sessions.Inc()
	atomic.AddInt64(&m.activeSessions, 1)
}

// SessionClosed decrements the active session gauge.
func (m *MetricsService) SessionClosed() {
	if m == nil {
		return
	}
	m.sessions.Dec()
	atomic.AddInt64(&m.activeSessions, -1)
}

// RecordNotification counts a welcome e-mail outcome.
func (m *MetricsService) RecordNotification(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.notifications.WithLabelValues("failure").Inc()
		atomic.AddUint64(&m.notifyFailed, 1)
		return
	}
	m.notifications.WithLabelValues("success").Inc()
	atomic.AddUint64(&m.notifySent, 1)
}

// Snapshot returns aggregated counters for the summary endpoint.
func (m *MetricsService) Snapshot() MetricsSnapshot {
	if m == nil {
		return MetricsSnapshot{GeneratedAt: time.Now().UTC()}
	}
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	return MetricsSnapshot{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		ActiveSessions:           atomic.LoadInt64(&m.activeSessions),
		MutationsSucceeded:       atomic.LoadUint64(&m.mutationOK),
		MutationsFailed:          atomic.LoadUint64(&m.mutationFailed),
		WelcomeEmailsSent:        atomic.LoadUint64(&m.notifySent),
		WelcomeEmailsFailed:      atomic.LoadUint64(&m.notifyFailed),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}

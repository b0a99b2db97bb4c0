package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the portal.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	sessionsClosed  prometheus.Counter
	usageMinutes    prometheus.Counter
	requestsDecided *prometheus.CounterVec
}

// NewMetricsService registers the portal's Prometheus collectors.
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

	sessionsClosed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hotspot_sessions_closed_total",
		Help: "Total usage sessions closed",
	})

	usageMinutes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hotspot_usage_minutes_total",
		Help: "Total usage minutes accumulated across all students",
	})

	requestsDecided := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hotspot_requests_decided_total",
		Help: "Access requests decided by administrators",
	}, []string{"decision"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, sessionsClosed, usageMinutes, requestsDecided, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		sessionsClosed:  sessionsClosed,
		usageMinutes:    usageMinutes,
		requestsDecided: requestsDecided,
	}
}

// Handler exposes the /metrics endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one completed HTTP request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveSessionClosed records a session close and the minutes it credited.
func (s *MetricsService) ObserveSessionClosed(minutes int) {
	s.sessionsClosed.Inc()
	s.usageMinutes.Add(float64(minutes))
}

// ObserveRequestDecided records an admin approval or rejection.
func (s *MetricsService) ObserveRequestDecided(decision string) {
	s.requestsDecided.WithLabelValues(decision).Inc()
}

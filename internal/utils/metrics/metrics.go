package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics.
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Order pipeline metrics
	TransitionsTotal   *prometheus.CounterVec
	NotificationsTotal *prometheus.CounterVec
	MessagesTotal      *prometheus.CounterVec
	MessageDuration    prometheus.Histogram
	EventErrorsTotal   *prometheus.CounterVec
}

// New creates a new Metrics instance registered with reg.
// A nil reg uses the default Prometheus registerer.
func New(namespace string, reg prometheus.Registerer) *Metrics {
	if namespace == "" {
		namespace = "cargotrack"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),

		TransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "orders",
				Name:      "transitions_total",
				Help:      "Order state transition requests by outcome",
			},
			[]string{"outcome"}, // applied, noop, rejected, conflict, failed
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "notifications",
				Name:      "dispatched_total",
				Help:      "Notification rule evaluations by rule and result",
			},
			[]string{"rule", "result"}, // created, skipped, failed
		),
		MessagesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "messaging",
				Name:      "messages_total",
				Help:      "Client messages by result",
			},
			[]string{"result"},
		),
		MessageDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "messaging",
				Name:      "send_duration_seconds",
				Help:      "Time spent delivering a client message",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
		),
		EventErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "events",
				Name:      "handler_errors_total",
				Help:      "Event handler failures by event type",
			},
			[]string{"event"},
		),
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCodeToString(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTransition records an order transition outcome.
func (m *Metrics) RecordTransition(outcome string) {
	m.TransitionsTotal.WithLabelValues(outcome).Inc()
}

// RecordNotification records one notification rule evaluation.
func (m *Metrics) RecordNotification(rule, result string) {
	m.NotificationsTotal.WithLabelValues(rule, result).Inc()
}

// RecordMessage records a client message attempt.
func (m *Metrics) RecordMessage(result string, duration time.Duration) {
	m.MessagesTotal.WithLabelValues(result).Inc()
	m.MessageDuration.Observe(duration.Seconds())
}

// RecordEventError records a failed event handler.
func (m *Metrics) RecordEventError(eventType string) {
	m.EventErrorsTotal.WithLabelValues(eventType).Inc()
}

// statusCodeToString converts an HTTP status code to a string category.
func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Registration metrics
	Registrations        *prometheus.CounterVec
	RegistrationRetries  prometheus.Counter
	RegistrationFailures *prometheus.CounterVec

	// Notification metrics
	NotificationsPublished *prometheus.CounterVec
	NotificationsFailed    *prometheus.CounterVec
	DisplayClients         prometheus.Gauge
}

// NewMetrics creates and registers all application metrics on reg
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"method", "path"}),

		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registration",
			Name:      "completed_total",
			Help:      "Total number of committed registrations by outcome tag",
		}, []string{"tag"}),
		RegistrationRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registration",
			Name:      "conflict_retries_total",
			Help:      "Total number of registration attempts retried after a unique-constraint conflict",
		}),
		RegistrationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registration",
			Name:      "failed_total",
			Help:      "Total number of failed registrations by error kind",
		}, []string{"kind"}),

		NotificationsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "published_total",
			Help:      "Total number of queue events published",
		}, []string{"event_type"}),
		NotificationsFailed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notify",
			Name:      "failed_total",
			Help:      "Total number of queue events that could not be published",
		}, []string{"event_type"}),
		DisplayClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "display",
			Name:      "clients",
			Help:      "Current number of connected display screens",
		}),
	}
}

// NewNopMetrics returns metrics registered on a private registry, for tests and tools
func NewNopMetrics() *Metrics {
	return NewMetrics("clinic_queue", prometheus.NewRegistry())
}

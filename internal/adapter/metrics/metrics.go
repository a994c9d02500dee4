package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MonitorMetrics holds all Prometheus metrics for the monitor service.
type MonitorMetrics struct {
	EventsTotal            *prometheus.CounterVec
	AlertsTotal            *prometheus.CounterVec
	ClassificationDuration prometheus.Histogram
	ClassificationFailures prometheus.Counter
	PersistFailures        prometheus.Counter
}

// NewMonitorMetrics initializes and registers the Prometheus metrics.
func NewMonitorMetrics() *MonitorMetrics {
	return &MonitorMetrics{
		EventsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "threat_monitor",
			Subsystem: "events",
			Name:      "logged_total",
			Help:      "Total number of security events logged, by event type.",
		}, []string{"type"}),
		AlertsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "threat_monitor",
			Subsystem: "alerts",
			Name:      "produced_total",
			Help:      "Total number of alerts produced, by threat level.",
		}, []string{"threat_level"}),
		ClassificationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "threat_monitor",
			Subsystem: "classifier",
			Name:      "duration_seconds",
			Help:      "Duration of completion-service classification calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		ClassificationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "threat_monitor",
			Subsystem: "classifier",
			Name:      "failures_total",
			Help:      "Total number of failed classification calls.",
		}),
		PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "threat_monitor",
			Subsystem: "store",
			Name:      "persist_failures_total",
			Help:      "Total number of failed snapshot persist operations.",
		}),
	}
}

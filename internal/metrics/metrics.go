// Package metrics holds the Prometheus collectors exported by the VisaFlow API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "visaflow"

// Metrics groups every collector the API exports. Construct it once in main
// and pass it to the middleware and the alert dispatcher.
type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	alertsDelivered prometheus.Counter
	alertsFailed    prometheus.Counter
	dispatchRuns    *prometheus.CounterVec
}

// New registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not panic.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		httpRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		alertsDelivered: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_delivered_total",
			Help:      "Total number of scheduled alerts delivered",
		}),
		alertsFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_failed_total",
			Help:      "Total number of scheduled alert deliveries that failed",
		}),
		dispatchRuns: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "alert_dispatch_runs_total",
				Help:      "Total number of alert dispatcher polls, by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// AlertDelivered increments the delivered-alerts counter.
func (m *Metrics) AlertDelivered() {
	if m == nil {
		return
	}
	m.alertsDelivered.Inc()
}

// AlertFailed increments the failed-deliveries counter.
func (m *Metrics) AlertFailed() {
	if m == nil {
		return
	}
	m.alertsFailed.Inc()
}

// DispatchRun records one dispatcher poll; outcome is "ok" or "error".
func (m *Metrics) DispatchRun(outcome string) {
	if m == nil {
		return
	}
	m.dispatchRuns.WithLabelValues(outcome).Inc()
}

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Labels: method, route, status
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)
)

// RecordHTTPMetrics updates the duration histogram and request counter.
func RecordHTTPMetrics(method, route string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	httpRequestDuration.WithLabelValues(method, route, statusStr).Observe(duration.Seconds())
	httpRequestsTotal.WithLabelValues(method, route, statusStr).Inc()
}

// IncrementInFlight increments the in-flight requests gauge.
func IncrementInFlight() {
	httpRequestsInFlight.Inc()
}

// DecrementInFlight decrements the in-flight requests gauge.
func DecrementInFlight() {
	httpRequestsInFlight.Dec()
}

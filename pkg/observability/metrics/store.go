package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	storeOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listing_store_operation_duration_seconds",
			Help:    "Duration of listing store operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	storeOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_store_operations_total",
			Help: "Total number of listing store operations by outcome",
		},
		[]string{"operation", "status"},
	)
)

// RecordStoreOperation records one store call. A nil err counts as "ok".
func RecordStoreOperation(operation string, duration time.Duration, err error) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	storeOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	storeOperationsTotal.WithLabelValues(operation, status).Inc()
}

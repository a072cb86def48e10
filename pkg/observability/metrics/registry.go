// Package metrics provides Prometheus metrics integration.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry manages Prometheus metrics registration and exposure.
// HTTP, store and Go runtime collectors are registered by default.
type Registry struct {
	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with default collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	reg.MustRegister(httpRequestDuration)
	reg.MustRegister(httpRequestsTotal)
	reg.MustRegister(httpRequestsInFlight)
	reg.MustRegister(storeOperationDuration)
	reg.MustRegister(storeOperationsTotal)

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &Registry{
		registry: reg,
	}
}

// MustRegister registers additional collectors and panics on error.
func (r *Registry) MustRegister(collectors ...prometheus.Collector) {
	r.registry.MustRegister(collectors...)
}

// Handler exposes metrics in Prometheus format. It is mounted on the management server at /metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Gatherer returns the underlying prometheus.Gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

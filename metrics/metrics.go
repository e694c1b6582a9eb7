// Package metrics exposes Prometheus counters for data service operations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder counts operations and cache lookups per entity. It satisfies the
// data service's OperationRecorder interface.
type Recorder struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	cache      *prometheus.CounterVec
}

// NewRecorder builds a recorder with its own registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "liaison",
			Subsystem: "dataservice",
			Name:      "operations_total",
			Help:      "Data service operations by entity, operation, and outcome.",
		}, []string{"entity", "operation", "outcome"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "liaison",
			Subsystem: "dataservice",
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by entity and result.",
		}, []string{"entity", "result"}),
	}
	r.registry.MustRegister(r.operations, r.cache)
	return r
}

// Operation records one completed operation.
func (r *Recorder) Operation(entity, operation, outcome string) {
	r.operations.WithLabelValues(entity, operation, outcome).Inc()
}

// CacheLookup records one cache probe.
func (r *Recorder) CacheLookup(entity string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cache.WithLabelValues(entity, result).Inc()
}

// Handler serves the recorder's registry in Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Package metrics defines the custom Prometheus metrics of the visits manager
// API. It is the single source of truth for metric names, labels, and help
// strings.
//
// Metrics are registered against the Registerer passed to New, so tests can
// build isolated registries.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "visits"

// Metrics groups the domain counters.
type Metrics struct {
	// ClientsCreatedTotal counts clients created through the API.
	ClientsCreatedTotal prometheus.Counter

	// ClientsDeletedTotal counts clients deleted through the API.
	ClientsDeletedTotal prometheus.Counter

	// VisitsCreatedTotal counts visits created through the API. Status is
	// free-form input and is not used as a label.
	VisitsCreatedTotal prometheus.Counter

	// VisitsDeletedTotal counts visits deleted through the API.
	VisitsDeletedTotal prometheus.Counter

	// StoreFallbacksTotal counts collection reads that found malformed data and
	// fell back to an empty collection.
	// Label:
	//   - collection: "clients" or "visits"
	StoreFallbacksTotal *prometheus.CounterVec
}

// New creates and registers all metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ClientsCreatedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clients_created_total",
			Help:      "Total number of clients created.",
		}),
		ClientsDeletedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clients_deleted_total",
			Help:      "Total number of clients deleted.",
		}),
		VisitsCreatedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visits_created_total",
			Help:      "Total number of visits created.",
		}),
		VisitsDeletedTotal: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "visits_deleted_total",
			Help:      "Total number of visits deleted.",
		}),
		StoreFallbacksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_fallbacks_total",
			Help:      "Collection reads that found malformed data and returned an empty collection.",
		}, []string{"collection"}),
	}
}

// NewRegistry returns a registry with the Go runtime and process collectors
// already registered.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the storefront's collectors, registered on their own registry.
type Metrics struct {
	Registry            *prometheus.Registry
	CollectionMutations *prometheus.CounterVec
	SimilarQueries      *prometheus.CounterVec
	UnresolvedProducts  prometheus.Counter
	InvalidProducts     prometheus.Counter
	EventPublishErrors  prometheus.Counter
}

// New creates and registers the collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		CollectionMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sareehouse",
			Name:      "collection_mutations_total",
			Help:      "Cart and wishlist mutations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		SimilarQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sareehouse",
			Name:      "similar_products_queries_total",
			Help:      "Similar-product lookups by the rule that produced the result.",
		}, []string{"match"}),
		UnresolvedProducts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sareehouse",
			Name:      "collection_unresolved_products_total",
			Help:      "Stored cart or wishlist IDs skipped because the product no longer exists.",
		}),
		InvalidProducts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sareehouse",
			Name:      "catalog_invalid_products_total",
			Help:      "Stored product records rejected on read because they fail validation.",
		}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sareehouse",
			Name:      "collection_event_publish_errors_total",
			Help:      "Collection events that could not be published.",
		}),
	}
	reg.MustRegister(
		m.CollectionMutations,
		m.SimilarQueries,
		m.UnresolvedProducts,
		m.InvalidProducts,
		m.EventPublishErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_graph_nodes_total",
			Help: "Number of nodes in the current dependency graph",
		},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_graph_edges_total",
			Help: "Number of edges in the current dependency graph",
		},
	)

	r.GraphSuppliersTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_graph_suppliers_total",
			Help: "Number of supplier nodes in the current dependency graph",
		},
	)

	r.GraphCriticalNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_graph_critical_nodes",
			Help: "Number of suppliers flagged critical in the current graph",
		},
	)

	r.GraphBuildDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentinel_graph_build_duration_seconds",
			Help:    "Graph construction duration including centrality scoring",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
		},
	)
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Cycle Metrics
	CyclesTotal      *prometheus.CounterVec
	CycleDuration    prometheus.Histogram
	StageDuration    *prometheus.HistogramVec
	StageFailures    *prometheus.CounterVec
	CycleWarnings    prometheus.Counter
	LastCycleSuccess prometheus.Gauge

	// Graph Metrics
	GraphNodesTotal     prometheus.Gauge
	GraphEdgesTotal     prometheus.Gauge
	GraphSuppliersTotal prometheus.Gauge
	GraphCriticalNodes  prometheus.Gauge
	GraphBuildDuration  prometheus.Histogram

	// Simulation Metrics
	ScenariosTotal        prometheus.Counter
	SimulationDuration    prometheus.Histogram
	WorstCaseDelayDays    prometheus.Gauge
	WorstCaseNodeCount    prometheus.Gauge
	SimulationTrialErrors prometheus.Counter

	// Decision Metrics
	DecisionsTotal    *prometheus.CounterVec
	OverallConfidence prometheus.Gauge
	DecisionDuration  prometheus.Histogram

	// Persistence Metrics
	PersistOperationsTotal *prometheus.CounterVec
	PersistDuration        prometheus.Histogram
	HistoryCyclesTotal     prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initCycleMetrics()
	r.initGraphMetrics()
	r.initSimulationMetrics()
	r.initDecisionMetrics()
	r.initPersistenceMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

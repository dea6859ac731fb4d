package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// HTTP Metrics
	HTTPRequestsTotal     *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	HTTPRequestsInFlight  prometheus.Gauge
	HTTPResponseSizeBytes *prometheus.HistogramVec

	// Prediction Metrics
	PredictionsTotal      *prometheus.CounterVec
	PredictionDuration    prometheus.Histogram
	PredictionErrorsTotal *prometheus.CounterVec
	PredictionConfidence  prometheus.Histogram
	RiskAssessmentsTotal  *prometheus.CounterVec

	// Model Metrics
	ModelLoaded           prometheus.Gauge
	ModelClasses          prometheus.Gauge
	ModelFeatures         prometheus.Gauge
	ModelTrees            prometheus.Gauge
	ModelTrainedTimestamp prometheus.Gauge

	// Ontology Metrics
	OntologyClassesTotal     prometheus.Gauge
	OntologyIndividualsTotal prometheus.Gauge
	OntologyMutationsTotal   *prometheus.CounterVec
	OntologySavesTotal       *prometheus.CounterVec

	// Security Metrics
	AuthFailuresTotal               prometheus.Counter
	SecurityUnauthorizedAccessTotal prometheus.Counter

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge
	MemorySysBytes   prometheus.Gauge

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
	r.initHTTPMetrics()
	r.initPredictionMetrics()
	r.initModelMetrics()
	r.initOntologyMetrics()
	r.initSecurityMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

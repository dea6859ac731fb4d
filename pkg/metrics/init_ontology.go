package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initOntologyMetrics() {
	r.OntologyClassesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "riskpipe_ontology_classes_total",
			Help: "Number of classes in the loaded ontology",
		},
	)

	r.OntologyIndividualsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "riskpipe_ontology_individuals_total",
			Help: "Number of individuals in the loaded ontology",
		},
	)

	r.OntologyMutationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskpipe_ontology_mutations_total",
			Help: "In-memory ontology mutations by operation",
		},
		[]string{"operation"},
	)

	r.OntologySavesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskpipe_ontology_saves_total",
			Help: "Ontology save attempts by status",
		},
		[]string{"status"},
	)
}

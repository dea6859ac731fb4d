package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initModelMetrics() {
	r.ModelLoaded = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "riskpipe_model_loaded",
			Help: "Whether a trained classifier artifact is loaded (1 or 0)",
		},
	)

	r.ModelClasses = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "riskpipe_model_classes",
			Help: "Number of target classes in the loaded model",
		},
	)

	r.ModelFeatures = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "riskpipe_model_features",
			Help: "Width of the feature vector the loaded model expects",
		},
	)

	r.ModelTrees = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "riskpipe_model_trees",
			Help: "Number of trees in the loaded forest",
		},
	)

	r.ModelTrainedTimestamp = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "riskpipe_model_trained_timestamp_seconds",
			Help: "Unix timestamp of when the loaded model was trained",
		},
	)
}

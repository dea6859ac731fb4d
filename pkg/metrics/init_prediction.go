package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPredictionMetrics() {
	r.PredictionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskpipe_predictions_total",
			Help: "Total number of risk predictions served",
		},
		[]string{"risk_label", "status"},
	)

	r.PredictionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "riskpipe_prediction_duration_seconds",
			Help:    "Prediction latency in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		},
	)

	r.PredictionErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskpipe_prediction_errors_total",
			Help: "Prediction failures by reason",
		},
		[]string{"reason"},
	)

	r.PredictionConfidence = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "riskpipe_prediction_confidence",
			Help:    "Probability assigned to the predicted class",
			Buckets: []float64{0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
		},
	)

	r.RiskAssessmentsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskpipe_risk_assessments_total",
			Help: "Device risk assessments recorded, by risk label",
		},
		[]string{"risk_label"},
	)
}

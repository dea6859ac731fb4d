package metrics

import (
	"runtime"
	"time"
)

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordResponseSize records the size of an HTTP response body
func (r *Registry) RecordResponseSize(method, path string, size float64) {
	r.HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(size)
}

// IncHTTPRequestsInFlight increments the in-flight request gauge
func (r *Registry) IncHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight decrements the in-flight request gauge
func (r *Registry) DecHTTPRequestsInFlight() {
	r.HTTPRequestsInFlight.Dec()
}

// RecordPrediction records a served prediction with its confidence
func (r *Registry) RecordPrediction(riskLabel string, confidence float64, duration time.Duration) {
	r.PredictionsTotal.WithLabelValues(riskLabel, "ok").Inc()
	r.PredictionDuration.Observe(duration.Seconds())
	r.PredictionConfidence.Observe(confidence)
}

// RecordPredictionError records a failed prediction by reason
func (r *Registry) RecordPredictionError(reason string) {
	r.PredictionsTotal.WithLabelValues("", "error").Inc()
	r.PredictionErrorsTotal.WithLabelValues(reason).Inc()
}

// RecordRiskAssessment records a device risk assessment
func (r *Registry) RecordRiskAssessment(riskLabel string) {
	r.RiskAssessmentsTotal.WithLabelValues(riskLabel).Inc()
}

// SetModelInfo updates the model gauges after an artifact load or train
func (r *Registry) SetModelInfo(loaded bool, classes, features, trees int, trainedAt time.Time) {
	if loaded {
		r.ModelLoaded.Set(1)
	} else {
		r.ModelLoaded.Set(0)
	}
	r.ModelClasses.Set(float64(classes))
	r.ModelFeatures.Set(float64(features))
	r.ModelTrees.Set(float64(trees))
	if !trainedAt.IsZero() {
		r.ModelTrainedTimestamp.Set(float64(trainedAt.Unix()))
	}
}

// RecordOntologyMutation records an in-memory ontology mutation
func (r *Registry) RecordOntologyMutation(operation string) {
	r.OntologyMutationsTotal.WithLabelValues(operation).Inc()
}

// RecordOntologySave records an ontology save attempt
func (r *Registry) RecordOntologySave(err error) {
	if err != nil {
		r.OntologySavesTotal.WithLabelValues("error").Inc()
		return
	}
	r.OntologySavesTotal.WithLabelValues("ok").Inc()
}

// SetOntologyStats updates the ontology size gauges
func (r *Registry) SetOntologyStats(classes, individuals int) {
	r.OntologyClassesTotal.Set(float64(classes))
	r.OntologyIndividualsTotal.Set(float64(individuals))
}

// UpdateSystemMetrics refreshes the runtime gauges
func (r *Registry) UpdateSystemMetrics(startTime time.Time) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	r.UptimeSeconds.Set(time.Since(startTime).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(m.Alloc))
	r.MemorySysBytes.Set(float64(m.Sys))
}

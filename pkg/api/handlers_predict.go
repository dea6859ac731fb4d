package api

import (
	"net/http"
	"time"

	"github.com/privalytics/riskpipe/pkg/dataset"
	"github.com/privalytics/riskpipe/pkg/preprocess"
	"github.com/privalytics/riskpipe/pkg/validation"
)

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Post(func() { s.predict(w, r) }).
		NotAllowed()
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	var req validation.PredictRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).ValidatePredict(&req)
	if decoder.RespondError() {
		return
	}

	result, status, errMsg := s.classify(&req)
	if errMsg != "" {
		s.respondError(w, status, errMsg)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// classify runs one record through the preprocessor and forest. On failure
// it returns the HTTP status and client-safe message to respond with.
func (s *Server) classify(req *validation.PredictRequest) (*PredictResponse, int, string) {
	start := time.Now()

	a := s.artifact()
	if a == nil || a.Forest == nil || !a.Forest.Trained() {
		s.metricsRegistry.RecordPredictionError("model_unavailable")
		return nil, http.StatusServiceUnavailable, "model not loaded"
	}

	record := req.Record()
	features, err := a.Preprocessor.TransformRecord(&record)
	if err != nil {
		if preprocess.IsUnknownCategory(err) {
			s.metricsRegistry.RecordPredictionError("unknown_category")
			return nil, http.StatusBadRequest, err.Error()
		}
		s.metricsRegistry.RecordPredictionError("preprocess")
		return nil, http.StatusInternalServerError, s.sanitizeError(err, "preprocess record")
	}

	level, proba, err := a.Forest.PredictOne(features)
	if err != nil {
		s.metricsRegistry.RecordPredictionError("predict")
		return nil, http.StatusInternalServerError, s.sanitizeError(err, "predict")
	}

	probabilities := make(map[string]float64, len(proba))
	confidence := 0.0
	for i, class := range a.Forest.Classes {
		probabilities[dataset.RiskLabel(class)] = proba[i]
		if proba[i] > confidence {
			confidence = proba[i]
		}
	}

	label := dataset.RiskLabel(level)
	s.metricsRegistry.RecordPrediction(label, confidence, time.Since(start))

	return &PredictResponse{
		RiskLevel:     level,
		Label:         label,
		Probabilities: probabilities,
	}, http.StatusOK, ""
}

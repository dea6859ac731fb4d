package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/privalytics/riskpipe/pkg/audit"
	"github.com/privalytics/riskpipe/pkg/validation"
)

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.listDevices(w, r) }).
		Post(func() { s.requireAuth(s.registerDevice)(w, r) }).
		NotAllowed()
}

func (s *Server) listDevices(w http.ResponseWriter, _ *http.Request) {
	devices := s.devices.List()
	out := make([]DeviceResponse, 0, len(devices))
	for _, d := range devices {
		out = append(out, deviceResponse(d))
	}
	s.respondJSON(w, http.StatusOK, out)
}

func (s *Server) registerDevice(w http.ResponseWriter, r *http.Request) {
	var req validation.DeviceRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).ValidateDevice(&req)
	if decoder.RespondError() {
		return
	}

	device := &Device{
		DeviceID:     req.DeviceID,
		DeviceType:   req.DeviceType,
		Location:     req.Location,
		Manufacturer: req.Manufacturer,
	}
	if err := s.devices.Register(device); err != nil {
		s.recordAudit(r, audit.ActionCreate, audit.ResourceDevice, req.DeviceID, audit.StatusFailure, err.Error())
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.recordAudit(r, audit.ActionCreate, audit.ResourceDevice, device.DeviceID, audit.StatusSuccess, "")
	s.respondJSON(w, http.StatusCreated, deviceResponse(device))
}

func (s *Server) handleDevice(w http.ResponseWriter, r *http.Request) {
	extractor := s.NewPathExtractor(w, r)
	deviceID, ok := extractor.ExtractID("/devices/")
	if !ok {
		return
	}

	s.NewMethodRouter(w, r).
		Get(func() { s.getDevice(w, r, deviceID) }).
		NotAllowed()
}

func (s *Server) getDevice(w http.ResponseWriter, _ *http.Request, deviceID string) {
	device, err := s.devices.Get(deviceID)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "device not found")
		return
	}
	s.respondJSON(w, http.StatusOK, deviceResponse(device))
}

func (s *Server) handleAssessRisk(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Post(func() { s.assessRisk(w, r) }).
		NotAllowed()
}

func (s *Server) assessRisk(w http.ResponseWriter, r *http.Request) {
	var req validation.AssessRiskRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).ValidateAssessRisk(&req)
	if decoder.RespondError() {
		return
	}

	if _, err := s.devices.Get(req.DeviceID); err != nil {
		s.respondError(w, http.StatusNotFound, "device not found")
		return
	}

	result, status, errMsg := s.classify(&req.Features)
	if errMsg != "" {
		s.respondError(w, status, errMsg)
		return
	}

	mitigations, err := s.ont.MitigationStrategies(result.RiskLevel)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "look up mitigations"))
		return
	}

	assessment := s.assessments.Record(&Assessment{
		DeviceID:      req.DeviceID,
		RiskLevel:     result.RiskLevel,
		Label:         result.Label,
		Probabilities: result.Probabilities,
		Mitigations:   mitigations,
	})
	s.metricsRegistry.RecordRiskAssessment(result.Label)
	s.recordAudit(r, audit.ActionAssess, audit.ResourceAssessment, assessment.ID, audit.StatusSuccess, "")

	s.respondJSON(w, http.StatusOK, assessmentResponse(assessment))
}

func (s *Server) handleRiskHistory(w http.ResponseWriter, r *http.Request) {
	extractor := s.NewPathExtractor(w, r)
	deviceID, ok := extractor.ExtractID("/risk_history/")
	if !ok {
		return
	}

	s.NewMethodRouter(w, r).
		Get(func() { s.getRiskHistory(w, r, deviceID) }).
		NotAllowed()
}

func (s *Server) getRiskHistory(w http.ResponseWriter, _ *http.Request, deviceID string) {
	if _, err := s.devices.Get(deviceID); err != nil {
		s.respondError(w, http.StatusNotFound, "device not found")
		return
	}

	history := s.assessments.History(deviceID)
	out := make([]AssessmentResponse, 0, len(history))
	for _, a := range history {
		out = append(out, assessmentResponse(a))
	}
	s.respondJSON(w, http.StatusOK, RiskHistoryResponse{
		DeviceID:    deviceID,
		Assessments: out,
	})
}

func (s *Server) handleRiskResolve(w http.ResponseWriter, r *http.Request) {
	if !strings.HasSuffix(r.URL.Path, "/resolve") {
		s.respondError(w, http.StatusNotFound, "not found")
		return
	}

	extractor := s.NewPathExtractor(w, r)
	id, ok := extractor.ExtractID("/risks/")
	if !ok {
		return
	}

	s.NewMethodRouter(w, r).
		Put(func() { s.resolveRisk(w, r, id) }).
		NotAllowed()
}

func (s *Server) resolveRisk(w http.ResponseWriter, r *http.Request, id string) {
	assessment, err := s.assessments.Resolve(id)
	if err != nil {
		if errors.Is(err, ErrAssessmentNotFound) {
			s.respondError(w, http.StatusNotFound, "assessment not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "resolve assessment"))
		return
	}
	s.recordAudit(r, audit.ActionResolve, audit.ResourceAssessment, id, audit.StatusSuccess, "")
	s.respondJSON(w, http.StatusOK, assessmentResponse(assessment))
}

func deviceResponse(d *Device) DeviceResponse {
	return DeviceResponse{
		DeviceID:     d.DeviceID,
		DeviceType:   d.DeviceType,
		Location:     d.Location,
		Manufacturer: d.Manufacturer,
		RegisteredAt: d.RegisteredAt,
	}
}

func assessmentResponse(a *Assessment) AssessmentResponse {
	return AssessmentResponse{
		ID:            a.ID,
		DeviceID:      a.DeviceID,
		RiskLevel:     a.RiskLevel,
		Label:         a.Label,
		Probabilities: a.Probabilities,
		Mitigations:   a.Mitigations,
		Resolved:      a.Resolved,
		AssessedAt:    a.AssessedAt,
		ResolvedAt:    a.ResolvedAt,
	}
}

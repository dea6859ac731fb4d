package api

import (
	"net/http"

	"github.com/privalytics/riskpipe/pkg/audit"
	"github.com/privalytics/riskpipe/pkg/validation"
)

func (s *Server) handlePersonalDataTypes(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.listPersonalDataTypes(w, r) }).
		Post(func() { s.requireAuth(s.addPersonalDataType)(w, r) }).
		NotAllowed()
}

func (s *Server) listPersonalDataTypes(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, PersonalDataTypesResponse{
		PersonalDataTypes: s.ont.PersonalDataTypes(),
	})
}

func (s *Server) addPersonalDataType(w http.ResponseWriter, r *http.Request) {
	var req validation.PersonalDataRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).ValidatePersonalData(&req)
	if decoder.RespondError() {
		return
	}

	// Re-adding an existing class is a no-op.
	s.ont.AddPersonalData(req.Name)
	s.metricsRegistry.RecordOntologyMutation("add_personal_data")
	s.publishOntologyMetrics()
	s.recordAudit(r, audit.ActionUpdate, audit.ResourceOntology, req.Name, audit.StatusSuccess, "")

	s.respondJSON(w, http.StatusCreated, PersonalDataTypesResponse{
		PersonalDataTypes: s.ont.PersonalDataTypes(),
	})
}

func (s *Server) handleRiskLevels(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.listRiskLevels(w, r) }).
		NotAllowed()
}

func (s *Server) listRiskLevels(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, RiskLevelsResponse{
		RiskLevels: s.ont.RiskLevels(),
	})
}

func (s *Server) handleAddRisk(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Post(func() { s.addRisk(w, r) }).
		NotAllowed()
}

func (s *Server) addRisk(w http.ResponseWriter, r *http.Request) {
	var req validation.RiskRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).ValidateRisk(&req)
	if decoder.RespondError() {
		return
	}

	if err := s.ont.AddRisk(req.Name, req.Level); err != nil {
		s.recordAudit(r, audit.ActionUpdate, audit.ResourceOntology, req.Name, audit.StatusFailure, err.Error())
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metricsRegistry.RecordOntologyMutation("add_risk")
	s.publishOntologyMetrics()
	s.recordAudit(r, audit.ActionUpdate, audit.ResourceOntology, req.Name, audit.StatusSuccess, "")

	s.respondJSON(w, http.StatusCreated, map[string]any{
		"name":  req.Name,
		"level": s.ont.RiskLevels()[req.Name],
	})
}

func (s *Server) handleOntologySave(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Post(func() { s.saveOntology(w, r) }).
		NotAllowed()
}

func (s *Server) saveOntology(w http.ResponseWriter, r *http.Request) {
	err := s.ont.Save()
	s.metricsRegistry.RecordOntologySave(err)
	if err != nil {
		s.recordAudit(r, audit.ActionSave, audit.ResourceOntology, s.ont.Path(), audit.StatusFailure, "save failed")
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "save ontology"))
		return
	}
	s.recordAudit(r, audit.ActionSave, audit.ResourceOntology, s.ont.Path(), audit.StatusSuccess, "")

	classes, individuals := s.ont.Stats()
	s.respondJSON(w, http.StatusOK, OntologySaveResponse{
		Saved:       true,
		Path:        s.ont.Path(),
		Classes:     classes,
		Individuals: individuals,
	})
}

package api

import (
	"net/http"

	"github.com/privalytics/riskpipe/pkg/audit"
	"github.com/privalytics/riskpipe/pkg/validation"
)

func (s *Server) handlePolicies(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Post(func() { s.requireAuth(s.createPolicy)(w, r) }).
		NotAllowed()
}

func (s *Server) createPolicy(w http.ResponseWriter, r *http.Request) {
	var req validation.PolicyRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).ValidatePolicy(&req)
	if decoder.RespondError() {
		return
	}

	policy := s.policies.Create(&Policy{
		Name:        req.Name,
		Description: req.Description,
		Regulations: req.Regulations,
	})
	s.recordAudit(r, audit.ActionCreate, audit.ResourcePolicy, policy.ID, audit.StatusSuccess, "")
	s.respondJSON(w, http.StatusCreated, policyResponse(policy))
}

func (s *Server) handlePolicy(w http.ResponseWriter, r *http.Request) {
	extractor := s.NewPathExtractor(w, r)
	id, ok := extractor.ExtractID("/policies/")
	if !ok {
		return
	}

	s.NewMethodRouter(w, r).
		Get(func() { s.getPolicy(w, r, id) }).
		Put(func() { s.requireAuth(func(w http.ResponseWriter, r *http.Request) { s.updatePolicy(w, r, id) })(w, r) }).
		NotAllowed()
}

func (s *Server) getPolicy(w http.ResponseWriter, _ *http.Request, id string) {
	policy, err := s.policies.Get(id)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "policy not found")
		return
	}
	s.respondJSON(w, http.StatusOK, policyResponse(policy))
}

func (s *Server) updatePolicy(w http.ResponseWriter, r *http.Request, id string) {
	var req validation.PolicyRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).ValidatePolicy(&req)
	if decoder.RespondError() {
		return
	}

	policy, err := s.policies.Update(id, req.Name, req.Description, req.Regulations)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "policy not found")
		return
	}
	s.recordAudit(r, audit.ActionUpdate, audit.ResourcePolicy, id, audit.StatusSuccess, "")
	s.respondJSON(w, http.StatusOK, policyResponse(policy))
}

func policyResponse(p *Policy) PolicyResponse {
	return PolicyResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Regulations: p.Regulations,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

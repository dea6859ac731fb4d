package api

import (
	"net/http"
	"strconv"

	"github.com/privalytics/riskpipe/pkg/audit"
	"github.com/privalytics/riskpipe/pkg/logging"
)

// recordAudit logs an audit event attributed to the authenticated user,
// if any. Audit failures are logged but never fail the request.
func (s *Server) recordAudit(r *http.Request, action audit.Action, resource audit.ResourceType, resourceID string, status audit.Status, errMsg string) {
	event := &audit.Event{
		Action:       action,
		ResourceType: resource,
		ResourceID:   resourceID,
		Status:       status,
		ErrorMessage: errMsg,
	}
	if claims, ok := claimsFromContext(r); ok {
		event.UserID = claims.UserID
		event.Username = claims.Username
	}
	if err := s.auditLog.Log(event); err != nil {
		s.logger.Error("writing audit event", logging.Error(err))
	}
}

// handleAuditEvents lists recent audit events, newest first. Admin only.
func (s *Server) handleAuditEvents(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.listAuditEvents(w, r) }).
		NotAllowed()
}

func (s *Server) listAuditEvents(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			s.respondError(w, http.StatusBadRequest, "limit must be an integer between 1 and 1000")
			return
		}
		limit = n
	}

	filter := &audit.Filter{
		Username:     r.URL.Query().Get("username"),
		Action:       audit.Action(r.URL.Query().Get("action")),
		ResourceType: audit.ResourceType(r.URL.Query().Get("resource_type")),
		Status:       audit.Status(r.URL.Query().Get("status")),
	}

	events := s.auditTrail.Events(filter)
	// Newest first, capped at limit.
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}

	s.respondJSON(w, http.StatusOK, AuditEventsResponse{
		Total:  s.auditTrail.EventCount(),
		Events: events,
	})
}

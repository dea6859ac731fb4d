package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/privalytics/riskpipe/pkg/logging"
	"github.com/privalytics/riskpipe/pkg/validation"
)

// sanitizeError converts an internal error to a user-safe message.
// Internal details like file paths are logged but not exposed.
func (s *Server) sanitizeError(err error, operation string) string {
	if err == nil {
		return ""
	}
	s.logger.Error("operation failed",
		logging.String("operation", operation),
		logging.Error(err))
	return fmt.Sprintf("%s failed", operation)
}

// requestDecoder decodes and validates request bodies.
// It provides a fluent interface for common request handling patterns.
type requestDecoder struct {
	r          *http.Request
	w          http.ResponseWriter
	server     *Server
	err        error
	statusCode int
}

// NewRequestDecoder creates a new request decoder for the given request.
func (s *Server) NewRequestDecoder(w http.ResponseWriter, r *http.Request) *requestDecoder {
	return &requestDecoder{
		r:      r,
		w:      w,
		server: s,
	}
}

// DecodeJSON decodes the request body into the provided struct.
// Returns the decoder for chaining. Check HasError() after calling.
func (rd *requestDecoder) DecodeJSON(v any) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := json.NewDecoder(rd.r.Body).Decode(v); err != nil {
		rd.err = fmt.Errorf("invalid request body: %w", err)
		rd.statusCode = http.StatusBadRequest
	}
	return rd
}

// validate runs a validation func and records the failure as a 400.
func (rd *requestDecoder) validate(fn func() error) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := fn(); err != nil {
		rd.err = err
		rd.statusCode = http.StatusBadRequest
	}
	return rd
}

// ValidatePredict validates a classification request.
func (rd *requestDecoder) ValidatePredict(req *validation.PredictRequest) *requestDecoder {
	return rd.validate(func() error { return validation.ValidatePredictRequest(req) })
}

// ValidateRisk validates an ontology risk request.
func (rd *requestDecoder) ValidateRisk(req *validation.RiskRequest) *requestDecoder {
	return rd.validate(func() error { return validation.ValidateRiskRequest(req) })
}

// ValidatePersonalData validates a personal-data class request.
func (rd *requestDecoder) ValidatePersonalData(req *validation.PersonalDataRequest) *requestDecoder {
	return rd.validate(func() error { return validation.ValidatePersonalDataRequest(req) })
}

// ValidateDevice validates a device registration request.
func (rd *requestDecoder) ValidateDevice(req *validation.DeviceRequest) *requestDecoder {
	return rd.validate(func() error { return validation.ValidateDeviceRequest(req) })
}

// ValidateAssessRisk validates a device assessment request.
func (rd *requestDecoder) ValidateAssessRisk(req *validation.AssessRiskRequest) *requestDecoder {
	return rd.validate(func() error { return validation.ValidateAssessRiskRequest(req) })
}

// ValidatePolicy validates a privacy policy request.
func (rd *requestDecoder) ValidatePolicy(req *validation.PolicyRequest) *requestDecoder {
	return rd.validate(func() error { return validation.ValidatePolicyRequest(req) })
}

// ValidateToken validates a login request.
func (rd *requestDecoder) ValidateToken(req *validation.TokenRequest) *requestDecoder {
	return rd.validate(func() error { return validation.ValidateTokenRequest(req) })
}

// ValidateUser validates a user registration request.
func (rd *requestDecoder) ValidateUser(req *validation.UserRequest) *requestDecoder {
	return rd.validate(func() error { return validation.ValidateUserRequest(req) })
}

// HasError returns true if any error occurred during decoding/validation.
func (rd *requestDecoder) HasError() bool {
	return rd.err != nil
}

// Error returns the error if any occurred.
func (rd *requestDecoder) Error() error {
	return rd.err
}

// RespondError sends the error response and returns true if there was an error.
// Returns false if no error occurred.
func (rd *requestDecoder) RespondError() bool {
	if rd.err == nil {
		return false
	}
	rd.server.respondError(rd.w, rd.statusCode, rd.err.Error())
	return true
}

// pathIDExtractor extracts IDs from URL paths.
type pathIDExtractor struct {
	w      http.ResponseWriter
	server *Server
	path   string
}

// NewPathExtractor creates a new path extractor.
func (s *Server) NewPathExtractor(w http.ResponseWriter, r *http.Request) *pathIDExtractor {
	return &pathIDExtractor{
		w:      w,
		server: s,
		path:   r.URL.Path,
	}
}

// ExtractID extracts the path segment immediately after the given prefix.
// Returns the ID and true on success, or "" and false on error (error
// response sent).
func (pe *pathIDExtractor) ExtractID(prefix string) (string, bool) {
	if !strings.HasPrefix(pe.path, prefix) {
		pe.server.respondError(pe.w, http.StatusBadRequest, "invalid path")
		return "", false
	}
	rest := strings.TrimSuffix(pe.path[len(prefix):], "/")
	segment, _, _ := strings.Cut(rest, "/")
	if segment == "" {
		pe.server.respondError(pe.w, http.StatusBadRequest, "missing ID in path")
		return "", false
	}
	return segment, true
}

// methodRouter routes requests based on HTTP method.
// Provides a cleaner alternative to switch statements for method routing.
type methodRouter struct {
	w       http.ResponseWriter
	r       *http.Request
	server  *Server
	handled bool
}

// NewMethodRouter creates a new method router.
func (s *Server) NewMethodRouter(w http.ResponseWriter, r *http.Request) *methodRouter {
	return &methodRouter{
		w:      w,
		r:      r,
		server: s,
	}
}

// Get handles GET requests with the provided handler.
func (mr *methodRouter) Get(handler func()) *methodRouter {
	if !mr.handled && mr.r.Method == http.MethodGet {
		handler()
		mr.handled = true
	}
	return mr
}

// Post handles POST requests with the provided handler.
func (mr *methodRouter) Post(handler func()) *methodRouter {
	if !mr.handled && mr.r.Method == http.MethodPost {
		handler()
		mr.handled = true
	}
	return mr
}

// Put handles PUT requests with the provided handler.
func (mr *methodRouter) Put(handler func()) *methodRouter {
	if !mr.handled && mr.r.Method == http.MethodPut {
		handler()
		mr.handled = true
	}
	return mr
}

// Delete handles DELETE requests with the provided handler.
func (mr *methodRouter) Delete(handler func()) *methodRouter {
	if !mr.handled && mr.r.Method == http.MethodDelete {
		handler()
		mr.handled = true
	}
	return mr
}

// NotAllowed sends a 405 response if no method matched.
func (mr *methodRouter) NotAllowed() {
	if !mr.handled {
		mr.server.respondError(mr.w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

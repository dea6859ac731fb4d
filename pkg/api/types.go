package api

import (
	"time"

	"github.com/privalytics/riskpipe/pkg/audit"
)

// ErrorResponse is the uniform error body for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse reports overall service health plus per-component checks.
type HealthResponse struct {
	Status  string                 `json:"status"`
	Version string                 `json:"version"`
	Uptime  string                 `json:"uptime"`
	Checks  map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the per-component slice of a health response.
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// PredictResponse carries a classification result.
type PredictResponse struct {
	RiskLevel     int                `json:"risk_level"`
	Label         string             `json:"label"`
	Probabilities map[string]float64 `json:"probabilities"`
}

// TokenResponse carries a freshly issued JWT pair.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// UserResponse echoes a created user without credential material.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// PersonalDataTypesResponse lists ontology personal-data classes.
type PersonalDataTypesResponse struct {
	PersonalDataTypes []string `json:"personal_data_types"`
}

// RiskLevelsResponse maps risk individual names to their ordinal levels.
type RiskLevelsResponse struct {
	RiskLevels map[string]int `json:"risk_levels"`
}

// OntologySaveResponse reports a successful ontology persist.
type OntologySaveResponse struct {
	Saved       bool   `json:"saved"`
	Path        string `json:"path"`
	Classes     int    `json:"classes"`
	Individuals int    `json:"individuals"`
}

// DeviceResponse echoes a registered device.
type DeviceResponse struct {
	DeviceID     string    `json:"device_id"`
	DeviceType   string    `json:"device_type"`
	Location     string    `json:"location,omitempty"`
	Manufacturer string    `json:"manufacturer,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

// AssessmentResponse is a recorded risk assessment for a device.
type AssessmentResponse struct {
	ID            string             `json:"id"`
	DeviceID      string             `json:"device_id"`
	RiskLevel     int                `json:"risk_level"`
	Label         string             `json:"label"`
	Probabilities map[string]float64 `json:"probabilities"`
	Mitigations   []string           `json:"mitigations"`
	Resolved      bool               `json:"resolved"`
	AssessedAt    time.Time          `json:"assessed_at"`
	ResolvedAt    *time.Time         `json:"resolved_at,omitempty"`
}

// RiskHistoryResponse lists the assessments recorded for one device.
type RiskHistoryResponse struct {
	DeviceID    string               `json:"device_id"`
	Assessments []AssessmentResponse `json:"assessments"`
}

// PolicyResponse echoes a stored privacy policy.
type PolicyResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Regulations []string  `json:"regulations,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AuditEventsResponse lists recent audit events, newest first.
type AuditEventsResponse struct {
	Total  int64          `json:"total"`
	Events []*audit.Event `json:"events"`
}

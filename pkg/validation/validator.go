package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/privalytics/riskpipe/pkg/dataset"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxNameLength        = 100
	MaxDescriptionLength = 500
	MinRiskLevel         = dataset.MinRiskLevel
	MaxRiskLevel         = dataset.MaxRiskLevel

	// Ontology entity names share the identifier grammar of OWL fragments.
	namePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
)

func init() {
	validate = validator.New()
}

// PredictRequest carries the device observation to classify. Field names
// mirror the dataset columns.
type PredictRequest struct {
	DeviceID                string `json:"device_id" validate:"required,max=100"`
	DeviceType              string `json:"device_type" validate:"required,oneof=camera sensor actuator gateway wearable"`
	DataType                string `json:"data_type" validate:"required,oneof=location video audio temperature humidity pressure health identification"`
	LocationType            string `json:"location_type" validate:"required,oneof=public_space private_space semi_public restricted"`
	AccessFrequency         int    `json:"access_frequency" validate:"gte=0"`
	UserConsent             bool   `json:"user_consent"`
	NetworkSecurityLevel    int    `json:"network_security_level" validate:"gte=1,lte=5"`
	DataSensitivity         int    `json:"data_sensitivity" validate:"gte=1,lte=5"`
	EncryptionLevel         int    `json:"encryption_level" validate:"gte=1,lte=3"`
	RetentionPeriod         int    `json:"retention_period" validate:"gte=0"`
	DataVolume              int    `json:"data_volume" validate:"gte=0"`
	AccessPattern           string `json:"access_pattern" validate:"required,oneof=regular irregular burst"`
	LastAuditDays           int    `json:"last_audit_days" validate:"gte=0"`
	DataAnonymization       bool   `json:"data_anonymization"`
	DataPseudonymization    bool   `json:"data_pseudonymization"`
	DataMinimization        bool   `json:"data_minimization"`
	PurposeLimitation       bool   `json:"purpose_limitation"`
	StorageDuration         int    `json:"storage_duration" validate:"gte=0"`
	DataSharing             string `json:"data_sharing" validate:"required,oneof=none internal external"`
	ComplianceStatus        string `json:"compliance_status" validate:"required,oneof=compliant partially_compliant non_compliant"`
	SecurityIncidents       int    `json:"security_incidents" validate:"gte=0"`
	PrivacyImpactAssessment bool   `json:"privacy_impact_assessment"`
	DataProtectionOfficer   bool   `json:"data_protection_officer"`
}

// Record converts the request into a dataset record with an unset target.
func (r *PredictRequest) Record() dataset.Record {
	return dataset.Record{
		DeviceID:                r.DeviceID,
		DeviceType:              r.DeviceType,
		DataType:                r.DataType,
		LocationType:            r.LocationType,
		AccessFrequency:         r.AccessFrequency,
		UserConsent:             r.UserConsent,
		NetworkSecurityLevel:    r.NetworkSecurityLevel,
		DataSensitivity:         r.DataSensitivity,
		EncryptionLevel:         r.EncryptionLevel,
		RetentionPeriod:         r.RetentionPeriod,
		DataVolume:              r.DataVolume,
		AccessPattern:           r.AccessPattern,
		LastAuditDays:           r.LastAuditDays,
		DataAnonymization:       r.DataAnonymization,
		DataPseudonymization:    r.DataPseudonymization,
		DataMinimization:        r.DataMinimization,
		PurposeLimitation:       r.PurposeLimitation,
		StorageDuration:         r.StorageDuration,
		DataSharing:             r.DataSharing,
		ComplianceStatus:        r.ComplianceStatus,
		SecurityIncidents:       r.SecurityIncidents,
		PrivacyImpactAssessment: r.PrivacyImpactAssessment,
		DataProtectionOfficer:   r.DataProtectionOfficer,
	}
}

// RiskRequest adds a named risk individual to the ontology.
type RiskRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Level int    `json:"level" validate:"required,gte=1,lte=5"`
}

// PersonalDataRequest adds a personal-data class to the ontology.
type PersonalDataRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// DeviceRequest registers a device for later risk assessment.
type DeviceRequest struct {
	DeviceID     string `json:"device_id" validate:"required,max=100"`
	DeviceType   string `json:"device_type" validate:"required,oneof=camera sensor actuator gateway wearable"`
	Location     string `json:"location" validate:"omitempty,max=200"`
	Manufacturer string `json:"manufacturer" validate:"omitempty,max=100"`
}

// AssessRiskRequest asks for a risk assessment of a registered device.
type AssessRiskRequest struct {
	DeviceID string         `json:"device_id" validate:"required,max=100"`
	Features PredictRequest `json:"features" validate:"required"`
}

// PolicyRequest creates or replaces a privacy policy entry.
type PolicyRequest struct {
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"omitempty,max=500"`
	Regulations []string `json:"regulations" validate:"omitempty,max=10,dive,max=50"`
}

// TokenRequest exchanges credentials for a JWT.
type TokenRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=100"`
}

// UserRequest registers a new user.
type UserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8,max=100"`
	Role     string `json:"role" validate:"required,oneof=admin analyst viewer"`
}

// ValidatePredictRequest validates a classification request.
func ValidatePredictRequest(req *PredictRequest) error {
	if req == nil {
		return errors.New("predict request cannot be nil")
	}
	return formatValidationError(validate.Struct(req))
}

// ValidateRiskRequest validates an ontology risk mutation.
func ValidateRiskRequest(req *RiskRequest) error {
	if req == nil {
		return errors.New("risk request cannot be nil")
	}
	if err := formatValidationError(validate.Struct(req)); err != nil {
		return err
	}
	return validateEntityName("Name", req.Name)
}

// ValidatePersonalDataRequest validates an ontology class mutation.
func ValidatePersonalDataRequest(req *PersonalDataRequest) error {
	if req == nil {
		return errors.New("personal data request cannot be nil")
	}
	if err := formatValidationError(validate.Struct(req)); err != nil {
		return err
	}
	return validateEntityName("Name", req.Name)
}

// ValidateDeviceRequest validates a device registration.
func ValidateDeviceRequest(req *DeviceRequest) error {
	if req == nil {
		return errors.New("device request cannot be nil")
	}
	return formatValidationError(validate.Struct(req))
}

// ValidateAssessRiskRequest validates a risk assessment request.
func ValidateAssessRiskRequest(req *AssessRiskRequest) error {
	if req == nil {
		return errors.New("assess risk request cannot be nil")
	}
	return formatValidationError(validate.Struct(req))
}

// ValidatePolicyRequest validates a policy create/update.
func ValidatePolicyRequest(req *PolicyRequest) error {
	if req == nil {
		return errors.New("policy request cannot be nil")
	}
	return formatValidationError(validate.Struct(req))
}

// ValidateTokenRequest validates a login request.
func ValidateTokenRequest(req *TokenRequest) error {
	if req == nil {
		return errors.New("token request cannot be nil")
	}
	return formatValidationError(validate.Struct(req))
}

// ValidateUserRequest validates a registration request.
func ValidateUserRequest(req *UserRequest) error {
	if req == nil {
		return errors.New("user request cannot be nil")
	}
	return formatValidationError(validate.Struct(req))
}

// validateEntityName checks an ontology entity name against the OWL fragment
// grammar.
func validateEntityName(field, name string) error {
	if len(name) > MaxNameLength {
		return fmt.Errorf("%s: exceeds maximum length of %d characters", field, MaxNameLength)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%s: '%s' contains invalid characters (must start with letter or underscore, followed by alphanumeric or underscore)", field, name)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "lte":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}

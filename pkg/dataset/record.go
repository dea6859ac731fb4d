package dataset

// Device types observed in the field deployments this dataset models.
const (
	DeviceCamera   = "camera"
	DeviceSensor   = "sensor"
	DeviceActuator = "actuator"
	DeviceGateway  = "gateway"
	DeviceWearable = "wearable"
)

// Data types a device can collect.
const (
	DataLocation       = "location"
	DataVideo          = "video"
	DataAudio          = "audio"
	DataTemperature    = "temperature"
	DataHumidity       = "humidity"
	DataPressure       = "pressure"
	DataHealth         = "health"
	DataIdentification = "identification"
)

// Location types.
const (
	LocationPublicSpace  = "public_space"
	LocationPrivateSpace = "private_space"
	LocationSemiPublic   = "semi_public"
	LocationRestricted   = "restricted"
)

// Access patterns.
const (
	AccessRegular   = "regular"
	AccessIrregular = "irregular"
	AccessBurst     = "burst"
)

// Data sharing scopes.
const (
	SharingNone     = "none"
	SharingInternal = "internal"
	SharingExternal = "external"
)

// Compliance statuses.
const (
	Compliant          = "compliant"
	PartiallyCompliant = "partially_compliant"
	NonCompliant       = "non_compliant"
)

// Value sets for each categorical column, in stable order.
var (
	DeviceTypes      = []string{DeviceCamera, DeviceSensor, DeviceActuator, DeviceGateway, DeviceWearable}
	DataTypes        = []string{DataLocation, DataVideo, DataAudio, DataTemperature, DataHumidity, DataPressure, DataHealth, DataIdentification}
	LocationTypes    = []string{LocationPublicSpace, LocationPrivateSpace, LocationSemiPublic, LocationRestricted}
	AccessPatterns   = []string{AccessRegular, AccessIrregular, AccessBurst}
	SharingScopes    = []string{SharingNone, SharingInternal, SharingExternal}
	ComplianceStates = []string{Compliant, PartiallyCompliant, NonCompliant}
)

// Risk level bounds for the ordinal classification target.
const (
	MinRiskLevel = 1
	MaxRiskLevel = 5
)

// Record is one synthetic IoT privacy observation. Records are immutable
// once written to disk; downstream components treat them as read-only.
type Record struct {
	DeviceID                string `json:"device_id"`
	DeviceType              string `json:"device_type"`
	DataType                string `json:"data_type"`
	LocationType            string `json:"location_type"`
	AccessFrequency         int    `json:"access_frequency"`
	UserConsent             bool   `json:"user_consent"`
	NetworkSecurityLevel    int    `json:"network_security_level"`
	DataSensitivity         int    `json:"data_sensitivity"`
	EncryptionLevel         int    `json:"encryption_level"`
	RetentionPeriod         int    `json:"retention_period"`
	DataVolume              int    `json:"data_volume"`
	AccessPattern           string `json:"access_pattern"`
	LastAuditDays           int    `json:"last_audit_days"`
	DataAnonymization       bool   `json:"data_anonymization"`
	DataPseudonymization    bool   `json:"data_pseudonymization"`
	DataMinimization        bool   `json:"data_minimization"`
	PurposeLimitation       bool   `json:"purpose_limitation"`
	StorageDuration         int    `json:"storage_duration"`
	DataSharing             string `json:"data_sharing"`
	ComplianceStatus        string `json:"compliance_status"`
	SecurityIncidents       int    `json:"security_incidents"`
	PrivacyImpactAssessment bool   `json:"privacy_impact_assessment"`
	DataProtectionOfficer   bool   `json:"data_protection_officer"`
	RiskLevel               int    `json:"risk_level"`
}

// Column groups used by the preprocessor and the analysis reports.
// Order is significant: encoded feature vectors follow these lists.
var (
	CategoricalColumns = []string{
		"device_type",
		"data_type",
		"location_type",
		"access_pattern",
		"data_sharing",
		"compliance_status",
	}

	NumericColumns = []string{
		"access_frequency",
		"network_security_level",
		"data_sensitivity",
		"encryption_level",
		"retention_period",
		"data_volume",
		"last_audit_days",
		"storage_duration",
		"security_incidents",
	}

	BooleanColumns = []string{
		"user_consent",
		"data_anonymization",
		"data_pseudonymization",
		"data_minimization",
		"purpose_limitation",
		"privacy_impact_assessment",
		"data_protection_officer",
	}
)

// TargetColumn is the classification target.
const TargetColumn = "risk_level"

// Categorical returns the value of the named categorical column.
func (r *Record) Categorical(column string) string {
	switch column {
	case "device_type":
		return r.DeviceType
	case "data_type":
		return r.DataType
	case "location_type":
		return r.LocationType
	case "access_pattern":
		return r.AccessPattern
	case "data_sharing":
		return r.DataSharing
	case "compliance_status":
		return r.ComplianceStatus
	}
	return ""
}

// Numeric returns the value of the named numeric column.
func (r *Record) Numeric(column string) float64 {
	switch column {
	case "access_frequency":
		return float64(r.AccessFrequency)
	case "network_security_level":
		return float64(r.NetworkSecurityLevel)
	case "data_sensitivity":
		return float64(r.DataSensitivity)
	case "encryption_level":
		return float64(r.EncryptionLevel)
	case "retention_period":
		return float64(r.RetentionPeriod)
	case "data_volume":
		return float64(r.DataVolume)
	case "last_audit_days":
		return float64(r.LastAuditDays)
	case "storage_duration":
		return float64(r.StorageDuration)
	case "security_incidents":
		return float64(r.SecurityIncidents)
	}
	return 0
}

// Boolean returns the value of the named boolean column.
func (r *Record) Boolean(column string) bool {
	switch column {
	case "user_consent":
		return r.UserConsent
	case "data_anonymization":
		return r.DataAnonymization
	case "data_pseudonymization":
		return r.DataPseudonymization
	case "data_minimization":
		return r.DataMinimization
	case "purpose_limitation":
		return r.PurposeLimitation
	case "privacy_impact_assessment":
		return r.PrivacyImpactAssessment
	case "data_protection_officer":
		return r.DataProtectionOfficer
	}
	return false
}

// RiskLabel maps an ordinal risk level to its display label.
func RiskLabel(level int) string {
	switch level {
	case 1:
		return "low"
	case 2:
		return "medium"
	case 3:
		return "high"
	case 4:
		return "very_high"
	case 5:
		return "critical"
	default:
		return "unknown"
	}
}

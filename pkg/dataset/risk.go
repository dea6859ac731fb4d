package dataset

// Per-category contributions to the raw risk score. The weights encode how
// much exposure each device/data/location class adds on a 1-5 scale.
var (
	deviceRisk = map[string]int{
		DeviceCamera:   4,
		DeviceSensor:   2,
		DeviceActuator: 3,
		DeviceGateway:  4,
		DeviceWearable: 5,
	}

	dataRisk = map[string]int{
		DataLocation:       5,
		DataVideo:          5,
		DataAudio:          4,
		DataTemperature:    1,
		DataHumidity:       1,
		DataPressure:       1,
		DataHealth:         5,
		DataIdentification: 5,
	}

	locationRisk = map[string]int{
		LocationPublicSpace:  3,
		LocationPrivateSpace: 4,
		LocationSemiPublic:   3,
		LocationRestricted:   5,
	}
)

// RiskScore computes the raw additive risk score for a record. Unknown
// categorical values contribute nothing, so the score stays defined for
// records outside the generator's vocabulary.
func RiskScore(r *Record) int {
	score := deviceRisk[r.DeviceType] + dataRisk[r.DataType] + locationRisk[r.LocationType]

	// Weak security and encryption raise exposure.
	score += 6 - r.NetworkSecurityLevel
	score += r.DataSensitivity
	score += 4 - r.EncryptionLevel

	if !r.UserConsent {
		score += 2
	}

	switch r.AccessPattern {
	case AccessIrregular:
		score++
	case AccessBurst:
		score += 2
	}

	if r.LastAuditDays > 30 {
		score++
	}

	if !r.DataAnonymization {
		score += 2
	}
	if !r.DataPseudonymization {
		score++
	}
	if !r.DataMinimization {
		score += 2
	}
	if !r.PurposeLimitation {
		score += 2
	}

	switch r.DataSharing {
	case SharingExternal:
		score += 3
	case SharingInternal:
		score++
	}

	switch r.ComplianceStatus {
	case NonCompliant:
		score += 3
	case PartiallyCompliant:
		score++
	}

	score += r.SecurityIncidents

	if !r.PrivacyImpactAssessment {
		score += 2
	}
	if !r.DataProtectionOfficer {
		score++
	}

	return score
}

// RiskLevelFor collapses a raw score onto the 1..5 ordinal target.
func RiskLevelFor(r *Record) int {
	level := RiskScore(r) / 8
	if level < MinRiskLevel {
		level = MinRiskLevel
	}
	if level > MaxRiskLevel {
		level = MaxRiskLevel
	}
	return level
}

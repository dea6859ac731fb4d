package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
)

// Header is the canonical CSV column order for the dataset files.
var Header = []string{
	"device_id",
	"device_type",
	"data_type",
	"location_type",
	"access_frequency",
	"user_consent",
	"network_security_level",
	"data_sensitivity",
	"encryption_level",
	"retention_period",
	"data_volume",
	"access_pattern",
	"last_audit_days",
	"data_anonymization",
	"data_pseudonymization",
	"data_minimization",
	"purpose_limitation",
	"storage_duration",
	"data_sharing",
	"compliance_status",
	"security_incidents",
	"privacy_impact_assessment",
	"data_protection_officer",
	"risk_level",
}

// WriteCSV writes records to w with the canonical header.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range records {
		if err := cw.Write(recordRow(&records[i])); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes records to path, creating parent directories.
func WriteCSVFile(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create dataset directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, records)
}

// ReadCSV parses records from r. The header must match the canonical order.
func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) != len(Header) {
		return nil, fmt.Errorf("unexpected column count %d, want %d", len(header), len(Header))
	}
	for i, col := range header {
		if col != Header[i] {
			return nil, fmt.Errorf("unexpected column %q at position %d, want %q", col, i, Header[i])
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadCSVFile reads records from a dataset file on disk.
func ReadCSVFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

func recordRow(r *Record) []string {
	return []string{
		r.DeviceID,
		r.DeviceType,
		r.DataType,
		r.LocationType,
		strconv.Itoa(r.AccessFrequency),
		strconv.FormatBool(r.UserConsent),
		strconv.Itoa(r.NetworkSecurityLevel),
		strconv.Itoa(r.DataSensitivity),
		strconv.Itoa(r.EncryptionLevel),
		strconv.Itoa(r.RetentionPeriod),
		strconv.Itoa(r.DataVolume),
		r.AccessPattern,
		strconv.Itoa(r.LastAuditDays),
		strconv.FormatBool(r.DataAnonymization),
		strconv.FormatBool(r.DataPseudonymization),
		strconv.FormatBool(r.DataMinimization),
		strconv.FormatBool(r.PurposeLimitation),
		strconv.Itoa(r.StorageDuration),
		r.DataSharing,
		r.ComplianceStatus,
		strconv.Itoa(r.SecurityIncidents),
		strconv.FormatBool(r.PrivacyImpactAssessment),
		strconv.FormatBool(r.DataProtectionOfficer),
		strconv.Itoa(r.RiskLevel),
	}
}

func parseRow(row []string) (Record, error) {
	var r Record
	if len(row) != len(Header) {
		return r, fmt.Errorf("unexpected field count %d, want %d", len(row), len(Header))
	}

	var err error
	fail := func(col string, e error) (Record, error) {
		return Record{}, fmt.Errorf("column %s: %w", col, e)
	}

	r.DeviceID = row[0]
	r.DeviceType = row[1]
	r.DataType = row[2]
	r.LocationType = row[3]
	if r.AccessFrequency, err = strconv.Atoi(row[4]); err != nil {
		return fail("access_frequency", err)
	}
	if r.UserConsent, err = strconv.ParseBool(row[5]); err != nil {
		return fail("user_consent", err)
	}
	if r.NetworkSecurityLevel, err = strconv.Atoi(row[6]); err != nil {
		return fail("network_security_level", err)
	}
	if r.DataSensitivity, err = strconv.Atoi(row[7]); err != nil {
		return fail("data_sensitivity", err)
	}
	if r.EncryptionLevel, err = strconv.Atoi(row[8]); err != nil {
		return fail("encryption_level", err)
	}
	if r.RetentionPeriod, err = strconv.Atoi(row[9]); err != nil {
		return fail("retention_period", err)
	}
	if r.DataVolume, err = strconv.Atoi(row[10]); err != nil {
		return fail("data_volume", err)
	}
	r.AccessPattern = row[11]
	if r.LastAuditDays, err = strconv.Atoi(row[12]); err != nil {
		return fail("last_audit_days", err)
	}
	if r.DataAnonymization, err = strconv.ParseBool(row[13]); err != nil {
		return fail("data_anonymization", err)
	}
	if r.DataPseudonymization, err = strconv.ParseBool(row[14]); err != nil {
		return fail("data_pseudonymization", err)
	}
	if r.DataMinimization, err = strconv.ParseBool(row[15]); err != nil {
		return fail("data_minimization", err)
	}
	if r.PurposeLimitation, err = strconv.ParseBool(row[16]); err != nil {
		return fail("purpose_limitation", err)
	}
	if r.StorageDuration, err = strconv.Atoi(row[17]); err != nil {
		return fail("storage_duration", err)
	}
	r.DataSharing = row[18]
	r.ComplianceStatus = row[19]
	if r.SecurityIncidents, err = strconv.Atoi(row[20]); err != nil {
		return fail("security_incidents", err)
	}
	if r.PrivacyImpactAssessment, err = strconv.ParseBool(row[21]); err != nil {
		return fail("privacy_impact_assessment", err)
	}
	if r.DataProtectionOfficer, err = strconv.ParseBool(row[22]); err != nil {
		return fail("data_protection_officer", err)
	}
	if r.RiskLevel, err = strconv.Atoi(row[23]); err != nil {
		return fail("risk_level", err)
	}
	return r, nil
}

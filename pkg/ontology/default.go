package ontology

import (
	"errors"
	"fmt"
	"os"
)

// DefaultOntology builds the privacy ontology that ships with the pipeline:
// the class hierarchy for personal data, risks and mitigations, plus the
// individuals that seed a new deployment.
func DefaultOntology() *Ontology {
	o := New()

	// Top-level domain classes.
	o.AddClass(ClassPersonalData)
	o.AddClass("PrivacyPolicy")
	o.AddClass(ClassRisk)
	o.AddClass(ClassMitigationStrategy)
	o.AddClass("Consent")
	o.AddClass("SecurityMeasure")
	o.AddClass("DataProcessing")
	o.AddClass("User")

	// Personal data taxonomy.
	o.AddClass("SensitivePersonalData", ClassPersonalData)
	o.AddClass("BiometricData", "SensitivePersonalData")
	o.AddClass("HealthData", "SensitivePersonalData")
	o.AddPersonalData("LocationData")
	o.AddPersonalData("BehavioralData")
	o.AddPersonalData("IdentityData")
	o.AddPersonalData("CommunicationData")

	// Regulatory frameworks governing processing.
	for _, reg := range []string{"GDPR", "CCPA", "HIPAA"} {
		o.addIndividual(reg, "PrivacyPolicy", nil, nil)
	}

	// Security measures available to deployments.
	for _, m := range []string{"Encryption", "Anonymization", "AccessControl", "Pseudonymization", "DataMinimization"} {
		o.addIndividual(m, "SecurityMeasure", nil, nil)
	}

	// Canonical risk bands.
	mustAddRisk(o, "LowRisk", 1)
	mustAddRisk(o, "MediumRisk", 3)
	mustAddRisk(o, "HighRisk", 5)

	// Mitigation strategies per band.
	mustAddMitigation(o, "RegularAudits", 1, "Schedule periodic privacy audits of device data flows")
	mustAddMitigation(o, "ConsentRenewal", 2, "Re-obtain user consent when processing purposes change")
	mustAddMitigation(o, "EncryptAtRest", 3, "Encrypt stored device data with managed keys")
	mustAddMitigation(o, "NetworkSegmentation", 3, "Isolate device traffic on a dedicated network segment")
	mustAddMitigation(o, "DataMinimizationReview", 4, "Drop collection of fields not required for the stated purpose")
	mustAddMitigation(o, "IncidentResponsePlan", 5, "Maintain and drill a breach notification procedure")
	mustAddMitigation(o, "ImmediateDPIAReview", 5, "Trigger a data protection impact assessment before further processing")

	return o
}

// WriteDefault writes the default ontology to path and returns it, bound to
// that file so later Save calls persist there.
func WriteDefault(path string) (*Ontology, error) {
	o := DefaultOntology()
	if err := o.SaveTo(path); err != nil {
		return nil, fmt.Errorf("write default ontology: %w", err)
	}
	return o, nil
}

// LoadOrCreate loads the ontology at path, seeding the file with the default
// ontology when it does not exist yet.
func LoadOrCreate(path string) (*Ontology, error) {
	o, err := Load(path)
	if err == nil {
		return o, nil
	}
	// Only seed on a missing file; a corrupt one should surface the error
	// rather than be silently replaced.
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return WriteDefault(path)
}

func (o *Ontology) addIndividual(name, typ string, ints map[string]int, strs map[string]string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.individuals[name]; ok {
		return
	}
	ind := &Individual{
		Name:    name,
		Types:   []string{typ},
		Ints:    make(map[string]int),
		Strs:    make(map[string]string),
		Objects: make(map[string][]string),
	}
	for k, v := range ints {
		ind.Ints[k] = v
	}
	for k, v := range strs {
		ind.Strs[k] = v
	}
	o.individuals[name] = ind
}

func mustAddRisk(o *Ontology, name string, level int) {
	if err := o.AddRisk(name, level); err != nil {
		panic(fmt.Sprintf("default ontology: %v", err))
	}
}

func mustAddMitigation(o *Ontology, name string, level int, description string) {
	if err := o.AddMitigation(name, level, description); err != nil {
		panic(fmt.Sprintf("default ontology: %v", err))
	}
}

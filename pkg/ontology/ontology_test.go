package ontology

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPersonalDataTypes(t *testing.T) {
	o := DefaultOntology()
	types := o.PersonalDataTypes()

	want := []string{"BiometricData", "HealthData", "SensitivePersonalData", "LocationData"}
	for _, w := range want {
		if !contains(types, w) {
			t.Errorf("Expected %s among personal data types, got %v", w, types)
		}
	}
	if contains(types, "PrivacyPolicy") {
		t.Errorf("PrivacyPolicy must not be a personal data type, got %v", types)
	}
	if contains(types, ClassPersonalData) {
		t.Errorf("Closure must exclude the root class itself, got %v", types)
	}

	t.Logf("✓ %d personal data types in default ontology", len(types))
}

func TestDefaultRiskLevels(t *testing.T) {
	o := DefaultOntology()
	levels := o.RiskLevels()

	want := map[string]int{"LowRisk": 1, "MediumRisk": 3, "HighRisk": 5}
	for name, level := range want {
		if levels[name] != level {
			t.Errorf("Expected %s level %d, got %d", name, level, levels[name])
		}
	}
}

func TestAddRisk(t *testing.T) {
	o := DefaultOntology()

	if err := o.AddRisk("TestRisk", 3); err != nil {
		t.Fatalf("AddRisk failed: %v", err)
	}
	if got := o.RiskLevels()["TestRisk"]; got != 3 {
		t.Fatalf("Expected TestRisk level 3, got %d", got)
	}

	// Re-adding with a different level is a no-op, not an overwrite.
	if err := o.AddRisk("TestRisk", 5); err != nil {
		t.Fatalf("Re-adding existing risk should not error: %v", err)
	}
	if got := o.RiskLevels()["TestRisk"]; got != 3 {
		t.Errorf("Re-add must not change level: expected 3, got %d", got)
	}

	for _, bad := range []int{0, 6, -1} {
		if err := o.AddRisk("BadRisk", bad); err == nil {
			t.Errorf("Expected error for level %d, got nil", bad)
		}
	}
}

func TestMitigationStrategies(t *testing.T) {
	o := DefaultOntology()

	strategies, err := o.MitigationStrategies(5)
	if err != nil {
		t.Fatalf("MitigationStrategies failed: %v", err)
	}
	if len(strategies) < 2 {
		t.Fatalf("Expected at least 2 strategies for level 5, got %d", len(strategies))
	}

	if _, err := o.MitigationStrategies(0); err == nil {
		t.Error("Expected error for level 0, got nil")
	}

	t.Logf("✓ level 5 strategies: %v", strategies)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ontologies", "privacy.owl")

	o, err := WriteDefault(path)
	if err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}

	if err := o.AddRisk("TestRisk", 3); err != nil {
		t.Fatalf("AddRisk failed: %v", err)
	}
	if err := o.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got := reloaded.RiskLevels()["TestRisk"]; got != 3 {
		t.Errorf("Expected TestRisk level 3 after reload, got %d", got)
	}
	if !contains(reloaded.PersonalDataTypes(), "BiometricData") {
		t.Error("BiometricData lost in round trip")
	}

	wantClasses, wantInds := o.Stats()
	gotClasses, gotInds := reloaded.Stats()
	if gotClasses != wantClasses || gotInds != wantInds {
		t.Errorf("Stats changed in round trip: wrote %d/%d, read %d/%d",
			wantClasses, wantInds, gotClasses, gotInds)
	}

	t.Logf("✓ ontology survived save/reload with %d classes, %d individuals", gotClasses, gotInds)
}

func TestMutationsNotPersistedWithoutSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "privacy.owl")

	o, err := WriteDefault(path)
	if err != nil {
		t.Fatalf("WriteDefault failed: %v", err)
	}
	if err := o.AddRisk("EphemeralRisk", 2); err != nil {
		t.Fatalf("AddRisk failed: %v", err)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := reloaded.RiskLevels()["EphemeralRisk"]; ok {
		t.Error("Unsaved mutation leaked to disk")
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		setup   func() string
		missing bool
	}{
		{
			name:    "missing file",
			setup:   func() string { return filepath.Join(dir, "nope.owl") },
			missing: true,
		},
		{
			name: "not XML",
			setup: func() string {
				p := filepath.Join(dir, "garbage.owl")
				os.WriteFile(p, []byte("this is not XML at all <<<"), 0644)
				return p
			},
		},
		{
			name: "XML without rdf:RDF root",
			setup: func() string {
				p := filepath.Join(dir, "wrongroot.owl")
				os.WriteFile(p, []byte(`<?xml version="1.0"?><html><body/></html>`), 0644)
				return p
			},
		},
		{
			name: "truncated document",
			setup: func() string {
				p := filepath.Join(dir, "truncated.owl")
				full := DefaultOntology().serialize()
				os.WriteFile(p, full[:len(full)/2], 0644)
				return p
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.setup())
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !IsLoadError(err) {
				t.Errorf("Expected OntologyLoadError, got %T: %v", err, err)
			}
		})
	}
}

func TestLoadOrCreateSeedsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seeded.owl")

	o, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Expected seeded file on disk: %v", err)
	}
	if len(o.PersonalDataTypes()) == 0 {
		t.Error("Seeded ontology is empty")
	}

	// A corrupt file must surface its error rather than be replaced.
	bad := filepath.Join(t.TempDir(), "bad.owl")
	os.WriteFile(bad, []byte("<broken"), 0644)
	if _, err := LoadOrCreate(bad); err == nil {
		t.Error("Expected error for corrupt file, got nil")
	}
}

func TestSerializeDeterministic(t *testing.T) {
	a := DefaultOntology().serialize()
	b := DefaultOntology().serialize()
	if string(a) != string(b) {
		t.Error("Serialization is not deterministic")
	}
	if !strings.Contains(string(a), `xml:base="`+BaseIRI+`"`) {
		t.Error("Missing xml:base declaration")
	}
}

func TestIndividualsByType(t *testing.T) {
	o := DefaultOntology()

	policies := o.Individuals("PrivacyPolicy")
	for _, w := range []string{"CCPA", "GDPR", "HIPAA"} {
		if !contains(policies, w) {
			t.Errorf("Expected %s among privacy policies, got %v", w, policies)
		}
	}

	if ind := o.Individual("GDPR"); ind == nil {
		t.Error("Expected GDPR individual")
	}
	if ind := o.Individual("DoesNotExist"); ind != nil {
		t.Errorf("Expected nil for unknown individual, got %+v", ind)
	}
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}

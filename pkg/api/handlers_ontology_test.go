package api

import (
	"net/http"
	"testing"

	"github.com/privalytics/riskpipe/pkg/ontology"
	"github.com/privalytics/riskpipe/pkg/validation"
)

func TestListPersonalDataTypes(t *testing.T) {
	s := newTestServer(t)

	var resp PersonalDataTypesResponse
	rr := doJSON(t, s, http.MethodGet, "/ontology/personal-data-types", "", nil, &resp)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	want := map[string]bool{"BiometricData": false, "HealthData": false, "LocationData": false}
	for _, name := range resp.PersonalDataTypes {
		if name == "PrivacyPolicy" {
			t.Error("PrivacyPolicy should not be listed as personal data")
		}
		if _, tracked := want[name]; tracked {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("Expected %s in personal data types", name)
		}
	}
}

func TestAddPersonalDataTypeRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	body := validation.PersonalDataRequest{Name: "GaitData"}
	rr := doJSON(t, s, http.MethodPost, "/ontology/personal-data-types", "", body, nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", rr.Code)
	}
}

func TestAddPersonalDataType(t *testing.T) {
	s := newTestServer(t)
	token := adminToken(t, s)

	body := validation.PersonalDataRequest{Name: "GaitData"}
	var resp PersonalDataTypesResponse
	rr := doJSON(t, s, http.MethodPost, "/ontology/personal-data-types", token, body, &resp)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	found := false
	for _, name := range resp.PersonalDataTypes {
		if name == "GaitData" {
			found = true
		}
	}
	if !found {
		t.Error("Added type missing from response")
	}

	// Re-adding is a no-op, not an error.
	rr = doJSON(t, s, http.MethodPost, "/ontology/personal-data-types", token, body, nil)
	if rr.Code != http.StatusCreated {
		t.Errorf("Expected 201 on re-add, got %d", rr.Code)
	}
}

func TestListRiskLevels(t *testing.T) {
	s := newTestServer(t)

	var resp RiskLevelsResponse
	rr := doJSON(t, s, http.MethodGet, "/ontology/risk-levels", "", nil, &resp)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	expected := map[string]int{"LowRisk": 1, "MediumRisk": 3, "HighRisk": 5}
	for name, level := range expected {
		if resp.RiskLevels[name] != level {
			t.Errorf("Expected %s=%d, got %d", name, level, resp.RiskLevels[name])
		}
	}
}

func TestAddRisk(t *testing.T) {
	s := newTestServer(t)
	token := adminToken(t, s)

	body := validation.RiskRequest{Name: "ShadowITRisk", Level: 4}
	rr := doJSON(t, s, http.MethodPost, "/ontology/risks", token, body, nil)
	if rr.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var levels RiskLevelsResponse
	doJSON(t, s, http.MethodGet, "/ontology/risk-levels", "", nil, &levels)
	if levels.RiskLevels["ShadowITRisk"] != 4 {
		t.Errorf("Expected ShadowITRisk=4, got %d", levels.RiskLevels["ShadowITRisk"])
	}
}

func TestAddRiskInvalidLevel(t *testing.T) {
	s := newTestServer(t)
	token := adminToken(t, s)

	body := validation.RiskRequest{Name: "BadRisk", Level: 9}
	rr := doJSON(t, s, http.MethodPost, "/ontology/risks", token, body, nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for level 9, got %d", rr.Code)
	}
}

func TestOntologySavePersistsMutations(t *testing.T) {
	s := newTestServer(t)
	token := adminToken(t, s)

	doJSON(t, s, http.MethodPost, "/ontology/risks", token,
		validation.RiskRequest{Name: "SavedRisk", Level: 2}, nil)

	var resp OntologySaveResponse
	rr := doJSON(t, s, http.MethodPost, "/ontology/save", token, nil, &resp)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	if !resp.Saved || resp.Path == "" {
		t.Fatalf("Unexpected save response: %+v", resp)
	}

	reloaded, err := ontology.Load(resp.Path)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if reloaded.RiskLevels()["SavedRisk"] != 2 {
		t.Error("Saved risk missing after reload")
	}
}

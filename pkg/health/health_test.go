package health

import (
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestHealthCheckerWorstStatusWins(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"one unhealthy", []Status{StatusHealthy, StatusDegraded, StatusUnhealthy}, StatusUnhealthy},
		{"no checks", nil, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			for i, s := range tt.statuses {
				status := s
				hc.RegisterCheck(string(rune('a'+i)), func() Check {
					return Check{Status: status}
				})
			}

			resp := hc.Check()
			if resp.Status != tt.want {
				t.Errorf("Overall status = %v, want %v", resp.Status, tt.want)
			}
			if len(resp.Checks) != len(tt.statuses) {
				t.Errorf("Expected %d checks, got %d", len(tt.statuses), len(resp.Checks))
			}
		})
	}
}

func TestModelCheck(t *testing.T) {
	loaded := ModelCheck(func() (bool, int, int) { return true, 5, 22 })()
	if loaded.Status != StatusHealthy {
		t.Errorf("Loaded model should be healthy, got %v", loaded.Status)
	}
	if loaded.Details["classes"] != 5 || loaded.Details["features"] != 22 {
		t.Errorf("Details missing: %+v", loaded.Details)
	}

	missing := ModelCheck(func() (bool, int, int) { return false, 0, 0 })()
	if missing.Status != StatusUnhealthy {
		t.Errorf("Missing model should be unhealthy, got %v", missing.Status)
	}
}

func TestOntologyCheck(t *testing.T) {
	tests := []struct {
		name                 string
		loaded               bool
		classes, individuals int
		want                 Status
	}{
		{"loaded", true, 15, 12, StatusHealthy},
		{"empty", true, 0, 0, StatusDegraded},
		{"not loaded", false, 0, 0, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := OntologyCheck(func() (bool, int, int) {
				return tt.loaded, tt.classes, tt.individuals
			})()
			if check.Status != tt.want {
				t.Errorf("Status = %v, want %v", check.Status, tt.want)
			}
		})
	}
}

func TestFileCheck(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.bin")
	os.WriteFile(path, []byte("data"), 0644)

	present := FileCheck("artifact", path)()
	if present.Status != StatusHealthy {
		t.Errorf("Existing file should be healthy, got %v", present.Status)
	}

	absent := FileCheck("artifact", filepath.Join(t.TempDir(), "nope.bin"))()
	if absent.Status != StatusUnhealthy {
		t.Errorf("Missing file should be unhealthy, got %v", absent.Status)
	}
}

func TestDiskSpaceCheck(t *testing.T) {
	tests := []struct {
		name        string
		used, total uint64
		want        Status
	}{
		{"plenty", 10, 100, StatusHealthy},
		{"low", 85, 100, StatusDegraded},
		{"critical", 97, 100, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := DiskSpaceCheck(func() (uint64, uint64) { return tt.used, tt.total })()
			if check.Status != tt.want {
				t.Errorf("Status = %v, want %v", check.Status, tt.want)
			}
		})
	}
}

func TestHTTPHandler(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck("model", ModelCheck(func() (bool, int, int) { return true, 5, 22 }))

	rec := httptest.NewRecorder()
	hc.HTTPHandler()(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != 200 {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if resp.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", resp.Status)
	}
	if _, ok := resp.Checks["model"]; !ok {
		t.Error("Expected model check in response")
	}
}

func TestHTTPHandlerUnhealthy(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterCheck("model", ModelCheck(func() (bool, int, int) { return false, 0, 0 }))

	rec := httptest.NewRecorder()
	hc.HTTPHandler()(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != 503 {
		t.Errorf("Expected 503 for unhealthy, got %d", rec.Code)
	}
}

func TestReadinessAndLiveness(t *testing.T) {
	hc := NewHealthChecker()
	hc.RegisterReadinessCheck("ontology", OntologyCheck(func() (bool, int, int) { return true, 15, 12 }))
	hc.RegisterLivenessCheck("process", func() Check { return SimpleCheck("process") })

	rec := httptest.NewRecorder()
	hc.ReadinessHandler()(rec, httptest.NewRequest("GET", "/ready", nil))
	if rec.Code != 200 {
		t.Errorf("Readiness: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	hc.LivenessHandler()(rec, httptest.NewRequest("GET", "/live", nil))
	if rec.Code != 200 {
		t.Errorf("Liveness: expected 200, got %d", rec.Code)
	}
}

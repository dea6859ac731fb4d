package classifier

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/privalytics/riskpipe/pkg/dataset"
	"github.com/privalytics/riskpipe/pkg/preprocess"
)

func TestArtifactRoundTrip(t *testing.T) {
	records := dataset.NewGenerator(42).Generate(250)
	train, holdout := dataset.Split(records, 0.8)

	p := preprocess.New()
	X, y, err := p.FitTransform(train)
	if err != nil {
		t.Fatalf("FitTransform failed: %v", err)
	}

	f := New(testOptions())
	if err := f.Train(X, y); err != nil {
		t.Fatalf("Train failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "models", "privacy_risk_model.bin")
	if err := SaveArtifact(path, &Artifact{Forest: f, Preprocessor: p, TrainedAt: time.Now()}); err != nil {
		t.Fatalf("SaveArtifact failed: %v", err)
	}

	loaded, err := LoadArtifact(path)
	if err != nil {
		t.Fatalf("LoadArtifact failed: %v", err)
	}

	// A reloaded artifact must make identical predictions on held-out data.
	Xh, err := p.Transform(holdout)
	if err != nil {
		t.Fatalf("Transform holdout failed: %v", err)
	}
	XhLoaded, err := loaded.Preprocessor.Transform(holdout)
	if err != nil {
		t.Fatalf("Loaded preprocessor transform failed: %v", err)
	}

	orig, err := f.Predict(Xh)
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	restored, err := loaded.Forest.Predict(XhLoaded)
	if err != nil {
		t.Fatalf("Predict on loaded model failed: %v", err)
	}

	for i := range orig {
		if orig[i] != restored[i] {
			t.Fatalf("Prediction %d differs after reload: %d vs %d", i, orig[i], restored[i])
		}
	}

	t.Logf("✓ %d held-out predictions identical after save/load", len(orig))
}

func TestSaveArtifactRejectsIncomplete(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		artifact *Artifact
		wantErr  error
	}{
		{"nil artifact", nil, ErrIncompleteArtifact},
		{"missing forest", &Artifact{Preprocessor: preprocess.New()}, ErrIncompleteArtifact},
		{"missing preprocessor", &Artifact{Forest: New(testOptions())}, ErrIncompleteArtifact},
		{"untrained forest", &Artifact{Forest: New(testOptions()), Preprocessor: preprocess.New()}, ErrNotTrained},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SaveArtifact(filepath.Join(dir, "m.bin"), tt.artifact)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SaveArtifact = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadArtifactCorruption(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty file", nil},
		{"bad magic", []byte("NOTAMODELFILE---")},
		{"truncated", append([]byte("RPMODEL1"), 0, 1)},
		{"checksum mismatch", append(append([]byte("RPMODEL1"), 0xde, 0xad, 0xbe, 0xef), []byte("garbage payload")...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := os.WriteFile(path, tt.data, 0644); err != nil {
				t.Fatalf("write fixture: %v", err)
			}
			if _, err := LoadArtifact(path); !errors.Is(err, ErrCorruptArtifact) {
				t.Errorf("LoadArtifact = %v, want ErrCorruptArtifact", err)
			}
		})
	}
}

func TestLoadArtifactMissingFile(t *testing.T) {
	if _, err := LoadArtifact(filepath.Join(t.TempDir(), "nope.bin")); err == nil {
		t.Error("Expected error for missing artifact file")
	}
}

func TestBackupKey(t *testing.T) {
	ts := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	got := BackupKey("models/prod", "privacy_risk_model.bin", ts)
	want := "models/prod/20260314T093000Z-privacy_risk_model.bin"
	if got != want {
		t.Errorf("BackupKey = %q, want %q", got, want)
	}

	if got := BackupKey("", "m.bin", ts); got != "20260314T093000Z-m.bin" {
		t.Errorf("BackupKey without prefix = %q", got)
	}
}

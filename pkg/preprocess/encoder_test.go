package preprocess

import (
	"errors"
	"testing"
)

func TestLabelEncoderFitTransform(t *testing.T) {
	enc := NewLabelEncoder("device_type")
	enc.Fit([]string{"sensor", "camera", "sensor", "wearable"})

	// Codes follow sorted vocabulary order.
	want := map[string]int{"camera": 0, "sensor": 1, "wearable": 2}
	for value, code := range want {
		got, err := enc.Transform(value)
		if err != nil {
			t.Fatalf("Transform(%q) failed: %v", value, err)
		}
		if got != code {
			t.Errorf("Transform(%q) = %d, want %d", value, got, code)
		}
	}
}

func TestLabelEncoderRoundTrip(t *testing.T) {
	enc := NewLabelEncoder("data_type")
	vocab := []string{"video", "audio", "health", "temperature"}
	enc.Fit(vocab)

	for _, v := range vocab {
		code, err := enc.Transform(v)
		if err != nil {
			t.Fatalf("Transform(%q) failed: %v", v, err)
		}
		back, err := enc.Inverse(code)
		if err != nil {
			t.Fatalf("Inverse(%d) failed: %v", code, err)
		}
		if back != v {
			t.Errorf("decode(encode(%q)) = %q", v, back)
		}
	}

	t.Logf("✓ Round trip held for %d categories", len(vocab))
}

func TestLabelEncoderUnknownCategory(t *testing.T) {
	enc := NewLabelEncoder("location_type")
	enc.Fit([]string{"public_space", "private_space"})

	_, err := enc.Transform("orbital_station")
	if err == nil {
		t.Fatal("Expected error for unseen category, got nil")
	}

	var uce *UnknownCategoryError
	if !errors.As(err, &uce) {
		t.Fatalf("Expected UnknownCategoryError, got %T: %v", err, err)
	}
	if uce.Column != "location_type" || uce.Value != "orbital_station" {
		t.Errorf("Error fields = (%q, %q), want (location_type, orbital_station)", uce.Column, uce.Value)
	}
	if !IsUnknownCategory(err) {
		t.Error("IsUnknownCategory returned false")
	}
}

func TestLabelEncoderUnfitted(t *testing.T) {
	enc := NewLabelEncoder("device_type")

	if _, err := enc.Transform("camera"); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Transform on unfitted encoder: got %v, want ErrNotFitted", err)
	}
	if _, err := enc.Inverse(0); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Inverse on unfitted encoder: got %v, want ErrNotFitted", err)
	}
}

func TestLabelEncoderIndexRebuild(t *testing.T) {
	// Simulates an encoder restored from a saved artifact, where only the
	// exported Classes slice survives serialization.
	enc := &LabelEncoder{Column: "data_sharing", Classes: []string{"external", "internal", "none"}}

	code, err := enc.Transform("internal")
	if err != nil {
		t.Fatalf("Transform after restore failed: %v", err)
	}
	if code != 1 {
		t.Errorf("Transform(internal) = %d, want 1", code)
	}
}

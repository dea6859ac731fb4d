package analysis

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/privalytics/riskpipe/pkg/dataset"
)

func TestAnalyzeEmpty(t *testing.T) {
	if _, err := Analyze(nil); err != ErrEmptyDataset {
		t.Fatalf("Expected ErrEmptyDataset, got %v", err)
	}
}

func TestAnalyzeShape(t *testing.T) {
	records := dataset.NewGenerator(7).Generate(200)

	r, err := Analyze(records)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if r.Records != 200 {
		t.Errorf("Expected 200 records, got %d", r.Records)
	}
	if len(r.Numeric) != len(dataset.NumericColumns) {
		t.Errorf("Expected %d numeric summaries, got %d", len(dataset.NumericColumns), len(r.Numeric))
	}
	if len(r.Categorical) != len(dataset.CategoricalColumns) {
		t.Errorf("Expected %d categorical columns, got %d", len(dataset.CategoricalColumns), len(r.Categorical))
	}

	wantDim := len(dataset.NumericColumns) + 1
	if len(r.Correlations.Columns) != wantDim {
		t.Errorf("Expected %d correlation columns, got %d", wantDim, len(r.Correlations.Columns))
	}

	total := 0
	for _, n := range r.RiskDistribution {
		total += n
	}
	if total != 200 {
		t.Errorf("Risk distribution covers %d records, expected 200", total)
	}
}

func TestDescribe(t *testing.T) {
	stats := describe("test", []float64{1, 2, 3, 4, 5})

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"mean", stats.Mean, 3},
		// Sample std: sqrt(10/4), not the population sqrt(10/5).
		{"std", stats.Std, math.Sqrt(2.5)},
		{"min", stats.Min, 1},
		{"q25", stats.Q25, 2},
		{"median", stats.Median, 3},
		{"q75", stats.Q75, 4},
		{"max", stats.Max, 5},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 1e-9 {
			t.Errorf("%s: expected %g, got %g", tt.name, tt.want, tt.got)
		}
	}
	if stats.Count != 5 {
		t.Errorf("Expected count 5, got %d", stats.Count)
	}
}

func TestQuantileInterpolates(t *testing.T) {
	// Quartiles of a 4-point series fall between order statistics.
	sorted := []float64{10, 20, 30, 40}
	if got := quantile(sorted, 0.5); got != 25 {
		t.Errorf("Expected median 25, got %g", got)
	}
	if got := quantile(sorted, 0.25); got != 17.5 {
		t.Errorf("Expected q25 17.5, got %g", got)
	}
}

func TestPearson(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want float64
	}{
		{"perfect positive", []float64{1, 2, 3}, []float64{2, 4, 6}, 1},
		{"perfect negative", []float64{1, 2, 3}, []float64{6, 4, 2}, -1},
		{"constant series", []float64{1, 2, 3}, []float64{5, 5, 5}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pearson(tt.x, tt.y); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Expected %g, got %g", tt.want, got)
			}
		})
	}
}

func TestCorrelationMatrixProperties(t *testing.T) {
	records := dataset.NewGenerator(11).Generate(300)
	m := correlationMatrix(records)

	for i := range m.Columns {
		if math.Abs(m.Values[i][i]-1) > 1e-9 {
			t.Errorf("Diagonal [%d][%d] = %g, expected 1", i, i, m.Values[i][i])
		}
		for j := range m.Columns {
			if m.Values[i][j] != m.Values[j][i] {
				t.Errorf("Matrix not symmetric at [%d][%d]", i, j)
			}
			if math.Abs(m.Values[i][j]) > 1+1e-9 {
				t.Errorf("Coefficient [%d][%d] = %g out of range", i, j, m.Values[i][j])
			}
		}
	}

	// Data sensitivity feeds the risk score directly, so it should correlate
	// positively with the risk level over a large sample.
	r, err := Analyze(records)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	found := false
	for _, c := range r.RiskCorrelations {
		if c.Column == "data_sensitivity" {
			found = true
			if c.Coefficient <= 0 {
				t.Errorf("Expected positive data_sensitivity correlation, got %g", c.Coefficient)
			}
		}
	}
	if !found {
		t.Error("data_sensitivity missing from risk correlations")
	}
}

func TestWriteReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "analysis")
	records := dataset.NewGenerator(5).Generate(50)

	r, err := Analyze(records)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if err := WriteReport(dir, r); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	for _, want := range []string{
		"report.json",
		filepath.Join("numerical", "summary.csv"),
		filepath.Join("correlations", "matrix.csv"),
		filepath.Join("correlations", "risk_correlations.csv"),
		filepath.Join("categorical", "device_type_counts.csv"),
	} {
		if _, err := os.Stat(filepath.Join(dir, want)); err != nil {
			t.Errorf("Expected %s in report output: %v", want, err)
		}
	}

	t.Logf("✓ analysis report written to %s", dir)
}

func TestReadReportRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "analysis")
	records := dataset.NewGenerator(9).Generate(80)

	r, err := Analyze(records)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if err := WriteReport(dir, r); err != nil {
		t.Fatalf("WriteReport failed: %v", err)
	}

	got, err := ReadReport(dir)
	if err != nil {
		t.Fatalf("ReadReport failed: %v", err)
	}
	if got.Records != r.Records {
		t.Errorf("Expected %d records, got %d", r.Records, got.Records)
	}
	if len(got.Numeric) != len(r.Numeric) {
		t.Errorf("Expected %d numeric summaries, got %d", len(r.Numeric), len(got.Numeric))
	}
	if len(got.Correlations.Columns) != len(r.Correlations.Columns) {
		t.Errorf("Correlation columns differ: %d vs %d", len(got.Correlations.Columns), len(r.Correlations.Columns))
	}
}

func TestReadReportMissing(t *testing.T) {
	if _, err := ReadReport(t.TempDir()); err == nil {
		t.Fatal("Expected error for missing report")
	}
}

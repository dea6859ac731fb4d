package dashboard

import (
	"math"
	"strings"
	"testing"

	"github.com/privalytics/riskpipe/pkg/analysis"
	"github.com/privalytics/riskpipe/pkg/dataset"
)

func testReport(t *testing.T) *analysis.Report {
	t.Helper()
	records := dataset.NewGenerator(11).Generate(300)
	r, err := analysis.Analyze(records)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	return r
}

func TestRiskDistributionOrderAndFractions(t *testing.T) {
	r := testReport(t)
	bars := RiskDistribution(r)

	if len(bars) != 5 {
		t.Fatalf("Expected 5 bars, got %d", len(bars))
	}
	wantOrder := []string{"low", "medium", "high", "very_high", "critical"}
	total := 0
	sum := 0.0
	for i, bar := range bars {
		if bar.Label != wantOrder[i] {
			t.Errorf("Bar %d label = %q, want %q", i, bar.Label, wantOrder[i])
		}
		total += bar.Count
		sum += bar.Fraction
	}
	if total != r.Records {
		t.Errorf("Bars cover %d records, expected %d", total, r.Records)
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("Fractions sum to %f, expected 1", sum)
	}
}

func TestRiskDistributionEmptyReport(t *testing.T) {
	bars := RiskDistribution(&analysis.Report{RiskDistribution: map[string]int{}})
	for _, bar := range bars {
		if bar.Count != 0 || bar.Fraction != 0 {
			t.Errorf("Expected empty bar for %q, got count=%d fraction=%f", bar.Label, bar.Count, bar.Fraction)
		}
	}
}

func TestCategoricalBars(t *testing.T) {
	r := testReport(t)
	bars := CategoricalBars(r, "device_type")
	if len(bars) == 0 {
		t.Fatal("Expected bars for device_type")
	}
	for i := 1; i < len(bars); i++ {
		if bars[i].Count > bars[i-1].Count {
			t.Errorf("Bars not sorted by count at %d: %d > %d", i, bars[i].Count, bars[i-1].Count)
		}
	}
	if bars := CategoricalBars(r, "no_such_column"); len(bars) != 0 {
		t.Errorf("Expected no bars for unknown column, got %d", len(bars))
	}
}

func TestCategoricalColumnsStable(t *testing.T) {
	r := testReport(t)
	columns := CategoricalColumns(r)
	if len(columns) != len(r.Categorical) {
		t.Fatalf("Expected %d columns, got %d", len(r.Categorical), len(columns))
	}
	for i := 1; i < len(columns); i++ {
		if columns[i] < columns[i-1] {
			t.Errorf("Columns not sorted: %q before %q", columns[i-1], columns[i])
		}
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
		width    int
		want     int
	}{
		{"full", 1.0, 40, 40},
		{"half", 0.5, 40, 20},
		{"tiny but visible", 0.001, 40, 1},
		{"zero", 0, 40, 0},
		{"clamped above one", 1.5, 10, 10},
		{"zero width", 0.5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Count(RenderBar(tt.fraction, tt.width), "█")
			if got != tt.want {
				t.Errorf("RenderBar(%f, %d) = %d runes, want %d", tt.fraction, tt.width, got, tt.want)
			}
		})
	}
}

func TestNumericRows(t *testing.T) {
	r := testReport(t)
	rows := NumericRows(r)
	if len(rows) != len(r.Numeric) {
		t.Fatalf("Expected %d rows, got %d", len(r.Numeric), len(rows))
	}
	for _, row := range rows {
		if len(row) != 6 {
			t.Fatalf("Expected 6 cells per row, got %d", len(row))
		}
		if row[0] == "" {
			t.Error("Row has empty column name")
		}
	}
}

func TestCorrelationCell(t *testing.T) {
	tests := []struct {
		coefficient float64
		want        string
	}{
		{0.9, "+█"},
		{-0.9, "-█"},
		{0.6, "+▓"},
		{-0.3, "-▒"},
		{0.1, "+░"},
		{0.01, " ·"},
		{0, " ·"},
	}
	for _, tt := range tests {
		if got := CorrelationCell(tt.coefficient); got != tt.want {
			t.Errorf("CorrelationCell(%f) = %q, want %q", tt.coefficient, got, tt.want)
		}
	}
}

func TestCorrelationGrid(t *testing.T) {
	r := testReport(t)
	rows := CorrelationGrid(r.Correlations)
	if len(rows) != len(r.Correlations.Columns) {
		t.Fatalf("Expected %d rows, got %d", len(r.Correlations.Columns), len(rows))
	}
	// Diagonal is a perfect self-correlation and must render as a full shade.
	if !strings.Contains(rows[0], "+█") {
		t.Errorf("First row missing diagonal cell: %q", rows[0])
	}
	if rows := CorrelationGrid(nil); rows != nil {
		t.Errorf("Expected nil rows for nil matrix, got %v", rows)
	}
}

func TestRiskDrivers(t *testing.T) {
	r := testReport(t)
	positive, negative := RiskDrivers(r, 3)
	if len(positive) > 3 || len(negative) > 3 {
		t.Fatalf("Driver lists exceed limit: %d positive, %d negative", len(positive), len(negative))
	}
	for i, c := range positive {
		if c.Coefficient <= 0 {
			t.Errorf("Positive driver %d has coefficient %f", i, c.Coefficient)
		}
		if i > 0 && positive[i].Coefficient > positive[i-1].Coefficient {
			t.Errorf("Positive drivers not sorted strongest first at %d", i)
		}
	}
	for i, c := range negative {
		if c.Coefficient >= 0 {
			t.Errorf("Negative driver %d has coefficient %f", i, c.Coefficient)
		}
		if i > 0 && negative[i].Coefficient > negative[i-1].Coefficient {
			t.Errorf("Negative drivers not sorted strongest first at %d", i)
		}
	}
}

func TestSampleRecords(t *testing.T) {
	records := dataset.NewGenerator(3).Generate(100)

	sampled := SampleRecords(records, 10)
	if len(sampled) != 10 {
		t.Fatalf("Expected 10 sampled records, got %d", len(sampled))
	}
	if sampled[0].DeviceID != records[0].DeviceID {
		t.Error("Sample should start at the first record")
	}

	all := SampleRecords(records[:5], 10)
	if len(all) != 5 {
		t.Errorf("Expected all 5 records when under the limit, got %d", len(all))
	}
	if got := SampleRecords(records, 0); got != nil {
		t.Errorf("Expected nil for zero limit, got %d records", len(got))
	}
}

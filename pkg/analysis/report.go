package analysis

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// WriteReport writes the analysis to dir as a machine-readable JSON report
// plus CSV tables for the numeric summaries, categorical counts and the
// correlation matrix.
func WriteReport(dir string, r *Report) error {
	for _, sub := range []string{"categorical", "numerical", "correlations"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return fmt.Errorf("create analysis directory: %w", err)
		}
	}

	if err := writeJSON(filepath.Join(dir, "report.json"), r); err != nil {
		return err
	}
	if err := writeNumericCSV(filepath.Join(dir, "numerical", "summary.csv"), r.Numeric); err != nil {
		return err
	}
	for col, counts := range r.Categorical {
		path := filepath.Join(dir, "categorical", col+"_counts.csv")
		if err := writeCountsCSV(path, counts); err != nil {
			return err
		}
	}
	if err := writeMatrixCSV(filepath.Join(dir, "correlations", "matrix.csv"), r.Correlations); err != nil {
		return err
	}
	return writeRiskCorrelationsCSV(filepath.Join(dir, "correlations", "risk_correlations.csv"), r.RiskCorrelations)
}

// ReadReport loads a report previously written by WriteReport from dir.
func ReadReport(dir string) (*Report, error) {
	path := filepath.Join(dir, "report.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &r, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeNumericCSV(path string, stats []ColumnStats) error {
	rows := [][]string{{"column", "count", "mean", "std", "min", "q25", "median", "q75", "max"}}
	for _, s := range stats {
		rows = append(rows, []string{
			s.Column,
			strconv.Itoa(s.Count),
			formatFloat(s.Mean),
			formatFloat(s.Std),
			formatFloat(s.Min),
			formatFloat(s.Q25),
			formatFloat(s.Median),
			formatFloat(s.Q75),
			formatFloat(s.Max),
		})
	}
	return writeCSV(path, rows)
}

func writeCountsCSV(path string, counts []ValueCount) error {
	rows := [][]string{{"category", "count"}}
	for _, c := range counts {
		rows = append(rows, []string{c.Value, strconv.Itoa(c.Count)})
	}
	return writeCSV(path, rows)
}

func writeMatrixCSV(path string, m *CorrelationMatrix) error {
	header := append([]string{""}, m.Columns...)
	rows := [][]string{header}
	for i, col := range m.Columns {
		row := make([]string, 0, len(m.Columns)+1)
		row = append(row, col)
		for _, v := range m.Values[i] {
			row = append(row, formatFloat(v))
		}
		rows = append(rows, row)
	}
	return writeCSV(path, rows)
}

func writeRiskCorrelationsCSV(path string, correlations []Correlation) error {
	rows := [][]string{{"column", "coefficient"}}
	for _, c := range correlations {
		rows = append(rows, []string{c.Column, formatFloat(c.Coefficient)})
	}
	return writeCSV(path, rows)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// Package analysis computes descriptive statistics over generated device
// datasets: per-column summaries, categorical value counts, a Pearson
// correlation matrix, and the risk-level distribution.
package analysis

import (
	"errors"
	"math"
	"sort"

	"github.com/privalytics/riskpipe/pkg/dataset"
)

var ErrEmptyDataset = errors.New("analysis: dataset is empty")

// ColumnStats summarizes one numeric column.
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// ValueCount is one categorical value and how often it occurs.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Report is the full analysis of a dataset.
type Report struct {
	Records          int                     `json:"records"`
	Numeric          []ColumnStats           `json:"numeric"`
	Categorical      map[string][]ValueCount `json:"categorical"`
	Correlations     *CorrelationMatrix      `json:"correlations"`
	RiskCorrelations []Correlation           `json:"risk_correlations"`
	RiskDistribution map[string]int          `json:"risk_distribution"`
}

// CorrelationMatrix holds pairwise Pearson coefficients for the numeric
// columns plus the risk level, in Columns order.
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// Correlation pairs a column with its coefficient against the risk level.
type Correlation struct {
	Column      string  `json:"column"`
	Coefficient float64 `json:"coefficient"`
}

// Analyze computes the full report for a dataset.
func Analyze(records []dataset.Record) (*Report, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}

	r := &Report{
		Records:          len(records),
		Categorical:      make(map[string][]ValueCount, len(dataset.CategoricalColumns)),
		RiskDistribution: make(map[string]int, dataset.MaxRiskLevel),
	}

	for _, col := range dataset.NumericColumns {
		values := numericColumn(records, col)
		r.Numeric = append(r.Numeric, describe(col, values))
	}

	for _, col := range dataset.CategoricalColumns {
		r.Categorical[col] = countValues(records, col)
	}

	r.Correlations = correlationMatrix(records)
	r.RiskCorrelations = riskCorrelations(r.Correlations)

	for _, rec := range records {
		r.RiskDistribution[dataset.RiskLabel(rec.RiskLevel)]++
	}

	return r, nil
}

func numericColumn(records []dataset.Record, col string) []float64 {
	out := make([]float64, len(records))
	for i, rec := range records {
		out[i] = rec.Numeric(col)
	}
	return out
}

// describe computes the pandas-style summary: population std and linearly
// interpolated quartiles.
func describe(col string, values []float64) ColumnStats {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean := meanOf(values)
	return ColumnStats{
		Column: col,
		Count:  len(values),
		Mean:   mean,
		Std:    stdOf(values, mean),
		Min:    sorted[0],
		Q25:    quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q75:    quantile(sorted, 0.75),
		Max:    sorted[len(sorted)-1],
	}
}

func countValues(records []dataset.Record, col string) []ValueCount {
	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.Categorical(col)]++
	}

	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	// Most frequent first, name as tiebreak.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out
}

func correlationMatrix(records []dataset.Record) *CorrelationMatrix {
	cols := append(append([]string(nil), dataset.NumericColumns...), dataset.TargetColumn)

	series := make([][]float64, len(cols))
	for i, col := range cols {
		if col == dataset.TargetColumn {
			series[i] = make([]float64, len(records))
			for j, rec := range records {
				series[i][j] = float64(rec.RiskLevel)
			}
			continue
		}
		series[i] = numericColumn(records, col)
	}

	m := &CorrelationMatrix{
		Columns: cols,
		Values:  make([][]float64, len(cols)),
	}
	for i := range cols {
		m.Values[i] = make([]float64, len(cols))
		for j := range cols {
			if j < i {
				m.Values[i][j] = m.Values[j][i]
				continue
			}
			m.Values[i][j] = pearson(series[i], series[j])
		}
	}
	return m
}

// riskCorrelations extracts each column's coefficient against the risk level,
// sorted ascending the way the report presents them.
func riskCorrelations(m *CorrelationMatrix) []Correlation {
	target := len(m.Columns) - 1
	out := make([]Correlation, 0, target)
	for i, col := range m.Columns {
		if i == target {
			continue
		}
		out = append(out, Correlation{Column: col, Coefficient: m.Values[i][target]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Coefficient != out[j].Coefficient {
			return out[i].Coefficient < out[j].Coefficient
		}
		return out[i].Column < out[j].Column
	})
	return out
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdOf returns the sample standard deviation (n-1 denominator), matching
// what pandas-style describe output reports.
func stdOf(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

// quantile interpolates linearly between order statistics; sorted must be
// ascending and non-empty.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// pearson returns the correlation coefficient of two equal-length series.
// Constant series correlate as 0 rather than NaN so reports stay JSON-safe.
func pearson(x, y []float64) float64 {
	mx, my := meanOf(x), meanOf(y)

	var cov, vx, vy float64
	for i := range x {
		dx, dy := x[i]-mx, y[i]-my
		cov += dx * dy
		vx += dx * dx
		vy += dy * dy
	}
	if vx == 0 || vy == 0 {
		return 0
	}
	return cov / math.Sqrt(vx*vy)
}

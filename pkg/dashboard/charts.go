// Package dashboard assembles the view models the terminal dashboard
// renders: bar charts, stat tables, and correlation grids built from an
// analysis report. Everything here is pure so it can be tested without a
// terminal.
package dashboard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/privalytics/riskpipe/pkg/analysis"
	"github.com/privalytics/riskpipe/pkg/dataset"
)

// Bar is one row of a horizontal bar chart.
type Bar struct {
	Label    string
	Count    int
	Fraction float64
}

// riskLabelOrder lists risk labels from least to most severe.
var riskLabelOrder = []string{"low", "medium", "high", "very_high", "critical"}

// RiskDistribution turns the report's risk counts into chart bars ordered
// by severity. Labels with zero records are kept so the chart shape is
// stable across datasets.
func RiskDistribution(r *analysis.Report) []Bar {
	total := 0
	for _, count := range r.RiskDistribution {
		total += count
	}

	bars := make([]Bar, 0, len(riskLabelOrder))
	for _, label := range riskLabelOrder {
		count := r.RiskDistribution[label]
		fraction := 0.0
		if total > 0 {
			fraction = float64(count) / float64(total)
		}
		bars = append(bars, Bar{Label: label, Count: count, Fraction: fraction})
	}
	return bars
}

// CategoricalBars turns one categorical column's value counts into chart
// bars, most frequent first.
func CategoricalBars(r *analysis.Report, column string) []Bar {
	counts := r.Categorical[column]
	total := 0
	for _, vc := range counts {
		total += vc.Count
	}

	bars := make([]Bar, 0, len(counts))
	for _, vc := range counts {
		fraction := 0.0
		if total > 0 {
			fraction = float64(vc.Count) / float64(total)
		}
		bars = append(bars, Bar{Label: vc.Value, Count: vc.Count, Fraction: fraction})
	}
	return bars
}

// CategoricalColumns returns the report's categorical columns in a stable
// order for tab cycling.
func CategoricalColumns(r *analysis.Report) []string {
	columns := make([]string, 0, len(r.Categorical))
	for column := range r.Categorical {
		columns = append(columns, column)
	}
	sort.Strings(columns)
	return columns
}

// RenderBar draws a bar of the given fraction scaled to width runes.
// A non-zero fraction always draws at least one rune.
func RenderBar(fraction float64, width int) string {
	if width <= 0 || fraction <= 0 {
		return ""
	}
	if fraction > 1 {
		fraction = 1
	}
	n := int(fraction * float64(width))
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}

// NumericRows formats the per-column summaries as table rows:
// column, mean, std, min, median, max.
func NumericRows(r *analysis.Report) [][]string {
	rows := make([][]string, 0, len(r.Numeric))
	for _, cs := range r.Numeric {
		rows = append(rows, []string{
			cs.Column,
			fmt.Sprintf("%.2f", cs.Mean),
			fmt.Sprintf("%.2f", cs.Std),
			fmt.Sprintf("%.1f", cs.Min),
			fmt.Sprintf("%.1f", cs.Median),
			fmt.Sprintf("%.1f", cs.Max),
		})
	}
	return rows
}

// CorrelationCell maps a Pearson coefficient to a display glyph: darker
// shades for stronger magnitude, with the sign attached.
func CorrelationCell(coefficient float64) string {
	magnitude := coefficient
	if magnitude < 0 {
		magnitude = -magnitude
	}

	var shade string
	switch {
	case magnitude >= 0.75:
		shade = "█"
	case magnitude >= 0.5:
		shade = "▓"
	case magnitude >= 0.25:
		shade = "▒"
	case magnitude > 0.05:
		shade = "░"
	default:
		return " ·"
	}

	if coefficient < 0 {
		return "-" + shade
	}
	return "+" + shade
}

// CorrelationGrid renders the correlation matrix as text rows, one per
// column, cells in Columns order.
func CorrelationGrid(m *analysis.CorrelationMatrix) []string {
	if m == nil {
		return nil
	}
	rows := make([]string, 0, len(m.Columns))
	for i, column := range m.Columns {
		var b strings.Builder
		fmt.Fprintf(&b, "%-24s", column)
		for j := range m.Columns {
			b.WriteString(CorrelationCell(m.Values[i][j]))
			b.WriteByte(' ')
		}
		rows = append(rows, strings.TrimRight(b.String(), " "))
	}
	return rows
}

// RiskDrivers returns the columns most positively and most negatively
// correlated with the risk level, strongest first on each side.
func RiskDrivers(r *analysis.Report, limit int) (positive, negative []analysis.Correlation) {
	// RiskCorrelations is sorted ascending by coefficient.
	for i := len(r.RiskCorrelations) - 1; i >= 0 && len(positive) < limit; i-- {
		c := r.RiskCorrelations[i]
		if c.Coefficient > 0 {
			positive = append(positive, c)
		}
	}
	for _, c := range r.RiskCorrelations {
		if len(negative) == limit {
			break
		}
		if c.Coefficient < 0 {
			negative = append(negative, c)
		}
	}
	return positive, negative
}

// SampleRecords picks every stride-th record up to limit, a cheap spread
// across the dataset for the live prediction feed.
func SampleRecords(records []dataset.Record, limit int) []dataset.Record {
	if limit <= 0 || len(records) == 0 {
		return nil
	}
	if len(records) <= limit {
		out := make([]dataset.Record, len(records))
		copy(out, records)
		return out
	}
	stride := len(records) / limit
	out := make([]dataset.Record, 0, limit)
	for i := 0; i < len(records) && len(out) < limit; i += stride {
		out = append(out, records[i])
	}
	return out
}

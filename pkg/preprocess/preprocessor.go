// Package preprocess turns raw IoT privacy records into the numeric feature
// matrix the risk classifier consumes. Categorical columns are label-encoded,
// booleans become 0/1, and numeric columns are standard-scaled. All fitted
// state is learned once on training data and reused unchanged at inference.
package preprocess

import (
	"github.com/privalytics/riskpipe/pkg/dataset"
)

// Preprocessor holds the fitted per-column encoders and the numeric scaler.
// The zero value is unfitted; call Fit (or load a saved artifact) first.
type Preprocessor struct {
	Encoders       map[string]*LabelEncoder
	Scaler         *StandardScaler
	FeatureColumns []string
}

// New creates an unfitted preprocessor over the canonical column groups.
func New() *Preprocessor {
	return &Preprocessor{}
}

// Fitted reports whether Fit has run (or fitted state has been loaded).
func (p *Preprocessor) Fitted() bool {
	return len(p.FeatureColumns) > 0 && p.Scaler != nil && p.Scaler.Fitted()
}

// Fit learns encoder vocabularies and scaler statistics from training records.
func (p *Preprocessor) Fit(records []dataset.Record) error {
	p.Encoders = make(map[string]*LabelEncoder, len(dataset.CategoricalColumns))
	for _, col := range dataset.CategoricalColumns {
		values := make([]string, len(records))
		for i := range records {
			values[i] = records[i].Categorical(col)
		}
		enc := NewLabelEncoder(col)
		enc.Fit(values)
		p.Encoders[col] = enc
	}

	numeric := make([][]float64, len(records))
	for i := range records {
		row := make([]float64, len(dataset.NumericColumns))
		for j, col := range dataset.NumericColumns {
			row[j] = records[i].Numeric(col)
		}
		numeric[i] = row
	}
	p.Scaler = NewStandardScaler(dataset.NumericColumns)
	p.Scaler.Fit(numeric)

	p.FeatureColumns = featureColumns()
	return nil
}

// Transform encodes records into the feature matrix. Every record must draw
// its categorical values from the training vocabulary.
func (p *Preprocessor) Transform(records []dataset.Record) ([][]float64, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}
	matrix := make([][]float64, len(records))
	for i := range records {
		row, err := p.TransformRecord(&records[i])
		if err != nil {
			return nil, err
		}
		matrix[i] = row
	}
	return matrix, nil
}

// TransformRecord encodes a single record into a feature vector. The layout
// is categorical codes, then booleans, then scaled numerics, matching
// FeatureColumns.
func (p *Preprocessor) TransformRecord(r *dataset.Record) ([]float64, error) {
	if !p.Fitted() {
		return nil, ErrNotFitted
	}

	row := make([]float64, 0, len(p.FeatureColumns))

	for _, col := range dataset.CategoricalColumns {
		code, err := p.Encoders[col].Transform(r.Categorical(col))
		if err != nil {
			return nil, err
		}
		row = append(row, float64(code))
	}

	for _, col := range dataset.BooleanColumns {
		if r.Boolean(col) {
			row = append(row, 1)
		} else {
			row = append(row, 0)
		}
	}

	numeric := make([]float64, len(dataset.NumericColumns))
	for j, col := range dataset.NumericColumns {
		numeric[j] = r.Numeric(col)
	}
	scaled, err := p.Scaler.Transform(numeric)
	if err != nil {
		return nil, err
	}
	row = append(row, scaled...)

	return row, nil
}

// FitTransform fits on records and returns their feature matrix plus the
// risk-level targets.
func (p *Preprocessor) FitTransform(records []dataset.Record) ([][]float64, []int, error) {
	if err := p.Fit(records); err != nil {
		return nil, nil, err
	}
	matrix, err := p.Transform(records)
	if err != nil {
		return nil, nil, err
	}
	return matrix, Labels(records), nil
}

// Labels extracts the risk-level targets from records.
func Labels(records []dataset.Record) []int {
	y := make([]int, len(records))
	for i := range records {
		y[i] = records[i].RiskLevel
	}
	return y
}

func featureColumns() []string {
	cols := make([]string, 0,
		len(dataset.CategoricalColumns)+len(dataset.BooleanColumns)+len(dataset.NumericColumns))
	cols = append(cols, dataset.CategoricalColumns...)
	cols = append(cols, dataset.BooleanColumns...)
	cols = append(cols, dataset.NumericColumns...)
	return cols
}

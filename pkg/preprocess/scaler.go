package preprocess

import "math"

// StandardScaler centers each numeric column to zero mean and unit variance.
// Columns with zero variance pass through unscaled.
type StandardScaler struct {
	Columns []string
	Mean    []float64
	Std     []float64
}

// NewStandardScaler creates an unfitted scaler over the given columns.
func NewStandardScaler(columns []string) *StandardScaler {
	return &StandardScaler{Columns: columns}
}

// Fitted reports whether the scaler has learned statistics.
func (s *StandardScaler) Fitted() bool {
	return len(s.Mean) == len(s.Columns) && len(s.Columns) > 0
}

// Fit computes per-column mean and population standard deviation.
// values is row-major: values[row][col] aligned with s.Columns.
func (s *StandardScaler) Fit(values [][]float64) {
	n := len(values)
	cols := len(s.Columns)
	s.Mean = make([]float64, cols)
	s.Std = make([]float64, cols)
	if n == 0 {
		for j := range s.Std {
			s.Std[j] = 1
		}
		return
	}

	for j := 0; j < cols; j++ {
		var sum float64
		for i := 0; i < n; i++ {
			sum += values[i][j]
		}
		s.Mean[j] = sum / float64(n)

		var sq float64
		for i := 0; i < n; i++ {
			d := values[i][j] - s.Mean[j]
			sq += d * d
		}
		s.Std[j] = math.Sqrt(sq / float64(n))
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
}

// Transform scales a single row in place-safe fashion and returns the result.
func (s *StandardScaler) Transform(row []float64) ([]float64, error) {
	if !s.Fitted() {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(row))
	for j := range row {
		out[j] = (row[j] - s.Mean[j]) / s.Std[j]
	}
	return out, nil
}

// Inverse undoes Transform for a single row.
func (s *StandardScaler) Inverse(row []float64) ([]float64, error) {
	if !s.Fitted() {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(row))
	for j := range row {
		out[j] = row[j]*s.Std[j] + s.Mean[j]
	}
	return out, nil
}

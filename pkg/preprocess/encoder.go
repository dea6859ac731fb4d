package preprocess

import (
	"fmt"
	"sort"
)

// LabelEncoder maps categorical string values to integer codes. Codes are
// assigned by sorted vocabulary order, fitted once on training data. The
// fitted mapping must be reused verbatim at inference time.
type LabelEncoder struct {
	Column  string
	Classes []string

	index map[string]int
}

// NewLabelEncoder creates an unfitted encoder for the named column.
func NewLabelEncoder(column string) *LabelEncoder {
	return &LabelEncoder{Column: column}
}

// Fit learns the vocabulary from the given values. Duplicates are collapsed
// and codes follow lexical order, so fitting is order-independent.
func (e *LabelEncoder) Fit(values []string) {
	seen := make(map[string]bool, len(values))
	classes := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			classes = append(classes, v)
		}
	}
	sort.Strings(classes)
	e.Classes = classes
	e.buildIndex()
}

// Fitted reports whether the encoder has a vocabulary.
func (e *LabelEncoder) Fitted() bool {
	return len(e.Classes) > 0
}

// Transform returns the code for value, or an UnknownCategoryError when the
// value was not seen during fitting.
func (e *LabelEncoder) Transform(value string) (int, error) {
	if !e.Fitted() {
		return 0, ErrNotFitted
	}
	if e.index == nil {
		e.buildIndex()
	}
	code, ok := e.index[value]
	if !ok {
		return 0, &UnknownCategoryError{Column: e.Column, Value: value}
	}
	return code, nil
}

// Inverse returns the category for a code produced by Transform.
func (e *LabelEncoder) Inverse(code int) (string, error) {
	if !e.Fitted() {
		return "", ErrNotFitted
	}
	if code < 0 || code >= len(e.Classes) {
		return "", fmt.Errorf("code %d outside vocabulary of %d classes for column %s", code, len(e.Classes), e.Column)
	}
	return e.Classes[code], nil
}

// buildIndex rebuilds the lookup map. Called after Fit and after the encoder
// is decoded from a saved artifact, where only Classes survives.
func (e *LabelEncoder) buildIndex() {
	e.index = make(map[string]int, len(e.Classes))
	for i, c := range e.Classes {
		e.index[c] = i
	}
}

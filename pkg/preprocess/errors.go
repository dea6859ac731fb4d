package preprocess

import (
	"errors"
	"fmt"
)

// ErrNotFitted is returned when a transform is requested before Fit.
var ErrNotFitted = errors.New("preprocessor is not fitted")

// UnknownCategoryError reports an inference-time category that was not part
// of the training vocabulary. Failing loudly here is deliberate: silently
// assigning a fresh code would remap categories under the trained model.
type UnknownCategoryError struct {
	Column string
	Value  string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown category %q for column %s", e.Value, e.Column)
}

// IsUnknownCategory reports whether err is an UnknownCategoryError.
func IsUnknownCategory(err error) bool {
	var uce *UnknownCategoryError
	return errors.As(err, &uce)
}

package classifier

import (
	"errors"
	"fmt"
)

// ErrNotTrained is returned when predictions are requested before Train.
var ErrNotTrained = errors.New("model is not trained")

// ErrEmptyTrainingSet is returned when Train receives no samples.
var ErrEmptyTrainingSet = errors.New("training set is empty")

// FeatureMismatchError reports a feature-width disagreement between the
// matrix used at training time and the one offered for prediction.
type FeatureMismatchError struct {
	Trained int
	Got     int
}

func (e *FeatureMismatchError) Error() string {
	return fmt.Sprintf("feature count mismatch: model trained on %d features, got %d", e.Trained, e.Got)
}

// IsFeatureMismatch reports whether err is a FeatureMismatchError.
func IsFeatureMismatch(err error) bool {
	var fme *FeatureMismatchError
	return errors.As(err, &fme)
}

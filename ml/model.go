package ml

import "errors"

var (
	ErrNotTrained      = errors.New("model has no parameters")
	ErrFeatureMismatch = errors.New("feature vector length does not match model")
)

// Regressor is a trained model producing one numeric output per feature vector.
// Implementations are immutable after Load and safe for concurrent Predict calls.
type Regressor interface {
	Predict(features []float64) (float64, error)
	NumFeatures() int
}

// FixedWidth is implemented by regressors for which NumFeatures is the exact
// vector length rather than a lower bound.
type FixedWidth interface {
	ExactWidth() bool
}

package ml

import (
	"encoding/json"
	"fmt"
	"os"
)

// LinearRegression is an ordinary least squares model exported as its fitted
// coefficients and intercept.
type LinearRegression struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

func (lr *LinearRegression) Predict(features []float64) (float64, error) {
	if len(lr.Coefficients) == 0 {
		return 0, ErrNotTrained
	}
	if len(features) != len(lr.Coefficients) {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrFeatureMismatch, len(features), len(lr.Coefficients))
	}
	sum := lr.Intercept
	for i, coef := range lr.Coefficients {
		sum += coef * features[i]
	}
	return sum, nil
}

func (lr *LinearRegression) NumFeatures() int {
	return len(lr.Coefficients)
}

// ExactWidth is true: Predict rejects any vector not NumFeatures long.
func (lr *LinearRegression) ExactWidth() bool {
	return true
}

func (lr *LinearRegression) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var decoded LinearRegression
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return fmt.Errorf("decode linear regression: %w", err)
	}
	if len(decoded.Coefficients) == 0 {
		return ErrNotTrained
	}
	*lr = decoded
	return nil
}

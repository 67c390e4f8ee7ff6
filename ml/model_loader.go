package ml

import (
	"fmt"
)

const (
	ModelTypeLinearRegression = "linear_regression"
	ModelTypeDecisionTree     = "decision_tree"
)

// LoadModel reads a serialized regressor of the given type from path.
func LoadModel(modelType, path string) (Regressor, error) {
	switch modelType {
	case ModelTypeLinearRegression, "":
		model := &LinearRegression{}
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	case ModelTypeDecisionTree:
		model := &DecisionTree{}
		if err := model.Load(path); err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported model type %q", modelType)
	}
}

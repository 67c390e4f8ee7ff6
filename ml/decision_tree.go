package ml

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// DecisionTree is a regression tree stored as a flat node array. Node 0 is
// the root; children are addressed by index.
type DecisionTree struct {
	nodes       []TreeNode
	numFeatures int
}

type TreeNode struct {
	FeatureIdx int     `json:"feature_idx"`
	Threshold  float64 `json:"threshold"`
	LeftChild  int     `json:"left_child"`
	RightChild int     `json:"right_child"`
	Value      float64 `json:"value"`
	IsLeaf     bool    `json:"is_leaf"`
}

// NewDecisionTree builds a tree from already fitted nodes.
func NewDecisionTree(nodes []TreeNode) (*DecisionTree, error) {
	dt := &DecisionTree{}
	if err := dt.setNodes(nodes); err != nil {
		return nil, err
	}
	return dt, nil
}

func (dt *DecisionTree) Predict(features []float64) (float64, error) {
	if len(dt.nodes) == 0 {
		return 0, ErrNotTrained
	}
	if len(features) < dt.numFeatures {
		return 0, fmt.Errorf("%w: got %d, need at least %d", ErrFeatureMismatch, len(features), dt.numFeatures)
	}
	idx := 0
	// a valid tree reaches a leaf in at most len(nodes) steps
	for steps := 0; steps <= len(dt.nodes); steps++ {
		node := dt.nodes[idx]
		if node.IsLeaf {
			return node.Value, nil
		}
		if features[node.FeatureIdx] <= node.Threshold {
			idx = node.LeftChild
		} else {
			idx = node.RightChild
		}
	}
	return 0, errors.New("invalid tree state: cycle detected")
}

// NumFeatures reports the minimum vector length the tree reads.
func (dt *DecisionTree) NumFeatures() int {
	return dt.numFeatures
}

func (dt *DecisionTree) Load(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var nodes []TreeNode
	if err := json.Unmarshal(payload, &nodes); err != nil {
		return fmt.Errorf("decode decision tree: %w", err)
	}
	return dt.setNodes(nodes)
}

func (dt *DecisionTree) setNodes(nodes []TreeNode) error {
	if len(nodes) == 0 {
		return ErrNotTrained
	}
	maxFeature := -1
	for i, node := range nodes {
		if node.IsLeaf {
			continue
		}
		if node.FeatureIdx < 0 {
			return fmt.Errorf("node %d: negative feature index", i)
		}
		if node.LeftChild < 0 || node.LeftChild >= len(nodes) || node.RightChild < 0 || node.RightChild >= len(nodes) {
			return fmt.Errorf("node %d: child index out of range", i)
		}
		if node.FeatureIdx > maxFeature {
			maxFeature = node.FeatureIdx
		}
	}
	dt.nodes = nodes
	dt.numFeatures = maxFeature + 1
	return nil
}

package ml

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeModelFile(t *testing.T, path string, v any) {
	t.Helper()
	payload, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, payload, 0o600); err != nil {
		t.Fatal(err)
	}
}

func sampleTree(t *testing.T) *DecisionTree {
	t.Helper()
	tree, err := NewDecisionTree([]TreeNode{
		{FeatureIdx: 0, Threshold: 1000, LeftChild: 1, RightChild: 2},
		{IsLeaf: true, Value: 4_500_000},
		{FeatureIdx: 3, Threshold: 0.5, LeftChild: 3, RightChild: 4},
		{IsLeaf: true, Value: 8_000_000},
		{IsLeaf: true, Value: 15_000_000},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tree
}

func TestDecisionTreePredict(t *testing.T) {
	tree := sampleTree(t)
	if tree.NumFeatures() != 4 {
		t.Fatalf("expected 4 features, got %d", tree.NumFeatures())
	}

	tests := []struct {
		features []float64
		want     float64
	}{
		{[]float64{800, 2, 1, 0}, 4_500_000},
		{[]float64{1200, 3, 2, 0}, 8_000_000},
		{[]float64{1200, 3, 2, 1, 0}, 15_000_000},
	}
	for _, tt := range tests {
		got, err := tree.Predict(tt.features)
		if err != nil {
			t.Fatalf("Predict(%v): unexpected error: %v", tt.features, err)
		}
		if got != tt.want {
			t.Errorf("Predict(%v) = %.0f; want %.0f", tt.features, got, tt.want)
		}
	}
}

func TestDecisionTreeShortVector(t *testing.T) {
	tree := sampleTree(t)
	if _, err := tree.Predict([]float64{1200, 3}); !errors.Is(err, ErrFeatureMismatch) {
		t.Fatalf("expected ErrFeatureMismatch, got %v", err)
	}
}

func TestDecisionTreeLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tree.json")
	writeModelFile(t, path, sampleTree(t).nodes)
	loaded := &DecisionTree{}
	if err := loaded.Load(path); err != nil {
		t.Fatalf("load: %v", err)
	}
	got, err := loaded.Predict([]float64{1200, 3, 2, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 15_000_000 {
		t.Fatalf("expected 15000000, got %.0f", got)
	}
}

func TestDecisionTreeRejectsBadChildren(t *testing.T) {
	_, err := NewDecisionTree([]TreeNode{{FeatureIdx: 0, LeftChild: 1, RightChild: 7}, {IsLeaf: true}})
	if err == nil {
		t.Fatal("expected error for out of range child")
	}
}

func TestDecisionTreeDetectsCycle(t *testing.T) {
	tree, err := NewDecisionTree([]TreeNode{
		{FeatureIdx: 0, Threshold: 10, LeftChild: 1, RightChild: 1},
		{FeatureIdx: 0, Threshold: 10, LeftChild: 0, RightChild: 0},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tree.Predict([]float64{1}); err == nil {
		t.Fatal("expected cycle error")
	}
}

package ensemble

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/yourusername/gridcast/internal/features"
)

// forestExport mirrors the JSON layout of an exported random forest:
// the flat feature schema the model was fitted against plus per-tree
// node arrays in the usual children/feature/threshold/value encoding.
type forestExport struct {
	Task     string       `json:"task"`
	Features []string     `json:"features"`
	Trees    []treeExport `json:"trees"`
}

type treeExport struct {
	ChildrenLeft  []int     `json:"children_left"`
	ChildrenRight []int     `json:"children_right"`
	Feature       []int     `json:"feature"`
	Threshold     []float64 `json:"threshold"`
	Value         []float64 `json:"value"`
}

// Tree is one regression tree evaluated over a flattened vector.
type Tree struct {
	schema []string
	export treeExport
}

// Predict walks the tree from the root. Leaf nodes carry -1 children.
func (t *Tree) Predict(vector features.FlatVector) (float64, error) {
	node := 0
	for t.export.ChildrenLeft[node] != -1 {
		idx := t.export.Feature[node]
		if idx < 0 || idx >= len(t.schema) {
			return 0, fmt.Errorf("tree references feature index %d outside schema", idx)
		}
		name := t.schema[idx]
		value, ok := vector[name]
		if !ok {
			return 0, fmt.Errorf("vector missing feature %q", name)
		}
		if value <= t.export.Threshold[node] {
			node = t.export.ChildrenLeft[node]
		} else {
			node = t.export.ChildrenRight[node]
		}
	}
	return t.export.Value[node], nil
}

// treeRegressor adapts a Tree to the Regressor interface.
type treeRegressor struct {
	tree *Tree
}

func (r treeRegressor) Predict(vector features.FlatVector) (float64, error) {
	return r.tree.Predict(vector)
}

// Forest is a loaded ensemble artifact.
type Forest struct {
	Task     string
	Features []string
	trees    []*Tree
}

// LoadForest reads an exported forest artifact from disk.
func LoadForest(path string) (*Forest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact %s: %w", path, err)
	}
	return ParseForest(data)
}

// ParseForest decodes an exported forest and validates its tree arrays.
func ParseForest(data []byte) (*Forest, error) {
	var export forestExport
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse model artifact: %w", err)
	}
	if len(export.Trees) == 0 {
		return nil, fmt.Errorf("model artifact contains no trees")
	}
	if len(export.Features) == 0 {
		return nil, fmt.Errorf("model artifact declares no feature schema")
	}

	forest := &Forest{Task: export.Task, Features: export.Features}
	for i, tree := range export.Trees {
		n := len(tree.ChildrenLeft)
		if len(tree.ChildrenRight) != n || len(tree.Feature) != n ||
			len(tree.Threshold) != n || len(tree.Value) != n {
			return nil, fmt.Errorf("tree %d has inconsistent node arrays", i)
		}
		if n == 0 {
			return nil, fmt.Errorf("tree %d is empty", i)
		}
		forest.trees = append(forest.trees, &Tree{schema: export.Features, export: tree})
	}
	return forest, nil
}

// Members returns the forest's trees as an Ensemble.
func (f *Forest) Members() Ensemble {
	members := make(Ensemble, len(f.trees))
	for i, tree := range f.trees {
		members[i] = treeRegressor{tree: tree}
	}
	return members
}

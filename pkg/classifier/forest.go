package classifier

import "encoding/json"

// TreeNode is one node of a CART tree. Leaves have Feature -1 and carry
// per-class weights in Value. Children always come after their parent.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left,omitempty"`
	Right     int       `json:"right,omitempty"`
	Value     []float64 `json:"value,omitempty"`
}

// Tree is a flat list of nodes rooted at index 0.
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// ForestParams is the serialized form of a random forest.
type ForestParams struct {
	Trees []Tree `json:"trees"`
}

// RandomForest averages the normalized class weights of its trees and picks
// the higher class.
type RandomForest struct {
	nFeatures int
	trees     []Tree
}

func decodeRandomForest(nFeatures int, raw json.RawMessage) (*RandomForest, error) {
	var p ForestParams
	if err := decodeParams(KindRandomForest, raw, &p); err != nil {
		return nil, err
	}
	if len(p.Trees) == 0 {
		return nil, shapeError(KindRandomForest, "no trees")
	}
	for t, tree := range p.Trees {
		if len(tree.Nodes) == 0 {
			return nil, shapeError(KindRandomForest, "tree %d has no nodes", t)
		}
		for i, n := range tree.Nodes {
			if n.Feature < 0 {
				if len(n.Value) != 2 {
					return nil, shapeError(KindRandomForest, "tree %d leaf %d has %d class weights, want 2", t, i, len(n.Value))
				}
				continue
			}
			if n.Feature >= nFeatures {
				return nil, shapeError(KindRandomForest, "tree %d node %d splits on feature %d of %d", t, i, n.Feature, nFeatures)
			}
			if !validChild(i, n.Left, len(tree.Nodes)) || !validChild(i, n.Right, len(tree.Nodes)) {
				return nil, shapeError(KindRandomForest, "tree %d node %d has invalid children %d/%d", t, i, n.Left, n.Right)
			}
		}
	}
	return &RandomForest{nFeatures: nFeatures, trees: p.Trees}, nil
}

func validChild(parent, child, size int) bool {
	return child > parent && child < size
}

func (f *RandomForest) Kind() string     { return KindRandomForest }
func (f *RandomForest) NumFeatures() int { return f.nFeatures }

func (f *RandomForest) Predict(row SparseVector) (int, error) {
	if err := checkRow(KindRandomForest, f.nFeatures, row); err != nil {
		return 0, err
	}
	proba := make([]float64, 2)
	for _, tree := range f.trees {
		leaf := tree.leaf(row)
		total := leaf.Value[0] + leaf.Value[1]
		if total <= 0 {
			continue
		}
		proba[0] += leaf.Value[0] / total
		proba[1] += leaf.Value[1] / total
	}
	return argmax(proba), nil
}

// leaf walks the tree; samples with x[feature] <= threshold go left.
func (t Tree) leaf(row SparseVector) TreeNode {
	n := t.Nodes[0]
	for n.Feature >= 0 {
		if row.At(n.Feature) <= n.Threshold {
			n = t.Nodes[n.Left]
		} else {
			n = t.Nodes[n.Right]
		}
	}
	return n
}

package classifier

import (
	"encoding/json"
	"math"
)

// BoostNode is one node of a gradient boosted regression tree. Leaves have
// Feature -1. Features absent from a sparse row count as missing and follow
// DefaultLeft.
type BoostNode struct {
	Feature     int     `json:"feature"`
	Threshold   float64 `json:"threshold"`
	Left        int     `json:"left,omitempty"`
	Right       int     `json:"right,omitempty"`
	DefaultLeft bool    `json:"default_left,omitempty"`
	Leaf        float64 `json:"leaf,omitempty"`
}

// BoostTree is a flat list of nodes rooted at index 0.
type BoostTree struct {
	Nodes []BoostNode `json:"nodes"`
}

// BoostParams is the serialized form of a binary:logistic booster.
// BaseScore is a probability.
type BoostParams struct {
	BaseScore float64     `json:"base_score"`
	Trees     []BoostTree `json:"trees"`
}

// XGBoost sums the leaf values of every tree on top of the base margin and
// predicts phishing when the margin is positive.
type XGBoost struct {
	nFeatures  int
	baseMargin float64
	trees      []BoostTree
}

func decodeXGBoost(nFeatures int, raw json.RawMessage) (*XGBoost, error) {
	var p BoostParams
	if err := decodeParams(KindXGBoost, raw, &p); err != nil {
		return nil, err
	}
	if p.BaseScore <= 0 || p.BaseScore >= 1 {
		return nil, shapeError(KindXGBoost, "base_score %v outside (0, 1)", p.BaseScore)
	}
	if len(p.Trees) == 0 {
		return nil, shapeError(KindXGBoost, "no trees")
	}
	for t, tree := range p.Trees {
		if len(tree.Nodes) == 0 {
			return nil, shapeError(KindXGBoost, "tree %d has no nodes", t)
		}
		for i, n := range tree.Nodes {
			if n.Feature < 0 {
				continue
			}
			if n.Feature >= nFeatures {
				return nil, shapeError(KindXGBoost, "tree %d node %d splits on feature %d of %d", t, i, n.Feature, nFeatures)
			}
			if !validChild(i, n.Left, len(tree.Nodes)) || !validChild(i, n.Right, len(tree.Nodes)) {
				return nil, shapeError(KindXGBoost, "tree %d node %d has invalid children %d/%d", t, i, n.Left, n.Right)
			}
		}
	}
	return &XGBoost{
		nFeatures:  nFeatures,
		baseMargin: math.Log(p.BaseScore / (1 - p.BaseScore)),
		trees:      p.Trees,
	}, nil
}

func (b *XGBoost) Kind() string     { return KindXGBoost }
func (b *XGBoost) NumFeatures() int { return b.nFeatures }

// Margin returns the raw boosted score before the logistic link.
func (b *XGBoost) Margin(row SparseVector) (float64, error) {
	if err := checkRow(KindXGBoost, b.nFeatures, row); err != nil {
		return 0, err
	}
	margin := b.baseMargin
	for _, tree := range b.trees {
		margin += tree.leaf(row)
	}
	return margin, nil
}

func (b *XGBoost) Predict(row SparseVector) (int, error) {
	m, err := b.Margin(row)
	if err != nil {
		return 0, err
	}
	if sigmoid(m) > 0.5 {
		return 1, nil
	}
	return 0, nil
}

// leaf walks the tree; present values below the threshold go left.
func (t BoostTree) leaf(row SparseVector) float64 {
	n := t.Nodes[0]
	for n.Feature >= 0 {
		v, ok := row.Lookup(n.Feature)
		goLeft := n.DefaultLeft
		if ok {
			goLeft = v < n.Threshold
		}
		if goLeft {
			n = t.Nodes[n.Left]
		} else {
			n = t.Nodes[n.Right]
		}
	}
	return n.Leaf
}

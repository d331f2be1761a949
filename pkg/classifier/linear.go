package classifier

import (
	"encoding/json"
	"math"
)

// LinearParams is the serialized form of a linear SVM or logistic regression.
type LinearParams struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// LinearModel predicts phishing when w·x + b is positive. For logistic
// regression that is the same as p(phishing) > 0.5.
type LinearModel struct {
	kind      string
	coef      []float64
	intercept float64
}

func decodeLinear(kind string, nFeatures int, raw json.RawMessage) (*LinearModel, error) {
	var p LinearParams
	if err := decodeParams(kind, raw, &p); err != nil {
		return nil, err
	}
	if len(p.Coef) != nFeatures {
		return nil, shapeError(kind, "%d coefficients, want %d", len(p.Coef), nFeatures)
	}
	return &LinearModel{kind: kind, coef: p.Coef, intercept: p.Intercept}, nil
}

func (m *LinearModel) Kind() string     { return m.kind }
func (m *LinearModel) NumFeatures() int { return len(m.coef) }

// Decision returns the signed distance from the separating hyperplane.
func (m *LinearModel) Decision(row SparseVector) (float64, error) {
	if err := checkRow(m.kind, len(m.coef), row); err != nil {
		return 0, err
	}
	return row.Dot(m.coef) + m.intercept, nil
}

// Probability returns the logistic of the decision value.
func (m *LinearModel) Probability(row SparseVector) (float64, error) {
	d, err := m.Decision(row)
	if err != nil {
		return 0, err
	}
	return sigmoid(d), nil
}

func (m *LinearModel) Predict(row SparseVector) (int, error) {
	d, err := m.Decision(row)
	if err != nil {
		return 0, err
	}
	if d > 0 {
		return 1, nil
	}
	return 0, nil
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

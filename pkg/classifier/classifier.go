package classifier

import (
	"fmt"
	"sort"

	"phishguard/internal/models"
)

// SparseVector is a single feature row. Indices are sorted and unique.
type SparseVector struct {
	Dim     int
	Indices []int
	Values  []float64
}

// At returns the value stored for feature i, or 0 when it is absent.
func (v SparseVector) At(i int) float64 {
	val, _ := v.Lookup(i)
	return val
}

// Lookup returns the value stored for feature i and whether it is present.
func (v SparseVector) Lookup(i int) (float64, bool) {
	pos := sort.SearchInts(v.Indices, i)
	if pos < len(v.Indices) && v.Indices[pos] == i {
		return v.Values[pos], true
	}
	return 0, false
}

// Dot returns the inner product with a dense weight vector of length v.Dim.
func (v SparseVector) Dot(w []float64) float64 {
	var sum float64
	for k, i := range v.Indices {
		sum += v.Values[k] * w[i]
	}
	return sum
}

// Vectorizer turns raw text into feature rows, one row per input.
type Vectorizer interface {
	Transform(texts []string) ([]SparseVector, error)
	Dim() int
}

// Classifier is a binary predictor over rows produced by a Vectorizer.
// Predict returns 0 for legitimate and 1 for phishing.
type Classifier interface {
	Kind() string
	NumFeatures() int
	Predict(row SparseVector) (int, error)
}

// checkRow rejects rows of the wrong dimension and rows whose indices are not
// sorted, unique and inside [0, Dim).
func checkRow(kind string, nFeatures int, row SparseVector) error {
	if row.Dim != nFeatures {
		return fmt.Errorf("%w: %s expects %d features, row has %d", models.ErrDimensionMismatch, kind, nFeatures, row.Dim)
	}
	if len(row.Indices) != len(row.Values) {
		return fmt.Errorf("%w: %s row has %d indices and %d values", models.ErrDimensionMismatch, kind, len(row.Indices), len(row.Values))
	}
	prev := -1
	for _, i := range row.Indices {
		if i <= prev || i >= row.Dim {
			return fmt.Errorf("%w: %s row index %d out of order or outside [0, %d)", models.ErrDimensionMismatch, kind, i, row.Dim)
		}
		prev = i
	}
	return nil
}

// argmax returns the first index holding the largest value.
func argmax(xs []float64) int {
	best := 0
	for i := 1; i < len(xs); i++ {
		if xs[i] > xs[best] {
			best = i
		}
	}
	return best
}

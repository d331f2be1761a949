package classifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phishguard/internal/models"
)

func decode(t *testing.T, kind string, n int, params any) Classifier {
	t.Helper()
	data, err := Encode(kind, n, params)
	require.NoError(t, err)
	c, err := DecodeClassifier(data)
	require.NoError(t, err)
	return c
}

func row(dim int, kv map[int]float64) SparseVector {
	v := SparseVector{Dim: dim}
	for i := 0; i < dim; i++ {
		if x, ok := kv[i]; ok {
			v.Indices = append(v.Indices, i)
			v.Values = append(v.Values, x)
		}
	}
	return v
}

func TestMultinomialNB_Predict(t *testing.T) {
	nb := decode(t, KindMultinomialNB, 2, NaiveBayesParams{
		ClassLogPrior:  []float64{math.Log(0.5), math.Log(0.5)},
		FeatureLogProb: [][]float64{{-0.1, -3}, {-3, -0.1}},
	})

	got, err := nb.Predict(row(2, map[int]float64{1: 1}))
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = nb.Predict(row(2, map[int]float64{0: 1}))
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = nb.Predict(row(2, nil))
	require.NoError(t, err)
	assert.Equal(t, 0, got, "equal scores resolve to the first class")
}

func TestMultinomialNB_BadShape(t *testing.T) {
	data, err := Encode(KindMultinomialNB, 3, NaiveBayesParams{
		ClassLogPrior:  []float64{0, 0},
		FeatureLogProb: [][]float64{{0, 0}, {0, 0}},
	})
	require.NoError(t, err)
	_, err = DecodeClassifier(data)
	assert.ErrorIs(t, err, models.ErrArtifactFormat)
}

func TestLinearModel_Predict(t *testing.T) {
	for _, kind := range []string{KindLinearSVM, KindLogisticRegression} {
		t.Run(kind, func(t *testing.T) {
			m := decode(t, kind, 2, LinearParams{Coef: []float64{1, -1}})
			assert.Equal(t, kind, m.Kind())
			assert.Equal(t, 2, m.NumFeatures())

			got, err := m.Predict(row(2, map[int]float64{0: 0.5}))
			require.NoError(t, err)
			assert.Equal(t, 1, got)

			got, err = m.Predict(row(2, map[int]float64{1: 0.5}))
			require.NoError(t, err)
			assert.Equal(t, 0, got)

			got, err = m.Predict(row(2, nil))
			require.NoError(t, err)
			assert.Equal(t, 0, got, "a zero decision value is not phishing")
		})
	}
}

func TestLinearModel_Probability(t *testing.T) {
	m := decode(t, KindLogisticRegression, 1, LinearParams{Coef: []float64{2}, Intercept: -1}).(*LinearModel)

	p, err := m.Probability(row(1, map[int]float64{0: 0.5}))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-12)

	p, err = m.Probability(row(1, map[int]float64{0: 1}))
	require.NoError(t, err)
	assert.InDelta(t, 1/(1+math.Exp(-1)), p, 1e-12)
}

func stump(feature int, threshold float64, left, right []float64) Tree {
	return Tree{Nodes: []TreeNode{
		{Feature: feature, Threshold: threshold, Left: 1, Right: 2},
		{Feature: -1, Value: left},
		{Feature: -1, Value: right},
	}}
}

func TestRandomForest_Predict(t *testing.T) {
	rf := decode(t, KindRandomForest, 2, ForestParams{Trees: []Tree{
		stump(0, 0.5, []float64{3, 1}, []float64{0, 4}),
		stump(1, 0.5, []float64{3, 1}, []float64{0, 4}),
	}})

	got, err := rf.Predict(row(2, map[int]float64{0: 1}))
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = rf.Predict(row(2, nil))
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = rf.Predict(row(2, map[int]float64{0: 0.5}))
	require.NoError(t, err)
	assert.Equal(t, 0, got, "values equal to the threshold go left")
}

func TestRandomForest_RejectsCycles(t *testing.T) {
	data, err := Encode(KindRandomForest, 1, ForestParams{Trees: []Tree{{Nodes: []TreeNode{
		{Feature: 0, Threshold: 0.5, Left: 0, Right: 1},
		{Feature: -1, Value: []float64{1, 0}},
	}}}})
	require.NoError(t, err)
	_, err = DecodeClassifier(data)
	assert.ErrorIs(t, err, models.ErrArtifactFormat)
}

func TestXGBoost_Predict(t *testing.T) {
	tree := func(defaultLeft bool) BoostTree {
		return BoostTree{Nodes: []BoostNode{
			{Feature: 0, Threshold: 0.5, Left: 1, Right: 2, DefaultLeft: defaultLeft},
			{Feature: -1, Leaf: -1},
			{Feature: -1, Leaf: 2},
		}}
	}
	xgb := decode(t, KindXGBoost, 1, BoostParams{BaseScore: 0.5, Trees: []BoostTree{tree(true)}})

	cases := []struct {
		name string
		row  SparseVector
		want int
	}{
		{"missing follows default", row(1, nil), 0},
		{"above threshold", row(1, map[int]float64{0: 0.7}), 1},
		{"below threshold", row(1, map[int]float64{0: 0.3}), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := xgb.Predict(tc.row)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	right := decode(t, KindXGBoost, 1, BoostParams{BaseScore: 0.5, Trees: []BoostTree{tree(false)}})
	got, err := right.Predict(row(1, nil))
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestXGBoost_BaseScore(t *testing.T) {
	data, err := Encode(KindXGBoost, 1, BoostParams{BaseScore: 1, Trees: []BoostTree{{Nodes: []BoostNode{{Feature: -1}}}}})
	require.NoError(t, err)
	_, err = DecodeClassifier(data)
	assert.ErrorIs(t, err, models.ErrArtifactFormat)
}

func TestPredict_DimensionMismatch(t *testing.T) {
	classifiers := []Classifier{
		decode(t, KindMultinomialNB, 2, NaiveBayesParams{ClassLogPrior: []float64{0, 0}, FeatureLogProb: [][]float64{{0, 0}, {0, 0}}}),
		decode(t, KindLinearSVM, 2, LinearParams{Coef: []float64{1, 1}}),
		decode(t, KindRandomForest, 2, ForestParams{Trees: []Tree{stump(0, 0.5, []float64{1, 0}, []float64{0, 1})}}),
		decode(t, KindXGBoost, 2, BoostParams{BaseScore: 0.5, Trees: []BoostTree{{Nodes: []BoostNode{{Feature: -1, Leaf: 1}}}}}),
	}
	for _, c := range classifiers {
		_, err := c.Predict(row(3, nil))
		assert.ErrorIs(t, err, models.ErrDimensionMismatch, c.Kind())
	}
}

func TestPredict_MalformedRow(t *testing.T) {
	classifiers := []Classifier{
		decode(t, KindMultinomialNB, 2, NaiveBayesParams{ClassLogPrior: []float64{0, 0}, FeatureLogProb: [][]float64{{0, 0}, {0, 0}}}),
		decode(t, KindLinearSVM, 2, LinearParams{Coef: []float64{1, 1}}),
		decode(t, KindRandomForest, 2, ForestParams{Trees: []Tree{stump(0, 0.5, []float64{1, 0}, []float64{0, 1})}}),
		decode(t, KindXGBoost, 2, BoostParams{BaseScore: 0.5, Trees: []BoostTree{{Nodes: []BoostNode{{Feature: -1, Leaf: 1}}}}}),
	}
	rows := map[string]SparseVector{
		"index out of range": {Dim: 2, Indices: []int{5}, Values: []float64{1}},
		"negative index":     {Dim: 2, Indices: []int{-1}, Values: []float64{1}},
		"unsorted":           {Dim: 2, Indices: []int{1, 0}, Values: []float64{1, 1}},
		"duplicate":          {Dim: 2, Indices: []int{0, 0}, Values: []float64{1, 1}},
		"missing values":     {Dim: 2, Indices: []int{0, 1}, Values: []float64{1}},
	}
	for name, r := range rows {
		for _, c := range classifiers {
			_, err := c.Predict(r)
			assert.ErrorIs(t, err, models.ErrDimensionMismatch, "%s: %s", name, c.Kind())
		}
	}
}

func TestReadEnvelope_Errors(t *testing.T) {
	cases := []struct {
		name string
		data string
		want error
	}{
		{"not json", "\x80\x04\x95pickle", models.ErrArtifactFormat},
		{"wrong format", `{"format":"other","version":1,"kind":"linear_svm","n_features":1,"params":{}}`, models.ErrArtifactFormat},
		{"future version", `{"format":"phishguard-artifact","version":2,"kind":"linear_svm","n_features":1,"params":{}}`, models.ErrArtifactVersion},
		{"no features", `{"format":"phishguard-artifact","version":1,"kind":"linear_svm","n_features":0,"params":{}}`, models.ErrArtifactFormat},
		{"no params", `{"format":"phishguard-artifact","version":1,"kind":"linear_svm","n_features":1}`, models.ErrArtifactFormat},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadEnvelope([]byte(tc.data))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDecode_KindErrors(t *testing.T) {
	data, err := Encode("perceptron", 1, LinearParams{Coef: []float64{1}})
	require.NoError(t, err)
	_, err = DecodeClassifier(data)
	assert.ErrorIs(t, err, models.ErrArtifactKind)

	data, err = Encode(KindLinearSVM, 1, LinearParams{Coef: []float64{1}})
	require.NoError(t, err)
	_, err = DecodeVectorizer(data)
	assert.ErrorIs(t, err, models.ErrArtifactKind)
}

func TestDecode_UnknownParamField(t *testing.T) {
	data := []byte(`{"format":"phishguard-artifact","version":1,"kind":"linear_svm","n_features":1,
		"params":{"coef":[1],"intercept":0,"dual":true}}`)
	_, err := DecodeClassifier(data)
	assert.ErrorIs(t, err, models.ErrArtifactFormat)
}

// Package registrytest writes small, self-consistent artifact sets for tests.
package registrytest

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"phishguard/internal/models"
	"phishguard/pkg/classifier"
)

// Vocabulary is the vocabulary of the test vectorizer. "login verify account"
// scores phishing on every model and "google" scores legitimate on every model.
var Vocabulary = map[string]int{"login": 0, "verify": 1, "account": 2, "google": 3}

// Files maps each model key to the file name WriteArtifacts uses for it.
var Files = map[string]string{
	models.KeyNaiveBayes:         "nb.json",
	models.KeySVM:                "svm.json",
	models.KeyRandomForest:       "rf.json",
	models.KeyXGBoost:            "xgb.json",
	models.KeyLogisticRegression: "lr.json",
}

// VectorizerFile is the file name of the vectorizer artifact.
const VectorizerFile = "vectorizer.json"

// WriteArtifacts writes a vectorizer and five classifiers into dir and returns
// their paths.
func WriteArtifacts(t testing.TB, dir string) (map[string]string, string) {
	t.Helper()
	n := len(Vocabulary)

	vecPath := filepath.Join(dir, VectorizerFile)
	Write(t, vecPath, classifier.KindTfidfVectorizer, n, classifier.TfidfParams{
		Vocabulary: Vocabulary,
		IDF:        []float64{1, 1, 1, 1},
	})

	params := map[string]struct {
		kind   string
		params any
	}{
		models.KeyNaiveBayes: {classifier.KindMultinomialNB, classifier.NaiveBayesParams{
			ClassLogPrior:  []float64{math.Log(0.5), math.Log(0.5)},
			FeatureLogProb: [][]float64{{-3, -3, -3, -0.1}, {-0.1, -0.1, -0.1, -3}},
		}},
		models.KeySVM: {classifier.KindLinearSVM, classifier.LinearParams{
			Coef: []float64{1, 1, 1, -1}, Intercept: -0.1,
		}},
		models.KeyRandomForest: {classifier.KindRandomForest, classifier.ForestParams{
			Trees: []classifier.Tree{{Nodes: []classifier.TreeNode{
				{Feature: 0, Threshold: 0, Left: 1, Right: 2},
				{Feature: -1, Value: []float64{1, 0}},
				{Feature: -1, Value: []float64{0, 1}},
			}}},
		}},
		models.KeyXGBoost: {classifier.KindXGBoost, classifier.BoostParams{
			BaseScore: 0.5,
			Trees: []classifier.BoostTree{{Nodes: []classifier.BoostNode{
				{Feature: 1, Threshold: 1e-6, Left: 1, Right: 2, DefaultLeft: true},
				{Feature: -1, Leaf: -1},
				{Feature: -1, Leaf: 1},
			}}},
		}},
		models.KeyLogisticRegression: {classifier.KindLogisticRegression, classifier.LinearParams{
			Coef: []float64{1, 1, 1, -1}, Intercept: -0.1,
		}},
	}

	paths := make(map[string]string, len(params))
	for key, p := range params {
		paths[key] = filepath.Join(dir, Files[key])
		Write(t, paths[key], p.kind, n, p.params)
	}
	return paths, vecPath
}

// Write encodes one artifact to path.
func Write(t testing.TB, path, kind string, nFeatures int, params any) {
	t.Helper()
	data, err := classifier.Encode(kind, nFeatures, params)
	if err != nil {
		t.Fatalf("encode %s: %v", kind, err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

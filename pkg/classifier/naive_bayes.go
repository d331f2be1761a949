package classifier

import "encoding/json"

// NaiveBayesParams is the serialized form of a fitted multinomial naive Bayes model.
// Row c of FeatureLogProb belongs to class c.
type NaiveBayesParams struct {
	ClassLogPrior  []float64   `json:"class_log_prior"`
	FeatureLogProb [][]float64 `json:"feature_log_prob"`
}

// MultinomialNB scores each class as its log prior plus the row's weighted
// feature log probabilities and picks the higher one.
type MultinomialNB struct {
	nFeatures      int
	classLogPrior  []float64
	featureLogProb [][]float64
}

func decodeMultinomialNB(nFeatures int, raw json.RawMessage) (*MultinomialNB, error) {
	var p NaiveBayesParams
	if err := decodeParams(KindMultinomialNB, raw, &p); err != nil {
		return nil, err
	}
	if len(p.ClassLogPrior) != 2 || len(p.FeatureLogProb) != 2 {
		return nil, shapeError(KindMultinomialNB, "want 2 classes, got %d priors and %d log prob rows",
			len(p.ClassLogPrior), len(p.FeatureLogProb))
	}
	for c, row := range p.FeatureLogProb {
		if len(row) != nFeatures {
			return nil, shapeError(KindMultinomialNB, "class %d has %d log probs, want %d", c, len(row), nFeatures)
		}
	}
	return &MultinomialNB{
		nFeatures:      nFeatures,
		classLogPrior:  p.ClassLogPrior,
		featureLogProb: p.FeatureLogProb,
	}, nil
}

func (m *MultinomialNB) Kind() string     { return KindMultinomialNB }
func (m *MultinomialNB) NumFeatures() int { return m.nFeatures }

func (m *MultinomialNB) Predict(row SparseVector) (int, error) {
	if err := checkRow(KindMultinomialNB, m.nFeatures, row); err != nil {
		return 0, err
	}
	scores := make([]float64, len(m.classLogPrior))
	for c := range scores {
		scores[c] = m.classLogPrior[c] + row.Dot(m.featureLogProb[c])
	}
	return argmax(scores), nil
}

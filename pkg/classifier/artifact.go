package classifier

import (
	"bytes"
	"encoding/json"
	"fmt"

	"phishguard/internal/models"
)

const (
	// ArtifactFormat identifies files written by the export tooling.
	ArtifactFormat = "phishguard-artifact"
	// ArtifactVersion is the only envelope version this build reads.
	ArtifactVersion = 1
)

// Artifact kinds.
const (
	KindTfidfVectorizer    = "tfidf_vectorizer"
	KindMultinomialNB      = "multinomial_nb"
	KindLinearSVM          = "linear_svm"
	KindLogisticRegression = "logistic_regression"
	KindRandomForest       = "random_forest"
	KindXGBoost            = "xgboost"
)

// Envelope is the on-disk wrapper shared by every artifact.
type Envelope struct {
	Format    string          `json:"format"`
	Version   int             `json:"version"`
	Kind      string          `json:"kind"`
	NFeatures int             `json:"n_features"`
	Params    json.RawMessage `json:"params"`
}

// Decoder builds a classifier from the params of an envelope.
type Decoder func(nFeatures int, params json.RawMessage) (Classifier, error)

// Decoders maps an artifact kind to its classifier decoder.
var Decoders = map[string]Decoder{
	KindMultinomialNB: func(n int, p json.RawMessage) (Classifier, error) {
		return asClassifier(decodeMultinomialNB(n, p))
	},
	KindLinearSVM: func(n int, p json.RawMessage) (Classifier, error) {
		return asClassifier(decodeLinear(KindLinearSVM, n, p))
	},
	KindLogisticRegression: func(n int, p json.RawMessage) (Classifier, error) {
		return asClassifier(decodeLinear(KindLogisticRegression, n, p))
	},
	KindRandomForest: func(n int, p json.RawMessage) (Classifier, error) {
		return asClassifier(decodeRandomForest(n, p))
	},
	KindXGBoost: func(n int, p json.RawMessage) (Classifier, error) {
		return asClassifier(decodeXGBoost(n, p))
	},
}

// asClassifier keeps a typed nil out of the Classifier interface.
func asClassifier[T Classifier](c T, err error) (Classifier, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ReadEnvelope parses and checks the envelope header without decoding params.
func ReadEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", models.ErrArtifactFormat, err)
	}
	if env.Format != ArtifactFormat {
		return Envelope{}, fmt.Errorf("%w: format %q, want %q", models.ErrArtifactFormat, env.Format, ArtifactFormat)
	}
	if env.Version != ArtifactVersion {
		return Envelope{}, fmt.Errorf("%w: version %d, want %d", models.ErrArtifactVersion, env.Version, ArtifactVersion)
	}
	if env.NFeatures <= 0 {
		return Envelope{}, fmt.Errorf("%w: n_features must be positive, got %d", models.ErrArtifactFormat, env.NFeatures)
	}
	if len(env.Params) == 0 {
		return Envelope{}, fmt.Errorf("%w: missing params", models.ErrArtifactFormat)
	}
	return env, nil
}

// DecodeClassifier decodes a classifier artifact of any registered kind.
func DecodeClassifier(data []byte) (Classifier, error) {
	env, err := ReadEnvelope(data)
	if err != nil {
		return nil, err
	}
	dec, ok := Decoders[env.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: no classifier decoder for %q", models.ErrArtifactKind, env.Kind)
	}
	return dec(env.NFeatures, env.Params)
}

// DecodeVectorizer decodes a vectorizer artifact.
func DecodeVectorizer(data []byte) (Vectorizer, error) {
	env, err := ReadEnvelope(data)
	if err != nil {
		return nil, err
	}
	if env.Kind != KindTfidfVectorizer {
		return nil, fmt.Errorf("%w: %q is not a vectorizer", models.ErrArtifactKind, env.Kind)
	}
	return decodeTfidf(env.NFeatures, env.Params)
}

// Encode wraps params in a current-version envelope.
func Encode(kind string, nFeatures int, params any) ([]byte, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal %s params: %w", kind, err)
	}
	return json.MarshalIndent(Envelope{
		Format:    ArtifactFormat,
		Version:   ArtifactVersion,
		Kind:      kind,
		NFeatures: nFeatures,
		Params:    raw,
	}, "", "  ")
}

func decodeParams(kind string, raw json.RawMessage, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %s params: %v", models.ErrArtifactFormat, kind, err)
	}
	return nil
}

func shapeError(kind, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", models.ErrArtifactFormat, kind, fmt.Sprintf(format, args...))
}

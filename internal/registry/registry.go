// Package registry loads the vectorizer and the five classifiers once at
// startup and hands them out read-only afterwards.
package registry

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	log "github.com/sirupsen/logrus"

	"phishguard/internal/models"
	"phishguard/internal/util"
	"phishguard/pkg/classifier"
)

// expectedKinds pins each model key to the artifact kind it must hold.
var expectedKinds = map[string]string{
	models.KeyNaiveBayes:         classifier.KindMultinomialNB,
	models.KeySVM:                classifier.KindLinearSVM,
	models.KeyRandomForest:       classifier.KindRandomForest,
	models.KeyXGBoost:            classifier.KindXGBoost,
	models.KeyLogisticRegression: classifier.KindLogisticRegression,
}

// Registry bundles one vectorizer with the classifiers that consume its rows.
// It is immutable once built and safe for concurrent use.
type Registry struct {
	vectorizer  classifier.Vectorizer
	classifiers map[string]classifier.Classifier
	keys        []string
}

// Load reads the vectorizer and every classifier artifact. Any failure aborts
// the load and no registry is returned.
func Load(paths map[string]string, vectorizerPath string) (*Registry, error) {
	if err := checkKeys(paths); err != nil {
		return nil, err
	}

	data, err := readArtifact(vectorizerPath)
	if err != nil {
		return nil, fmt.Errorf("load vectorizer: %w", err)
	}
	vec, err := classifier.DecodeVectorizer(data)
	if err != nil {
		return nil, fmt.Errorf("load vectorizer from %s: %w", vectorizerPath, err)
	}
	log.WithFields(log.Fields{"path": vectorizerPath, "features": vec.Dim()}).Debug("Loaded vectorizer")

	loaded := make(map[string]classifier.Classifier, len(paths))
	for _, key := range models.ModelKeys() {
		c, err := loadClassifier(key, paths[key])
		if err != nil {
			return nil, err
		}
		loaded[key] = c
		log.WithFields(log.Fields{"model": key, "kind": c.Kind(), "path": paths[key]}).Debug("Loaded classifier")
	}

	return New(vec, loaded)
}

// New builds a registry from already constructed components. It checks the key
// set and that every classifier expects exactly the vectorizer's dimension.
func New(vec classifier.Vectorizer, classifiers map[string]classifier.Classifier) (*Registry, error) {
	if vec == nil {
		return nil, fmt.Errorf("%w: no vectorizer", models.ErrRegistryKeys)
	}
	if err := checkKeys(classifiers); err != nil {
		return nil, err
	}

	r := &Registry{
		vectorizer:  vec,
		classifiers: make(map[string]classifier.Classifier, len(classifiers)),
		keys:        models.ModelKeys(),
	}
	for _, key := range r.keys {
		c := classifiers[key]
		if c == nil {
			return nil, fmt.Errorf("%w: classifier %q is nil", models.ErrRegistryKeys, key)
		}
		if c.NumFeatures() != vec.Dim() {
			return nil, fmt.Errorf("classifier %q: %w: expects %d features, vectorizer produces %d",
				key, models.ErrDimensionMismatch, c.NumFeatures(), vec.Dim())
		}
		r.classifiers[key] = c
	}
	return r, nil
}

// Vectorizer returns the shared vectorizer.
func (r *Registry) Vectorizer() classifier.Vectorizer { return r.vectorizer }

// Classifier returns the classifier registered under key.
func (r *Registry) Classifier(key string) (classifier.Classifier, bool) {
	c, ok := r.classifiers[key]
	return c, ok
}

// Keys returns the model keys in registry order.
func (r *Registry) Keys() []string {
	keys := make([]string, len(r.keys))
	copy(keys, r.keys)
	return keys
}

func loadClassifier(key, path string) (classifier.Classifier, error) {
	data, err := readArtifact(path)
	if err != nil {
		return nil, fmt.Errorf("load classifier %q: %w", key, err)
	}
	c, err := classifier.DecodeClassifier(data)
	if err != nil {
		return nil, fmt.Errorf("load classifier %q from %s: %w", key, path, err)
	}
	if want := expectedKinds[key]; c.Kind() != want {
		return nil, fmt.Errorf("load classifier %q from %s: %w: got %s, want %s",
			key, path, models.ErrArtifactKind, c.Kind(), want)
	}
	return c, nil
}

func readArtifact(path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", models.ErrArtifactNotFound)
	}
	binary, err := util.IsLikelyBinary(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrArtifactNotFound, path)
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if binary {
		return nil, fmt.Errorf("%w: %s looks like a binary file, expected a JSON artifact", models.ErrArtifactFormat, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func checkKeys[V any](m map[string]V) error {
	var missing, extra []string
	for _, key := range models.ModelKeys() {
		if _, ok := m[key]; !ok {
			missing = append(missing, key)
		}
	}
	for key := range m {
		if _, ok := expectedKinds[key]; !ok {
			extra = append(extra, key)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)
	return fmt.Errorf("%w: missing %v, unexpected %v", models.ErrRegistryKeys, missing, extra)
}

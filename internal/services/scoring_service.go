package services

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"phishguard/internal/models"
	"phishguard/pkg/classifier"
)

// ModelSource is the read-only view of the model registry the scorer needs.
type ModelSource interface {
	Vectorizer() classifier.Vectorizer
	Classifier(key string) (classifier.Classifier, bool)
	Keys() []string
}

// ScoringService runs one input through every classifier in the registry and
// aggregates the labels by majority vote.
type ScoringService struct {
	registry ModelSource
}

func NewScoringService(reg ModelSource) *ScoringService {
	return &ScoringService{registry: reg}
}

// Score vectorizes text, predicts with each classifier in registry order and
// returns the per-model labels plus the overall verdict. It never returns a
// partial result.
func (s *ScoringService) Score(ctx context.Context, text string) (*models.PredictionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.registry.Vectorizer().Transform([]string{text})
	if err != nil {
		return nil, fmt.Errorf("vectorize input: %w", err)
	}
	if len(rows) != 1 {
		return nil, fmt.Errorf("vectorize input: %w: got %d rows for 1 text", models.ErrInvalidInput, len(rows))
	}
	row := rows[0]

	keys := s.registry.Keys()
	result := &models.PredictionResult{
		Input:    text,
		Verdicts: make([]models.Verdict, 0, len(keys)),
	}
	labels := make([]string, 0, len(keys))
	for _, key := range keys {
		c, ok := s.registry.Classifier(key)
		if !ok || c == nil {
			return nil, fmt.Errorf("predict with %q: %w: no classifier registered", key, models.ErrRegistryKeys)
		}
		pred, err := c.Predict(row)
		if err != nil {
			return nil, fmt.Errorf("predict with %q: %w", key, err)
		}
		label, err := models.LabelFor(pred)
		if err != nil {
			return nil, fmt.Errorf("predict with %q: %w", key, err)
		}
		result.Verdicts = append(result.Verdicts, models.Verdict{Key: key, Label: label})
		labels = append(labels, label)
	}

	result.Overall, result.PhishingVotes = models.MajorityVote(labels)

	log.WithFields(log.Fields{
		"phishing_votes": result.PhishingVotes,
		"models":         len(keys),
		"overall":        result.Overall,
	}).Debug("Scored input")
	return result, nil
}

// GetPredictionResults returns the result as a map with one entry per model
// key plus "overall".
func (s *ScoringService) GetPredictionResults(ctx context.Context, text string) (map[string]string, error) {
	result, err := s.Score(ctx, text)
	if err != nil {
		return nil, err
	}
	return result.AsMap(), nil
}

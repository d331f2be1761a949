package models

import "fmt"

// Verdict is one classifier's label for an input.
type Verdict struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// PredictionResult holds the per-model labels and the majority verdict for one input.
type PredictionResult struct {
	Input         string    `json:"input"`
	Verdicts      []Verdict `json:"verdicts"`
	Overall       string    `json:"overall"`
	PhishingVotes int       `json:"phishing_votes"`
}

// LabelFor maps a binary classifier output to its label.
func LabelFor(prediction int) (string, error) {
	switch prediction {
	case 1:
		return LabelPhishing, nil
	case 0:
		return LabelLegitimate, nil
	default:
		return "", fmt.Errorf("%w: %d", ErrInvalidLabel, prediction)
	}
}

// MajorityVote returns the aggregate label and the number of phishing votes.
// Phishing wins only with strictly more than half of the votes, so a tie
// resolves to legitimate.
func MajorityVote(labels []string) (string, int) {
	votes := 0
	for _, l := range labels {
		if l == LabelPhishing {
			votes++
		}
	}
	if votes*2 > len(labels) {
		return OverallPhishing, votes
	}
	return OverallLegitimate, votes
}

// Label returns the label stored for a model key, or "" when the key is unknown.
func (r *PredictionResult) Label(key string) string {
	if key == OverallKey {
		return r.Overall
	}
	for _, v := range r.Verdicts {
		if v.Key == key {
			return v.Label
		}
	}
	return ""
}

// IsPhishing reports whether the aggregate verdict is phishing.
func (r *PredictionResult) IsPhishing() bool {
	return r.Overall == OverallPhishing
}

// AsMap flattens the result into one entry per model key plus OverallKey.
func (r *PredictionResult) AsMap() map[string]string {
	m := make(map[string]string, len(r.Verdicts)+1)
	for _, v := range r.Verdicts {
		m[v.Key] = v.Label
	}
	m[OverallKey] = r.Overall
	return m
}

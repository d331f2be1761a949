package models

// Per-model labels.
const (
	LabelPhishing   = "Phishing"
	LabelLegitimate = "Legitimate"
)

// Aggregate labels stored under OverallKey.
const (
	OverallPhishing   = "Phishing Website 🚨"
	OverallLegitimate = "Legitimate Website ✅"

	OverallKey = "overall"
)

// Model keys in registry order.
const (
	KeyNaiveBayes         = "nb"
	KeySVM                = "svm"
	KeyRandomForest       = "rf"
	KeyXGBoost            = "xgb"
	KeyLogisticRegression = "lr"
)

var modelKeys = []string{
	KeyNaiveBayes,
	KeySVM,
	KeyRandomForest,
	KeyXGBoost,
	KeyLogisticRegression,
}

var modelNames = map[string]string{
	KeyNaiveBayes:         "Naive Bayes",
	KeySVM:                "Support Vector Machine",
	KeyRandomForest:       "Random Forest",
	KeyXGBoost:            "XGBoost",
	KeyLogisticRegression: "Logistic Regression",
}

// ModelKeys returns the fixed set of classifier keys in registry order.
func ModelKeys() []string {
	keys := make([]string, len(modelKeys))
	copy(keys, modelKeys)
	return keys
}

// ModelName returns a human readable name for a model key.
func ModelName(key string) string {
	if name, ok := modelNames[key]; ok {
		return name
	}
	return key
}

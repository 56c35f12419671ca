package ml

import (
	"sort"

	"github.com/phishguard/phishguard/internal/domain/features"
)

// FeatureWeight names one feature and its global importance in the model
type FeatureWeight struct {
	Name       string  `json:"name"`
	Importance float64 `json:"importance"`
}

/// Prediction is the inference output: a phishing probability plus the top
// features ranked by global importance (not per-instance attribution).
type Prediction struct {
	Probability float64
	TopFeatures []FeatureWeight
}

// Classifier pairs a fitted model with the feature-name set and scaler
// frozen at training time. It is immutable after construction and shared
// read-only across concurrent requests.
type Classifier struct {
	name         string
	featureNames []string
	scaler       *Scaler
	model        Model
	topFeatures  []FeatureWeight // precomputed top-5 by global importance
}

// newClassifier freezes the training artifacts into an inference-only value
func newClassifier(name string, featureNames []string, scaler *Scaler, model Model) *Classifier {
	c := &Classifier{
		name:         name,
		featureNames: featureNames,
		scaler:       scaler,
		model:        model,
	}

	weights := make([]FeatureWeight, len(featureNames))
	imp := model.Importances()
	for i, fname := range featureNames {
		weights[i] = FeatureWeight{Name: fname, Importance: imp[i]}
	}
	sort.SliceStable(weights, func(a, b int) bool {
		return weights[a].Importance > weights[b].Importance
	})
	if len(weights) > 5 {
		weights = weights[:5]
	}
	c.topFeatures = weights
	return c
}

// Name identifies the classifier ("url" or "text")
func (c *Classifier) Name() string {
	return c.name
}

// Predict scores one feature vector. The vector is materialized over the
// frozen training-time name set, with missing names defaulting to 0.0, so
// extractor evolution can never silently shift the input contract.
func (c *Classifier) Predict(v features.Vector) Prediction {
	row := c.scaler.Transform(v.AsSlice(c.featureNames))
	return Prediction{
		Probability: c.model.PredictProba(row),
		TopFeatures: c.topFeatures,
	}
}

// FeatureNames returns the frozen feature-name set
func (c *Classifier) FeatureNames() []string {
	names := make([]string, len(c.featureNames))
	copy(names, c.featureNames)
	return names
}

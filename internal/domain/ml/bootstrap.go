package ml

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strings"

	"github.com/phishguard/phishguard/internal/domain"
	"github.com/phishguard/phishguard/internal/domain/features"
)

// Training bootstrap: builds the two fitted classifiers at process start.
// When a labeled dataset is missing or too small (<10 samples per class),
// training falls back to a deterministic synthetic corpus so the service
// always starts with working models. The RNG seed is fixed; repeated starts
// produce identical models.

const (
	minSamplesPerClass = 10
	trainingSeed       = 42
)

// labeledSample is one dataset row
type labeledSample struct {
	content string
	label   float64
}

// BootstrapConfig points at the optional labeled datasets
type BootstrapConfig struct {
	URLDatasetPath  string
	TextDatasetPath string
}

/// BuildClassifiers trains the URL and text classifiers. It never fails:
// dataset problems are logged and answered with the synthetic fallback.
func BuildClassifiers(cfg BootstrapConfig, logger *slog.Logger) (*Classifier, *Classifier) {
	urlSamples := loadOrSynthesize(cfg.URLDatasetPath, syntheticURLCorpus, logger, "url")
	textSamples := loadOrSynthesize(cfg.TextDatasetPath, syntheticTextCorpus, logger, "text")

	urlClf := trainURLClassifier(urlSamples)
	textClf := trainTextClassifier(textSamples)
	return urlClf, textClf
}

// loadOrSynthesize reads a CSV dataset, falling back to the synthetic corpus
// when the file is absent, unreadable, or class-starved.
func loadOrSynthesize(path string, synthesize func() []labeledSample, logger *slog.Logger, which string) []labeledSample {
	if path == "" {
		return synthesize()
	}
	samples, err := loadCSV(path)
	if err != nil {
		logger.Warn("dataset unavailable, training on synthetic corpus",
			"classifier", which, "path", path, "err", err)
		return synthesize()
	}
	if !enoughPerClass(samples) {
		logger.Warn("dataset too small, training on synthetic corpus",
			"classifier", which, "path", path, "samples", len(samples))
		return synthesize()
	}
	logger.Info("training on labeled dataset", "classifier", which, "samples", len(samples))
	return samples
}

// loadCSV parses a two-column content,label file. Labels accept 0/1 and the
// words legitimate/phishing (also ham/spam). A header row is skipped.
func loadCSV(path string) ([]labeledSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var samples []labeledSample
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		label, ok := parseLabel(row[1])
		if !ok {
			continue // header or junk row
		}
		content := strings.TrimSpace(row[0])
		if content == "" {
			continue
		}
		samples = append(samples, labeledSample{content: content, label: label})
	}
	return samples, nil
}

func parseLabel(s string) (float64, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "phishing", "spam", "fraud":
		return 1, true
	case "0", "legitimate", "legit", "ham", "safe":
		return 0, true
	}
	return 0, false
}

func enoughPerClass(samples []labeledSample) bool {
	var pos, neg int
	for _, s := range samples {
		if s.label == 1 {
			pos++
		} else {
			neg++
		}
	}
	return pos >= minSamplesPerClass && neg >= minSamplesPerClass
}

// trainURLClassifier fits scaler + random forest over URL lexical features
func trainURLClassifier(samples []labeledSample) *Classifier {
	names := features.URLFeatureNames()
	matrix := make([][]float64, len(samples))
	labels := make([]float64, len(samples))
	for i, s := range samples {
		matrix[i] = features.ExtractURLFeatures(s.content).AsSlice(names)
		labels[i] = s.label
	}

	scaler := FitScaler(matrix)
	rng := rand.New(rand.NewSource(trainingSeed))
	forest := FitRandomForest(scaler.TransformAll(matrix), labels, rng)
	return newClassifier("url", names, scaler, forest)
}

// trainTextClassifier fits scaler + gradient boosting over text features.
// Dataset rows are treated as SMS content, the labeled corpus this service
// is trained against.
func trainTextClassifier(samples []labeledSample) *Classifier {
	names := features.TextFeatureNames()
	matrix := make([][]float64, len(samples))
	labels := make([]float64, len(samples))
	for i, s := range samples {
		matrix[i] = features.ExtractTextFeatures(s.content, domain.ContentSMS).AsSlice(names)
		labels[i] = s.label
	}

	scaler := FitScaler(matrix)
	rng := rand.New(rand.NewSource(trainingSeed))
	gb := FitGradientBoosting(scaler.TransformAll(matrix), labels, rng)
	return newClassifier("text", names, scaler, gb)
}

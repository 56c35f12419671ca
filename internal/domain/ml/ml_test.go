package ml

import (
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phishguard/phishguard/internal/domain"
	"github.com/phishguard/phishguard/internal/domain/features"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestScaler(t *testing.T) {
	matrix := [][]float64{
		{1, 10, 5},
		{3, 10, 7},
		{5, 10, 9},
	}
	scaler := FitScaler(matrix)

	t.Run("centers the mean", func(t *testing.T) {
		scaled := scaler.TransformAll(matrix)
		for col := 0; col < 3; col++ {
			sum := 0.0
			for _, row := range scaled {
				sum += row[col]
			}
			assert.InDelta(t, 0.0, sum, 1e-9, "column %d mean", col)
		}
	})

	t.Run("zero variance column passes through unscaled", func(t *testing.T) {
		scaled := scaler.Transform([]float64{3, 10, 7})
		assert.InDelta(t, 0.0, scaled[1], 1e-9)
	})

	t.Run("transform is deterministic", func(t *testing.T) {
		a := scaler.Transform([]float64{2, 10, 6})
		b := scaler.Transform([]float64{2, 10, 6})
		assert.Equal(t, a, b)
	})
}

// linearly separable toy problem: positive iff first feature > 0.5
func toyData(n int, rng *rand.Rand) ([][]float64, []float64) {
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := range x {
		a, b := rng.Float64(), rng.Float64()
		x[i] = []float64{a, b}
		if a > 0.5 {
			y[i] = 1
		}
	}
	return x, y
}

func TestRandomForest_SeparatesClasses(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	x, y := toyData(200, rng)

	rf := FitRandomForest(x, y, rand.New(rand.NewSource(7)))

	assert.Greater(t, rf.PredictProba([]float64{0.9, 0.5}), 0.7)
	assert.Less(t, rf.PredictProba([]float64{0.1, 0.5}), 0.3)

	importances := rf.Importances()
	require.Len(t, importances, 2)
	assert.Greater(t, importances[0], importances[1], "first feature carries the signal")
}

func TestGradientBoosting_SeparatesClasses(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	x, y := toyData(200, rng)

	gb := FitGradientBoosting(x, y, rand.New(rand.NewSource(11)))

	assert.Greater(t, gb.PredictProba([]float64{0.9, 0.5}), 0.6)
	assert.Less(t, gb.PredictProba([]float64{0.1, 0.5}), 0.4)
}

func TestFit_DeterministicWithFixedSeed(t *testing.T) {
	x, y := toyData(100, rand.New(rand.NewSource(3)))

	first := FitRandomForest(x, y, rand.New(rand.NewSource(42)))
	second := FitRandomForest(x, y, rand.New(rand.NewSource(42)))

	probe := []float64{0.42, 0.77}
	assert.Equal(t, first.PredictProba(probe), second.PredictProba(probe))
}

func TestBuildClassifiers_SyntheticFallback(t *testing.T) {
	urlClf, textClf := BuildClassifiers(BootstrapConfig{}, testLogger())
	require.NotNil(t, urlClf)
	require.NotNil(t, textClf)

	t.Run("url classifier ranks phishing above legitimate", func(t *testing.T) {
		phish := urlClf.Predict(features.ExtractURLFeatures("http://mpesa-verify.xyz/login?id=123"))
		legit := urlClf.Predict(features.ExtractURLFeatures("https://github.com/golang/go"))

		assert.Greater(t, phish.Probability, legit.Probability)
		assert.Len(t, phish.TopFeatures, 5)
	})

	t.Run("text classifier ranks phishing above legitimate", func(t *testing.T) {
		phish := textClf.Predict(features.ExtractTextFeatures(
			"URGENT: your account is suspended, verify your PIN now to avoid losing access", domain.ContentSMS))
		legit := textClf.Predict(features.ExtractTextFeatures(
			"Hi, here's the quarterly report you requested. Let me know if you have questions.", domain.ContentEmail))

		assert.Greater(t, phish.Probability, legit.Probability)
	})

	t.Run("bootstrap is deterministic", func(t *testing.T) {
		againURL, _ := BuildClassifiers(BootstrapConfig{}, testLogger())
		v := features.ExtractURLFeatures("http://bit.ly/abc")

		assert.Equal(t, urlClf.Predict(v).Probability, againURL.Predict(v).Probability)
	})
}

func TestBuildClassifiers_SmallDatasetFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.csv")
	require.NoError(t, os.WriteFile(path, []byte("content,label\nhttp://a.xyz,phishing\nhttps://b.com,legitimate\n"), 0o644))

	urlClf, _ := BuildClassifiers(BootstrapConfig{URLDatasetPath: path}, testLogger())
	require.NotNil(t, urlClf, "too-small dataset must fall back to synthetic training")
}

func TestParseLabel(t *testing.T) {
	tests := []struct {
		in    string
		want  float64
		valid bool
	}{
		{"1", 1, true},
		{"0", 0, true},
		{"phishing", 1, true},
		{"spam", 1, true},
		{"legitimate", 0, true},
		{"ham", 0, true},
		{"banana", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseLabel(tt.in)
		assert.Equal(t, tt.valid, ok, tt.in)
		if ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

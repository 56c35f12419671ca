package ml

import (
	"math"
	"math/rand"
)

// Model is a fitted scoring function over a scaled feature row
type Model interface {
	// PredictProba returns the phishing probability in [0,1]
	PredictProba(x []float64) float64
	// Importances returns per-feature global importance, normalized to sum 1
	Importances() []float64
}

// RandomForest is a bagged ensemble of gini CART trees. The predicted
// probability is the mean of the leaf class fractions across trees.
type RandomForest struct {
	trees       []*treeNode
	importances []float64
}

// forest/boosting hyperparameters; modest sizes keep startup training fast
// while remaining stable on small datasets.
const (
	forestTrees    = 25
	forestDepth    = 8
	boostingTrees  = 40
	boostingDepth  = 3
	boostingLR     = 0.1
	minSamplesLeaf = 2
)

// FitRandomForest trains a forest with bootstrap sampling and sqrt-feature
// subsetting. The rng must be deterministically seeded by the caller.
func FitRandomForest(x [][]float64, y []float64, rng *rand.Rand) *RandomForest {
	numFeatures := len(x[0])
	subset := int(math.Sqrt(float64(numFeatures)))
	if subset < 1 {
		subset = 1
	}

	rf := &RandomForest{importances: make([]float64, numFeatures)}
	for t := 0; t < forestTrees; t++ {
		idx := make([]int, len(x))
		for i := range idx {
			idx[i] = rng.Intn(len(x))
		}
		cfg := &treeConfig{
			maxDepth:      forestDepth,
			minSamples:    minSamplesLeaf,
			featureSubset: subset,
			useGini:       true,
			rng:           rng,
			importances:   rf.importances,
			totalSamples:  float64(len(x)),
		}
		rf.trees = append(rf.trees, buildTree(x, y, idx, 0, cfg))
	}
	normalize(rf.importances)
	return rf
}

// PredictProba averages the per-tree leaf class fractions
func (rf *RandomForest) PredictProba(x []float64) float64 {
	sum := 0.0
	for _, tree := range rf.trees {
		sum += tree.predict(x)
	}
	return clamp01(sum / float64(len(rf.trees)))
}

// Importances returns the normalized impurity-decrease importances
func (rf *RandomForest) Importances() []float64 {
	return rf.importances
}

// GradientBoosting is an additive ensemble of shallow regression trees fit
// to logistic-loss gradients; probability is the sigmoid of the raw score.
type GradientBoosting struct {
	initial     float64
	trees       []*treeNode
	importances []float64
}

// FitGradientBoosting trains the boosted ensemble
func FitGradientBoosting(x [][]float64, y []float64, rng *rand.Rand) *GradientBoosting {
	numFeatures := len(x[0])
	gb := &GradientBoosting{importances: make([]float64, numFeatures)}

	// Initial raw score is the log-odds of the positive class
	pos := 0.0
	for _, v := range y {
		pos += v
	}
	p := clampProb(pos / float64(len(y)))
	gb.initial = math.Log(p / (1 - p))

	raw := make([]float64, len(x))
	for i := range raw {
		raw[i] = gb.initial
	}

	allIdx := make([]int, len(x))
	for i := range allIdx {
		allIdx[i] = i
	}

	residual := make([]float64, len(x))
	for t := 0; t < boostingTrees; t++ {
		for i := range x {
			residual[i] = y[i] - sigmoid(raw[i])
		}
		cfg := &treeConfig{
			maxDepth:     boostingDepth,
			minSamples:   minSamplesLeaf,
			useGini:      false,
			rng:          rng,
			importances:  gb.importances,
			totalSamples: float64(len(x)),
		}
		tree := buildTree(x, residual, allIdx, 0, cfg)
		gb.trees = append(gb.trees, tree)
		for i := range x {
			raw[i] += boostingLR * tree.predict(x[i])
		}
	}
	normalize(gb.importances)
	return gb
}

// PredictProba returns sigmoid(initial + lr * sum of tree outputs)
func (gb *GradientBoosting) PredictProba(x []float64) float64 {
	raw := gb.initial
	for _, tree := range gb.trees {
		raw += boostingLR * tree.predict(x)
	}
	return sigmoid(raw)
}

// Importances returns the normalized impurity-decrease importances
func (gb *GradientBoosting) Importances() []float64 {
	return gb.importances
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func clamp01(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// clampProb keeps log-odds finite on one-class datasets
func clampProb(p float64) float64 {
	return math.Max(0.01, math.Min(0.99, p))
}

func normalize(weights []float64) {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total == 0 {
		return
	}
	for i := range weights {
		weights[i] /= total
	}
}

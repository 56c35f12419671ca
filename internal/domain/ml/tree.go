package ml

import (
	"math/rand"
	"sort"
)

// treeNode is one node of a CART decision tree. Leaves carry the mean target
// of the samples that reached them, which doubles as a class probability for
// 0/1 targets and a residual estimate for boosting stages.
type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	value     float64
	leaf      bool
}

// predict walks the tree for one sample
func (n *treeNode) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// treeConfig controls tree induction
type treeConfig struct {
	maxDepth       int
	minSamples     int
	featureSubset  int // 0 means consider all features
	useGini        bool
	rng            *rand.Rand
	importances    []float64 // accumulated weighted impurity decrease
	totalSamples   float64
}

// buildTree grows a CART tree over the given sample indices
func buildTree(x [][]float64, y []float64, idx []int, depth int, cfg *treeConfig) *treeNode {
	if len(idx) < cfg.minSamples || depth >= cfg.maxDepth || isPure(y, idx) {
		return &treeNode{leaf: true, value: meanTarget(y, idx)}
	}

	feature, threshold, gain := bestSplit(x, y, idx, cfg)
	if feature < 0 || gain <= 0 {
		return &treeNode{leaf: true, value: meanTarget(y, idx)}
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}
	if len(leftIdx) == 0 || len(rightIdx) == 0 {
		return &treeNode{leaf: true, value: meanTarget(y, idx)}
	}

	if cfg.importances != nil {
		cfg.importances[feature] += gain * float64(len(idx)) / cfg.totalSamples
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(x, y, leftIdx, depth+1, cfg),
		right:     buildTree(x, y, rightIdx, depth+1, cfg),
	}
}

// bestSplit scans candidate features for the split with the largest impurity
// decrease. Candidate thresholds are midpoints between consecutive distinct
// sorted values.
func bestSplit(x [][]float64, y []float64, idx []int, cfg *treeConfig) (int, float64, float64) {
	numFeatures := len(x[idx[0]])
	candidates := featureCandidates(numFeatures, cfg)

	parentImp := impurity(y, idx, cfg.useGini)
	bestFeature, bestThreshold, bestGain := -1, 0.0, 0.0
	n := float64(len(idx))

	for _, f := range candidates {
		values := make([]float64, 0, len(idx))
		for _, i := range idx {
			values = append(values, x[i][f])
		}
		sort.Float64s(values)

		for k := 1; k < len(values); k++ {
			if values[k] == values[k-1] {
				continue
			}
			threshold := (values[k] + values[k-1]) / 2

			var leftIdx, rightIdx []int
			for _, i := range idx {
				if x[i][f] <= threshold {
					leftIdx = append(leftIdx, i)
				} else {
					rightIdx = append(rightIdx, i)
				}
			}
			if len(leftIdx) == 0 || len(rightIdx) == 0 {
				continue
			}

			gain := parentImp -
				(float64(len(leftIdx))/n)*impurity(y, leftIdx, cfg.useGini) -
				(float64(len(rightIdx))/n)*impurity(y, rightIdx, cfg.useGini)
			if gain > bestGain {
				bestFeature, bestThreshold, bestGain = f, threshold, gain
			}
		}
	}
	return bestFeature, bestThreshold, bestGain
}

// featureCandidates picks the feature subset considered at a split
func featureCandidates(numFeatures int, cfg *treeConfig) []int {
	if cfg.featureSubset <= 0 || cfg.featureSubset >= numFeatures {
		all := make([]int, numFeatures)
		for i := range all {
			all[i] = i
		}
		return all
	}
	perm := cfg.rng.Perm(numFeatures)
	return perm[:cfg.featureSubset]
}

// impurity is gini for classification targets, variance for regression
func impurity(y []float64, idx []int, useGini bool) float64 {
	mean := meanTarget(y, idx)
	if useGini {
		// binary gini: 2p(1-p) with p the positive fraction
		return 2 * mean * (1 - mean)
	}
	v := 0.0
	for _, i := range idx {
		d := y[i] - mean
		v += d * d
	}
	return v / float64(len(idx))
}

func meanTarget(y []float64, idx []int) float64 {
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func isPure(y []float64, idx []int) bool {
	first := y[idx[0]]
	for _, i := range idx[1:] {
		if y[i] != first {
			return false
		}
	}
	return true
}

// Package ml implements the two fixed statistical classifiers: a random
// forest over URL feature vectors and a gradient-boosted tree ensemble over
// text feature vectors. Models are fitted once at process start (from a
// labeled CSV dataset or a deterministic synthetic corpus) and are strictly
// read-only afterwards, so they are shared across requests without locking.
package ml

import "math"

// Scaler is a standard (zero mean, unit variance) feature scaling transform
// fit at training time and reproduced exactly at inference time.
type Scaler struct {
	means []float64
	stds  []float64
}

// FitScaler computes per-column means and standard deviations over the
// training matrix. Zero-variance columns scale by 1 so constant features
// pass through unchanged.
func FitScaler(matrix [][]float64) *Scaler {
	if len(matrix) == 0 {
		return &Scaler{}
	}
	cols := len(matrix[0])
	s := &Scaler{
		means: make([]float64, cols),
		stds:  make([]float64, cols),
	}

	for _, row := range matrix {
		for j, val := range row {
			s.means[j] += val
		}
	}
	n := float64(len(matrix))
	for j := range s.means {
		s.means[j] /= n
	}

	for _, row := range matrix {
		for j, val := range row {
			d := val - s.means[j]
			s.stds[j] += d * d
		}
	}
	for j := range s.stds {
		s.stds[j] = math.Sqrt(s.stds[j] / n)
		if s.stds[j] == 0 {
			s.stds[j] = 1
		}
	}
	return s
}

// Transform scales one row in place-safe fashion (a new slice is returned)
func (s *Scaler) Transform(row []float64) []float64 {
	if len(s.means) == 0 {
		return row
	}
	out := make([]float64, len(row))
	for j, val := range row {
		if j < len(s.means) {
			out[j] = (val - s.means[j]) / s.stds[j]
		} else {
			out[j] = val
		}
	}
	return out
}

// TransformAll scales a whole matrix
func (s *Scaler) TransformAll(matrix [][]float64) [][]float64 {
	out := make([][]float64, len(matrix))
	for i, row := range matrix {
		out[i] = s.Transform(row)
	}
	return out
}

// Package features turns URLs and free text into fixed, named numeric
// vectors for the statistical classifiers. Extractors are deterministic
// total functions: malformed input yields a vector of structural zeros,
// never an error.
package features

// Vector is an ordered mapping from a fixed, named feature set to values.
// The name set is frozen per classifier at training time; consumers look
// names up by the extractor's canonical order and treat missing names as 0.
type Vector map[string]float64

// Get returns the named feature, defaulting missing names to 0.0
func (v Vector) Get(name string) float64 {
	return v[name]
}

// AsSlice materializes the vector in the given name order, missing names
// defaulting to 0.0. This is the inference-side contract: the name list is
// the one frozen at training time, not whatever the extractor currently
// produces.
func (v Vector) AsSlice(names []string) []float64 {
	out := make([]float64, len(names))
	for i, name := range names {
		out[i] = v[name]
	}
	return out
}

// boolFeature converts a flag to the 0/1 encoding used throughout
func boolFeature(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}

// safeDiv divides by max(denominator, 1) so ratios and densities are total
// even on empty input.
func safeDiv(num float64, denom int) float64 {
	if denom < 1 {
		denom = 1
	}
	return num / float64(denom)
}

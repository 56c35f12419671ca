package urlanalysis

import (
	"math"
	"strings"
)

// Entropy returns the Shannon entropy of the text in bits per character,
// computed over case-folded runes. Random-looking strings (generated
// domains, token blobs) score above ~3.5; natural words sit well below.
func Entropy(text string) float64 {
	if text == "" {
		return 0.0
	}

	freq := make(map[rune]int)
	total := 0
	for _, r := range strings.ToLower(text) {
		freq[r]++
		total++
	}

	entropy := 0.0
	for _, count := range freq {
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

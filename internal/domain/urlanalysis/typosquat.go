package urlanalysis

import (
	"fmt"
	"strings"

	"github.com/phishguard/phishguard/internal/domain/ruleset"
)

// detectTyposquat probes the host's leftmost label against every brand
// target with the classic single-edit mutations: character deletion,
// adjacent swap, character insertion, and digit/letter substitution, plus
// brand names padded with a suspicious suffix word ("mpesa-secure").
//
// The first matching probe wins; at most one typosquatting reason is
// reported per URL.
func detectTyposquat(host string) string {
	label := strings.SplitN(host, ".", 2)[0]

	for _, brand := range ruleset.BrandTargets {
		if brand == label {
			continue
		}

		// Missing character: deleting one char of the brand yields the label
		for i := 0; i < len(brand); i++ {
			if brand[:i]+brand[i+1:] == label {
				return fmt.Sprintf("Possible typosquatting of '%s' (missing character)", brand)
			}
		}

		// Swapped adjacent characters
		for i := 0; i < len(brand)-1; i++ {
			swapped := brand[:i] + string(brand[i+1]) + string(brand[i]) + brand[i+2:]
			if swapped == label {
				return fmt.Sprintf("Possible typosquatting of '%s' (swapped characters)", brand)
			}
		}

		// Extra character: deleting one char of the label yields the brand
		for i := 0; i < len(label); i++ {
			if label[:i]+label[i+1:] == brand {
				return fmt.Sprintf("Possible typosquatting of '%s' (extra character)", brand)
			}
		}

		// Digit/letter substitution, single position or every occurrence,
		// probed in both directions ("go0gle" and "g00gle" both hit).
		if matchesSubstitution(brand, label) {
			return fmt.Sprintf("Possible typosquatting of '%s' (character substitution)", brand)
		}

		// Brand combined with a suspicious addition
		if strings.Contains(label, brand) {
			for _, addition := range ruleset.SuspiciousSuffixWords {
				if strings.Contains(label, addition) {
					return fmt.Sprintf("Suspicious domain combining '%s' with '%s'", brand, addition)
				}
			}
		}
	}

	return ""
}

// matchesSubstitution reports whether label is the brand with one of the
// fixed digit/letter swaps applied at a single position or globally.
func matchesSubstitution(brand, label string) bool {
	for _, sub := range ruleset.TyposquatSubstitutions {
		letter, digit := sub[0], sub[1]

		if strings.ReplaceAll(brand, letter, digit) == label ||
			strings.ReplaceAll(brand, digit, letter) == label {
			return true
		}

		// Single-position probes catch mixed forms like "go0gle" where a
		// global replacement would produce "g00gle".
		if len(label) == len(brand) {
			for i := 0; i < len(brand); i++ {
				if brand[i:i+1] == letter && brand[:i]+digit+brand[i+1:] == label {
					return true
				}
				if brand[i:i+1] == digit && brand[:i]+letter+brand[i+1:] == label {
					return true
				}
			}
		}
	}
	return false
}

package detection

import (
	"regexp"

	"github.com/phishguard/phishguard/internal/domain"
)

// Strategy defines the interface that all pattern detectors must implement
//
// This follows the Strategy pattern, allowing each detector family to be:
//   - Independently developed and tested
//   - Easily added or removed from the detection bank
//   - Driven by its own rule table, separate from the matching algorithm
type Strategy interface {
	// Detect scans raw content for this family's indicators. It must be a
	// total function: malformed input yields an empty slice, never an error.
	// Matching is performed on case-folded text.
	Detect(text string, kind domain.ContentType) []domain.ThreatIndicator

	// Name returns the human-readable name of this detector family
	Name() string
}

// regexRule is one entry of a flat (pattern, description, severity,
// confidence) detection table. Every matching entry emits its own indicator;
// deduplication is the fusion engine's responsibility, not the detector's.
type regexRule struct {
	re          *regexp.Regexp
	description string
	severity    domain.Severity
	confidence  float64
}

// tierRule groups phrasing variants of one severity tier. Tiers are held in
// declared order so scans are deterministic.
type tierRule struct {
	severity domain.Severity
	patterns []*regexp.Regexp
}

// phraseTier is the substring-match equivalent of tierRule, for keyword
// lists that need no regular-expression machinery.
type phraseTier struct {
	severity domain.Severity
	phrases  []string
}

// matchTable runs a flat regex table against case-folded text and emits one
// indicator per matching entry under the given category.
func matchTable(category, lower string, rules []regexRule) []domain.ThreatIndicator {
	var indicators []domain.ThreatIndicator
	for _, rule := range rules {
		if m := rule.re.FindString(lower); m != "" {
			indicators = append(indicators, domain.ThreatIndicator{
				Category:    category,
				Description: rule.description,
				Severity:    rule.severity,
				MatchedText: m,
				Confidence:  rule.confidence,
			})
		}
	}
	return indicators
}

// compileAll compiles a pattern list, panicking at init time on a bad
// pattern rather than silently dropping a rule at scan time.
func compileAll(patterns []string) []*regexp.Regexp {
	res := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		res = append(res, regexp.MustCompile(p))
	}
	return res
}

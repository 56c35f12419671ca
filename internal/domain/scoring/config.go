// Package scoring fuses rule-based indicators and classifier probabilities
// into one calibrated risk score with deterministic classification
// boundaries.
package scoring

import (
	"strings"

	"github.com/phishguard/phishguard/internal/domain"
)

// Config carries the empirically tuned fusion constants. The magnitudes were
// calibrated against labeled regional phishing samples; treat them as data
// to be preserved, not rederived.
type Config struct {
	// SeverityWeights convert (severity, confidence) into heuristic mass
	SeverityWeights map[domain.Severity]float64

	// Boosts are multipliers applied when correlated indicator categories
	// co-occur, in declared order; the score is re-capped at 1.0 after each.
	Boosts []BoostRule

	// Classification boundaries over the combined score
	PhishingThreshold     float64
	SuspiciousThreshold   float64
	CriticalRiskThreshold float64

	// MLOnlyDamping shrinks the classifier's say when no heuristic evidence
	// exists, to resist false positives on clean text.
	MLOnlyDamping float64

	// Light-evidence blend (no critical/high, at most one medium)
	LightHeuristicWeight float64
	LightMLWeight        float64

	// Strong-evidence blend, fused as max(max(h, ml), blend)
	BlendHeuristicWeight float64
	BlendMLWeight        float64

	// MaxIndicators caps the presented indicator list
	MaxIndicators int
}

// BoostRule multiplies the heuristic score when both category predicates
// match somewhere in the indicator list.
type BoostRule struct {
	Name       string
	First      func(domain.ThreatIndicator) bool
	Second     func(domain.ThreatIndicator) bool
	Multiplier float64
}

// DefaultConfig returns the production fusion constants
func DefaultConfig() Config {
	return Config{
		SeverityWeights: map[domain.Severity]float64{
			domain.SeverityCritical: 0.45,
			domain.SeverityHigh:     0.30,
			domain.SeverityMedium:   0.18,
			domain.SeverityLow:      0.08,
		},
		Boosts: []BoostRule{
			{"critical+credential", isCriticalSeverity, isCredentialCategory, 1.5},
			{"credential+urgency", isCredentialCategory, isUrgencyCategory, 1.4},
			{"threat+credential", isThreatCategory, isCredentialCategory, 1.4},
			{"credential+url", isCredentialCategory, isURLIssueCategory, 1.3},
			{"urgency+url", isUrgencyCategory, isURLIssueCategory, 1.3},
		},
		PhishingThreshold:     0.40,
		SuspiciousThreshold:   0.20,
		CriticalRiskThreshold: 0.70,
		MLOnlyDamping:         0.3,
		LightHeuristicWeight:  0.7,
		LightMLWeight:         0.3,
		BlendHeuristicWeight:  0.55,
		BlendMLWeight:         0.45,
		MaxIndicators:         15,
	}
}

// Category predicates for the boost rules. Correlation is by category text,
// the stable public identity of an indicator family.

func isCriticalSeverity(i domain.ThreatIndicator) bool {
	return i.Severity == domain.SeverityCritical
}

func isCredentialCategory(i domain.ThreatIndicator) bool {
	return strings.Contains(strings.ToLower(i.Category), "credential")
}

func isUrgencyCategory(i domain.ThreatIndicator) bool {
	lower := strings.ToLower(i.Category)
	return strings.Contains(lower, "urgency") || strings.Contains(lower, "time pressure")
}

func isThreatCategory(i domain.ThreatIndicator) bool {
	return strings.Contains(strings.ToLower(i.Category), "threat")
}

// urlIssueCategories is the closed set of categories the URL analyzer and
// signal adapters emit.
var urlIssueCategories = map[string]struct{}{
	"Suspicious URL":       {},
	"URL Shortener":        {},
	"Suspicious TLD":       {},
	"Homograph Attack":     {},
	"Typosquatting":        {},
	"Domain Spoofing":      {},
	"Suspicious Path":      {},
	"Suspicious Domain":    {},
	"Suspicious Structure": {},
	"Link Mismatch":        {},
	"SSL Certificate":      {},
	"Domain Age":           {},
}

func isURLIssueCategory(i domain.ThreatIndicator) bool {
	// Regional categories carry a parenthetical qualifier; URL categories
	// are exact names.
	_, ok := urlIssueCategories[i.Category]
	return ok
}

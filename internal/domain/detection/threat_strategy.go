package detection

import (
	"fmt"
	"strings"

	"github.com/phishguard/phishguard/internal/domain"
)

// ThreatStrategy detects threatening language: account termination and legal
// threats rank critical, access-loss threats high, vague scare phrasing medium.
type ThreatStrategy struct{}

// NewThreatStrategy creates the threatening language detector
func NewThreatStrategy() *ThreatStrategy {
	return &ThreatStrategy{}
}

// Name returns the strategy name
func (s *ThreatStrategy) Name() string {
	return "Threatening Language"
}

// Detect reports every threat pattern present in the text
func (s *ThreatStrategy) Detect(text string, kind domain.ContentType) []domain.ThreatIndicator {
	lower := strings.ToLower(text)
	var indicators []domain.ThreatIndicator

	for _, tier := range threatTiers {
		confidence := 0.75
		if tier.severity == domain.SeverityCritical {
			confidence = 0.9
		}
		for _, re := range tier.patterns {
			if m := re.FindString(lower); m != "" {
				indicators = append(indicators, domain.ThreatIndicator{
					Category:    "Threatening Language",
					Description: fmt.Sprintf("Threatens: '%s'", m),
					Severity:    tier.severity,
					MatchedText: m,
					Confidence:  confidence,
				})
			}
		}
	}

	return indicators
}

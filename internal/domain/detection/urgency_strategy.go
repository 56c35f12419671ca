package detection

import (
	"fmt"
	"strings"

	"github.com/phishguard/phishguard/internal/domain"
)

// UrgencyStrategy detects pressure language across three severity tiers,
// plus explicit countdown/deadline phrasing as a separate sub-detector.
type UrgencyStrategy struct{}

// NewUrgencyStrategy creates the urgency language detector
func NewUrgencyStrategy() *UrgencyStrategy {
	return &UrgencyStrategy{}
}

// Name returns the strategy name
func (s *UrgencyStrategy) Name() string {
	return "Urgency Language"
}

// Detect reports every urgency phrase that appears in the text. Each phrasing
// variant contributes its own indicator; critical-tier matches carry higher
// confidence than the lower tiers.
func (s *UrgencyStrategy) Detect(text string, kind domain.ContentType) []domain.ThreatIndicator {
	lower := strings.ToLower(text)
	var indicators []domain.ThreatIndicator

	for _, tier := range urgencyTiers {
		confidence := 0.7
		if tier.severity == domain.SeverityCritical {
			confidence = 0.85
		}
		for _, phrase := range tier.phrases {
			if strings.Contains(lower, phrase) {
				indicators = append(indicators, domain.ThreatIndicator{
					Category:    "Urgency Language",
					Description: fmt.Sprintf("Creates pressure with: '%s'", phrase),
					Severity:    tier.severity,
					MatchedText: phrase,
					Confidence:  confidence,
				})
			}
		}
	}

	// Countdown sub-detector: reported under its own category so time
	// pressure is visible even when no urgency keyword matched.
	for _, rule := range timePressureRules {
		if m := rule.re.FindString(lower); m != "" {
			indicators = append(indicators, domain.ThreatIndicator{
				Category:    "Time Pressure",
				Description: rule.description,
				Severity:    rule.severity,
				MatchedText: m,
				Confidence:  rule.confidence,
			})
		}
	}

	return indicators
}

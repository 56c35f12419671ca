package detection

import (
	"fmt"
	"strings"

	"github.com/phishguard/phishguard/internal/domain"
)

// RegionalTargetStrategy matches known local financial, government, and telco
// brand names. A brand reference alone is medium severity; combined with a
// credential request anywhere in the same text it escalates to critical,
// since "brand + give us your PIN" is the signature of regional phishing.
//
// Policy: at most one indicator per target category; the first keyword in
// declared order wins.
type RegionalTargetStrategy struct{}

// NewRegionalTargetStrategy creates the regional brand targeting detector
func NewRegionalTargetStrategy() *RegionalTargetStrategy {
	return &RegionalTargetStrategy{}
}

// Name returns the strategy name
func (s *RegionalTargetStrategy) Name() string {
	return "Regional Brand Targeting"
}

// Detect reports the first matching brand keyword per target category
func (s *RegionalTargetStrategy) Detect(text string, kind domain.ContentType) []domain.ThreatIndicator {
	lower := strings.ToLower(text)
	var indicators []domain.ThreatIndicator

	credentialRequest := containsCredentialRequest(lower)

	for _, target := range kenyaTargets {
		for _, keyword := range target.keywords {
			if !strings.Contains(lower, keyword) {
				continue
			}

			severity := domain.SeverityMedium
			confidence := 0.5
			description := fmt.Sprintf("References '%s'", keyword)
			if credentialRequest {
				severity = domain.SeverityCritical
				confidence = 0.8
				description += " with credential request"
			}

			indicators = append(indicators, domain.ThreatIndicator{
				Category:    fmt.Sprintf("Kenya Target (%s)", target.display),
				Description: description,
				Severity:    severity,
				MatchedText: keyword,
				Confidence:  confidence,
			})
			break // one indicator per category
		}
	}

	return indicators
}

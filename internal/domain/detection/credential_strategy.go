package detection

import (
	"fmt"
	"strings"

	"github.com/phishguard/phishguard/internal/domain"
)

// CredentialStrategy detects requests for sensitive data. Critical severity
// is reserved for PIN/OTP/card-number/ID-number requests.
type CredentialStrategy struct{}

// NewCredentialStrategy creates the credential harvesting detector
func NewCredentialStrategy() *CredentialStrategy {
	return &CredentialStrategy{}
}

// Name returns the strategy name
func (s *CredentialStrategy) Name() string {
	return "Credential Harvesting"
}

// Detect reports every credential-request pattern present in the text
func (s *CredentialStrategy) Detect(text string, kind domain.ContentType) []domain.ThreatIndicator {
	lower := strings.ToLower(text)
	var indicators []domain.ThreatIndicator

	for _, tier := range credentialTiers {
		confidence := 0.85
		if tier.severity == domain.SeverityCritical {
			confidence = 0.95
		}
		for _, re := range tier.patterns {
			if m := re.FindString(lower); m != "" {
				indicators = append(indicators, domain.ThreatIndicator{
					Category:    "Credential Harvesting",
					Description: fmt.Sprintf("Requests sensitive data: '%s'", m),
					Severity:    tier.severity,
					MatchedText: m,
					Confidence:  confidence,
				})
			}
		}
	}

	return indicators
}

// containsCredentialRequest reports whether any credential pattern of any
// tier matches. Used by the regional target strategy for cross-detector
// severity escalation.
func containsCredentialRequest(lower string) bool {
	for _, tier := range credentialTiers {
		for _, re := range tier.patterns {
			if re.MatchString(lower) {
				return true
			}
		}
	}
	return false
}

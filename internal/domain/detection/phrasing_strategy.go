package detection

import (
	"strings"

	"github.com/phishguard/phishguard/internal/domain"
)

// PhrasingStrategy covers the general suspicious-phrasing tables: generic
// greetings, calls-to-action, money movement, and channel-specific phrasing
// for SMS and email content.
type PhrasingStrategy struct{}

// NewPhrasingStrategy creates the suspicious phrasing detector
func NewPhrasingStrategy() *PhrasingStrategy {
	return &PhrasingStrategy{}
}

// Name returns the strategy name
func (s *PhrasingStrategy) Name() string {
	return "Suspicious Phrasing"
}

// Detect runs the flat phrasing tables appropriate for the content kind
func (s *PhrasingStrategy) Detect(text string, kind domain.ContentType) []domain.ThreatIndicator {
	lower := strings.ToLower(text)
	var indicators []domain.ThreatIndicator

	indicators = append(indicators, matchTable("Suspicious Phrasing", lower, greetingRules)...)
	indicators = append(indicators, matchTable("Suspicious CTA", lower, ctaRules)...)
	indicators = append(indicators, matchTable("Financial Request", lower, moneyRules)...)

	switch kind {
	case domain.ContentSMS:
		indicators = append(indicators, matchTable("SMS Scam Pattern", lower, smsRules)...)
	case domain.ContentEmail:
		indicators = append(indicators, matchTable("Email Pattern", lower, emailRules)...)
	}

	return indicators
}

// ImpersonationStrategy flags phrasing that claims a trusted identity
type ImpersonationStrategy struct{}

// NewImpersonationStrategy creates the impersonation detector
func NewImpersonationStrategy() *ImpersonationStrategy {
	return &ImpersonationStrategy{}
}

// Name returns the strategy name
func (s *ImpersonationStrategy) Name() string {
	return "Impersonation"
}

// Detect runs the impersonation phrasing table
func (s *ImpersonationStrategy) Detect(text string, kind domain.ContentType) []domain.ThreatIndicator {
	return matchTable("Impersonation", strings.ToLower(text), impersonationRules)
}

// ScamPhrasingStrategy covers the invoice, subscription, delivery, and tax
// scam families. Each table entry carries its own category so the fusion
// engine and explanation generator see them as distinct signal types.
type ScamPhrasingStrategy struct{}

// NewScamPhrasingStrategy creates the scam phrasing detector
func NewScamPhrasingStrategy() *ScamPhrasingStrategy {
	return &ScamPhrasingStrategy{}
}

// Name returns the strategy name
func (s *ScamPhrasingStrategy) Name() string {
	return "Scam Phrasing"
}

// Detect reports every scam-table entry that matches
func (s *ScamPhrasingStrategy) Detect(text string, kind domain.ContentType) []domain.ThreatIndicator {
	lower := strings.ToLower(text)
	var indicators []domain.ThreatIndicator

	for _, rule := range scamRules {
		if m := rule.re.FindString(lower); m != "" {
			indicators = append(indicators, domain.ThreatIndicator{
				Category:    rule.category,
				Description: rule.description,
				Severity:    rule.severity,
				MatchedText: m,
				Confidence:  rule.confidence,
			})
		}
	}

	return indicators
}

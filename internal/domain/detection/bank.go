package detection

import (
	"github.com/phishguard/phishguard/internal/domain"
)

// Bank runs the full set of pattern detectors over a piece of content
//
// The Bank coordinates multiple Strategy implementations, each responsible
// for one family of phishing signal (urgency, credential harvesting, scam
// phrasing, ...). Bank order is load-bearing: the fusion engine deduplicates
// by (category, matched text) keeping the first occurrence, so the declared
// strategy order determines which duplicate survives.
type Bank struct {
	strategies []Strategy
}

// NewBank creates a detector bank with the standard strategies in their
// canonical order.
func NewBank() *Bank {
	return &Bank{
		strategies: []Strategy{
			NewUrgencyStrategy(),
			NewCredentialStrategy(),
			NewThreatStrategy(),
			NewRegionalTargetStrategy(),
			NewPhrasingStrategy(),
			NewImpersonationStrategy(),
			NewScamPhrasingStrategy(),
			NewLinkMismatchStrategy(),
		},
	}
}

// Scan runs every strategy and concatenates their indicators in bank order.
// Strategies are pure and total, so Scan is deterministic for fixed input.
func (b *Bank) Scan(text string, kind domain.ContentType) []domain.ThreatIndicator {
	indicators := make([]domain.ThreatIndicator, 0)
	for _, strategy := range b.strategies {
		indicators = append(indicators, strategy.Detect(text, kind)...)
	}
	return indicators
}

// Strategies exposes the configured strategy names, used by the /patterns
// endpoint to describe detection capabilities.
func (b *Bank) Strategies() []string {
	names := make([]string, 0, len(b.strategies))
	for _, s := range b.strategies {
		names = append(names, s.Name())
	}
	return names
}

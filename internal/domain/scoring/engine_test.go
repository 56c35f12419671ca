package scoring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phishguard/phishguard/internal/domain"
)

func ind(category string, severity domain.Severity, confidence float64) domain.ThreatIndicator {
	return domain.ThreatIndicator{
		Category:    category,
		Description: category,
		Severity:    severity,
		MatchedText: category,
		Confidence:  confidence,
	}
}

func newTestEngine() *Engine {
	return NewEngine(DefaultConfig())
}

func TestDedupe(t *testing.T) {
	a := ind("Urgency Language", domain.SeverityHigh, 0.7)
	b := a
	b.Confidence = 0.9 // same (category, matched text), different confidence
	c := ind("Urgency Language", domain.SeverityHigh, 0.7)
	c.MatchedText = "different"

	out := Dedupe([]domain.ThreatIndicator{a, b, c})

	require.Len(t, out, 2)
	assert.Equal(t, a, out[0], "first occurrence wins")
	assert.Equal(t, c, out[1])
}

func TestSortIndicators(t *testing.T) {
	indicators := []domain.ThreatIndicator{
		ind("low", domain.SeverityLow, 0.9),
		ind("med-a", domain.SeverityMedium, 0.5),
		ind("crit", domain.SeverityCritical, 0.8),
		ind("med-b", domain.SeverityMedium, 0.9),
		ind("high", domain.SeverityHigh, 0.6),
	}

	SortIndicators(indicators)

	order := make([]string, len(indicators))
	for i, x := range indicators {
		order[i] = x.Category
	}
	assert.Equal(t, []string{"crit", "high", "med-b", "med-a", "low"}, order)
}

func TestFuse_NoIndicatorsDampensClassifier(t *testing.T) {
	engine := newTestEngine()

	outcome := engine.Fuse(nil, 0.9)

	assert.InDelta(t, 0.27, outcome.CombinedScore, 0.001, "0.3 x ml probability")
	assert.Equal(t, domain.ClassSuspicious, outcome.Classification)

	quiet := engine.Fuse(nil, 0.5)
	assert.InDelta(t, 0.15, quiet.CombinedScore, 0.001)
	assert.Equal(t, domain.ClassSafe, quiet.Classification)
	assert.Equal(t, domain.RiskLow, quiet.RiskLevel)
}

func TestFuse_LightEvidenceBlend(t *testing.T) {
	engine := newTestEngine()
	indicators := []domain.ThreatIndicator{ind("Suspicious Phrasing", domain.SeverityLow, 0.5)}

	outcome := engine.Fuse(indicators, 0.2)

	// heuristic = 0.08 * 0.5 = 0.04; combined = 0.7*0.04 + 0.3*0.2
	assert.InDelta(t, 0.088, outcome.CombinedScore, 0.001)
	assert.Equal(t, domain.ClassSafe, outcome.Classification)
}

func TestFuse_ClassificationBoundaries(t *testing.T) {
	engine := newTestEngine()

	tests := []struct {
		combined           float64
		wantClass, wantRisk string
	}{
		{0.70, domain.ClassPhishing, domain.RiskCritical},
		{0.40, domain.ClassPhishing, domain.RiskHigh},
		{0.3999, domain.ClassSuspicious, domain.RiskMedium},
		{0.20, domain.ClassSuspicious, domain.RiskMedium},
		{0.1999, domain.ClassSafe, domain.RiskLow},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.4f", tt.combined), func(t *testing.T) {
			class, risk := engine.classify(tt.combined)
			assert.Equal(t, tt.wantClass, class)
			assert.Equal(t, tt.wantRisk, risk)
		})
	}
}

func TestFuse_CriticalEvidenceDominates(t *testing.T) {
	engine := newTestEngine()
	indicators := []domain.ThreatIndicator{
		ind("Credential Harvesting", domain.SeverityCritical, 0.95),
		ind("Urgency Language", domain.SeverityCritical, 0.85),
		ind("Suspicious TLD", domain.SeverityHigh, 0.85),
	}

	outcome := engine.Fuse(indicators, 0.1)

	assert.Equal(t, domain.ClassPhishing, outcome.Classification)
	assert.Equal(t, domain.RiskCritical, outcome.RiskLevel)
	assert.GreaterOrEqual(t, outcome.CombinedScore, 0.85, "three critical/high indicators floor the score")
}

func TestFuse_CombinedFloors(t *testing.T) {
	engine := newTestEngine()

	t.Run("one critical floors at 0.65", func(t *testing.T) {
		outcome := engine.Fuse([]domain.ThreatIndicator{
			ind("Link Mismatch", domain.SeverityCritical, 0.5),
		}, 0.0)
		assert.GreaterOrEqual(t, outcome.CombinedScore, 0.65)
	})

	t.Run("high plus two mediums floors at 0.55", func(t *testing.T) {
		outcome := engine.Fuse([]domain.ThreatIndicator{
			ind("Suspicious TLD", domain.SeverityHigh, 0.5),
			ind("Suspicious Path", domain.SeverityMedium, 0.5),
			ind("Suspicious Structure", domain.SeverityMedium, 0.5),
		}, 0.0)
		assert.GreaterOrEqual(t, outcome.CombinedScore, 0.55)
	})

	t.Run("three mediums floor at 0.40", func(t *testing.T) {
		outcome := engine.Fuse([]domain.ThreatIndicator{
			ind("Suspicious Path", domain.SeverityMedium, 0.3),
			ind("Suspicious Structure", domain.SeverityMedium, 0.3),
			ind("Suspicious Domain", domain.SeverityMedium, 0.3),
		}, 0.0)
		assert.GreaterOrEqual(t, outcome.CombinedScore, 0.40)
		assert.Equal(t, domain.ClassPhishing, outcome.Classification)
	})
}

func TestFuse_BoostsCompound(t *testing.T) {
	engine := newTestEngine()

	// credential+urgency, credential+url and urgency+url all present:
	// base heuristic 0.18*0.5*3 = 0.27, boosted 0.27*1.4*1.3*1.3 = 0.639
	outcome := engine.Fuse([]domain.ThreatIndicator{
		ind("Credential Harvesting", domain.SeverityMedium, 0.5),
		ind("Urgency Language", domain.SeverityMedium, 0.5),
		ind("Suspicious TLD", domain.SeverityMedium, 0.5),
	}, 0.0)

	assert.InDelta(t, 0.639, outcome.HeuristicScore, 0.001)
}

func TestFuse_MonotonicInCriticalIndicators(t *testing.T) {
	engine := newTestEngine()

	base := []domain.ThreatIndicator{
		ind("Urgency Language", domain.SeverityMedium, 0.6),
		ind("Suspicious Path", domain.SeverityMedium, 0.6),
	}
	withCritical := append(append([]domain.ThreatIndicator{}, base...),
		ind("Credential Harvesting", domain.SeverityCritical, 0.95))

	for _, ml := range []float64{0.0, 0.25, 0.5, 0.75, 1.0} {
		before := engine.Fuse(base, ml).CombinedScore
		after := engine.Fuse(withCritical, ml).CombinedScore
		assert.GreaterOrEqual(t, after, before, "ml=%.2f", ml)
	}
}

func TestFuse_TruncatesIndicatorList(t *testing.T) {
	engine := newTestEngine()

	var indicators []domain.ThreatIndicator
	for i := 0; i < 25; i++ {
		indicators = append(indicators, ind(fmt.Sprintf("cat-%d", i), domain.SeverityMedium, 0.5))
	}

	outcome := engine.Fuse(indicators, 0.0)

	assert.Len(t, outcome.Indicators, 15)
	assert.Equal(t, 25, outcome.Breakdown.Medium, "tallies count the full set")
}

func TestFuse_ScoreIsRoundedToThreeDecimals(t *testing.T) {
	engine := newTestEngine()

	outcome := engine.Fuse(nil, 0.123456)
	assert.InDelta(t, 0.037, outcome.CombinedScore, 1e-9)
}

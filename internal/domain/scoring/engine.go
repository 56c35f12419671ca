package scoring

import (
	"math"
	"sort"

	"github.com/phishguard/phishguard/internal/domain"
)

// Engine combines a heuristic indicator score with a classifier probability
// and maps the result onto classification and risk bands. It is pure and
// safe for concurrent use.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Outcome is the full fusion result for one piece of content
type Outcome struct {
	Indicators     []domain.ThreatIndicator
	Breakdown      domain.SeverityBreakdown
	HeuristicScore float64
	CombinedScore  float64
	Classification string
	RiskLevel      string
}

// Fuse deduplicates and orders the raw indicators, derives the heuristic
// score with correlation boosts and floors, blends in the classifier
// probability and classifies the combined score. mlProb must already be in
// [0, 1].
func (e *Engine) Fuse(raw []domain.ThreatIndicator, mlProb float64) Outcome {
	indicators := Dedupe(raw)
	SortIndicators(indicators)

	breakdown := countSeverities(indicators)
	heuristic := e.heuristicScore(indicators, breakdown)
	combined := e.combine(heuristic, mlProb, breakdown)
	combined = e.applyCombinedFloors(combined, breakdown)

	classification, risk := e.classify(combined)

	if len(indicators) > e.cfg.MaxIndicators {
		indicators = indicators[:e.cfg.MaxIndicators]
	}

	return Outcome{
		Indicators:     indicators,
		Breakdown:      breakdown,
		HeuristicScore: round3(heuristic),
		CombinedScore:  round3(combined),
		Classification: classification,
		RiskLevel:      risk,
	}
}

// Dedupe drops repeated (category, matched text) pairs, keeping the first
// occurrence so a detector's strongest rule wins over later echoes.
func Dedupe(indicators []domain.ThreatIndicator) []domain.ThreatIndicator {
	type key struct{ category, matched string }
	seen := make(map[key]struct{}, len(indicators))
	out := make([]domain.ThreatIndicator, 0, len(indicators))
	for _, ind := range indicators {
		k := key{ind.Category, ind.MatchedText}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, ind)
	}
	return out
}

// SortIndicators orders by severity (critical first) then confidence
// descending. The sort is stable so equal indicators keep detection order.
func SortIndicators(indicators []domain.ThreatIndicator) {
	sort.SliceStable(indicators, func(i, j int) bool {
		a, b := indicators[i], indicators[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		return a.Confidence > b.Confidence
	})
}

func countSeverities(indicators []domain.ThreatIndicator) domain.SeverityBreakdown {
	var b domain.SeverityBreakdown
	for _, ind := range indicators {
		switch ind.Severity {
		case domain.SeverityCritical:
			b.Critical++
		case domain.SeverityHigh:
			b.High++
		case domain.SeverityMedium:
			b.Medium++
		case domain.SeverityLow:
			b.Low++
		}
	}
	return b
}

// heuristicScore sums severity-weighted confidences, applies the correlation
// boosts in order, then raises the result to the evidence floors.
func (e *Engine) heuristicScore(indicators []domain.ThreatIndicator, b domain.SeverityBreakdown) float64 {
	if len(indicators) == 0 {
		return 0
	}

	score := 0.0
	for _, ind := range indicators {
		score += e.cfg.SeverityWeights[ind.Severity] * ind.Confidence
	}
	score = math.Min(score, 1.0)

	for _, boost := range e.cfg.Boosts {
		if matchesAny(indicators, boost.First) && matchesAny(indicators, boost.Second) {
			score = math.Min(score*boost.Multiplier, 1.0)
		}
	}

	critHigh := b.Critical + b.High
	switch {
	case critHigh >= 3:
		score = math.Max(score, 0.70)
	case critHigh >= 2:
		score = math.Max(score, 0.50)
	}
	if b.Critical >= 1 {
		score = math.Max(score, 0.45)
	}
	return score
}

func matchesAny(indicators []domain.ThreatIndicator, pred func(domain.ThreatIndicator) bool) bool {
	for _, ind := range indicators {
		if pred(ind) {
			return true
		}
	}
	return false
}

// combine blends heuristic and classifier scores. The branch structure
// encodes a trust policy: rules dominate when they fire, the classifier is
// damped when they do not.
func (e *Engine) combine(heuristic, mlProb float64, b domain.SeverityBreakdown) float64 {
	total := b.Critical + b.High + b.Medium + b.Low
	critHigh := b.Critical + b.High

	switch {
	case total == 0:
		return e.cfg.MLOnlyDamping * mlProb
	case critHigh == 0 && b.Medium <= 1:
		return e.cfg.LightHeuristicWeight*heuristic + e.cfg.LightMLWeight*mlProb
	default:
		blend := e.cfg.BlendHeuristicWeight*heuristic + e.cfg.BlendMLWeight*mlProb
		return math.Max(math.Max(heuristic, mlProb), blend)
	}
}

// applyCombinedFloors raises the fused score to the minimum justified by the
// indicator census, so heavy evidence cannot be averaged away by a confident
// classifier.
func (e *Engine) applyCombinedFloors(score float64, b domain.SeverityBreakdown) float64 {
	critHigh := b.Critical + b.High
	switch {
	case critHigh >= 3 || b.Critical >= 2:
		score = math.Max(score, 0.85)
	case critHigh >= 2 || b.Critical >= 1:
		score = math.Max(score, 0.65)
	case b.High >= 1 && b.Medium >= 2:
		score = math.Max(score, 0.55)
	case critHigh >= 1 && b.Medium >= 1:
		score = math.Max(score, 0.45)
	case b.Medium >= 3:
		score = math.Max(score, 0.40)
	}
	return math.Min(score, 1.0)
}

func (e *Engine) classify(combined float64) (classification, risk string) {
	switch {
	case combined >= e.cfg.PhishingThreshold:
		if combined >= e.cfg.CriticalRiskThreshold {
			return domain.ClassPhishing, domain.RiskCritical
		}
		return domain.ClassPhishing, domain.RiskHigh
	case combined >= e.cfg.SuspiciousThreshold:
		return domain.ClassSuspicious, domain.RiskMedium
	default:
		return domain.ClassSafe, domain.RiskLow
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

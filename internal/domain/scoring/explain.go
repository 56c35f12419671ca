package scoring

import (
	"fmt"
	"strings"

	"github.com/phishguard/phishguard/internal/domain"
)

// categoryRoots returns up to limit distinct category roots in indicator
// order. The root is the category text before any parenthetical qualifier,
// so "Kenya Target (Mpesa)" and "Kenya Target (Banks)" collapse to one root.
func categoryRoots(indicators []domain.ThreatIndicator, limit int) []string {
	seen := make(map[string]struct{}, limit)
	roots := make([]string, 0, limit)
	for _, ind := range indicators {
		root := ind.Category
		if idx := strings.Index(root, " ("); idx >= 0 {
			root = root[:idx]
		}
		if _, dup := seen[root]; dup {
			continue
		}
		seen[root] = struct{}{}
		roots = append(roots, root)
		if len(roots) == limit {
			break
		}
	}
	return roots
}

// Explain renders a human-readable verdict summary. Indicators must already
// be deduplicated and sorted; the wording leads with the most severe
// evidence.
func Explain(classification string, indicators []domain.ThreatIndicator, kind domain.ContentType) string {
	ct := string(kind)
	n := len(indicators)

	switch classification {
	case domain.ClassPhishing:
		critical := 0
		for _, ind := range indicators {
			if ind.Severity == domain.SeverityCritical {
				critical++
			}
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "⚠️ PHISHING DETECTED: This %s shows %d threat indicators. ", ct, n)
		if critical > 0 {
			fmt.Fprintf(&sb, "Found %d critical issue(s). ", critical)
		}
		fmt.Fprintf(&sb, "Detected patterns: %s.", strings.Join(categoryRoots(indicators, 4), ", "))
		return sb.String()

	case domain.ClassSuspicious:
		return fmt.Sprintf("⚡ SUSPICIOUS: This %s contains %d warning signs. Detected: %s. Proceed with caution.",
			ct, n, strings.Join(categoryRoots(indicators, 3), ", "))

	default:
		if n > 0 {
			return fmt.Sprintf("✅ LOW RISK: This %s has minor concerns (%d indicator(s)). Exercise normal caution.", ct, n)
		}
		return fmt.Sprintf("This %s appears to be legitimate. No phishing indicators were detected.", ct)
	}
}

// Recommend produces actionable guidance scaled to the verdict. At most six
// recommendations are returned.
func Recommend(classification string, indicators []domain.ThreatIndicator) []string {
	const maxRecommendations = 6

	var recs []string
	switch classification {
	case domain.ClassPhishing:
		recs = append(recs,
			"🚫 DO NOT click any links in this message",
			"🚫 DO NOT provide any personal information, PINs, or passwords",
			"🗑️ Delete this message immediately",
		)
		if anyCategoryContains(indicators, "credential") {
			recs = append(recs, "🔒 If you shared any details, change your passwords NOW")
		}
		if anyCategoryContains(indicators, "mpesa") || anyCategoryContains(indicators, "kenya") {
			recs = append(recs, "📞 Contact Safaricom (100) or your bank directly to verify")
		}
		recs = append(recs, "🚨 Report this to your bank's fraud desk")

	case domain.ClassSuspicious:
		recs = append(recs,
			"⚠️ Verify the sender through official channels before responding",
			"🔍 Do not click links; type the official website address yourself",
			"📞 Call the organization directly using a number you trust",
		)

	default:
		recs = append(recs, "✅ No action needed, but stay vigilant with unexpected messages")
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func anyCategoryContains(indicators []domain.ThreatIndicator, term string) bool {
	for _, ind := range indicators {
		if strings.Contains(strings.ToLower(ind.Category), term) {
			return true
		}
	}
	return false
}

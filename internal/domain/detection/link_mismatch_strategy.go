package detection

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/phishguard/phishguard/internal/domain"
)

var (
	markdownLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	urlLikeRe      = regexp.MustCompile(`^https?://`)
)

// LinkMismatchStrategy detects links whose visible text disagrees with the
// actual destination. It understands markdown-style [text](url) markup and
// HTML anchors. A mismatch is only flagged when the visible text itself looks
// like a URL and neither string contains the other; that is the classic
// "shows paypal.com, links to evil.xyz" construction.
type LinkMismatchStrategy struct{}

// NewLinkMismatchStrategy creates the link/display mismatch detector
func NewLinkMismatchStrategy() *LinkMismatchStrategy {
	return &LinkMismatchStrategy{}
}

// Name returns the strategy name
func (s *LinkMismatchStrategy) Name() string {
	return "Link Mismatch"
}

// Detect scans markdown and HTML link markup for display/target mismatches.
// Unparsable markup contributes nothing; this detector never fails.
func (s *LinkMismatchStrategy) Detect(text string, kind domain.ContentType) []domain.ThreatIndicator {
	var indicators []domain.ThreatIndicator

	for _, m := range markdownLinkRe.FindAllStringSubmatch(text, -1) {
		if ind := checkLinkPair(m[1], m[2]); ind != nil {
			indicators = append(indicators, *ind)
		}
	}

	// HTML anchors only matter for email bodies, which may carry markup
	if strings.Contains(strings.ToLower(text), "<a") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
		if err == nil {
			doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
				href, _ := sel.Attr("href")
				if ind := checkLinkPair(sel.Text(), href); ind != nil {
					indicators = append(indicators, *ind)
				}
			})
		}
	}

	return indicators
}

// checkLinkPair applies the mismatch rule to one (visible, target) pair
func checkLinkPair(visible, target string) *domain.ThreatIndicator {
	visible = strings.ToLower(strings.TrimSpace(visible))
	target = strings.ToLower(strings.TrimSpace(target))
	if visible == "" || target == "" {
		return nil
	}

	if !urlLikeRe.MatchString(visible) && !strings.Contains(visible, "www.") {
		return nil
	}
	if strings.Contains(target, visible) || strings.Contains(visible, target) {
		return nil
	}

	return &domain.ThreatIndicator{
		Category:    "Link Mismatch",
		Description: "Displayed URL differs from actual destination",
		Severity:    domain.SeverityCritical,
		MatchedText: fmt.Sprintf("Shows: %s... Links to: %s...", truncate(visible, 30), truncate(target, 30)),
		Confidence:  0.95,
	}
}

// truncate shortens s to at most n bytes without panicking on short input
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

package urlanalysis

import (
	"regexp"
	"strings"
)

// URL extraction patterns, probed in declared order: explicit scheme first,
// then www-prefixed hosts, then bare domains with an optional path.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)https?://[^\s<>"'{}|\\^` + "`" + `\[\]]+`),
	regexp.MustCompile(`(?i)www\.[^\s<>"'{}|\\^` + "`" + `\[\]]+`),
	regexp.MustCompile(`(?i)[a-zA-Z0-9][-a-zA-Z0-9]*\.[a-zA-Z]{2,}(?:/[^\s<>"']*)?`),
}

// ExtractURLs pulls URL-shaped strings out of free text. Results are
// deduplicated preserving first-seen order so repeated analysis of the same
// text always yields the same sequence.
func ExtractURLs(text string) []string {
	seen := make(map[string]struct{})
	var urls []string

	for _, pattern := range urlPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			if _, ok := seen[match]; ok {
				continue
			}
			// Later, looser patterns re-match fragments of URLs the
			// earlier patterns already captured; drop those.
			if containedInAny(urls, match) {
				continue
			}
			seen[match] = struct{}{}
			urls = append(urls, match)
		}
	}
	return urls
}

func containedInAny(urls []string, candidate string) bool {
	for _, u := range urls {
		if strings.Contains(u, candidate) {
			return true
		}
	}
	return false
}

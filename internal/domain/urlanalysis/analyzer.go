package urlanalysis

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"

	"github.com/phishguard/phishguard/internal/domain"
	"github.com/phishguard/phishguard/internal/domain/ruleset"
	"github.com/willf/bloom"
	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

// pathRule pairs a suspicious path pattern with its display description
type pathRule struct {
	re          *regexp.Regexp
	description string
}

var suspiciousPathRules = []pathRule{
	{regexp.MustCompile(`/login`), "Login page in URL"},
	{regexp.MustCompile(`/verify`), "Verification page"},
	{regexp.MustCompile(`/secure`), "Claims to be secure"},
	{regexp.MustCompile(`/account`), "Account-related path"},
	{regexp.MustCompile(`/update`), "Update-related path"},
	{regexp.MustCompile(`/confirm`), "Confirmation path"},
	{regexp.MustCompile(`\.php\?`), "PHP with parameters"},
	{regexp.MustCompile(`/wp-admin`), "WordPress admin path"},
	{regexp.MustCompile(`\.(exe|scr|bat)`), "Executable file"},
}

// Analyzer performs the structural checks on a single URL: IP-literal host,
// shorteners, suspicious TLDs, homograph substitution, typosquatting,
// brand-in-subdomain spoofing, suspicious paths, domain entropy, subdomain
// depth, and spoof-of-legitimate-domain detection.
//
// Every check fails open: a URL the parser rejects simply contributes no
// indicators. The analyzer is immutable after construction and safe for
// concurrent use.
type Analyzer struct {
	// Bloom prefilter over the legitimate-domain allowlist; negatives are
	// definitive, positives are confirmed against the exact set.
	legitBloom *bloom.BloomFilter
	legitSet   map[string]struct{}
}

// NewAnalyzer builds an analyzer over the standard rule data
func NewAnalyzer() *Analyzer {
	a := &Analyzer{
		legitBloom: bloom.New(16384, 5),
		legitSet:   make(map[string]struct{}),
	}
	for _, d := range ruleset.AllLegitimateDomains() {
		a.legitBloom.AddString(d)
		a.legitSet[d] = struct{}{}
	}
	return a
}

// Analyze runs all structural checks against one URL and returns the
// indicators found, in check order.
func (a *Analyzer) Analyze(rawURL string) []domain.ThreatIndicator {
	// Normalize: scheme-less input is treated as plain http
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "http://" + rawURL
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return nil // fail open: unparsable URLs contribute nothing
	}

	host := strings.ToLower(parsed.Hostname())
	path := strings.ToLower(parsed.Path)
	if parsed.RawQuery != "" {
		path += "?" + strings.ToLower(parsed.RawQuery)
	}

	var indicators []domain.ThreatIndicator
	add := func(category, description string, severity domain.Severity, matched string, confidence float64) {
		indicators = append(indicators, domain.ThreatIndicator{
			Category:    category,
			Description: description,
			Severity:    severity,
			MatchedText: matched,
			Confidence:  confidence,
		})
	}

	// IP-literal host. Digits in an address are not lookalike characters,
	// so the homograph and typosquat checks are skipped for IPs.
	isIP := net.ParseIP(host) != nil
	if isIP {
		add("Suspicious URL", "URL uses IP address instead of domain name",
			domain.SeverityHigh, host, 0.9)
	}

	// Shortener services
	for _, shortener := range ruleset.URLShorteners {
		if strings.Contains(host, shortener) {
			add("URL Shortener",
				fmt.Sprintf("Shortened URL detected (%s) - destination unknown", shortener),
				domain.SeverityMedium, truncate(rawURL, 80), 0.7)
			break
		}
	}

	// Suspicious TLDs
	for _, tld := range ruleset.SuspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			add("Suspicious TLD", fmt.Sprintf("Domain uses suspicious TLD: %s", tld),
				domain.SeverityHigh, host, 0.85)
			break
		}
	}

	// Homograph substitution
	if normalized := foldHomographs(host); !isIP && normalized != host {
		add("Homograph Attack",
			fmt.Sprintf("Contains lookalike characters: %s -> %s", host, normalized),
			domain.SeverityCritical, host, 0.95)
	}

	// Typosquatting against the brand list
	if reason := detectTyposquat(host); !isIP && reason != "" {
		add("Typosquatting", reason, domain.SeverityCritical, host, 0.9)
	}

	// Brand token in a subdomain but not in the registrable domain
	base := registrableDomain(host)
	for _, brand := range ruleset.BrandTargets {
		if strings.Contains(host, brand) && base != "" && !strings.Contains(base, brand) {
			add("Domain Spoofing",
				fmt.Sprintf("Brand '%s' used in subdomain to appear legitimate", brand),
				domain.SeverityHigh, host, 0.85)
		}
	}

	// Suspicious path keywords
	for _, rule := range suspiciousPathRules {
		if rule.re.MatchString(path) {
			add("Suspicious Path", rule.description, domain.SeverityMedium, truncate(path, 50), 0.6)
		}
	}

	// Domain entropy: long + random-looking hosts
	if len(host) > 15 && Entropy(strings.ReplaceAll(host, ".", "")) > 3.5 {
		add("Suspicious Domain", "Domain appears randomly generated",
			domain.SeverityMedium, host, 0.7)
	}

	// Excessive subdomain nesting
	if subdomains := strings.Count(host, ".") - 1; subdomains >= 3 {
		add("Suspicious Structure",
			fmt.Sprintf("Excessive subdomains (%d levels)", subdomains+1),
			domain.SeverityMedium, host, 0.65)
	}

	// Spoof of a legitimate domain. Skipped entirely when the host is a
	// known legitimate domain or a true subdomain of one.
	if !a.isLegitimate(host) {
		for _, legit := range ruleset.AllLegitimateDomains() {
			name := strings.SplitN(legit, ".", 2)[0]
			if len(name) < 4 {
				continue // short names ("t", "kra") false-positive too easily
			}
			if strings.Contains(host, name) && !strings.Contains(host, legit) {
				add("Domain Spoofing",
					fmt.Sprintf("Possible spoofed domain mimicking %s", legit),
					domain.SeverityCritical, host, 0.9)
				break
			}
		}
	}

	return indicators
}

// isLegitimate reports whether host is an allowlisted domain or a true
// subdomain of one. The bloom filter rejects most candidates without
// touching the exact set.
func (a *Analyzer) isLegitimate(host string) bool {
	rest := host
	for {
		if a.legitBloom.TestString(rest) {
			if _, ok := a.legitSet[rest]; ok {
				return true
			}
		}
		i := strings.Index(rest, ".")
		if i < 0 {
			return false
		}
		rest = rest[i+1:]
	}
}

// foldHomographs replaces each confusable character with the Latin letter it
// imitates. A changed result means the host relies on lookalike characters.
func foldHomographs(host string) string {
	var b strings.Builder
	b.Grow(len(host))
	for _, r := range host {
		if real, ok := ruleset.HomographMap[r]; ok {
			b.WriteRune(real)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// registrableDomain returns the eTLD+1 for a host, handling multi-label
// public suffixes like co.ke that a naive last-two-labels split gets wrong.
// Unicode hosts are converted through IDNA first.
func registrableDomain(host string) string {
	if ascii, err := idna.Lookup.ToASCII(host); err == nil && ascii != "" {
		host = ascii
	}
	base, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// Fall back to the last two labels for hosts the suffix list
		// cannot place (IP literals, single-label names).
		parts := strings.Split(host, ".")
		if len(parts) < 2 {
			return host
		}
		return parts[len(parts)-2] + "." + parts[len(parts)-1]
	}
	return base
}

// truncate bounds matched-text excerpts for display
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

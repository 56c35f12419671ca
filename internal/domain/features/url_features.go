package features

import (
	"net"
	"net/url"
	"strings"

	"github.com/phishguard/phishguard/internal/domain/ruleset"
	"github.com/phishguard/phishguard/internal/domain/urlanalysis"
)

// urlFeatureNames is the canonical order of the URL feature set. Training
// freezes a copy of this list; inference reproduces vectors against the
// frozen copy.
var urlFeatureNames = []string{
	"url_length", "domain_length", "path_length", "query_length",
	"num_dots", "num_hyphens", "num_underscores", "num_digits", "num_letters",
	"num_special_chars", "digit_ratio", "letter_ratio", "special_char_ratio",
	"vowel_ratio", "has_ip", "has_https", "has_port", "has_at_symbol",
	"has_double_slash", "has_punycode", "num_subdomains", "path_depth",
	"num_query_params", "has_fragment", "suspicious_tld", "is_shortener",
	"tld_length", "domain_entropy", "url_entropy", "path_entropy",
	"has_brand_token", "brand_in_subdomain", "suspicious_path_keyword",
	"longest_label_length", "avg_label_length",
}

// URLFeatureNames returns the canonical URL feature name order
func URLFeatureNames() []string {
	names := make([]string, len(urlFeatureNames))
	copy(names, urlFeatureNames)
	return names
}

var pathKeywords = []string{"/login", "/verify", "/secure", "/account", "/update", "/confirm", ".php", "/wp-admin", ".exe", ".scr", ".bat"}

// ExtractURLFeatures builds the lexical feature vector for one URL. No
// network access is involved: every feature derives from the character and
// token structure of the URL itself.
func ExtractURLFeatures(rawURL string) Vector {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		rawURL = "http://" + rawURL
	}

	v := make(Vector, len(urlFeatureNames))
	for _, name := range urlFeatureNames {
		v[name] = 0.0
	}

	lower := strings.ToLower(rawURL)
	v["url_length"] = float64(len(lower))
	v["url_entropy"] = urlanalysis.Entropy(lower)
	v["has_https"] = boolFeature(strings.HasPrefix(lower, "https://"))
	v["has_at_symbol"] = boolFeature(strings.Contains(lower, "@"))

	var digits, letters, special, vowels int
	for _, r := range lower {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r >= 'a' && r <= 'z':
			letters++
			if strings.ContainsRune("aeiou", r) {
				vowels++
			}
		case r == '/' || r == ':' || r == '.':
			// structural separators, counted elsewhere
		default:
			special++
		}
	}
	v["num_digits"] = float64(digits)
	v["num_letters"] = float64(letters)
	v["num_special_chars"] = float64(special)
	v["digit_ratio"] = safeDiv(float64(digits), len(lower))
	v["letter_ratio"] = safeDiv(float64(letters), len(lower))
	v["special_char_ratio"] = safeDiv(float64(special), len(lower))
	v["vowel_ratio"] = safeDiv(float64(vowels), letters)
	v["num_dots"] = float64(strings.Count(lower, "."))
	v["num_hyphens"] = float64(strings.Count(lower, "-"))
	v["num_underscores"] = float64(strings.Count(lower, "_"))

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return v // structural features stay zero for unparsable input
	}

	host := strings.ToLower(parsed.Hostname())
	path := strings.ToLower(parsed.EscapedPath())
	query := parsed.RawQuery

	v["domain_length"] = float64(len(host))
	v["path_length"] = float64(len(path))
	v["query_length"] = float64(len(query))
	v["has_ip"] = boolFeature(net.ParseIP(host) != nil)
	v["has_port"] = boolFeature(parsed.Port() != "")
	v["has_double_slash"] = boolFeature(strings.Contains(path, "//"))
	v["has_punycode"] = boolFeature(strings.Contains(host, "xn--"))
	v["has_fragment"] = boolFeature(parsed.Fragment != "")
	v["domain_entropy"] = urlanalysis.Entropy(strings.ReplaceAll(host, ".", ""))
	v["path_entropy"] = urlanalysis.Entropy(path)

	labels := strings.Split(host, ".")
	if len(labels) > 2 {
		v["num_subdomains"] = float64(len(labels) - 2)
	}
	longest, total := 0, 0
	for _, label := range labels {
		total += len(label)
		if len(label) > longest {
			longest = len(label)
		}
	}
	v["longest_label_length"] = float64(longest)
	v["avg_label_length"] = safeDiv(float64(total), len(labels))
	v["tld_length"] = float64(len(labels[len(labels)-1]))

	v["path_depth"] = float64(strings.Count(strings.TrimSuffix(path, "/"), "/"))
	if query != "" {
		v["num_query_params"] = float64(len(strings.Split(query, "&")))
	}

	for _, tld := range ruleset.SuspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			v["suspicious_tld"] = 1.0
			break
		}
	}
	for _, shortener := range ruleset.URLShorteners {
		if strings.Contains(host, shortener) {
			v["is_shortener"] = 1.0
			break
		}
	}
	for _, brand := range ruleset.BrandTargets {
		if strings.Contains(host, brand) {
			v["has_brand_token"] = 1.0
			if len(labels) >= 3 && !strings.Contains(strings.Join(labels[len(labels)-2:], "."), brand) {
				v["brand_in_subdomain"] = 1.0
			}
			break
		}
	}

	fullPath := path
	if query != "" {
		fullPath += "?" + strings.ToLower(query)
	}
	for _, kw := range pathKeywords {
		if strings.Contains(fullPath, kw) {
			v["suspicious_path_keyword"] = 1.0
			break
		}
	}

	return v
}

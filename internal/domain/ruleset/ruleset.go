// Package ruleset holds the literal rule data shared by the URL analyzer and
// the feature extractors: suspicious TLDs, shortener services, brand targets,
// the legitimate-domain allowlist, and the confusable-character map.
//
// Several of these lists carry empirically tuned content; they are data, not
// code, and are kept separate from the matching algorithms that consume them.
package ruleset

// SuspiciousTLDs are top-level domains disproportionately used in phishing
// campaigns. Matched as suffixes against the full host.
var SuspiciousTLDs = []string{
	".xyz", ".tk", ".ml", ".ga", ".cf", ".gq", ".top", ".club", ".work",
	".click", ".link", ".info", ".online", ".site", ".website", ".space",
	".pw", ".cc", ".ws", ".buzz", ".cam", ".icu", ".vip", ".loan",
}

// URLShorteners are known link-shortening services; a shortened URL hides
// its destination from the reader.
var URLShorteners = []string{
	"bit.ly", "tinyurl.com", "t.co", "goo.gl", "ow.ly", "is.gd", "buff.ly",
	"adf.ly", "shorte.st", "bc.vc", "j.mp", "v.gd", "rb.gy", "cutt.ly",
}

// HomographMap maps visually confusable characters to the Latin letter they
// imitate: Cyrillic look-alikes, digit/letter look-alikes, and symbol
// look-alikes. The map is fixed; its exact contents define the homograph
// check's behavior and must not be swapped for a broader Unicode table.
var HomographMap = map[rune]rune{
	'а': 'a', 'е': 'e', 'о': 'o', 'р': 'p', 'с': 'c', 'х': 'x', // Cyrillic
	'і': 'i', 'ѕ': 's', 'ј': 'j', 'һ': 'h', 'ԁ': 'd', 'ɡ': 'g', // Various
	'0': 'o', '1': 'l', '3': 'e', '4': 'a', '5': 's', '8': 'b', // Numbers
	'@': 'a', '$': 's', '!': 'i', // Symbols
}

// BrandTargets are brand names commonly typosquatted or spoofed
var BrandTargets = []string{
	"safaricom", "mpesa", "equity", "kcb", "google", "facebook", "microsoft",
	"apple", "amazon", "paypal", "netflix", "whatsapp", "instagram", "twitter",
}

// SuspiciousSuffixWords are additions that turn a brand name into a
// phishing domain ("mpesa-secure", "paypal-login").
var SuspiciousSuffixWords = []string{
	"secure", "login", "verify", "update", "account", "support", "help", "service",
}

// TyposquatSubstitutions are the digit/letter swaps probed by the
// typosquatting check, in both directions.
var TyposquatSubstitutions = [][2]string{
	{"o", "0"}, {"l", "1"}, {"i", "1"}, {"s", "5"}, {"a", "4"},
}

// GlobalLegitimateDomains is the worldwide allowlist
var GlobalLegitimateDomains = []string{
	"google.com", "gmail.com", "microsoft.com", "outlook.com", "apple.com",
	"amazon.com", "facebook.com", "twitter.com", "linkedin.com", "github.com",
	"paypal.com", "stripe.com", "netflix.com", "spotify.com",
}

// KenyaLegitimateDomains is the regional allowlist
var KenyaLegitimateDomains = []string{
	"safaricom.co.ke", "mpesa.co.ke", "equity.co.ke", "equitybankgroup.com",
	"kcbgroup.com", "co-opbank.co.ke", "standardchartered.co.ke", "stanbicbank.co.ke",
	"absa.co.ke", "ncbagroup.com", "familybank.co.ke", "dtbafrica.com",
	"imbank.com", "kra.go.ke", "ecitizen.go.ke", "ntsa.go.ke", "nhif.or.ke",
	"nssf.or.ke", "nation.africa", "standardmedia.co.ke", "citizen.digital",
}

// AllLegitimateDomains returns the combined allowlist, global first
func AllLegitimateDomains() []string {
	all := make([]string, 0, len(GlobalLegitimateDomains)+len(KenyaLegitimateDomains))
	all = append(all, GlobalLegitimateDomains...)
	all = append(all, KenyaLegitimateDomains...)
	return all
}

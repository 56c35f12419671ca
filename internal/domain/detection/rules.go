package detection

import (
	"regexp"

	"github.com/phishguard/phishguard/internal/domain"
)

// Rule data for the text detector families. The matching algorithms live in
// the individual strategies; these tables are the configuration they consume,
// so tuning a phrase list never touches scanning code.

// Urgency phrases, keyed by severity tier. Tier order is the declared scan
// order: the most severe phrasing lists come first.
var urgencyTiers = []phraseTier{
	{domain.SeverityCritical, []string{
		"immediately", "right now", "within 1 hour", "urgent action required",
		"account will be closed", "permanent suspension", "final notice",
	}},
	{domain.SeverityHigh, []string{
		"urgent", "act now", "expires today", "within 24 hours", "within 48 hours",
		"limited time", "last chance", "don't delay", "time sensitive",
		"respond immediately", "action needed", "verify now",
	}},
	{domain.SeverityMedium, []string{
		"soon", "quickly", "asap", "important", "attention required",
		"please respond", "awaiting your response", "pending action",
	}},
}

// Countdown/deadline phrasing. Always high severity: explicit time pressure
// is a stronger signal than a lone urgency keyword.
var timePressureRules = []regexRule{
	{regexp.MustCompile(`\d+\s*(hours?|minutes?|mins?)\s*(left|remaining)`), "Time countdown", domain.SeverityHigh, 0.8},
	{regexp.MustCompile(`expires?\s+(in\s+)?\d+`), "Expiration time", domain.SeverityHigh, 0.8},
	{regexp.MustCompile(`deadline\s*:?\s*\d+`), "Deadline mentioned", domain.SeverityHigh, 0.8},
}

// Credential harvesting patterns. Critical is reserved for PIN/OTP/card/ID
// requests, high for password and verification-code requests, medium for
// generic "verify your account" phrasing.
var credentialTiers = []tierRule{
	{domain.SeverityCritical, compileAll([]string{
		`enter\s+(your\s+)?pin`, `mpesa\s+pin`, `atm\s+pin`, `secret\s+pin`,
		`enter\s+cvv`, `card\s+number`, `bank\s+account\s+number`,
		`(send|share|provide)\s+(your\s+)?(pin|password|otp)`,
		`social\s+security`, `id\s+number`, `passport\s+number`,
	})},
	{domain.SeverityHigh, compileAll([]string{
		`enter\s+(your\s+)?password`, `confirm\s+(your\s+)?password`,
		`login\s+credentials`, `banking\s+details`, `verification\s+code`,
		`one\s+time\s+password`, `otp`, `secret\s+code`, `security\s+code`,
		`mother'?s?\s+maiden`, `date\s+of\s+birth`, `full\s+name`,
	})},
	{domain.SeverityMedium, compileAll([]string{
		`verify\s+(your\s+)?account`, `confirm\s+(your\s+)?identity`,
		`update\s+(your\s+)?(account|details|information)`,
		`personal\s+information`, `contact\s+details`,
	})},
}

// Threatening language patterns. Critical covers termination and legal
// threats, high covers access-loss threats, medium vague scare phrasing.
var threatTiers = []tierRule{
	{domain.SeverityCritical, compileAll([]string{
		`account\s+(will\s+be\s+)?(permanently\s+)?(suspended|terminated|blocked|closed)`,
		`legal\s+action`, `(will\s+be\s+)?prosecuted`, `arrest\s+warrant`,
		`police\s+report`, `fraud\s+investigation`,
	})},
	{domain.SeverityHigh, compileAll([]string{
		`(will\s+be\s+)?(blocked|disabled|frozen|restricted)`,
		`(will\s+)?lose\s+access`, `funds?\s+(will\s+be\s+)?lost`,
		`service\s+(will\s+be\s+)?discontinued`, `penalty`, `fine`,
	})},
	{domain.SeverityMedium, compileAll([]string{
		`unauthorized\s+access`, `suspicious\s+activity`, `security\s+breach`,
		`compromised`, `at\s+risk`,
	})},
}

// regionalTarget is one category of locally targeted brands. Policy: at most
// one indicator per category, first keyword in declared order wins.
type regionalTarget struct {
	display  string
	keywords []string
}

// Kenya-specific phishing targets. A hit escalates to critical only when a
// credential-harvesting pattern is present in the same text.
var kenyaTargets = []regionalTarget{
	{"Mpesa", []string{"mpesa", "m-pesa", "m pesa", "safaricom money", "lipa na mpesa", "paybill", "till number", "send money"}},
	{"Banks", []string{"equity bank", "kcb", "cooperative bank", "co-op bank", "ncba", "stanbic", "absa", "standard chartered",
		"family bank", "dtb", "i&m bank", "barclays", "diamond trust"}},
	{"Telcos", []string{"safaricom", "airtel", "telkom kenya", "faiba"}},
	{"Government", []string{"kra", "kenya revenue", "ntsa", "ecitizen", "huduma", "nhif", "nssf", "immigration"}},
	{"Mobile Money", []string{"airtel money", "t-kash", "equitel", "mshwari", "fuliza", "kcb mpesa"}},
}

// Generic mass-phishing greetings
var greetingRules = []regexRule{
	{regexp.MustCompile(`dear\s+(customer|user|member|valued\s+customer|account\s+holder|client)`), "Generic greeting", domain.SeverityLow, 0.5},
	{regexp.MustCompile(`(hello|hi)\s+(there|user|customer)`), "Impersonal greeting", domain.SeverityLow, 0.5},
}

// Suspicious calls-to-action
var ctaRules = []regexRule{
	{regexp.MustCompile(`click\s+(here|below|this\s+link)\s+to`), "Direct click instruction", domain.SeverityMedium, 0.6},
	{regexp.MustCompile(`(tap|press)\s+(here|the\s+link|button)`), "Direct action instruction", domain.SeverityMedium, 0.6},
	{regexp.MustCompile(`follow\s+this\s+link`), "Link following instruction", domain.SeverityMedium, 0.6},
	{regexp.MustCompile(`click\s+here`), "Click instruction", domain.SeverityHigh, 0.65},
}

// SMS-channel scam phrasing
var smsRules = []regexRule{
	{regexp.MustCompile(`(reply|send)\s+(with\s+)?(your\s+)?(\d+|pin|code)`), "SMS reply with code request", domain.SeverityHigh, 0.85},
	{regexp.MustCompile(`call\s+(this\s+)?number\s*:?\s*\d+`), "Call back scam indicator", domain.SeverityHigh, 0.85},
	{regexp.MustCompile(`(won|winner|prize|lottery|jackpot)`), "Prize scam indicator", domain.SeverityHigh, 0.85},
	{regexp.MustCompile(`(free|bonus|reward|gift)\s+(mpesa|money|cash|ksh)`), "Free money scam", domain.SeverityHigh, 0.85},
}

// Email-channel phrasing
var emailRules = []regexRule{
	{regexp.MustCompile(`reply\s+to\s+this\s+(email|message)`), "Contains explicit reply-to instruction", domain.SeverityLow, 0.4},
	{regexp.MustCompile(`do\s+not\s+(forward|share)\s+this\s+(email|message)`), "Secrecy instruction", domain.SeverityMedium, 0.6},
}

// Money movement phrasing
var moneyRules = []regexRule{
	{regexp.MustCompile(`(transfer|send|deposit)\s+(ksh|kes|usd|\$|shillings?)\s*[\d,]+`), "Money transfer request", domain.SeverityHigh, 0.8},
	{regexp.MustCompile(`(receive|claim|get)\s+(ksh|kes|usd|\$|shillings?)\s*[\d,]+`), "Money claim bait", domain.SeverityHigh, 0.8},
	{regexp.MustCompile(`(fee|charge|payment)\s+of\s+(ksh|kes|\$)?\s*[\d,]+`), "Fee payment request", domain.SeverityHigh, 0.8},
}

// Sender impersonation phrasing
var impersonationRules = []regexRule{
	{regexp.MustCompile(`this\s+is\s+(safaricom|your\s+bank|equity|kcb|kra)`), "Claims to be a trusted organization", domain.SeverityHigh, 0.75},
	{regexp.MustCompile(`(official\s+(notice|communication|message)\s+from)`), "Claims official origin", domain.SeverityMedium, 0.65},
	{regexp.MustCompile(`(customer\s+(care|service|support))\s+(team|desk|department)`), "Support-desk impersonation phrasing", domain.SeverityMedium, 0.6},
	{regexp.MustCompile(`on\s+behalf\s+of\s+(safaricom|your\s+bank|the\s+government)`), "Third-party authority claim", domain.SeverityMedium, 0.6},
}

// scamRule extends the flat table with a per-entry category so one strategy
// can cover the invoice/subscription/delivery/tax families.
type scamRule struct {
	category string
	regexRule
}

var scamRules = []scamRule{
	{"Invoice Scam", regexRule{regexp.MustCompile(`(outstanding|unpaid|overdue)\s+(invoice|balance|bill)`), "Pressure over an unpaid invoice", domain.SeverityHigh, 0.75}},
	{"Invoice Scam", regexRule{regexp.MustCompile(`invoice\s+#?\d+\s+.{0,30}(payment|due)`), "Invoice payment demand", domain.SeverityMedium, 0.6}},
	{"Subscription Scam", regexRule{regexp.MustCompile(`(subscription|membership)\s+(has\s+)?(expired|ended|lapsed)`), "Expired subscription bait", domain.SeverityMedium, 0.65}},
	{"Subscription Scam", regexRule{regexp.MustCompile(`renew\s+(your\s+)?(subscription|membership|plan)`), "Renewal pressure", domain.SeverityMedium, 0.6}},
	{"Delivery Scam", regexRule{regexp.MustCompile(`(package|parcel|shipment)\s+.{0,30}(could\s+not\s+be\s+delivered|on\s+hold|pending)`), "Failed delivery bait", domain.SeverityHigh, 0.75}},
	{"Delivery Scam", regexRule{regexp.MustCompile(`(delivery|customs|clearance)\s+fee`), "Delivery fee demand", domain.SeverityHigh, 0.8}},
	{"Tax Scam", regexRule{regexp.MustCompile(`(tax|kra|vat)\s+refund`), "Tax refund bait", domain.SeverityHigh, 0.8}},
	{"Tax Scam", regexRule{regexp.MustCompile(`unclaimed\s+(refund|funds|money)`), "Unclaimed funds bait", domain.SeverityHigh, 0.75}},
}

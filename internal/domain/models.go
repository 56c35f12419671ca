package domain

import (
	"time"

	"github.com/google/uuid"
)

// ContentType declares what kind of content is being analyzed
type ContentType string

const (
	ContentEmail ContentType = "email"
	ContentSMS   ContentType = "sms"
	ContentURL   ContentType = "url"
)

// Valid reports whether the content type is one of the supported kinds
func (c ContentType) Valid() bool {
	switch c {
	case ContentEmail, ContentSMS, ContentURL:
		return true
	}
	return false
}

// Severity is the four-level ordinal danger rating of an indicator.
// Ordering for presentation is critical first, low last.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns the sort rank of a severity: critical=0 ... low=3.
// Unknown severities sort after low.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	}
	return 4
}

// ThreatIndicator is a single detected phishing signal.
//
// Confidence is the detector's certainty of the match and is independent of
// severity: a low-severity signal can still be matched with high confidence.
// The (Category, MatchedText) pair is the deduplication key in the final
// indicator list; detector bank ordering determines which duplicate survives.
type ThreatIndicator struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Severity    Severity `json:"severity"`
	MatchedText string   `json:"matched_text,omitempty"`
	Confidence  float64  `json:"confidence"`
}

// Classification labels
const (
	ClassSafe       = "safe"
	ClassSuspicious = "suspicious"
	ClassPhishing   = "phishing"
)

// Risk levels
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// SeverityBreakdown counts indicators per severity tier
type SeverityBreakdown struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// AnalysisDetails carries auditability data alongside the headline result
type AnalysisDetails struct {
	URLsFound         int               `json:"urls_found"`
	TotalIndicators   int               `json:"total_indicators"`
	SeverityBreakdown SeverityBreakdown `json:"severity_breakdown"`
	ContentLength     int               `json:"content_length"`
	HeuristicScore    float64           `json:"heuristic_score"`
	MLProbability     float64           `json:"ml_probability"`
	TopFeatures       []string          `json:"top_features,omitempty"`
	AnalysisVersion   string            `json:"analysis_version"`
}

// AnalysisResult is the final output of one analysis request.
//
// Indicators are sorted most severe first (ties broken by higher confidence)
// and truncated to 15 entries for presentation; full tallies live in Details.
type AnalysisResult struct {
	Classification  string            `json:"classification"`
	ConfidenceScore float64           `json:"confidence_score"`
	RiskLevel       string            `json:"risk_level"`
	Indicators      []ThreatIndicator `json:"threat_indicators"`
	Explanation     string            `json:"explanation"`
	Recommendations []string          `json:"recommendations"`
	Details         AnalysisDetails   `json:"analysis_details"`
}

// AnalysisRecord is the persisted form of a completed analysis
type AnalysisRecord struct {
	ID             uuid.UUID   `json:"id"`
	ContentHash    string      `json:"content_hash"`
	ContentType    ContentType `json:"content_type"`
	Classification string      `json:"classification"`
	Score          float64     `json:"score"`
	RiskLevel      string      `json:"risk_level"`
	IndicatorCount int         `json:"indicator_count"`
	CreatedAt      time.Time   `json:"created_at"`
}

// SSLInfo is the normalized result of a TLS handshake inspection.
// A failed or unreachable handshake yields the zero value (neutral record).
type SSLInfo struct {
	HasSSL     bool    `json:"has_ssl"`
	Valid      bool    `json:"ssl_valid"`
	Issuer     string  `json:"issuer,omitempty"`
	ExpiryDays *int    `json:"expiry_days,omitempty"`
	Score      float64 `json:"score"`
}

// DomainAgeInfo is the normalized result of a WHOIS age lookup.
// When the registry is unreachable or the record unparsable, AgeDays is nil
// and Score is the neutral 0.5. IP-literal hosts get Score 0.1 with no lookup.
type DomainAgeInfo struct {
	AgeDays          *int    `json:"age_days,omitempty"`
	RegistrationDate *string `json:"registration_date,omitempty"`
	Registrar        *string `json:"registrar,omitempty"`
	Score            float64 `json:"score"`
}

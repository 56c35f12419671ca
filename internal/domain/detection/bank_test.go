package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phishguard/phishguard/internal/domain"
)

func TestBank_ScanPhishingSMS(t *testing.T) {
	bank := NewBank()
	text := "Dear customer, your MPESA PIN must be verified immediately, click here to confirm http://mpesa-secure.xyz/verify"

	indicators := bank.Scan(text, domain.ContentSMS)
	require.NotEmpty(t, indicators)

	bySeverity := make(map[string]domain.Severity)
	for _, ind := range indicators {
		if _, ok := bySeverity[ind.Category]; !ok {
			bySeverity[ind.Category] = ind.Severity
		}
	}

	assert.Equal(t, domain.SeverityCritical, bySeverity["Credential Harvesting"], "PIN request")
	assert.Equal(t, domain.SeverityCritical, bySeverity["Urgency Language"], "immediate pressure")
	assert.Equal(t, domain.SeverityCritical, bySeverity["Kenya Target (Mpesa)"], "brand plus credential request")
	assert.Contains(t, bySeverity, "Suspicious Phrasing")
	assert.Contains(t, bySeverity, "Suspicious CTA")
}

func TestBank_ScanCleanEmail(t *testing.T) {
	bank := NewBank()
	text := "Hi, here's the quarterly report you requested. Let me know if you have questions."

	assert.Empty(t, bank.Scan(text, domain.ContentEmail))
}

func TestBank_ScanDeterministic(t *testing.T) {
	bank := NewBank()
	text := "URGENT: your KCB account will be suspended, verify your account at http://kcb-verify.top now"

	first := bank.Scan(text, domain.ContentSMS)
	second := bank.Scan(text, domain.ContentSMS)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i], "indicator %d differs between runs", i)
	}
}

func TestBank_Strategies(t *testing.T) {
	names := NewBank().Strategies()

	assert.Contains(t, names, "Urgency Language")
	assert.Contains(t, names, "Credential Harvesting")
	assert.Contains(t, names, "Regional Brand Targeting")
	assert.Contains(t, names, "Link Mismatch")
	assert.GreaterOrEqual(t, len(names), 8)
}

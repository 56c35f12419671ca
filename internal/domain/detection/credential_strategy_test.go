package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phishguard/phishguard/internal/domain"
)

func TestCredentialStrategy_Detect(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantSeverity domain.Severity
		wantNone     bool
	}{
		{
			name:         "PIN request is critical",
			text:         "Please enter your PIN to continue",
			wantSeverity: domain.SeverityCritical,
		},
		{
			name:         "Mpesa PIN request is critical",
			text:         "Confirm by sending your MPESA PIN",
			wantSeverity: domain.SeverityCritical,
		},
		{
			name:         "Card number request is critical",
			text:         "We need your card number for verification",
			wantSeverity: domain.SeverityCritical,
		},
		{
			name:         "Password request is high",
			text:         "Enter your password on the portal",
			wantSeverity: domain.SeverityHigh,
		},
		{
			name:         "OTP request is high",
			text:         "Share the OTP we just sent",
			wantSeverity: domain.SeverityHigh,
		},
		{
			name:         "Generic account verification is medium",
			text:         "You need to verify your account details",
			wantSeverity: domain.SeverityMedium,
		},
		{
			name:     "Clean text",
			text:     "The meeting has been moved to Thursday afternoon.",
			wantNone: true,
		},
	}

	strategy := NewCredentialStrategy()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			indicators := strategy.Detect(tt.text, domain.ContentEmail)

			if tt.wantNone {
				assert.Empty(t, indicators)
				return
			}

			assert.NotEmpty(t, indicators)
			assert.Equal(t, "Credential Harvesting", indicators[0].Category)
			assert.Equal(t, tt.wantSeverity, indicators[0].Severity)
			assert.NotEmpty(t, indicators[0].MatchedText)
		})
	}
}

func TestContainsCredentialRequest(t *testing.T) {
	assert.True(t, containsCredentialRequest("send your pin now"))
	assert.True(t, containsCredentialRequest("verify your account today"))
	assert.False(t, containsCredentialRequest("see you at lunch"))
}

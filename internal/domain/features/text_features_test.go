package features

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phishguard/phishguard/internal/domain"
)

func TestExtractTextFeatures(t *testing.T) {
	t.Run("phishing text lights up the density families", func(t *testing.T) {
		text := "URGENT: verify your account immediately! You won a free prize. Click here to claim: http://win.example.xyz"
		v := ExtractTextFeatures(text, domain.ContentSMS)

		assert.Greater(t, v["urgency_count"], 0.0)
		assert.Greater(t, v["credential_count"], 0.0)
		assert.Greater(t, v["reward_count"], 0.0)
		assert.Equal(t, 1.0, v["has_click_instruction"])
		assert.Equal(t, 1.0, v["num_urls"])
		assert.Equal(t, 1.0, v["is_sms"])
		assert.Equal(t, 0.0, v["is_email"])
		assert.GreaterOrEqual(t, v["num_all_caps_words"], 1.0)
		assert.Greater(t, v["num_exclamations"], 0.0)
	})

	t.Run("plain business text stays quiet", func(t *testing.T) {
		text := "Hi team, the minutes from yesterday are attached. Regards, Jane"
		v := ExtractTextFeatures(text, domain.ContentEmail)

		assert.Zero(t, v["urgency_count"])
		assert.Zero(t, v["threat_count"])
		assert.Zero(t, v["reward_count"])
		assert.Zero(t, v["num_urls"])
		assert.Equal(t, 1.0, v["has_greeting"])
		assert.Equal(t, 1.0, v["has_signature"])
		assert.Equal(t, 1.0, v["is_email"])
	})

	t.Run("word statistics", func(t *testing.T) {
		v := ExtractTextFeatures("one two three. four five?", domain.ContentEmail)

		assert.Equal(t, 5.0, v["num_words"])
		assert.Equal(t, 2.0, v["num_sentences"])
		assert.Equal(t, 1.0, v["vocabulary_richness"], "all words distinct")
		assert.Equal(t, 5.0, v["max_word_length"])
	})

	t.Run("empty input yields a zero vector with type flags", func(t *testing.T) {
		v := ExtractTextFeatures("", domain.ContentEmail)

		assert.Zero(t, v["text_length"])
		assert.Zero(t, v["num_words"])
		assert.Equal(t, 1.0, v["is_email"])
	})

	t.Run("every named feature is present", func(t *testing.T) {
		v := ExtractTextFeatures("hello world", domain.ContentSMS)
		for _, name := range TextFeatureNames() {
			_, ok := v[name]
			assert.True(t, ok, "missing feature %s", name)
		}
	})

	t.Run("contact detection", func(t *testing.T) {
		v := ExtractTextFeatures("Call +254712345678 or write to help@example.co.ke", domain.ContentSMS)

		assert.Equal(t, 1.0, v["num_phone_numbers"])
		assert.Equal(t, 1.0, v["num_emails"])
	})
}

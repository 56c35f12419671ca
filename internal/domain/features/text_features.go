package features

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/phishguard/phishguard/internal/domain"
	"github.com/phishguard/phishguard/internal/domain/urlanalysis"
)

// textFeatureNames is the canonical order of the text feature set
var textFeatureNames = []string{
	"text_length", "num_words", "num_sentences", "avg_word_length",
	"avg_sentence_length", "uppercase_ratio", "digit_ratio",
	"special_char_ratio", "whitespace_ratio", "num_exclamations",
	"num_questions", "num_currency_symbols", "urgency_count",
	"urgency_density", "credential_count", "credential_density",
	"threat_count", "threat_density", "reward_count", "reward_density",
	"num_urls", "num_phone_numbers", "num_emails", "has_greeting",
	"has_signature", "has_click_instruction", "char_entropy", "word_entropy",
	"vocabulary_richness", "num_all_caps_words", "max_word_length",
	"punctuation_count", "avg_caps_run", "is_email", "is_sms",
}

// TextFeatureNames returns the canonical text feature name order
func TextFeatureNames() []string {
	names := make([]string, len(textFeatureNames))
	copy(names, textFeatureNames)
	return names
}

// Keyword families for the density features. These are intentionally short
// word lists, not the detector bank's phrase tables: the classifier wants
// coarse densities, the detectors want precise evidence.
var (
	urgencyWords    = []string{"urgent", "immediately", "now", "expires", "suspended", "final", "alert", "hurry", "deadline", "asap"}
	credentialWords = []string{"password", "pin", "otp", "verify", "login", "credentials", "account", "confirm", "cvv", "identity"}
	threatWords     = []string{"suspended", "terminated", "blocked", "legal", "prosecuted", "arrest", "penalty", "frozen", "disabled", "closed"}
	rewardWords     = []string{"won", "winner", "prize", "free", "bonus", "reward", "gift", "claim", "lottery", "jackpot", "congratulations"}
)

var (
	sentenceRe    = regexp.MustCompile(`[.!?]+`)
	phoneRe       = regexp.MustCompile(`\+?\d[\d\s\-()]{7,14}\d`)
	emailAddrRe   = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	greetingRe    = regexp.MustCompile(`(?i)\b(dear|hello|hi|greetings)\b`)
	signatureRe   = regexp.MustCompile(`(?i)\b(regards|sincerely|best wishes|thank you|yours faithfully)\b`)
	clickInstrRe  = regexp.MustCompile(`(?i)(click|tap|press|follow)\s+(here|below|this|the\s+(link|button))`)
	wordSplitRe   = regexp.MustCompile(`[^a-zA-Z0-9']+`)
	currencyRunes = "$€£¥"
)

// ExtractTextFeatures builds the lexical feature vector for free text,
// parameterized by the declared content kind (one-hot encoded into the
// vector). All densities divide by max(word count, 1).
func ExtractTextFeatures(text string, kind domain.ContentType) Vector {
	v := make(Vector, len(textFeatureNames))
	for _, name := range textFeatureNames {
		v[name] = 0.0
	}

	v["is_email"] = boolFeature(kind == domain.ContentEmail)
	v["is_sms"] = boolFeature(kind == domain.ContentSMS)

	length := len(text)
	v["text_length"] = float64(length)
	if length == 0 {
		return v
	}

	var upper, letter, digit, special, whitespace, punct, excl, quest, currency int
	capsRun, capsRunTotal, capsRunCount := 0, 0, 0
	for _, r := range text {
		switch {
		case unicode.IsUpper(r):
			upper++
			letter++
			capsRun++
		case unicode.IsLetter(r):
			letter++
			flushCapsRun(&capsRun, &capsRunTotal, &capsRunCount)
		case unicode.IsDigit(r):
			digit++
			flushCapsRun(&capsRun, &capsRunTotal, &capsRunCount)
		case unicode.IsSpace(r):
			whitespace++
			flushCapsRun(&capsRun, &capsRunTotal, &capsRunCount)
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			punct++
			special++
			flushCapsRun(&capsRun, &capsRunTotal, &capsRunCount)
		default:
			special++
			flushCapsRun(&capsRun, &capsRunTotal, &capsRunCount)
		}
		switch r {
		case '!':
			excl++
		case '?':
			quest++
		}
		if strings.ContainsRune(currencyRunes, r) {
			currency++
		}
	}
	flushCapsRun(&capsRun, &capsRunTotal, &capsRunCount)

	v["uppercase_ratio"] = safeDiv(float64(upper), letter)
	v["digit_ratio"] = safeDiv(float64(digit), length)
	v["special_char_ratio"] = safeDiv(float64(special), length)
	v["whitespace_ratio"] = safeDiv(float64(whitespace), length)
	v["num_exclamations"] = float64(excl)
	v["num_questions"] = float64(quest)
	v["num_currency_symbols"] = float64(currency)
	v["punctuation_count"] = float64(punct)
	v["avg_caps_run"] = safeDiv(float64(capsRunTotal), capsRunCount)

	words := splitWords(text)
	numWords := len(words)
	v["num_words"] = float64(numWords)

	totalWordLen, maxWordLen, allCaps := 0, 0, 0
	unique := make(map[string]int)
	for _, w := range words {
		totalWordLen += len(w)
		if len(w) > maxWordLen {
			maxWordLen = len(w)
		}
		if len(w) > 1 && w == strings.ToUpper(w) && w != strings.ToLower(w) {
			allCaps++
		}
		unique[strings.ToLower(w)]++
	}
	v["avg_word_length"] = safeDiv(float64(totalWordLen), numWords)
	v["max_word_length"] = float64(maxWordLen)
	v["num_all_caps_words"] = float64(allCaps)
	v["vocabulary_richness"] = safeDiv(float64(len(unique)), numWords)

	sentences := 0
	for _, s := range sentenceRe.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	v["num_sentences"] = float64(sentences)
	v["avg_sentence_length"] = safeDiv(float64(numWords), sentences)

	lower := strings.ToLower(text)
	v["urgency_count"] = countWordHits(lower, urgencyWords)
	v["urgency_density"] = safeDiv(v["urgency_count"], numWords)
	v["credential_count"] = countWordHits(lower, credentialWords)
	v["credential_density"] = safeDiv(v["credential_count"], numWords)
	v["threat_count"] = countWordHits(lower, threatWords)
	v["threat_density"] = safeDiv(v["threat_count"], numWords)
	v["reward_count"] = countWordHits(lower, rewardWords)
	v["reward_density"] = safeDiv(v["reward_count"], numWords)

	v["num_urls"] = float64(len(urlanalysis.ExtractURLs(text)))
	v["num_phone_numbers"] = float64(len(phoneRe.FindAllString(text, -1)))
	v["num_emails"] = float64(len(emailAddrRe.FindAllString(text, -1)))
	v["has_greeting"] = boolFeature(greetingRe.MatchString(text))
	v["has_signature"] = boolFeature(signatureRe.MatchString(text))
	v["has_click_instruction"] = boolFeature(clickInstrRe.MatchString(text))

	v["char_entropy"] = urlanalysis.Entropy(text)
	v["word_entropy"] = wordEntropy(unique, numWords)

	return v
}

// splitWords tokenizes on non-word runs, dropping empty tokens
func splitWords(text string) []string {
	raw := wordSplitRe.Split(text, -1)
	words := raw[:0]
	for _, w := range raw {
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

// countWordHits counts total occurrences of each keyword in the text
func countWordHits(lower string, keywords []string) float64 {
	count := 0
	for _, kw := range keywords {
		count += strings.Count(lower, kw)
	}
	return float64(count)
}

// wordEntropy computes Shannon entropy over the word distribution
func wordEntropy(freq map[string]int, total int) float64 {
	if total == 0 {
		return 0.0
	}
	entropy := 0.0
	for _, count := range freq {
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

func flushCapsRun(run, total, count *int) {
	if *run > 1 {
		*total += *run
		*count++
	}
	*run = 0
}

package server

import (
	"errors"
	"strings"

	"github.com/phishguard/phishguard/internal/domain"
)

const (
	maxContentBytes = 50 * 1024
	maxURLBytes     = 2048
)

var (
	errEmptyContent = errors.New("content must not be empty")
	errContentSize  = errors.New("content exceeds maximum length")
)

// sanitizeContent enforces the input contract the analysis pipeline assumes:
// no null bytes, no control characters besides newline/tab/carriage return,
// and a bounded length that depends on the content type.
func sanitizeContent(raw string, kind domain.ContentType) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == 0:
			return -1
		case r == '\n' || r == '\t' || r == '\r':
			return r
		case r < 0x20 || r == 0x7f:
			return -1
		default:
			return r
		}
	}, raw)

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "", errEmptyContent
	}

	limit := maxContentBytes
	if kind == domain.ContentURL {
		limit = maxURLBytes
	}
	if len(cleaned) > limit {
		return "", errContentSize
	}
	return cleaned, nil
}

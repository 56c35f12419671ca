package signals

import (
	"context"
	"log/slog"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/likexian/whois"

	"github.com/phishguard/phishguard/internal/domain"
)

const whoisTimeout = 3 * time.Second

// neutralAgeScore is returned when registration data cannot be obtained;
// ipLiteralScore is the fixed grade for raw-IP hosts, which have no
// registration record at all.
const (
	neutralAgeScore = 0.5
	ipLiteralScore  = 0.1
)

// Registries disagree on field names; these cover the common western and
// ccTLD formats.
var creationDateKeys = []string{
	"creation date",
	"created",
	"registered on",
	"registration time",
	"registration date",
	"domain registration date",
}

var registrarRe = regexp.MustCompile(`(?im)^\s*registrar:\s*(.+)$`)

var creationDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02 15:04:05",
	"02/01/2006",
}

// WhoisAgeProvider estimates domain age from the public WHOIS record.
// Young domains are a strong phishing signal, so the score is a trust
// estimate: near zero for fresh registrations, rising with age.
type WhoisAgeProvider struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewWhoisAgeProvider(logger *slog.Logger) *WhoisAgeProvider {
	return &WhoisAgeProvider{logger: logger, now: time.Now}
}

func (p *WhoisAgeProvider) DomainAge(ctx context.Context, host string) domain.DomainAgeInfo {
	if net.ParseIP(host) != nil {
		return domain.DomainAgeInfo{Score: ipLiteralScore}
	}

	client := whois.NewClient()
	client.SetTimeout(whoisTimeout)
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < whoisTimeout {
			client.SetTimeout(remaining)
		}
	}

	raw, err := client.Whois(host)
	if err != nil {
		p.logger.Debug("whois lookup failed", "host", host, "error", err)
		return domain.DomainAgeInfo{Score: neutralAgeScore}
	}

	created, ok := parseCreationDate(raw)
	if !ok {
		p.logger.Debug("whois record has no parsable creation date", "host", host)
		return domain.DomainAgeInfo{Score: neutralAgeScore}
	}

	ageDays := int(p.now().Sub(created).Hours() / 24)
	if ageDays < 0 {
		ageDays = 0
	}
	regDate := created.Format("2006-01-02")

	info := domain.DomainAgeInfo{
		AgeDays:          &ageDays,
		RegistrationDate: &regDate,
		Score:            ageScore(ageDays),
	}
	if registrar := parseRegistrar(raw); registrar != "" {
		info.Registrar = &registrar
	}
	return info
}

func ageScore(ageDays int) float64 {
	switch {
	case ageDays < 30:
		return 0.1
	case ageDays < 180:
		return 0.3
	case ageDays < 365:
		return 0.6
	default:
		return 0.9
	}
}

func parseCreationDate(raw string) (time.Time, bool) {
	for _, line := range strings.Split(raw, "\n") {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		matched := false
		for _, want := range creationDateKeys {
			if key == want {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if t, ok := parseTimestamp(value); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	for _, layout := range creationDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	// Some registries append a zone suffix ("2006-01-02 15:04:05 UTC")
	if fields := strings.Fields(value); len(fields) >= 2 {
		joined := fields[0] + " " + fields[1]
		for _, layout := range creationDateLayouts {
			if t, err := time.Parse(layout, joined); err == nil {
				return t, true
			}
		}
		if t, err := time.Parse("2006-01-02", fields[0]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseRegistrar(raw string) string {
	if m := registrarRe.FindStringSubmatch(raw); len(m) == 2 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

package ports

import (
	"context"

	"github.com/phishguard/phishguard/internal/domain"
)

// SSLChecker verifies the TLS posture of a host. Implementations must honor
// the context deadline and return a neutral zero record (never an error that
// should fail the analysis) when the host is unreachable.
type SSLChecker interface {
	CheckSSL(ctx context.Context, host string) domain.SSLInfo
}

// DomainAgeProvider estimates how long a domain has been registered.
// Implementations return a neutral record when registration data is
// unavailable; age lookups are advisory and must never block an analysis
// beyond the context deadline.
type DomainAgeProvider interface {
	DomainAge(ctx context.Context, host string) domain.DomainAgeInfo
}

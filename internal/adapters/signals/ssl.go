// Package signals implements the external signal adapters: live network
// probes whose results enrich an analysis but whose failures never fail it.
package signals

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"log/slog"
	"net"
	"time"

	"github.com/phishguard/phishguard/internal/domain"
)

const sslDialTimeout = 3 * time.Second

// TLSChecker inspects a host's certificate with a real handshake.
// Unreachable hosts yield the neutral zero record.
type TLSChecker struct {
	logger *slog.Logger
}

func NewTLSChecker(logger *slog.Logger) *TLSChecker {
	return &TLSChecker{logger: logger}
}

// CheckSSL connects to host:443 and grades the certificate. The score is a
// trust estimate in [0, 1]: 0 means no TLS at all, low values mean a broken
// chain, high values mean a valid certificate with comfortable lifetime.
func (c *TLSChecker) CheckSSL(ctx context.Context, host string) domain.SSLInfo {
	deadline := time.Now().Add(sslDialTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	dialer := &net.Dialer{Deadline: deadline}
	conn, err := tls.DialWithDialer(dialer, "tcp", net.JoinHostPort(host, "443"), &tls.Config{
		ServerName: host,
	})
	if err == nil {
		defer conn.Close()
		return c.grade(host, conn.ConnectionState(), true)
	}

	// A verification failure still proves TLS is present. Retry without
	// verification to read the presented chain; anything else (refused,
	// timeout, no route) is the neutral record.
	if !isVerificationError(err) {
		c.logger.Debug("ssl probe failed", "host", host, "error", err)
		return domain.SSLInfo{}
	}

	insecure, err := tls.DialWithDialer(dialer, "tcp", net.JoinHostPort(host, "443"), &tls.Config{
		ServerName:         host,
		InsecureSkipVerify: true,
	})
	if err != nil {
		c.logger.Debug("ssl probe failed", "host", host, "error", err)
		return domain.SSLInfo{}
	}
	defer insecure.Close()
	return c.grade(host, insecure.ConnectionState(), false)
}

func (c *TLSChecker) grade(host string, state tls.ConnectionState, valid bool) domain.SSLInfo {
	info := domain.SSLInfo{HasSSL: true, Valid: valid}
	if len(state.PeerCertificates) == 0 {
		info.Score = 0.1
		return info
	}

	leaf := state.PeerCertificates[0]
	if len(leaf.Issuer.Organization) > 0 {
		info.Issuer = leaf.Issuer.Organization[0]
	} else {
		info.Issuer = leaf.Issuer.CommonName
	}
	days := int(time.Until(leaf.NotAfter).Hours() / 24)
	info.ExpiryDays = &days

	switch {
	case !valid:
		info.Score = 0.2
	case days < 0:
		info.Valid = false
		info.Score = 0.2
	case days < 30:
		info.Score = 0.6
	default:
		info.Score = 0.9
	}
	c.logger.Debug("ssl probe complete", "host", host, "valid", info.Valid, "expiry_days", days)
	return info
}

func isVerificationError(err error) bool {
	var (
		verifyErr    *tls.CertificateVerificationError
		invalidErr   x509.CertificateInvalidError
		hostnameErr  x509.HostnameError
		authorityErr x509.UnknownAuthorityError
	)
	return errors.As(err, &verifyErr) ||
		errors.As(err, &invalidErr) ||
		errors.As(err, &hostnameErr) ||
		errors.As(err, &authorityErr)
}

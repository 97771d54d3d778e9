package scanner

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"math"
	"net"
	"time"

	"go.uber.org/zap"

	consts "github.com/vanguardsec/vanguard-cli/internal/shared/constants"
)

// TLSProbe connects to the target on port 443, completes a TLS handshake
// against the system trust roots, and evaluates the leaf certificate's
// validity window.
type TLSProbe struct {
	Timeout time.Duration
	RootCAs *x509.CertPool // nil uses the system roots
	Log     *zap.SugaredLogger
}

func (p *TLSProbe) timeout() time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return consts.DefaultProbeTimeout
}

func (p *TLSProbe) logger() *zap.SugaredLogger {
	if p.Log != nil {
		return p.Log
	}
	return zap.NewNop().Sugar()
}

// Run fetches and evaluates the certificate. The socket work happens on an
// isolated goroutine behind a panic boundary: whatever goes wrong there
// surfaces as a Failed outcome, never as a crashed scan.
func (p *TLSProbe) Run(ctx context.Context, target string) TLSResult {
	p.logger().Debugw("starting tls probe", "target", target)
	result := TLSResult{
		Certificate: runIsolated(func() Outcome[CertificateInfo] {
			return p.fetchCertificate(ctx, target)
		}),
	}
	result.Findings = analyzeTLS(result)
	p.logger().Debugw("tls probe finished", "target", target, "findings", len(result.Findings))
	return result
}

// runIsolated executes fn on its own goroutine and converts a panic into a
// Failed outcome.
func runIsolated[T any](fn func() Outcome[T]) Outcome[T] {
	ch := make(chan Outcome[T], 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				ch <- Failed[T](fmt.Sprintf("probe panicked: %v", rec))
			}
		}()
		ch <- fn()
	}()
	return <-ch
}

func (p *TLSProbe) fetchCertificate(ctx context.Context, target string) Outcome[CertificateInfo] {
	addr, host := dialAddress(target)

	dialer := &net.Dialer{Timeout: p.timeout()}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return Failed[CertificateInfo]("TCP connection error: " + err.Error())
	}
	_ = conn.SetDeadline(time.Now().Add(p.timeout()))

	tlsConn := tls.Client(conn, &tls.Config{
		ServerName: host,
		RootCAs:    p.RootCAs,
	})
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		_ = conn.Close()
		return Failed[CertificateInfo]("TLS handshake error: " + err.Error())
	}
	defer tlsConn.Close()

	certs := tlsConn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return NotFound[CertificateInfo]()
	}
	return Found(describeCertificate(certs[0], time.Now()))
}

// describeCertificate decodes the leaf certificate into the report shape.
// Days until expiry round up, so a certificate expiring later today counts
// as having one day left.
func describeCertificate(cert *x509.Certificate, now time.Time) CertificateInfo {
	days := int(math.Ceil(cert.NotAfter.Sub(now).Hours() / 24))
	return CertificateInfo{
		Subject:         cert.Subject.String(),
		Issuer:          cert.Issuer.String(),
		NotBefore:       cert.NotBefore,
		NotAfter:        cert.NotAfter,
		DaysUntilExpiry: days,
		IsValid:         !now.Before(cert.NotBefore) && !now.After(cert.NotAfter),
	}
}

// analyzeTLS derives findings from the certificate outcome. A failed
// connection is exclusive: no finer-grained certificate findings are
// emitted for that run.
func analyzeTLS(r TLSResult) []Finding {
	if r.Certificate.IsFailed() {
		return []Finding{newFinding("TLS_HANDSHAKE_FAILED")}
	}
	if r.Certificate.IsNotFound() {
		return []Finding{newFinding("NO_CERTIFICATE_FOUND")}
	}

	var findings []Finding
	if info, ok := r.Certificate.Value(); ok {
		if !info.IsValid {
			findings = append(findings, newFinding("CERT_EXPIRED"))
		}
		if info.DaysUntilExpiry >= 0 && info.DaysUntilExpiry <= consts.CertExpiryWarningDays {
			findings = append(findings, newFinding("CERT_EXPIRING_SOON"))
		}
	}
	return findings
}

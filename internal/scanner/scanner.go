// Package scanner probes the externally observable security posture of a
// domain: its DNS policy records, its TLS certificate, its HTTP security
// headers, and the technologies its site exposes.
package scanner

import (
	"context"
	"crypto/x509"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	consts "github.com/vanguardsec/vanguard-cli/internal/shared/constants"
	sharedErrors "github.com/vanguardsec/vanguard-cli/internal/shared/errors"
)

// Config carries the knobs shared by all four probes. The zero value scans
// with the defaults in shared/constants.
type Config struct {
	Timeout     time.Duration
	DNSTimeout  time.Duration
	Nameservers []string
	Selectors   []string
	Rules       []Rule         // nil uses the built-in fingerprint registry
	RootCAs     *x509.CertPool // nil uses the system roots
	HTTPClient  *http.Client   // optional override, used by tests
	Log         *zap.SugaredLogger
}

// Scanner runs the four probes against one target and assembles the report.
type Scanner struct {
	dns         *DNSProbe
	tls         *TLSProbe
	headers     *HeadersProbe
	fingerprint *FingerprintProbe
	log         *zap.SugaredLogger
}

func New(cfg Config) *Scanner {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Scanner{
		dns: &DNSProbe{
			Timeout:     cfg.DNSTimeout,
			Nameservers: cfg.Nameservers,
			Selectors:   cfg.Selectors,
			Log:         log,
		},
		tls: &TLSProbe{
			Timeout: cfg.Timeout,
			RootCAs: cfg.RootCAs,
			Log:     log,
		},
		headers: &HeadersProbe{
			Timeout: cfg.Timeout,
			Client:  cfg.HTTPClient,
			Log:     log,
		},
		fingerprint: &FingerprintProbe{
			Timeout: cfg.Timeout,
			Client:  cfg.HTTPClient,
			Rules:   cfg.Rules,
			Log:     log,
		},
		log: log,
	}
}

// Scan runs all four probes concurrently and blocks until every probe has
// reported. The returned report is complete and not mutated afterwards.
func (s *Scanner) Scan(ctx context.Context, target string) ScanReport {
	s.log.Debugw("scan started", "target", target)
	started := time.Now()

	report := ScanReport{
		Target:      target,
		GeneratedAt: started.UTC(),
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		report.DNS = s.dns.Run(ctx, target)
	}()
	go func() {
		defer wg.Done()
		report.TLS = s.tls.Run(ctx, target)
	}()
	go func() {
		defer wg.Done()
		report.Headers = s.headers.Run(ctx, target)
	}()
	go func() {
		defer wg.Done()
		report.Fingerprint = s.fingerprint.Run(ctx, target)
	}()
	wg.Wait()

	s.log.Debugw("scan finished",
		"target", target,
		"duration", time.Since(started).Round(time.Millisecond),
		"findings", len(report.AllFindings()),
	)
	return report
}

// ValidateTarget rejects inputs that are not a bare domain or host[:port].
// Scheme prefixes and paths belong to URLs, not scan targets.
func ValidateTarget(target string) error {
	target = strings.TrimSpace(target)
	if target == "" {
		return sharedErrors.ErrEmptyTarget
	}
	if strings.Contains(target, "://") || strings.ContainsAny(target, "/ ") {
		return sharedErrors.ErrInvalidTarget
	}
	return nil
}

// hostOnly strips an optional port from a target, leaving the bare host.
func hostOnly(target string) string {
	if host, _, err := net.SplitHostPort(target); err == nil {
		return host
	}
	return target
}

// dialAddress splits a target into the TCP dial address and the hostname to
// present as SNI. A target without a port dials 443.
func dialAddress(target string) (addr, host string) {
	if h, _, err := net.SplitHostPort(target); err == nil {
		return target, h
	}
	return net.JoinHostPort(target, consts.TLSPort), target
}

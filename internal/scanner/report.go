package scanner

import (
	"time"

	"github.com/vanguardsec/vanguard-cli/internal/knowledge"
)

// Finding is a severity-tagged, coded observation about a scanned domain.
// Severity is derived from the knowledge base at construction time so the
// registry stays the single source of truth.
type Finding struct {
	Severity knowledge.Severity `json:"severity"`
	Code     string             `json:"code"`
}

func newFinding(code string) Finding {
	return Finding{Severity: knowledge.SeverityOf(code), Code: code}
}

// SpfRecord is the raw SPF TXT record found on the apex domain.
type SpfRecord struct {
	Record string `json:"record"`
}

// DmarcRecord is the raw DMARC TXT record; Policy is the value of the p=
// tag, or "" when the record carries no policy tag.
type DmarcRecord struct {
	Record string `json:"record"`
	Policy string `json:"policy,omitempty"`
}

// DkimRecord is one DKIM public key record, keyed by the selector that
// produced it.
type DkimRecord struct {
	Selector string `json:"selector"`
	Record   string `json:"record"`
}

// CertificateInfo is the decoded leaf certificate presented on port 443.
type CertificateInfo struct {
	Subject         string    `json:"subject"`
	Issuer          string    `json:"issuer"`
	NotBefore       time.Time `json:"not_before"`
	NotAfter        time.Time `json:"not_after"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
	IsValid         bool      `json:"is_valid"`
}

// HeaderValue is the observed value of one security header.
type HeaderValue struct {
	Value string `json:"value"`
}

// Technology is one detected entry in the target's technology inventory.
type Technology struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Version  string `json:"version,omitempty"`
}

// DNSResult holds the four mail/cert-authorization lookups and the findings
// derived from them.
type DNSResult struct {
	SPF      Outcome[SpfRecord]    `json:"spf"`
	DMARC    Outcome[DmarcRecord]  `json:"dmarc"`
	DKIM     Outcome[[]DkimRecord] `json:"dkim"`
	CAA      Outcome[[]string]     `json:"caa"`
	Findings []Finding             `json:"findings"`
}

// TLSResult holds the leaf-certificate outcome and the findings derived
// from it.
type TLSResult struct {
	Certificate Outcome[CertificateInfo] `json:"certificate"`
	Findings    []Finding                `json:"findings"`
}

// HeadersResult holds the four inspected security headers. RequestError is
// set when the GET itself failed, in which case the per-header outcomes are
// all NotFound and a single request-failed finding is emitted.
type HeadersResult struct {
	HSTS                Outcome[HeaderValue] `json:"hsts"`
	CSP                 Outcome[HeaderValue] `json:"csp"`
	XFrameOptions       Outcome[HeaderValue] `json:"x_frame_options"`
	XContentTypeOptions Outcome[HeaderValue] `json:"x_content_type_options"`
	RequestError        string               `json:"request_error,omitempty"`
	Findings            []Finding            `json:"findings"`
}

// FingerprintResult is the technology inventory. It produces no findings;
// Err is set when the page could not be fetched.
type FingerprintResult struct {
	Technologies []Technology `json:"technologies"`
	Err          string       `json:"error,omitempty"`
}

// ScanReport is the immutable merged output of one full scan. It is created
// exactly once per scan and owned by the caller.
type ScanReport struct {
	Target      string            `json:"target"`
	GeneratedAt time.Time         `json:"generated_at"`
	DNS         DNSResult         `json:"dns"`
	TLS         TLSResult         `json:"tls"`
	Headers     HeadersResult     `json:"headers"`
	Fingerprint FingerprintResult `json:"fingerprint"`
}

// AllFindings flattens the per-probe finding lists in probe order.
func (r *ScanReport) AllFindings() []Finding {
	out := make([]Finding, 0,
		len(r.DNS.Findings)+len(r.TLS.Findings)+len(r.Headers.Findings))
	out = append(out, r.DNS.Findings...)
	out = append(out, r.TLS.Findings...)
	out = append(out, r.Headers.Findings...)
	return out
}

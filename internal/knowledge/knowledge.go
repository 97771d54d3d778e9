// Package knowledge is the static registry that translates finding codes
// into human-readable guidance. It is the single source of truth for a
// finding's severity: analyzers emit codes, and severity is derived here.
package knowledge

import "sort"

// Severity classifies a finding by impact. Values are ordered so that a
// higher value means a more severe finding.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityCritical:
		return "critical"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// MarshalJSON renders severities as their lowercase names so exported
// reports stay readable.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Detail carries everything the presentation layer needs to explain a
// finding to an operator.
type Detail struct {
	Code        string   `json:"code"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Remediation string   `json:"remediation"`
}

// Category names used by the registry.
const (
	CategoryDNS     = "DNS"
	CategoryTLS     = "TLS"
	CategoryHeaders = "Headers"
)

var registry = map[string]Detail{
	"DMARC_MISSING": {
		Code:     "DMARC_MISSING",
		Title:    "DMARC Record Missing",
		Category: CategoryDNS,
		Severity: SeverityCritical,
		Description: "DMARC is an email authentication policy that protects your domain from " +
			"being used for spoofing and phishing by telling receiving mail servers how to " +
			"handle unauthenticated mail.",
		Remediation: "Add a DMARC record to your domain's DNS settings. Start with " +
			"'v=DMARC1; p=none;' and move to 'p=quarantine' or 'p=reject' after monitoring reports.",
	},
	"DMARC_POLICY_NONE": {
		Code:     "DMARC_POLICY_NONE",
		Title:    "DMARC Policy is 'none'",
		Category: CategoryDNS,
		Severity: SeverityWarning,
		Description: "The DMARC policy is in monitoring-only mode. It reports fraudulent " +
			"emails but does not instruct receivers to block or quarantine them.",
		Remediation: "Once legitimate mail passes SPF/DKIM, update the policy to " +
			"'p=quarantine' or 'p=reject' to actively protect the domain.",
	},
	"SPF_MISSING": {
		Code:     "SPF_MISSING",
		Title:    "SPF Record Missing",
		Category: CategoryDNS,
		Severity: SeverityWarning,
		Description: "SPF lists the mail servers authorized to send email on behalf of your " +
			"domain. Without it, attackers can more easily send mail that appears to come from you.",
		Remediation: "Create a TXT record defining your authorized senders, e.g. " +
			"'v=spf1 include:_spf.google.com ~all' for Google Workspace.",
	},
	"SPF_SOFTFAIL": {
		Code:     "SPF_SOFTFAIL",
		Title:    "SPF Uses Softfail",
		Category: CategoryDNS,
		Severity: SeverityInfo,
		Description: "The SPF record ends with '~all', so mail from unauthorized servers is " +
			"marked suspicious but still accepted.",
		Remediation: "After verifying all legitimate senders are listed, consider tightening " +
			"the record to '-all' (hardfail).",
	},
	"SPF_NEUTRAL": {
		Code:     "SPF_NEUTRAL",
		Title:    "SPF Uses Neutral Qualifier",
		Category: CategoryDNS,
		Severity: SeverityInfo,
		Description: "The SPF record ends with '?all', which expresses no opinion about " +
			"unauthorized senders and provides effectively no protection.",
		Remediation: "Replace '?all' with '~all' or '-all' so receivers can act on " +
			"unauthorized mail.",
	},
	"DKIM_MISSING": {
		Code:     "DKIM_MISSING",
		Title:    "No DKIM Selector Found",
		Category: CategoryDNS,
		Severity: SeverityInfo,
		Description: "No DKIM public key was found under any of the common selectors. DKIM " +
			"lets receivers verify that mail was really sent and authorized by the domain owner. " +
			"The domain may still use a selector outside the checked list.",
		Remediation: "Publish a DKIM key under '<selector>._domainkey.<domain>' and configure " +
			"your mail provider to sign outgoing mail.",
	},
	"CAA_MISSING": {
		Code:     "CAA_MISSING",
		Title:    "CAA Record Missing",
		Category: CategoryDNS,
		Severity: SeverityInfo,
		Description: "CAA records restrict which certificate authorities may issue " +
			"certificates for the domain. Without them, any CA can issue a certificate.",
		Remediation: "Add a CAA record naming your CA, e.g. '0 issue \"letsencrypt.org\"'.",
	},
	"DNS_LOOKUP_FAILED": {
		Code:     "DNS_LOOKUP_FAILED",
		Title:    "DNS Lookup Failed",
		Category: CategoryDNS,
		Severity: SeverityWarning,
		Description: "One or more DNS queries failed at the transport or protocol level, so " +
			"part of the mail/certificate-authorization posture could not be assessed.",
		Remediation: "Check resolver reachability and the domain's authoritative nameservers, " +
			"then re-run the scan.",
	},
	"TLS_HANDSHAKE_FAILED": {
		Code:     "TLS_HANDSHAKE_FAILED",
		Title:    "TLS Handshake Failed",
		Category: CategoryTLS,
		Severity: SeverityCritical,
		Description: "A secure TLS connection could not be established. Causes include an " +
			"invalid or missing certificate, unsupported cipher suites, or the host not " +
			"listening on port 443.",
		Remediation: "Ensure a valid, trusted certificate is installed for the domain and " +
			"that the server's TLS configuration is compatible with modern clients.",
	},
	"NO_CERTIFICATE_FOUND": {
		Code:     "NO_CERTIFICATE_FOUND",
		Title:    "Server Presented No Certificate",
		Category: CategoryTLS,
		Severity: SeverityWarning,
		Description: "The TLS handshake completed but the server did not present a leaf " +
			"certificate, so its identity cannot be verified.",
		Remediation: "Configure the server to present a complete certificate chain.",
	},
	"CERT_EXPIRED": {
		Code:     "CERT_EXPIRED",
		Title:    "Certificate Not Valid",
		Category: CategoryTLS,
		Severity: SeverityCritical,
		Description: "The certificate is outside its validity window (expired or not yet " +
			"valid). Browsers will show prominent security warnings.",
		Remediation: "Renew or reissue the certificate immediately and set up automated " +
			"renewal, e.g. with Let's Encrypt.",
	},
	"CERT_EXPIRING_SOON": {
		Code:     "CERT_EXPIRING_SOON",
		Title:    "Certificate Expiring Soon",
		Category: CategoryTLS,
		Severity: SeverityWarning,
		Description: "The certificate expires within 30 days. This is an early warning to " +
			"prevent service disruption.",
		Remediation: "Renew the certificate before it expires and verify automated renewal " +
			"is functioning.",
	},
	"HEADERS_REQUEST_FAILED": {
		Code:     "HEADERS_REQUEST_FAILED",
		Title:    "HTTP Request Failed",
		Category: CategoryHeaders,
		Severity: SeverityCritical,
		Description: "The security-header check could not connect to the target. The server " +
			"might be down, unreachable, or blocking requests.",
		Remediation: "Verify the target is online and accessible over HTTPS; check for " +
			"firewalls or network issues blocking the connection.",
	},
	"HSTS_MISSING": {
		Code:     "HSTS_MISSING",
		Title:    "HSTS Header Missing",
		Category: CategoryHeaders,
		Severity: SeverityWarning,
		Description: "Strict-Transport-Security forces browsers to use HTTPS, protecting " +
			"against protocol downgrade attacks and cookie hijacking.",
		Remediation: "Add 'Strict-Transport-Security: max-age=31536000; includeSubDomains' " +
			"to responses.",
	},
	"CSP_MISSING": {
		Code:     "CSP_MISSING",
		Title:    "CSP Header Missing",
		Category: CategoryHeaders,
		Severity: SeverityWarning,
		Description: "Content-Security-Policy helps detect and mitigate cross-site scripting " +
			"and data injection attacks by restricting where resources may load from.",
		Remediation: "Implement a Content-Security-Policy header appropriate for the " +
			"application.",
	},
	"XFO_MISSING": {
		Code:     "XFO_MISSING",
		Title:    "X-Frame-Options Missing",
		Category: CategoryHeaders,
		Severity: SeverityWarning,
		Description: "X-Frame-Options protects visitors against clickjacking attacks that " +
			"embed the site in a hostile iframe.",
		Remediation: "Add 'X-Frame-Options: DENY' or 'SAMEORIGIN' (or a CSP frame-ancestors " +
			"directive).",
	},
	"XCTO_MISSING": {
		Code:     "XCTO_MISSING",
		Title:    "X-Content-Type-Options Missing",
		Category: CategoryHeaders,
		Severity: SeverityInfo,
		Description: "Without 'nosniff', browsers may interpret files as a different MIME " +
			"type than declared, enabling some content-confusion attacks.",
		Remediation: "Add 'X-Content-Type-Options: nosniff'.",
	},
}

// Lookup returns the detail for a finding code.
func Lookup(code string) (Detail, bool) {
	d, ok := registry[code]
	return d, ok
}

// SeverityOf derives a finding's severity from the registry. Unknown codes
// default to Info so an unregistered code degrades gracefully instead of
// failing the scan.
func SeverityOf(code string) Severity {
	if d, ok := registry[code]; ok {
		return d.Severity
	}
	return SeverityInfo
}

// Placeholder is the detail rendered for codes missing from the registry.
func Placeholder(code string) Detail {
	return Detail{
		Code:        code,
		Title:       "Unknown Finding",
		Category:    "Unknown",
		Severity:    SeverityInfo,
		Description: "No description is available for this finding code.",
		Remediation: "No remediation guidance is available for this finding code.",
	}
}

// Codes lists every registered finding code. Used by the presentation layer
// and by tests that assert analyzers only emit registered codes.
func Codes() []string {
	out := make([]string, 0, len(registry))
	for code := range registry {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

package constants

import (
	"io/fs"
	"time"
)

const (
	// DefaultDirPerm is the default permission used when creating directories.
	DefaultDirPerm fs.FileMode = 0o755
	// DefaultFilePerm is the default permission used when creating files.
	DefaultFilePerm fs.FileMode = 0o644
)

const (
	// DefaultProbeTimeout bounds each probe's network work.
	DefaultProbeTimeout = 10 * time.Second
	// DefaultDNSTimeout bounds a single DNS exchange.
	DefaultDNSTimeout = 5 * time.Second
	// TLSPort is the port the certificate probe connects to.
	TLSPort = "443"
	// CertExpiryWarningDays is the window inside which a still-valid
	// certificate is reported as expiring soon.
	CertExpiryWarningDays = 30
	// FingerprintBodyLimitBytes caps how much of a response body the
	// fingerprint probe reads.
	FingerprintBodyLimitBytes = 2 << 20
)

// User agents for the two HTTPS probes. Each probe carries its own identity
// string so the requests are distinguishable in target access logs.
const (
	HeadersUserAgent     = "vanguard-headers/0.6"
	FingerprintUserAgent = "vanguard-fingerprint/0.6"
)

// DefaultDKIMSelectors is the candidate selector list used when no
// selectors are configured. Kept as data so deployments can extend it
// without a rebuild.
var DefaultDKIMSelectors = []string{"google", "selector1", "selector2", "default", "dkim"}

// DefaultNameservers are tried in order when no resolver is configured.
var DefaultNameservers = []string{"8.8.8.8:53", "1.1.1.1:53"}

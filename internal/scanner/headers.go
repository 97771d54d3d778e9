package scanner

import (
	"context"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	consts "github.com/vanguardsec/vanguard-cli/internal/shared/constants"
)

// invalidHeaderPlaceholder is reported when a header is present but its
// value does not decode as valid text. The header still counts as Found.
const invalidHeaderPlaceholder = "[Invalid UTF-8]"

// HeadersProbe issues one HTTPS GET and inspects four security headers.
type HeadersProbe struct {
	Timeout time.Duration
	Client  *http.Client // optional override, used by tests
	Log     *zap.SugaredLogger
}

func (p *HeadersProbe) client() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = consts.DefaultProbeTimeout
	}
	return &http.Client{Timeout: timeout}
}

func (p *HeadersProbe) logger() *zap.SugaredLogger {
	if p.Log != nil {
		return p.Log
	}
	return zap.NewNop().Sugar()
}

// Run fetches https://<target>/ and records the outcome of each header. A
// request failure short-circuits: the result carries the error and a single
// critical finding instead of per-header findings.
func (p *HeadersProbe) Run(ctx context.Context, target string) HeadersResult {
	url := "https://" + target + "/"
	p.logger().Debugw("starting headers probe", "url", url)

	var result HeadersResult
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		result.RequestError = "create request: " + err.Error()
		result.Findings = analyzeHeaders(result)
		return result
	}
	req.Header.Set("User-Agent", consts.HeadersUserAgent)

	resp, err := p.client().Do(req)
	if err != nil {
		p.logger().Debugw("headers request failed", "url", url, "error", err)
		result.RequestError = "HTTP request failed: " + err.Error()
		result.Findings = analyzeHeaders(result)
		return result
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	p.logger().Debugw("headers response received", "url", url, "status", resp.StatusCode)
	result.HSTS = checkHeader(resp.Header, "Strict-Transport-Security")
	result.CSP = checkHeader(resp.Header, "Content-Security-Policy")
	result.XFrameOptions = checkHeader(resp.Header, "X-Frame-Options")
	result.XContentTypeOptions = checkHeader(resp.Header, "X-Content-Type-Options")
	result.Findings = analyzeHeaders(result)
	return result
}

// checkHeader reports the named header's value. http.Header lookups are
// case-insensitive by construction.
func checkHeader(headers http.Header, name string) Outcome[HeaderValue] {
	value := headers.Get(name)
	if value == "" {
		return NotFound[HeaderValue]()
	}
	if !utf8.ValidString(value) {
		return Found(HeaderValue{Value: invalidHeaderPlaceholder})
	}
	return Found(HeaderValue{Value: value})
}

func analyzeHeaders(r HeadersResult) []Finding {
	if r.RequestError != "" {
		return []Finding{newFinding("HEADERS_REQUEST_FAILED")}
	}

	var findings []Finding
	if r.HSTS.IsNotFound() {
		findings = append(findings, newFinding("HSTS_MISSING"))
	}
	if r.CSP.IsNotFound() {
		findings = append(findings, newFinding("CSP_MISSING"))
	}
	if r.XFrameOptions.IsNotFound() {
		findings = append(findings, newFinding("XFO_MISSING"))
	}
	if r.XContentTypeOptions.IsNotFound() {
		findings = append(findings, newFinding("XCTO_MISSING"))
	}
	return findings
}

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/vanguardsec/vanguard-cli/internal/knowledge"
	"github.com/vanguardsec/vanguard-cli/internal/scanner"
)

// renderReport prints the human-readable view of one scan: the score line,
// the per-category sections, and the finding details with remediation.
func renderReport(w io.Writer, report scanner.ScanReport, summary scanner.Summary) {
	border := strings.Repeat("=", 60)
	fmt.Fprintln(w, colorInfo(border))
	fmt.Fprintf(w, "Target: %s\n", report.Target)
	fmt.Fprintf(w, "Scanned at: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Score: %s   (%d critical, %d warning, %d info)\n",
		renderScore(summary.Score), summary.CriticalCount, summary.WarningCount, summary.InfoCount)
	fmt.Fprintln(w, colorInfo(border))

	renderDNS(w, report.DNS, summary.DNSPassed)
	renderTLS(w, report.TLS, summary.TLSPassed)
	renderHeaders(w, report.Headers, summary.HeadersPassed)
	renderFingerprint(w, report.Fingerprint, summary.FingerprintPassed)
	renderFindings(w, report.AllFindings())
}

func renderScore(score int) string {
	text := fmt.Sprintf("%d/100", score)
	switch {
	case score >= 80:
		return colorSuccess(text)
	case score >= 50:
		return colorWarn(text)
	default:
		return colorError(text)
	}
}

func categoryHeader(w io.Writer, name string, passed bool) {
	status := colorSuccess("ok")
	if !passed {
		status = colorError("failed")
	}
	fmt.Fprintf(w, "\n%s [%s]\n", colorInfo(name), status)
}

func renderDNS(w io.Writer, r scanner.DNSResult, passed bool) {
	categoryHeader(w, "DNS Records", passed)
	renderOutcome(w, "SPF", r.SPF, func(v scanner.SpfRecord) string { return v.Record })
	renderOutcome(w, "DMARC", r.DMARC, func(v scanner.DmarcRecord) string {
		if v.Policy != "" {
			return fmt.Sprintf("%s (policy: %s)", v.Record, v.Policy)
		}
		return v.Record
	})
	renderOutcome(w, "DKIM", r.DKIM, func(recs []scanner.DkimRecord) string {
		selectors := make([]string, 0, len(recs))
		for _, rec := range recs {
			selectors = append(selectors, rec.Selector)
		}
		return fmt.Sprintf("%d record(s), selectors: %s", len(recs), strings.Join(selectors, ", "))
	})
	renderOutcome(w, "CAA", r.CAA, func(recs []string) string {
		return strings.Join(recs, "; ")
	})
}

func renderTLS(w io.Writer, r scanner.TLSResult, passed bool) {
	categoryHeader(w, "TLS Certificate", passed)
	renderOutcome(w, "Certificate", r.Certificate, func(info scanner.CertificateInfo) string {
		validity := colorSuccess("valid")
		if !info.IsValid {
			validity = colorError("INVALID")
		}
		return fmt.Sprintf("%s, issued by %s, %s, expires %s (%d days)",
			info.Subject, info.Issuer, validity,
			info.NotAfter.Format("2006-01-02"), info.DaysUntilExpiry)
	})
}

func renderHeaders(w io.Writer, r scanner.HeadersResult, passed bool) {
	categoryHeader(w, "Security Headers", passed)
	if r.RequestError != "" {
		fmt.Fprintf(w, "  %s %s\n", colorError("request failed:"), r.RequestError)
		return
	}
	headerValue := func(v scanner.HeaderValue) string { return v.Value }
	renderOutcome(w, "Strict-Transport-Security", r.HSTS, headerValue)
	renderOutcome(w, "Content-Security-Policy", r.CSP, headerValue)
	renderOutcome(w, "X-Frame-Options", r.XFrameOptions, headerValue)
	renderOutcome(w, "X-Content-Type-Options", r.XContentTypeOptions, headerValue)
}

func renderFingerprint(w io.Writer, r scanner.FingerprintResult, passed bool) {
	categoryHeader(w, "Technologies", passed)
	if r.Err != "" {
		fmt.Fprintf(w, "  %s %s\n", colorError("probe failed:"), r.Err)
		return
	}
	if len(r.Technologies) == 0 {
		fmt.Fprintln(w, "  none detected")
		return
	}
	for _, tech := range r.Technologies {
		name := tech.Name
		if tech.Version != "" {
			name += " " + tech.Version
		}
		fmt.Fprintf(w, "  %-28s %s\n", name, tech.Category)
	}
}

func renderOutcome[T any](w io.Writer, label string, outcome scanner.Outcome[T], describe func(T) string) {
	switch {
	case outcome.IsFailed():
		fmt.Fprintf(w, "  %-28s %s %s\n", label, colorError("error:"), outcome.Err())
	case outcome.IsNotFound():
		fmt.Fprintf(w, "  %-28s %s\n", label, colorWarn("not found"))
	default:
		if v, ok := outcome.Value(); ok {
			fmt.Fprintf(w, "  %-28s %s\n", label, describe(v))
		}
	}
}

func renderFindings(w io.Writer, findings []scanner.Finding) {
	fmt.Fprintf(w, "\n%s\n", colorInfo("Findings"))
	if len(findings) == 0 {
		fmt.Fprintf(w, "  %s\n", colorSuccess("none"))
		return
	}
	for _, f := range findings {
		detail, ok := knowledge.Lookup(f.Code)
		if !ok {
			detail = knowledge.Placeholder(f.Code)
		}
		fmt.Fprintf(w, "  %s %s\n", renderSeverity(f.Severity), detail.Title)
		fmt.Fprintf(w, "      %s\n", detail.Description)
		fmt.Fprintf(w, "      %s %s\n", colorInfo("Fix:"), detail.Remediation)
	}
}

func renderSeverity(s knowledge.Severity) string {
	switch s {
	case knowledge.SeverityCritical:
		return colorError("[CRITICAL]")
	case knowledge.SeverityWarning:
		return colorWarn("[WARNING] ")
	default:
		return colorInfo("[INFO]    ")
	}
}

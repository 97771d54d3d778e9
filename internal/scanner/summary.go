package scanner

import "github.com/vanguardsec/vanguard-cli/internal/knowledge"

// Summary condenses a report into the posture score and per-category pass
// flags shown at the top of the output.
type Summary struct {
	Score             int  `json:"score"`
	CriticalCount     int  `json:"critical_count"`
	WarningCount      int  `json:"warning_count"`
	InfoCount         int  `json:"info_count"`
	DNSPassed         bool `json:"dns_passed"`
	TLSPassed         bool `json:"tls_passed"`
	HeadersPassed     bool `json:"headers_passed"`
	FingerprintPassed bool `json:"fingerprint_passed"`
}

// Score maps finding counts to a 0-100 posture score. Each critical finding
// costs 15 points and each warning 5; informational findings are free.
func Score(critical, warning int) int {
	score := 100 - 15*critical - 5*warning
	if score < 0 {
		return 0
	}
	return score
}

// Summarize derives the summary from a finished report. A category passes
// when all of its lookups completed, regardless of what they found: a scan
// that discovers a missing DMARC record still ran successfully.
func Summarize(r ScanReport) Summary {
	var s Summary
	for _, f := range r.AllFindings() {
		switch f.Severity {
		case knowledge.SeverityCritical:
			s.CriticalCount++
		case knowledge.SeverityWarning:
			s.WarningCount++
		default:
			s.InfoCount++
		}
	}
	s.Score = Score(s.CriticalCount, s.WarningCount)

	s.DNSPassed = !r.DNS.SPF.IsFailed() && !r.DNS.DMARC.IsFailed() &&
		!r.DNS.DKIM.IsFailed() && !r.DNS.CAA.IsFailed()
	s.TLSPassed = !r.TLS.Certificate.IsFailed()
	s.HeadersPassed = r.Headers.RequestError == ""
	s.FingerprintPassed = r.Fingerprint.Err == ""
	return s
}

package scanner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
	"go.uber.org/zap"

	consts "github.com/vanguardsec/vanguard-cli/internal/shared/constants"
)

// DNSProbe resolves the mail and certificate-authorization records of a
// domain: SPF, DMARC, DKIM (over a candidate selector list), and CAA.
type DNSProbe struct {
	Timeout     time.Duration
	Nameservers []string // host:port, tried in order
	Selectors   []string // DKIM selector candidates
	Log         *zap.SugaredLogger
}

func (p *DNSProbe) timeout() time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return consts.DefaultDNSTimeout
}

func (p *DNSProbe) nameservers() []string {
	if len(p.Nameservers) > 0 {
		return p.Nameservers
	}
	return consts.DefaultNameservers
}

func (p *DNSProbe) selectors() []string {
	if len(p.Selectors) > 0 {
		return p.Selectors
	}
	return consts.DefaultDKIMSelectors
}

func (p *DNSProbe) logger() *zap.SugaredLogger {
	if p.Log != nil {
		return p.Log
	}
	return zap.NewNop().Sugar()
}

// Run performs the four DNS lookups concurrently and derives findings from
// the combined outcomes. Mail and CAA records live on the apex domain, so a
// leading "www." is stripped before lookup.
func (p *DNSProbe) Run(ctx context.Context, target string) DNSResult {
	domain := strings.TrimPrefix(hostOnly(target), "www.")
	p.logger().Debugw("starting dns probe", "domain", domain)

	var result DNSResult
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		result.SPF = p.lookupSPF(ctx, domain)
	}()
	go func() {
		defer wg.Done()
		result.DMARC = p.lookupDMARC(ctx, domain)
	}()
	go func() {
		defer wg.Done()
		result.DKIM = p.lookupDKIM(ctx, domain)
	}()
	go func() {
		defer wg.Done()
		result.CAA = p.lookupCAA(ctx, domain)
	}()
	wg.Wait()

	result.Findings = analyzeDNS(result)
	p.logger().Debugw("dns probe finished", "domain", domain, "findings", len(result.Findings))
	return result
}

// query performs one DNS exchange, trying each configured nameserver until
// one answers. NXDOMAIN is absence, not an error, and returns an empty
// answer section.
func (p *DNSProbe) query(ctx context.Context, name string, qtype uint16) ([]dns.RR, error) {
	client := &dns.Client{Timeout: p.timeout()}
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	msg.RecursionDesired = true

	var lastErr error
	for _, ns := range p.nameservers() {
		resp, _, err := client.ExchangeContext(ctx, msg, ns)
		if err != nil {
			lastErr = err
			continue
		}
		switch resp.Rcode {
		case dns.RcodeSuccess, dns.RcodeNameError:
			return resp.Answer, nil
		default:
			lastErr = fmt.Errorf("query %s %s: rcode %s", name, dns.TypeToString[qtype], dns.RcodeToString[resp.Rcode])
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("query %s: no nameservers configured", name)
	}
	return nil, lastErr
}

// lookupTXT returns the TXT record strings at name, with multi-segment
// records joined back into one string.
func (p *DNSProbe) lookupTXT(ctx context.Context, name string) ([]string, error) {
	answers, err := p.query(ctx, name, dns.TypeTXT)
	if err != nil {
		return nil, err
	}
	var records []string
	for _, rr := range answers {
		if txt, ok := rr.(*dns.TXT); ok {
			records = append(records, strings.Join(txt.Txt, ""))
		}
	}
	return records, nil
}

func (p *DNSProbe) lookupSPF(ctx context.Context, domain string) Outcome[SpfRecord] {
	records, err := p.lookupTXT(ctx, domain)
	if err != nil {
		p.logger().Debugw("spf lookup failed", "domain", domain, "error", err)
		return Failed[SpfRecord]("DNS error: " + err.Error())
	}
	for _, rec := range records {
		if strings.HasPrefix(rec, "v=spf1") {
			return Found(SpfRecord{Record: rec})
		}
	}
	return NotFound[SpfRecord]()
}

func (p *DNSProbe) lookupDMARC(ctx context.Context, domain string) Outcome[DmarcRecord] {
	records, err := p.lookupTXT(ctx, "_dmarc."+domain)
	if err != nil {
		p.logger().Debugw("dmarc lookup failed", "domain", domain, "error", err)
		return Failed[DmarcRecord]("DNS error: " + err.Error())
	}
	if len(records) == 0 {
		return NotFound[DmarcRecord]()
	}
	rec := records[0]
	return Found(DmarcRecord{Record: rec, Policy: dmarcPolicy(rec)})
}

// dmarcPolicy extracts the p= tag from a DMARC record. This is heuristic
// substring parsing, not an RFC 7489 parser.
func dmarcPolicy(record string) string {
	for _, part := range strings.Split(record, ";") {
		part = strings.TrimSpace(part)
		if strings.HasPrefix(part, "p=") {
			fields := strings.SplitN(part, "=", 2)
			if len(fields) == 2 {
				return strings.TrimSpace(fields[1])
			}
		}
	}
	return ""
}

// lookupDKIM queries every candidate selector and keeps the records that
// declare a DKIM key. A selector with no record is simply skipped. Absence
// is only reported when every selector query completed: if any query failed
// and no key was found, the selectors behind the failures are unknown and
// the lookup as a whole is a failure.
func (p *DNSProbe) lookupDKIM(ctx context.Context, domain string) Outcome[[]DkimRecord] {
	var (
		records []DkimRecord
		lastErr error
	)
	for _, selector := range p.selectors() {
		txts, err := p.lookupTXT(ctx, selector+"._domainkey."+domain)
		if err != nil {
			lastErr = err
			continue
		}
		for _, rec := range txts {
			if strings.HasPrefix(rec, "v=DKIM1") {
				records = append(records, DkimRecord{Selector: selector, Record: rec})
			}
		}
	}
	if len(records) > 0 {
		return Found(records)
	}
	if lastErr != nil {
		return Failed[[]DkimRecord]("DNS error: " + lastErr.Error())
	}
	return NotFound[[]DkimRecord]()
}

func (p *DNSProbe) lookupCAA(ctx context.Context, domain string) Outcome[[]string] {
	answers, err := p.query(ctx, domain, dns.TypeCAA)
	if err != nil {
		p.logger().Debugw("caa lookup failed", "domain", domain, "error", err)
		return Failed[[]string]("DNS error: " + err.Error())
	}
	var records []string
	for _, rr := range answers {
		if caa, ok := rr.(*dns.CAA); ok {
			records = append(records, fmt.Sprintf("%d %s %q", caa.Flag, caa.Tag, caa.Value))
		}
	}
	if len(records) == 0 {
		return NotFound[[]string]()
	}
	return Found(records)
}

// analyzeDNS converts the raw lookup outcomes into findings. Absence drives
// the per-record "missing" findings; any operation failure contributes a
// single lookup-failed finding for the probe run.
func analyzeDNS(r DNSResult) []Finding {
	var findings []Finding

	if r.DMARC.IsNotFound() {
		findings = append(findings, newFinding("DMARC_MISSING"))
	} else if dmarc, ok := r.DMARC.Value(); ok && dmarc.Policy == "none" {
		findings = append(findings, newFinding("DMARC_POLICY_NONE"))
	}

	if r.SPF.IsNotFound() {
		findings = append(findings, newFinding("SPF_MISSING"))
	} else if spf, ok := r.SPF.Value(); ok {
		record := strings.TrimSpace(spf.Record)
		switch {
		case strings.HasSuffix(record, "~all"):
			findings = append(findings, newFinding("SPF_SOFTFAIL"))
		case strings.HasSuffix(record, "?all"):
			findings = append(findings, newFinding("SPF_NEUTRAL"))
		}
	}

	if r.DKIM.IsNotFound() {
		findings = append(findings, newFinding("DKIM_MISSING"))
	}

	if r.CAA.IsNotFound() {
		findings = append(findings, newFinding("CAA_MISSING"))
	}

	if r.SPF.IsFailed() || r.DMARC.IsFailed() || r.DKIM.IsFailed() || r.CAA.IsFailed() {
		findings = append(findings, newFinding("DNS_LOOKUP_FAILED"))
	}

	return findings
}

package scanner

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	consts "github.com/vanguardsec/vanguard-cli/internal/shared/constants"
)

// CheckKind tags the evidence source a fingerprint rule inspects. Rules are
// plain data; the probe dispatches on the tag.
type CheckKind string

const (
	CheckHeader    CheckKind = "header"     // a named response header
	CheckMetaTag   CheckKind = "meta-tag"   // a named <meta> tag's content attribute
	CheckBody      CheckKind = "body"       // the full response body text
	CheckScriptSrc CheckKind = "script-src" // every <script src> attribute
	CheckLinkHref  CheckKind = "link-href"  // every <link href> attribute
	CheckCookie    CheckKind = "cookie"     // the concatenated Set-Cookie values
)

// Rule is one entry in the fingerprint registry. Key names the header or
// meta tag for the kinds that need one. Pattern may carry one capturing
// group for a version string.
type Rule struct {
	Name     string
	Category string
	Kind     CheckKind
	Key      string
	Pattern  *regexp.Regexp
}

// FingerprintProbe inventories the technologies visible in one HTTPS
// response. It is purely informational and produces no findings.
type FingerprintProbe struct {
	Timeout time.Duration
	Client  *http.Client // optional override, used by tests
	Rules   []Rule       // nil uses the built-in registry
	Log     *zap.SugaredLogger
}

func (p *FingerprintProbe) client() *http.Client {
	if p.Client != nil {
		return p.Client
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = consts.DefaultProbeTimeout
	}
	return &http.Client{Timeout: timeout}
}

func (p *FingerprintProbe) rules() []Rule {
	if p.Rules != nil {
		return p.Rules
	}
	return builtinRules
}

func (p *FingerprintProbe) logger() *zap.SugaredLogger {
	if p.Log != nil {
		return p.Log
	}
	return zap.NewNop().Sugar()
}

// Run fetches https://<target>/ once and evaluates every rule against that
// single response.
func (p *FingerprintProbe) Run(ctx context.Context, target string) FingerprintResult {
	url := "https://" + target + "/"
	p.logger().Debugw("starting fingerprint probe", "url", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FingerprintResult{Err: "create request: " + err.Error()}
	}
	req.Header.Set("User-Agent", consts.FingerprintUserAgent)

	resp, err := p.client().Do(req)
	if err != nil {
		p.logger().Debugw("fingerprint request failed", "url", url, "error", err)
		return FingerprintResult{Err: "HTTP request failed: " + err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, consts.FingerprintBodyLimitBytes))
	if err != nil {
		return FingerprintResult{Err: "failed to read response body: " + err.Error()}
	}

	ev := collectEvidence(resp.Header, string(body))
	techs := evaluateRules(p.rules(), ev)
	p.logger().Debugw("fingerprint probe finished", "url", url, "technologies", len(techs))
	return FingerprintResult{Technologies: techs}
}

// pageEvidence is everything a rule may inspect, extracted once per scan.
type pageEvidence struct {
	headers    http.Header
	cookies    string
	body       string
	metas      map[string]string
	scriptSrcs []string
	linkHrefs  []string
}

func collectEvidence(headers http.Header, body string) pageEvidence {
	ev := pageEvidence{
		headers: headers,
		cookies: strings.Join(headers.Values("Set-Cookie"), "; "),
		body:    body,
		metas:   make(map[string]string),
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		// Body text and headers remain usable evidence.
		return ev
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "meta":
				name := strings.ToLower(attrValue(n, "name"))
				if content := attrValue(n, "content"); name != "" && content != "" {
					if _, seen := ev.metas[name]; !seen {
						ev.metas[name] = content
					}
				}
			case "script":
				if src := attrValue(n, "src"); src != "" {
					ev.scriptSrcs = append(ev.scriptSrcs, src)
				}
			case "link":
				if href := attrValue(n, "href"); href != "" {
					ev.linkHrefs = append(ev.linkHrefs, href)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return ev
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// evaluateRules applies the ordered registry to the evidence and
// deduplicates matches by technology name. A later match may fill in a
// missing version, but an existing captured version is never overwritten.
func evaluateRules(rules []Rule, ev pageEvidence) []Technology {
	index := make(map[string]int)
	var techs []Technology
	for _, rule := range rules {
		matched, version := rule.apply(ev)
		if !matched {
			continue
		}
		if i, seen := index[rule.Name]; seen {
			if techs[i].Version == "" && version != "" {
				techs[i].Version = version
			}
			continue
		}
		index[rule.Name] = len(techs)
		techs = append(techs, Technology{Name: rule.Name, Category: rule.Category, Version: version})
	}
	return techs
}

func (r Rule) apply(ev pageEvidence) (bool, string) {
	switch r.Kind {
	case CheckHeader:
		return matchPattern(r.Pattern, ev.headers.Get(r.Key))
	case CheckMetaTag:
		return matchPattern(r.Pattern, ev.metas[strings.ToLower(r.Key)])
	case CheckBody:
		return matchPattern(r.Pattern, ev.body)
	case CheckScriptSrc:
		return matchAny(r.Pattern, ev.scriptSrcs)
	case CheckLinkHref:
		return matchAny(r.Pattern, ev.linkHrefs)
	case CheckCookie:
		return matchPattern(r.Pattern, ev.cookies)
	default:
		return false, ""
	}
}

func matchPattern(re *regexp.Regexp, text string) (bool, string) {
	if text == "" {
		return false, ""
	}
	m := re.FindStringSubmatch(text)
	if m == nil {
		return false, ""
	}
	if len(m) > 1 {
		return true, m[1]
	}
	return true, ""
}

func matchAny(re *regexp.Regexp, values []string) (bool, string) {
	for _, v := range values {
		if ok, version := matchPattern(re, v); ok {
			return true, version
		}
	}
	return false, ""
}

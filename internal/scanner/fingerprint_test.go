package scanner

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	sharedErrors "github.com/vanguardsec/vanguard-cli/internal/shared/errors"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<meta name="generator" content="WordPress 6.4.2">
<meta name="description" content="a sample page">
<link rel="stylesheet" href="/assets/bootstrap.min.css">
<script src="/assets/jquery-3.6.0.min.js"></script>
<script src="https://www.googletagmanager.com/gtag/js"></script>
</head>
<body>
<div data-reactroot=""></div>
</body>
</html>`

func TestCollectEvidence(t *testing.T) {
	headers := http.Header{}
	headers.Add("Set-Cookie", "PHPSESSID=abc123; Path=/")
	headers.Add("Set-Cookie", "theme=dark")

	ev := collectEvidence(headers, samplePage)

	if got := ev.metas["generator"]; got != "WordPress 6.4.2" {
		t.Fatalf("meta generator = %q", got)
	}
	if len(ev.scriptSrcs) != 2 {
		t.Fatalf("scriptSrcs = %v, want 2 entries", ev.scriptSrcs)
	}
	if len(ev.linkHrefs) != 1 || ev.linkHrefs[0] != "/assets/bootstrap.min.css" {
		t.Fatalf("linkHrefs = %v", ev.linkHrefs)
	}
	if want := "PHPSESSID=abc123; Path=/; theme=dark"; ev.cookies != want {
		t.Fatalf("cookies = %q, want %q", ev.cookies, want)
	}
}

func TestCollectEvidenceNonHTMLBody(t *testing.T) {
	ev := collectEvidence(http.Header{}, `{"status":"ok"}`)
	if len(ev.metas) != 0 || len(ev.scriptSrcs) != 0 {
		t.Fatalf("unexpected evidence from JSON body: %+v", ev)
	}
	if ev.body == "" {
		t.Fatal("body text should be retained")
	}
}

func TestEvaluateRulesAgainstBuiltins(t *testing.T) {
	headers := http.Header{}
	headers.Set("Server", "nginx/1.25.3")
	headers.Add("Set-Cookie", "PHPSESSID=abc123; Path=/")
	ev := collectEvidence(headers, samplePage)

	techs := evaluateRules(builtinRules, ev)

	byName := make(map[string]Technology, len(techs))
	for _, tech := range techs {
		if _, dup := byName[tech.Name]; dup {
			t.Fatalf("technology %q reported twice", tech.Name)
		}
		byName[tech.Name] = tech
	}

	if got := byName["Nginx"]; got.Version != "1.25.3" || got.Category != "Web Server" {
		t.Fatalf("Nginx = %+v", got)
	}
	if got := byName["WordPress"]; got.Version != "6.4.2" {
		t.Fatalf("WordPress = %+v", got)
	}
	if got := byName["jQuery"]; got.Version != "3.6.0" {
		t.Fatalf("jQuery = %+v", got)
	}
	for _, name := range []string{"PHP", "Bootstrap", "Google Analytics", "React"} {
		if _, ok := byName[name]; !ok {
			t.Fatalf("expected %s in %v", name, techs)
		}
	}
}

func TestEvaluateRulesVersionFill(t *testing.T) {
	rules := []Rule{
		rule("Widget", "Library", CheckBody, "", `widget-core`),
		rule("Widget", "Library", CheckBody, "", `widget-core@([\d.]+)`),
		rule("Widget", "Library", CheckBody, "", `widget \(v([\d.]+)\)`),
	}
	ev := pageEvidence{body: `widget-core@2.1.0 and widget (v9.9.9)`}

	techs := evaluateRules(rules, ev)

	if len(techs) != 1 {
		t.Fatalf("techs = %+v, want a single deduplicated entry", techs)
	}
	// The first version captured wins; later matches never overwrite it.
	if techs[0].Version != "2.1.0" {
		t.Fatalf("version = %q, want 2.1.0", techs[0].Version)
	}
}

func TestEvaluateRulesPreservesRegistryOrder(t *testing.T) {
	rules := []Rule{
		rule("Second", "B", CheckBody, "", `beta`),
		rule("First", "A", CheckBody, "", `alpha`),
	}
	techs := evaluateRules(rules, pageEvidence{body: "alpha beta"})
	if len(techs) != 2 || techs[0].Name != "Second" || techs[1].Name != "First" {
		t.Fatalf("techs = %+v, want registry order", techs)
	}
}

func TestCompileRuleErrors(t *testing.T) {
	tests := []struct {
		name string
		spec ruleSpec
		want error
	}{
		{"missing name", ruleSpec{Kind: "body", Pattern: "x"}, sharedErrors.ErrEmptyRuleName},
		{"bad kind", ruleSpec{Name: "X", Kind: "regex", Pattern: "x"}, sharedErrors.ErrUnknownRuleKind},
		{"bad pattern", ruleSpec{Name: "X", Kind: "body", Pattern: "("}, sharedErrors.ErrInvalidPattern},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := compileRule(tt.spec); !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadRules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `- name: Acme CMS
  category: CMS
  kind: meta-tag
  key: generator
  pattern: 'Acme ([\d.]+)'
- name: Acme CMS
  category: CMS
  kind: body
  pattern: '/acme-static/'
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("loaded %d rules, want 2", len(rules))
	}

	ev := pageEvidence{
		metas: map[string]string{"generator": "Acme 4.2"},
		body:  "<script src=/acme-static/app.js></script>",
	}
	techs := evaluateRules(rules, ev)
	if len(techs) != 1 || techs[0].Version != "4.2" {
		t.Fatalf("techs = %+v, want Acme CMS 4.2", techs)
	}
}

func TestLoadRulesRejectsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("- name: X\n  kind: nonsense\n  pattern: x\n"), 0o600); err != nil {
		t.Fatalf("write rules file: %v", err)
	}
	if _, err := LoadRules(path); !errors.Is(err, sharedErrors.ErrUnknownRuleKind) {
		t.Fatalf("error = %v, want unknown rule kind", err)
	}
}

func TestFingerprintProbeAgainstLocalServer(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "nginx/1.25.3")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}

	probe := &FingerprintProbe{Timeout: 2 * time.Second, Client: srv.Client()}
	result := probe.Run(context.Background(), u.Host)

	if result.Err != "" {
		t.Fatalf("unexpected error: %s", result.Err)
	}
	found := map[string]bool{}
	for _, tech := range result.Technologies {
		found[tech.Name] = true
	}
	for _, name := range []string{"Nginx", "WordPress", "jQuery"} {
		if !found[name] {
			t.Fatalf("expected %s in %v", name, result.Technologies)
		}
	}
}

func TestFingerprintProbeRequestFailure(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}
	client := srv.Client()
	srv.Close()

	probe := &FingerprintProbe{Timeout: time.Second, Client: client}
	result := probe.Run(context.Background(), u.Host)

	if result.Err == "" {
		t.Fatal("expected error after server shutdown")
	}
	if len(result.Technologies) != 0 {
		t.Fatalf("technologies = %v, want none", result.Technologies)
	}
}

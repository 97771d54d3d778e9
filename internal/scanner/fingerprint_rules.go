package scanner

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	sharedErrors "github.com/vanguardsec/vanguard-cli/internal/shared/errors"
)

// builtinRules is the ordered default registry. Order matters twice: version
// rules for a technology precede its structural fallbacks, and the output
// inventory preserves first-match order.
var builtinRules = []Rule{
	// Web servers and edge
	rule("Nginx", "Web Server", CheckHeader, "Server", `(?i)nginx/([\d.]+)`),
	rule("Nginx", "Web Server", CheckHeader, "Server", `(?i)nginx`),
	rule("Nginx", "Web Server", CheckBody, "", `<hr><center>nginx</center>`),
	rule("Apache", "Web Server", CheckHeader, "Server", `(?i)Apache/([\d.]+)`),
	rule("Apache", "Web Server", CheckHeader, "Server", `(?i)Apache`),
	rule("Apache", "Web Server", CheckBody, "", `(?i)<address>Apache.* Server at`),
	rule("LiteSpeed", "Web Server", CheckHeader, "Server", `(?i)LiteSpeed`),
	rule("Cloudflare", "CDN", CheckHeader, "Server", `(?i)cloudflare`),
	rule("Cloudflare", "CDN", CheckHeader, "CF-Ray", `.`),

	// CMS and commerce platforms
	rule("WordPress", "CMS", CheckMetaTag, "generator", `(?i)WordPress ?([\d.]*)`),
	rule("WordPress", "CMS", CheckBody, "", `/wp-content/|/wp-includes/`),
	rule("WordPress", "CMS", CheckBody, "", `wp-login\.php`),
	rule("Joomla", "CMS", CheckMetaTag, "generator", `(?i)Joomla! ?([\d.]*)`),
	rule("Drupal", "CMS", CheckMetaTag, "generator", `(?i)Drupal ?([\d.]*)`),
	rule("Drupal", "CMS", CheckHeader, "X-Generator", `(?i)Drupal ?([\d.]*)`),
	rule("Shopify", "E-commerce", CheckBody, "", `cdn\.shopify\.com`),
	rule("Shopify", "E-commerce", CheckHeader, "X-ShopId", `\d+`),
	rule("Magento", "E-commerce", CheckCookie, "", `(?i)X-Magento-Vary|frontend=`),
	rule("Magento", "E-commerce", CheckScriptSrc, "", `/static/version\d+/`),

	// Server-side languages and frameworks
	rule("PHP", "Language", CheckHeader, "X-Powered-By", `(?i)PHP/([\d.]+)`),
	rule("PHP", "Language", CheckCookie, "", `PHPSESSID`),
	rule("ASP.NET", "Framework", CheckHeader, "X-Powered-By", `(?i)ASP\.NET`),
	rule("ASP.NET", "Framework", CheckHeader, "X-AspNet-Version", `([\d.]+)`),
	rule("Java", "Language", CheckCookie, "", `JSESSIONID`),
	rule("Django", "Framework", CheckCookie, "", `csrftoken`),
	rule("Ruby on Rails", "Framework", CheckCookie, "", `_rails_session`),
	rule("Express", "Framework", CheckHeader, "X-Powered-By", `(?i)Express`),

	// JavaScript frameworks
	rule("Next.js", "JavaScript Framework", CheckHeader, "X-Powered-By", `(?i)Next\.js ?([\d.]*)`),
	rule("Next.js", "JavaScript Framework", CheckScriptSrc, "", `/_next/static/`),
	rule("Nuxt", "JavaScript Framework", CheckBody, "", `__NUXT__|id="__nuxt"`),
	rule("Angular", "JavaScript Framework", CheckBody, "", `ng-version="([\d.]+)"`),
	rule("Svelte", "JavaScript Framework", CheckBody, "", `class=["'][^"']*svelte-`),
	rule("Gatsby", "JavaScript Framework", CheckBody, "", `id=["']___gatsby["']`),
	rule("Astro", "JavaScript Framework", CheckMetaTag, "generator", `(?i)Astro v?([\d.]*)`),
	rule("React", "JavaScript Library", CheckBody, "", `data-reactroot|react-dom(?:\.production)?(?:\.min)?\.js`),
	rule("Vue.js", "JavaScript Library", CheckBody, "", `data-v-app|__VUE__`),

	// Client-side libraries and analytics
	rule("jQuery", "JavaScript Library", CheckScriptSrc, "", `jquery[-.]([\d.]+?)(?:\.slim)?(?:\.min)?\.js`),
	rule("jQuery", "JavaScript Library", CheckScriptSrc, "", `(?i)jquery`),
	rule("Bootstrap", "CSS Framework", CheckLinkHref, "", `bootstrap(?:[-.][\d.]+)?(?:\.min)?\.css`),
	rule("Bootstrap", "CSS Framework", CheckScriptSrc, "", `bootstrap(?:\.bundle)?(?:\.min)?\.js`),
	rule("Google Analytics", "Analytics", CheckScriptSrc, "", `google-analytics\.com/|googletagmanager\.com/`),
}

// rule builds a registry entry. Patterns here are literals reviewed with the
// table, so a compile failure is a programming error.
func rule(name, category string, kind CheckKind, key, pattern string) Rule {
	return Rule{
		Name:     name,
		Category: category,
		Kind:     kind,
		Key:      key,
		Pattern:  regexp.MustCompile(pattern),
	}
}

// ruleSpec is the on-disk YAML shape of one fingerprint rule.
type ruleSpec struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Kind     string `yaml:"kind"`
	Key      string `yaml:"key"`
	Pattern  string `yaml:"pattern"`
}

var validKinds = map[CheckKind]bool{
	CheckHeader:    true,
	CheckMetaTag:   true,
	CheckBody:      true,
	CheckScriptSrc: true,
	CheckLinkHref:  true,
	CheckCookie:    true,
}

// LoadRules reads a YAML rule file and compiles it into a registry that
// replaces the built-in one.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	var specs []ruleSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("parse rules file: %w", err)
	}

	rules := make([]Rule, 0, len(specs))
	for i, spec := range specs {
		compiled, err := compileRule(spec)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%q): %w", i+1, spec.Name, err)
		}
		rules = append(rules, compiled)
	}
	return rules, nil
}

func compileRule(spec ruleSpec) (Rule, error) {
	if spec.Name == "" {
		return Rule{}, sharedErrors.ErrEmptyRuleName
	}
	kind := CheckKind(spec.Kind)
	if !validKinds[kind] {
		return Rule{}, fmt.Errorf("%w: %q", sharedErrors.ErrUnknownRuleKind, spec.Kind)
	}
	pattern, err := regexp.Compile(spec.Pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: %v", sharedErrors.ErrInvalidPattern, err)
	}
	return Rule{
		Name:     spec.Name,
		Category: spec.Category,
		Kind:     kind,
		Key:      spec.Key,
		Pattern:  pattern,
	}, nil
}

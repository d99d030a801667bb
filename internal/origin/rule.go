// Package origin decides whether a browser-declared request origin may call
// the API. It has no HTTP dependencies; middleware.CORS applies its
// decisions to requests.
package origin

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var ErrInvalidRule = errors.New("invalid origin rule")

// Subdomains controls which labels may precede a rule's base domain.
type Subdomains int

const (
	// SubdomainsNone requires the host to equal the base domain.
	SubdomainsNone Subdomains = iota
	// SubdomainsOne requires exactly one [a-z0-9-] label before the base domain.
	SubdomainsOne
	// SubdomainsAny allows zero or more labels before the base domain.
	SubdomainsAny
)

func (s Subdomains) String() string {
	switch s {
	case SubdomainsNone:
		return "none"
	case SubdomainsOne:
		return "one"
	case SubdomainsAny:
		return "any"
	}
	return fmt.Sprintf("Subdomains(%d)", int(s))
}

// ParseSubdomains parses the textual form used in rule files.
func ParseSubdomains(s string) (Subdomains, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SubdomainsNone, nil
	case "one":
		return SubdomainsOne, nil
	case "any":
		return SubdomainsAny, nil
	}
	return 0, fmt.Errorf("%w: unknown subdomains mode %q", ErrInvalidRule, s)
}

// Rule admits origins of the form scheme://[subdomains.]domain.
type Rule struct {
	Scheme     string
	Domain     string
	Subdomains Subdomains
}

// ParseRule parses the compact rule syntax:
//
//	https://example.com      the apex only
//	https://*.example.com    exactly one subdomain label
//	https://**.example.com   the apex or any number of subdomain labels
func ParseRule(s string) (Rule, error) {
	scheme, rest, ok := strings.Cut(strings.TrimSpace(s), "://")
	if !ok || scheme == "" || rest == "" {
		return Rule{}, fmt.Errorf("%w: %q", ErrInvalidRule, s)
	}

	r := Rule{Scheme: strings.ToLower(scheme)}
	switch {
	case strings.HasPrefix(rest, "**."):
		r.Subdomains = SubdomainsAny
		rest = strings.TrimPrefix(rest, "**.")
	case strings.HasPrefix(rest, "*."):
		r.Subdomains = SubdomainsOne
		rest = strings.TrimPrefix(rest, "*.")
	}
	r.Domain = strings.ToLower(rest)

	if err := r.validate(); err != nil {
		return Rule{}, fmt.Errorf("%w: %q", err, s)
	}
	return r, nil
}

// MustParseRule is ParseRule for static rule tables.
func MustParseRule(s string) Rule {
	r, err := ParseRule(s)
	if err != nil {
		panic(err)
	}
	return r
}

func (r Rule) validate() error {
	if r.Scheme == "" || strings.ContainsAny(r.Scheme, ":/") {
		return ErrInvalidRule
	}
	if !validHostname(r.Domain) {
		return ErrInvalidRule
	}
	if r.Subdomains < SubdomainsNone || r.Subdomains > SubdomainsAny {
		return ErrInvalidRule
	}
	return nil
}

// String renders the rule in compact syntax.
func (r Rule) String() string {
	var prefix string
	switch r.Subdomains {
	case SubdomainsOne:
		prefix = "*."
	case SubdomainsAny:
		prefix = "**."
	}
	return r.Scheme + "://" + prefix + r.Domain
}

// Match reports whether origin is admitted by the rule. The origin must be a
// bare scheme://host: ports, paths, queries, fragments and userinfo never
// match.
func (r Rule) Match(origin string) bool {
	scheme, host, ok := splitOrigin(origin)
	if !ok || scheme != r.Scheme {
		return false
	}

	if host == r.Domain {
		return r.Subdomains != SubdomainsOne
	}

	sub, found := strings.CutSuffix(host, "."+r.Domain)
	if !found || sub == "" {
		return false
	}

	switch r.Subdomains {
	case SubdomainsOne:
		return validLabel(sub)
	case SubdomainsAny:
		for _, label := range strings.Split(sub, ".") {
			if !validLabel(label) {
				return false
			}
		}
		return true
	}
	return false
}

// splitOrigin returns the lowercased scheme and host of a bare origin.
func splitOrigin(origin string) (scheme, host string, ok bool) {
	u, err := url.Parse(origin)
	if err != nil || u.Opaque != "" || u.User != nil {
		return "", "", false
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" || u.ForceQuery {
		return "", "", false
	}
	if u.Port() != "" || strings.HasSuffix(u.Host, ":") {
		return "", "", false
	}
	host = strings.ToLower(u.Hostname())
	if !validHostname(host) {
		return "", "", false
	}
	return strings.ToLower(u.Scheme), host, true
}

func validHostname(h string) bool {
	if h == "" {
		return false
	}
	for _, label := range strings.Split(h, ".") {
		if !validLabel(label) {
			return false
		}
	}
	return true
}

func validLabel(l string) bool {
	if l == "" || len(l) > 63 {
		return false
	}
	for i := 0; i < len(l); i++ {
		c := l[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}

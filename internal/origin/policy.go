package origin

// Reason explains a Decision.
type Reason int

const (
	ReasonDenied Reason = iota
	ReasonNoOrigin
	ReasonExact
	ReasonPattern
)

func (r Reason) String() string {
	switch r {
	case ReasonNoOrigin:
		return "no-origin"
	case ReasonExact:
		return "exact"
	case ReasonPattern:
		return "pattern"
	}
	return "denied"
}

// Decision is the outcome of evaluating one origin.
type Decision struct {
	Allowed bool
	Reason  Reason
	// Rule is the matching rule when Reason is ReasonPattern.
	Rule Rule
}

// Policy is an immutable origin rule set. It is safe for concurrent use.
type Policy struct {
	exact []string
	index map[string]struct{}
	rules []Rule
}

// NewPolicy copies exact and rules into a new Policy. Empty exact entries are
// ignored.
func NewPolicy(exact []string, rules []Rule) *Policy {
	p := &Policy{
		exact: make([]string, 0, len(exact)),
		index: make(map[string]struct{}, len(exact)),
		rules: append([]Rule(nil), rules...),
	}
	for _, o := range exact {
		if o == "" {
			continue
		}
		if _, dup := p.index[o]; dup {
			continue
		}
		p.index[o] = struct{}{}
		p.exact = append(p.exact, o)
	}
	return p
}

// DefaultPolicy returns the production rule set: the local dev server, the
// production deployment, the team tunnel, and the preview subdomains of both
// hosting platforms.
func DefaultPolicy() *Policy {
	return NewPolicy(
		[]string{
			"http://localhost:3000",
			"https://wellness2k25.vercel.app",
			"https://rorodev.ngrok.app",
		},
		[]Rule{
			MustParseRule("https://**.wellness2k25.vercel.app"),
			MustParseRule("https://**.connorwotkowiczs-projects.vercel.app"),
			MustParseRule("https://**.vercel.app"),
			MustParseRule("https://*.ngrok.io"),
			MustParseRule("https://*.ngrok.app"),
		},
	)
}

// Decide evaluates origin. An empty origin comes from a same-origin or
// non-browser caller and is always allowed.
func (p *Policy) Decide(origin string) Decision {
	if origin == "" {
		return Decision{Allowed: true, Reason: ReasonNoOrigin}
	}
	if _, ok := p.index[origin]; ok {
		return Decision{Allowed: true, Reason: ReasonExact}
	}
	for _, r := range p.rules {
		if r.Match(origin) {
			return Decision{Allowed: true, Reason: ReasonPattern, Rule: r}
		}
	}
	return Decision{Reason: ReasonDenied}
}

// Allowed is shorthand for Decide(origin).Allowed.
func (p *Policy) Allowed(origin string) bool {
	return p.Decide(origin).Allowed
}

// Exact returns a copy of the exact allowlist in configured order.
func (p *Policy) Exact() []string {
	return append([]string(nil), p.exact...)
}

// Rules returns a copy of the pattern rules in configured order.
func (p *Policy) Rules() []Rule {
	return append([]Rule(nil), p.rules...)
}

package origin

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ruleFile is the YAML layout of an origin rule file:
//
//	exact:
//	  - http://localhost:3000
//	patterns:
//	  - https://**.vercel.app
//	  - scheme: https
//	    domain: ngrok.app
//	    subdomains: one
type ruleFile struct {
	Exact    []string      `yaml:"exact"`
	Patterns []patternEntry `yaml:"patterns"`
}

type patternEntry struct {
	rule Rule
}

func (p *patternEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		r, err := ParseRule(value.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", value.Line, err)
		}
		p.rule = r
		return nil
	}

	var raw struct {
		Scheme     string `yaml:"scheme"`
		Domain     string `yaml:"domain"`
		Subdomains string `yaml:"subdomains"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	sub, err := ParseSubdomains(raw.Subdomains)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	r := Rule{
		Scheme:     strings.ToLower(strings.TrimSpace(raw.Scheme)),
		Domain:     strings.ToLower(strings.TrimSpace(raw.Domain)),
		Subdomains: sub,
	}
	if r.Scheme == "" {
		r.Scheme = "https"
	}
	if err := r.validate(); err != nil {
		return fmt.Errorf("line %d: %w: %s", value.Line, err, r)
	}
	p.rule = r
	return nil
}

// Parse builds a Policy from a YAML rule document.
func Parse(data []byte) (*Policy, error) {
	var doc ruleFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal origin rules: %w", err)
	}

	rules := make([]Rule, len(doc.Patterns))
	for i, p := range doc.Patterns {
		rules[i] = p.rule
	}
	return NewPolicy(trimAll(doc.Exact), rules), nil
}

// LoadFile reads a YAML rule document from path.
func LoadFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read origin rules: %w", err)
	}
	return Parse(data)
}

// FromStrings builds a Policy from exact origins and compact pattern rules,
// as read from comma separated environment variables.
func FromStrings(exact, patterns []string) (*Policy, error) {
	rules := make([]Rule, 0, len(patterns))
	for _, s := range patterns {
		if strings.TrimSpace(s) == "" {
			continue
		}
		r, err := ParseRule(s)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return NewPolicy(trimAll(exact), rules), nil
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

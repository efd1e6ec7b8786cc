package css

import (
	"slices"
	"strings"
)

// Rule is a single selector with its declarations. Grouped selectors
// produce one rule per selector.
type Rule struct {
	Selector   string
	Media      string // enclosing @media query, empty at top level
	Properties map[string]string
}

// Stylesheet is result of parsing page stylesheet.
type Stylesheet struct {
	Rules    []Rule
	Imports  []string
	URLs     []string
	Warnings []string
}

// RulesBySelector returns all rules for exact selector in source order.
func (s *Stylesheet) RulesBySelector(selector string) []Rule {
	var res []Rule
	for _, r := range s.Rules {
		if r.Selector == selector {
			res = append(res, r)
		}
	}
	return res
}

// Selectors returns distinct selectors in source order.
func (s *Stylesheet) Selectors() []string {
	var res []string
	for _, r := range s.Rules {
		if !slices.Contains(res, r.Selector) {
			res = append(res, r.Selector)
		}
	}
	return res
}

// External reports references that leave the package directory: absolute
// URLs and protocol relative ones.
func (s *Stylesheet) External() []string {
	var res []string
	for _, u := range slices.Concat(s.Imports, s.URLs) {
		l := strings.ToLower(u)
		if strings.HasPrefix(l, "http:") || strings.HasPrefix(l, "https:") || strings.HasPrefix(l, "//") {
			res = append(res, u)
		}
	}
	return res
}

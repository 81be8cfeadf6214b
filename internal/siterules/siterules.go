// Package siterules holds per-publisher cleanup applied after generic
// extraction. It is the only place that knows about individual sites.
package siterules

import "strings"

// Transform rewrites an extracted body. Transforms must be pure.
type Transform func(body string) string

// Rule binds a transform to hosts containing Domain.
type Rule struct {
	Name      string
	Domain    string
	Transform Transform
}

// Registry is an ordered rule list; the first matching rule wins.
type Registry struct {
	rules []Rule
}

func NewRegistry(rules ...Rule) *Registry {
	r := &Registry{}
	for _, rule := range rules {
		r.Register(rule)
	}
	return r
}

// Default returns a registry with the built-in publisher rules.
func Default() *Registry {
	return NewRegistry(
		Rule{Name: "dailystar", Domain: "thedailystar.net", Transform: CleanDailyStar},
		Rule{Name: "dhakatribune", Domain: "dhakatribune.com", Transform: DedupeLeadingSummary},
		Rule{Name: "prothomalo", Domain: "prothomalo.com", Transform: DropReadMoreLines},
	)
}

// Register appends rule; earlier registrations take precedence.
func (r *Registry) Register(rule Rule) {
	rule.Domain = strings.ToLower(strings.TrimSpace(rule.Domain))
	r.rules = append(r.rules, rule)
}

// Match returns the first rule whose domain is a substring of domain.
func (r *Registry) Match(domain string) (Rule, bool) {
	domain = strings.ToLower(domain)
	for _, rule := range r.rules {
		if rule.Domain != "" && strings.Contains(domain, rule.Domain) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Postprocess applies the matching rule to body. Unmatched domains pass through.
func (r *Registry) Postprocess(domain, body string) string {
	rule, ok := r.Match(domain)
	if !ok || rule.Transform == nil {
		return body
	}
	return rule.Transform(body)
}

func splitLines(body string) []string {
	return strings.Split(body, "\n")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

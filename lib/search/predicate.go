package search

import "regexp"

// Predicate is a compiled pattern, obtained from ParseKeySearchArgs or
// ParseValueSearchArgs. The zero value matches nothing.
type Predicate struct {
	re *regexp.Regexp
}

// Match reports whether the pattern matches anywhere in candidate.
// Use ^ and $ to anchor the pattern.
func (p Predicate) Match(candidate string) bool {
	if p.re == nil {
		return false
	}
	return p.re.MatchString(candidate)
}

// String returns the source text of the pattern.
func (p Predicate) String() string {
	if p.re == nil {
		return ""
	}
	return p.re.String()
}

package favorite

import "strings"

// Matcher decides whether a provider team name refers to a followed team.
type Matcher interface {
	Match(providerName string, followed FollowedTeam) bool
}

// SubstringMatcher matches case-insensitively when either name contains the
// other, so "Real" matches "Real Madrid" and also
// "Real Sociedad".
type SubstringMatcher struct{}

func (SubstringMatcher) Match(providerName string, followed FollowedTeam) bool {
	a := normalizeName(providerName)
	b := normalizeName(followed.Name)
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// ExactMatcher matches names that are equal ignoring case and surrounding space.
type ExactMatcher struct{}

func (ExactMatcher) Match(providerName string, followed FollowedTeam) bool {
	a := normalizeName(providerName)
	return a != "" && a == normalizeName(followed.Name)
}

// MatcherByName resolves a configured strategy name; unknown names fall back
// to substring matching.
func MatcherByName(name string) Matcher {
	switch normalizeName(name) {
	case "exact":
		return ExactMatcher{}
	default:
		return SubstringMatcher{}
	}
}

// MatchesAny reports whether any of the provider names matches any followed team.
func MatchesAny(m Matcher, teams []FollowedTeam, providerNames ...string) bool {
	if m == nil {
		m = SubstringMatcher{}
	}
	for _, team := range teams {
		for _, name := range providerNames {
			if m.Match(name, team) {
				return true
			}
		}
	}
	return false
}

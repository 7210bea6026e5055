package favorite

import "testing"

func TestSubstringMatcher_Match(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider string
		followed string
		want     bool
	}{
		{name: "exact ignoring case", provider: "ARSENAL", followed: "arsenal", want: true},
		{name: "provider contains followed", provider: "Arsenal FC", followed: "arsenal", want: true},
		{name: "followed contains provider", provider: "Arsenal", followed: "Arsenal Football Club", want: true},
		{name: "short name matches intended club", provider: "Real Madrid", followed: "Real", want: true},
		{name: "short name matches other club too", provider: "Real Sociedad", followed: "Real", want: true},
		{name: "unrelated", provider: "Chelsea", followed: "Arsenal", want: false},
		{name: "empty provider", provider: "", followed: "Arsenal", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SubstringMatcher{}.Match(tt.provider, FollowedTeam{Name: tt.followed})
			if got != tt.want {
				t.Fatalf("Match(%q, %q)=%v want=%v", tt.provider, tt.followed, got, tt.want)
			}
		})
	}
}

func TestExactMatcher_RejectsPartialNames(t *testing.T) {
	t.Parallel()

	if (ExactMatcher{}).Match("Real Sociedad", FollowedTeam{Name: "Real"}) {
		t.Fatalf("expected exact matcher to reject partial name")
	}
	if !(ExactMatcher{}).Match(" real madrid ", FollowedTeam{Name: "Real Madrid"}) {
		t.Fatalf("expected exact matcher to ignore case and whitespace")
	}
}

func TestMatcherByName(t *testing.T) {
	t.Parallel()

	if _, ok := MatcherByName("exact").(ExactMatcher); !ok {
		t.Fatalf("expected ExactMatcher for exact")
	}
	if _, ok := MatcherByName("whatever").(SubstringMatcher); !ok {
		t.Fatalf("expected SubstringMatcher fallback")
	}
}

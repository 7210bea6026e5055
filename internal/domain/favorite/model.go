package favorite

import "strings"

// FollowedTeam is a team the user follows within a sport.
type FollowedTeam struct {
	Name string
}

// FollowedSport groups followed teams under one sport name.
type FollowedSport struct {
	Name  string
	Teams []FollowedTeam
}

func (s FollowedSport) Clone() FollowedSport {
	out := FollowedSport{Name: s.Name, Teams: make([]FollowedTeam, len(s.Teams))}
	copy(out.Teams, s.Teams)
	return out
}

func (s FollowedSport) HasTeam(name string) bool {
	return s.teamIndex(name) >= 0
}

func (s FollowedSport) teamIndex(name string) int {
	key := normalizeName(name)
	for i, team := range s.Teams {
		if normalizeName(team.Name) == key {
			return i
		}
	}
	return -1
}

func CloneAll(items []FollowedSport) []FollowedSport {
	out := make([]FollowedSport, 0, len(items))
	for _, item := range items {
		out = append(out, item.Clone())
	}
	return out
}

// Add returns a copy of sports with team followed under sport. The bool is
// false when the pair was already present and nothing changed.
func Add(sports []FollowedSport, sport, team string) ([]FollowedSport, bool) {
	sport = strings.TrimSpace(sport)
	team = strings.TrimSpace(team)
	out := CloneAll(sports)

	idx := sportIndex(out, sport)
	if idx < 0 {
		out = append(out, FollowedSport{Name: sport, Teams: []FollowedTeam{{Name: team}}})
		return out, true
	}
	if out[idx].HasTeam(team) {
		return out, false
	}
	out[idx].Teams = append(out[idx].Teams, FollowedTeam{Name: team})
	return out, true
}

// Remove returns a copy of sports without team under sport. A sport left
// with no teams is dropped.
func Remove(sports []FollowedSport, sport, team string) ([]FollowedSport, bool) {
	out := CloneAll(sports)
	idx := sportIndex(out, sport)
	if idx < 0 {
		return out, false
	}
	teamIdx := out[idx].teamIndex(team)
	if teamIdx < 0 {
		return out, false
	}
	out[idx].Teams = append(out[idx].Teams[:teamIdx], out[idx].Teams[teamIdx+1:]...)
	return Prune(out), true
}

// RemoveSport drops a sport with all of its teams.
func RemoveSport(sports []FollowedSport, sport string) ([]FollowedSport, bool) {
	out := CloneAll(sports)
	idx := sportIndex(out, sport)
	if idx < 0 {
		return out, false
	}
	return append(out[:idx], out[idx+1:]...), true
}

// Prune drops sports without teams, blank names and duplicate entries.
func Prune(sports []FollowedSport) []FollowedSport {
	out := make([]FollowedSport, 0, len(sports))
	for _, sport := range sports {
		name := strings.TrimSpace(sport.Name)
		if name == "" {
			continue
		}

		teams := make([]FollowedTeam, 0, len(sport.Teams))
		seen := make(map[string]struct{}, len(sport.Teams))
		for _, team := range sport.Teams {
			teamName := strings.TrimSpace(team.Name)
			key := normalizeName(teamName)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			teams = append(teams, FollowedTeam{Name: teamName})
		}
		if len(teams) == 0 {
			continue
		}

		if idx := sportIndex(out, name); idx >= 0 {
			for _, team := range teams {
				if !out[idx].HasTeam(team.Name) {
					out[idx].Teams = append(out[idx].Teams, team)
				}
			}
			continue
		}
		out = append(out, FollowedSport{Name: name, Teams: teams})
	}
	return out
}

func sportIndex(sports []FollowedSport, name string) int {
	key := normalizeName(name)
	for i, sport := range sports {
		if normalizeName(sport.Name) == key {
			return i
		}
	}
	return -1
}

func normalizeName(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

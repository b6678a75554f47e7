package league

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// SearchTeams resolves a free-text query to team names. Exact and substring
// matches (case-insensitive) win outright; otherwise candidates are ranked
// by fuzzy score.
func (s *store) SearchTeams(query string) ([]string, error) {
	teams, err := s.TeamsBasic()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(teams))
	for _, t := range teams {
		names = append(names, t.Name)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return names, nil
	}

	lowered := strings.ToLower(query)
	for _, name := range names {
		if strings.ToLower(name) == lowered {
			return []string{name}, nil
		}
	}
	substring := []string{}
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), lowered) {
			substring = append(substring, name)
		}
	}
	if len(substring) > 0 {
		return substring, nil
	}

	matches := fuzzy.Find(query, names)
	results := make([]string, 0, len(matches))
	for _, m := range matches {
		results = append(results, m.Str)
	}
	return results, nil
}

package consultor

import "github.com/elsastre/auf-analyzer/internal/league"

// Advice is the structured result of a matchup comparison.
type Advice struct {
	Season         int                   `json:"season"`
	Stage          string                `json:"stage"`
	TeamA          *league.TeamStanding  `json:"team_a"`
	TeamB          *league.TeamStanding  `json:"team_b"`
	Favorite       string                `json:"favorite,omitempty"`
	Even           bool                  `json:"even"`
	Recommendation string                `json:"recommendation"`
}

// service builds matchup advice from league summaries. It is constructed
// once at startup and shared by reference.
type service struct {
	store league.LeagueStore
}

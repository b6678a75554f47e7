package league

// LeagueStore defines the interface for interacting with the league's data.
// Seed is the single write path; every other method is read-only.
type LeagueStore interface {
	Seed(seedsDir string) error

	Metadata() (*Metadata, error)
	ComputeTable(season int, stage string) (*Table, error)
	ListFixtures(season int, stage string, teamID int, round string) ([]Fixture, error)
	ListMatchEvents(matchID int64) ([]MatchEvent, error)
	ListScorers(season int, stage string, top int) ([]Scorer, error)
	CardsByTeam(season int, stage string) ([]TeamCards, error)
	DisciplineTable(season int, stage string) ([]DisciplineRow, error)
	PlayerStandardStats(season int, stage string, teamID int) ([]PlayerStats, error)
	TeamsBasic() ([]TeamBasic, error)
	TeamsSummary(season int, stage string) ([]TeamSummary, error)
	StatsInsights(season int, stage string) (*Insights, error)
	SummaryForTeam(season int, stage string, team string) (*TeamStanding, error)
	SearchTeams(query string) ([]string, error)
}

package league

import "sync"

// MockStore is a mock implementation of the LeagueStore interface for
// testing. It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	SeedFunc                func(seedsDir string) error
	MetadataFunc            func() (*Metadata, error)
	ComputeTableFunc        func(season int, stage string) (*Table, error)
	ListFixturesFunc        func(season int, stage string, teamID int, round string) ([]Fixture, error)
	ListMatchEventsFunc     func(matchID int64) ([]MatchEvent, error)
	ListScorersFunc         func(season int, stage string, top int) ([]Scorer, error)
	CardsByTeamFunc         func(season int, stage string) ([]TeamCards, error)
	DisciplineTableFunc     func(season int, stage string) ([]DisciplineRow, error)
	PlayerStandardStatsFunc func(season int, stage string, teamID int) ([]PlayerStats, error)
	TeamsBasicFunc          func() ([]TeamBasic, error)
	TeamsSummaryFunc        func(season int, stage string) ([]TeamSummary, error)
	StatsInsightsFunc       func(season int, stage string) (*Insights, error)
	SummaryForTeamFunc      func(season int, stage string, team string) (*TeamStanding, error)
	SearchTeamsFunc         func(query string) ([]string, error)

	// Call records
	SeedCalls         []string
	ComputeTableCalls []struct {
		Season int
		Stage  string
	}
	SummaryForTeamCalls []struct {
		Season int
		Stage  string
		Team   string
	}
	SearchTeamsCalls []string
}

var _ LeagueStore = (*MockStore)(nil)

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SeedCalls = nil
	m.ComputeTableCalls = nil
	m.SummaryForTeamCalls = nil
	m.SearchTeamsCalls = nil
}

func (m *MockStore) Seed(seedsDir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SeedCalls = append(m.SeedCalls, seedsDir)
	if m.SeedFunc != nil {
		return m.SeedFunc(seedsDir)
	}
	return nil
}

func (m *MockStore) Metadata() (*Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.MetadataFunc != nil {
		return m.MetadataFunc()
	}
	return &Metadata{}, nil
}

func (m *MockStore) ComputeTable(season int, stage string) (*Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ComputeTableCalls = append(m.ComputeTableCalls, struct {
		Season int
		Stage  string
	}{season, stage})
	if m.ComputeTableFunc != nil {
		return m.ComputeTableFunc(season, stage)
	}
	return &Table{Season: season, Stage: stage}, nil
}

func (m *MockStore) ListFixtures(season int, stage string, teamID int, round string) ([]Fixture, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListFixturesFunc != nil {
		return m.ListFixturesFunc(season, stage, teamID, round)
	}
	return nil, nil
}

func (m *MockStore) ListMatchEvents(matchID int64) ([]MatchEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListMatchEventsFunc != nil {
		return m.ListMatchEventsFunc(matchID)
	}
	return nil, nil
}

func (m *MockStore) ListScorers(season int, stage string, top int) ([]Scorer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListScorersFunc != nil {
		return m.ListScorersFunc(season, stage, top)
	}
	return nil, nil
}

func (m *MockStore) CardsByTeam(season int, stage string) ([]TeamCards, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CardsByTeamFunc != nil {
		return m.CardsByTeamFunc(season, stage)
	}
	return nil, nil
}

func (m *MockStore) DisciplineTable(season int, stage string) ([]DisciplineRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DisciplineTableFunc != nil {
		return m.DisciplineTableFunc(season, stage)
	}
	return nil, nil
}

func (m *MockStore) PlayerStandardStats(season int, stage string, teamID int) ([]PlayerStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PlayerStandardStatsFunc != nil {
		return m.PlayerStandardStatsFunc(season, stage, teamID)
	}
	return nil, nil
}

func (m *MockStore) TeamsBasic() ([]TeamBasic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TeamsBasicFunc != nil {
		return m.TeamsBasicFunc()
	}
	return nil, nil
}

func (m *MockStore) TeamsSummary(season int, stage string) ([]TeamSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TeamsSummaryFunc != nil {
		return m.TeamsSummaryFunc(season, stage)
	}
	return nil, nil
}

func (m *MockStore) StatsInsights(season int, stage string) (*Insights, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.StatsInsightsFunc != nil {
		return m.StatsInsightsFunc(season, stage)
	}
	return &Insights{Season: season, Stage: stage}, nil
}

func (m *MockStore) SummaryForTeam(season int, stage string, team string) (*TeamStanding, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SummaryForTeamCalls = append(m.SummaryForTeamCalls, struct {
		Season int
		Stage  string
		Team   string
	}{season, stage, team})
	if m.SummaryForTeamFunc != nil {
		return m.SummaryForTeamFunc(season, stage, team)
	}
	return nil, nil
}

func (m *MockStore) SearchTeams(query string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SearchTeamsCalls = append(m.SearchTeamsCalls, query)
	if m.SearchTeamsFunc != nil {
		return m.SearchTeamsFunc(query)
	}
	return nil, nil
}

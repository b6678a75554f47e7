package league_test

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/elsastre/auf-analyzer/internal/database"
	"github.com/elsastre/auf-analyzer/internal/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a temporary in-memory SQLite database for testing.
func setupTestDB(t *testing.T) (league.LeagueStore, *sql.DB, func()) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)

	store := league.New(db)
	teardown := func() {
		dbTeardown()
		db.Close()
	}

	return store, db, teardown
}

// setupSeededStore runs the full seed against the real seed files.
func setupSeededStore(t *testing.T) (league.LeagueStore, *sql.DB, func()) {
	t.Helper()

	store, db, teardown := setupTestDB(t)
	require.NoError(t, store.Seed("../../seeds"))
	return store, db, teardown
}

func TestSeedIsDeterministic(t *testing.T) {
	storeA, _, teardownA := setupSeededStore(t)
	defer teardownA()
	storeB, _, teardownB := setupSeededStore(t)
	defer teardownB()

	for _, stage := range league.StageCodes {
		tableA, err := storeA.ComputeTable(league.DefaultSeason, stage)
		require.NoError(t, err)
		tableB, err := storeB.ComputeTable(league.DefaultSeason, stage)
		require.NoError(t, err)
		assert.Equal(t, tableA.Rows, tableB.Rows, "stage %s diverged between seeds", stage)
	}

	scorersA, err := storeA.ListScorers(league.DefaultSeason, league.StageApertura, 10)
	require.NoError(t, err)
	scorersB, err := storeB.ListScorers(league.DefaultSeason, league.StageApertura, 10)
	require.NoError(t, err)
	assert.Equal(t, scorersA, scorersB)
}

func TestComputeTableShape(t *testing.T) {
	store, _, teardown := setupSeededStore(t)
	defer teardown()

	table, err := store.ComputeTable(league.DefaultSeason, league.StageApertura)
	require.NoError(t, err)
	require.Len(t, table.Rows, 16)

	var totalW, totalL, totalGF, totalGA int
	for i, row := range table.Rows {
		assert.Equal(t, i+1, row.Pos)
		assert.Equal(t, 15, row.MP)
		assert.Equal(t, row.W+row.D+row.L, row.MP)
		assert.Equal(t, row.W*3+row.D, row.Pts)
		assert.Equal(t, row.GF-row.GA, row.GD)
		assert.Len(t, row.Last5, 5)
		totalW += row.W
		totalL += row.L
		totalGF += row.GF
		totalGA += row.GA
	}
	assert.Equal(t, totalW, totalL)
	assert.Equal(t, totalGF, totalGA)

	for i := 1; i < len(table.Rows); i++ {
		prev, cur := table.Rows[i-1], table.Rows[i]
		switch {
		case prev.Pts != cur.Pts:
			assert.Greater(t, prev.Pts, cur.Pts)
		case prev.GD != cur.GD:
			assert.Greater(t, prev.GD, cur.GD)
		case prev.GF != cur.GF:
			assert.Greater(t, prev.GF, cur.GF)
		default:
			assert.Less(t, prev.Team, cur.Team)
		}
	}
}

func TestComputeTableAnualRollsUpAperturaAndClausura(t *testing.T) {
	store, _, teardown := setupSeededStore(t)
	defer teardown()

	byTeam := func(stage string) map[int]league.TableRow {
		table, err := store.ComputeTable(league.DefaultSeason, stage)
		require.NoError(t, err)
		rows := make(map[int]league.TableRow, len(table.Rows))
		for _, row := range table.Rows {
			rows[row.TeamID] = row
		}
		return rows
	}

	apertura := byTeam(league.StageApertura)
	clausura := byTeam(league.StageClausura)
	anual := byTeam(league.StageAnual)
	require.Len(t, anual, 16)

	for teamID, an := range anual {
		ap, cl := apertura[teamID], clausura[teamID]
		assert.Equal(t, ap.MP+cl.MP, an.MP, "team %d", teamID)
		assert.Equal(t, ap.W+cl.W, an.W, "team %d", teamID)
		assert.Equal(t, ap.D+cl.D, an.D, "team %d", teamID)
		assert.Equal(t, ap.L+cl.L, an.L, "team %d", teamID)
		assert.Equal(t, ap.GF+cl.GF, an.GF, "team %d", teamID)
		assert.Equal(t, ap.GA+cl.GA, an.GA, "team %d", teamID)
		assert.Equal(t, an.W*3+an.D, an.Pts, "team %d", teamID)
	}
}

func TestComputeTableIsCached(t *testing.T) {
	store, _, teardown := setupSeededStore(t)
	defer teardown()

	first, err := store.ComputeTable(league.DefaultSeason, league.StageApertura)
	require.NoError(t, err)
	second, err := store.ComputeTable(league.DefaultSeason, league.StageApertura)
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestMetadata(t *testing.T) {
	store, _, teardown := setupSeededStore(t)
	defer teardown()

	meta, err := store.Metadata()
	require.NoError(t, err)
	assert.Equal(t, []int{2024}, meta.Seasons)
	assert.ElementsMatch(t, league.StageCodes, meta.Stages)
	assert.Equal(t, league.DefaultSeason, meta.DefaultSeason)
	assert.Equal(t, league.DefaultStage, meta.DefaultStage)
	assert.Len(t, meta.Teams, 16)
}

func TestListFixturesFilters(t *testing.T) {
	store, _, teardown := setupSeededStore(t)
	defer teardown()

	all, err := store.ListFixtures(league.DefaultSeason, league.StageApertura, 0, "")
	require.NoError(t, err)
	assert.Len(t, all, 120)

	forTeam, err := store.ListFixtures(league.DefaultSeason, league.StageApertura, 1, "")
	require.NoError(t, err)
	assert.Len(t, forTeam, 15)
	for _, f := range forTeam {
		assert.True(t, f.HomeTeamID == 1 || f.AwayTeamID == 1)
		assert.NotEmpty(t, f.Venue)
		assert.NotEmpty(t, f.Referee)
		assert.Positive(t, f.Attendance)
	}

	anual, err := store.ListFixtures(league.DefaultSeason, league.StageAnual, 0, "")
	require.NoError(t, err)
	assert.Len(t, anual, 240)

	none, err := store.ListFixtures(league.DefaultSeason, league.StageApertura, 0, "99")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListMatchEventsOrderedByMinute(t *testing.T) {
	store, _, teardown := setupSeededStore(t)
	defer teardown()

	fixtures, err := store.ListFixtures(league.DefaultSeason, league.StageApertura, 0, "1")
	require.NoError(t, err)
	require.NotEmpty(t, fixtures)

	events, err := store.ListMatchEvents(fixtures[0].MatchID)
	require.NoError(t, err)
	for i := 1; i < len(events); i++ {
		assert.GreaterOrEqual(t, events[i].Minute, events[i-1].Minute)
	}
	for _, e := range events {
		assert.NotEmpty(t, e.Team)
		assert.NotEmpty(t, e.Player)
	}

	missing, err := store.ListMatchEvents(99999)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestListScorersOrderingAndLimit(t *testing.T) {
	store, _, teardown := setupSeededStore(t)
	defer teardown()

	scorers, err := store.ListScorers(league.DefaultSeason, league.StageApertura, 3)
	require.NoError(t, err)
	require.Len(t, scorers, 3)

	for i := 1; i < len(scorers); i++ {
		prev, cur := scorers[i-1], scorers[i]
		if prev.Goals == cur.Goals {
			assert.LessOrEqual(t, prev.Player, cur.Player)
		} else {
			assert.Greater(t, prev.Goals, cur.Goals)
		}
	}
}

func TestDisciplineTablePerGameRates(t *testing.T) {
	store, _, teardown := setupSeededStore(t)
	defer teardown()

	table, err := store.DisciplineTable(league.DefaultSeason, league.StageApertura)
	require.NoError(t, err)
	require.NotEmpty(t, table)

	for _, row := range table {
		assert.Equal(t, 15, row.MP)
		assert.Equal(t, row.Yellow+row.Red, row.TotalCards)
		assert.InDelta(t, float64(row.TotalCards)/float64(row.MP), row.PerGame, 0.005)
	}
}

func TestPlayerStandardStats(t *testing.T) {
	store, _, teardown := setupSeededStore(t)
	defer teardown()

	all, err := store.PlayerStandardStats(league.DefaultSeason, league.StageApertura, 0)
	require.NoError(t, err)
	// every squad player appears in every matchday, as starter or sub
	assert.Len(t, all, 224)

	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].Goals, all[i].Goals)
	}
	for _, p := range all {
		assert.Equal(t, 15, p.MP)
		assert.Positive(t, p.Minutes)
		assert.GreaterOrEqual(t, p.Age, 18)
		assert.LessOrEqual(t, p.Age, 40)
		assert.NotEmpty(t, p.Position)
	}

	teamOnly, err := store.PlayerStandardStats(league.DefaultSeason, league.StageApertura, 2)
	require.NoError(t, err)
	assert.Len(t, teamOnly, 14)
	for _, p := range teamOnly {
		assert.Equal(t, 2, p.TeamID)
	}
}

func TestTeamsBasicSortedByName(t *testing.T) {
	store, _, teardown := setupSeededStore(t)
	defer teardown()

	teams, err := store.TeamsBasic()
	require.NoError(t, err)
	require.Len(t, teams, 16)
	for i := 1; i < len(teams); i++ {
		assert.Less(t, teams[i-1].Name, teams[i].Name)
	}
}

func TestTeamsSummary(t *testing.T) {
	store, _, teardown := setupSeededStore(t)
	defer teardown()

	summaries, err := store.TeamsSummary(league.DefaultSeason, league.StageApertura)
	require.NoError(t, err)
	require.Len(t, summaries, 16)

	for _, s := range summaries {
		assert.Positive(t, s.AvgAttendance, "team %s", s.Team)
		require.NotNil(t, s.PrimaryGK, "team %s", s.Team)
		assert.Positive(t, s.PrimaryGK.Minutes)
		require.NotNil(t, s.TopScorer, "team %s", s.Team)
		assert.Positive(t, s.TopScorer.Goals)
	}
}

func TestStatsInsights(t *testing.T) {
	store, _, teardown := setupSeededStore(t)
	defer teardown()

	insights, err := store.StatsInsights(league.DefaultSeason, league.StageApertura)
	require.NoError(t, err)
	assert.Len(t, insights.GoalsForByTeam, 16)
	assert.Len(t, insights.PointsByTeam, 16)
	assert.Len(t, insights.AttendanceByTeam, 16)
	assert.Len(t, insights.TopScorers, 10)
	assert.NotEmpty(t, insights.CardsByTeam)
}

func TestSummaryForTeam(t *testing.T) {
	store, _, teardown := setupSeededStore(t)
	defer teardown()

	standing, err := store.SummaryForTeam(league.DefaultSeason, league.StageApertura, "Nacional")
	require.NoError(t, err)
	require.NotNil(t, standing)
	assert.Equal(t, "Nacional", standing.Team)
	assert.NotEmpty(t, standing.Last5)

	unknown, err := store.SummaryForTeam(league.DefaultSeason, league.StageApertura, "Real Madrid")
	require.NoError(t, err)
	assert.Nil(t, unknown)
}

func TestSearchTeams(t *testing.T) {
	store, _, teardown := setupSeededStore(t)
	defer teardown()

	exact, err := store.SearchTeams("nacional")
	require.NoError(t, err)
	assert.Equal(t, []string{"Nacional"}, exact)

	substring, err := store.SearchTeams("river")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Boston River", "River Plate"}, substring)

	fuzzy, err := store.SearchTeams("Dfnsor")
	require.NoError(t, err)
	require.NotEmpty(t, fuzzy)
	assert.Equal(t, "Defensor Sporting", fuzzy[0])

	all, err := store.SearchTeams("  ")
	require.NoError(t, err)
	assert.Len(t, all, 16)
}

func TestSeedRejectsPlaceholderRosterNames(t *testing.T) {
	store, db, teardown := setupTestDB(t)
	defer teardown()

	dir := t.TempDir()
	teams := map[string]any{"teams": []map[string]any{
		{"id": 1, "name": "Nacional", "short_name": "NAC", "city": "Montevideo", "stadium": "Gran Parque Central", "logo_key": "nacional"},
	}}
	writeSeedFile(t, dir, "teams.json", teams)
	rosters := map[string]any{"teams": []map[string]any{
		{"name": "Nacional", "players": []map[string]any{
			{"full_name": "Placeholder Forward", "position": "FW", "nationality": "URU", "birth_year": 2000},
		}},
	}}
	writeSeedFile(t, dir, "rosters_2024.json", rosters)

	err := store.Seed(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "placeholder")

	// the failed seed rolled back entirely
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM teams").Scan(&count))
	assert.Zero(t, count)
}

func TestSeedFailsWithoutRosterFiles(t *testing.T) {
	store, _, teardown := setupTestDB(t)
	defer teardown()

	dir := t.TempDir()
	writeSeedFile(t, dir, "teams.json", map[string]any{"teams": []map[string]any{}})

	err := store.Seed(dir)
	require.Error(t, err)
}

func writeSeedFile(t *testing.T, dir, name string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

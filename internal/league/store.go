package league

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru"
)

// tableCacheSize covers every (season, stage) pair the store can hold;
// entries are purged wholesale on reseed.
const tableCacheSize = 64

var _ LeagueStore = (*store)(nil)

// New creates a new LeagueStore over the given database.
func New(db *sql.DB) LeagueStore {
	cache, _ := lru.New(tableCacheSize)
	return &store{
		db:         db,
		tableCache: cache,
	}
}

// Metadata returns the known seasons, stages and teams plus the configured
// defaults.
func (s *store) Metadata() (*Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	meta := &Metadata{
		DefaultSeason: DefaultSeason,
		DefaultStage:  DefaultStage,
	}

	rows, err := s.db.Query("SELECT year FROM seasons ORDER BY year")
	if err != nil {
		return nil, fmt.Errorf("failed to query seasons: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var year int
		if err := rows.Scan(&year); err != nil {
			return nil, err
		}
		meta.Seasons = append(meta.Seasons, year)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stageRows, err := s.db.Query("SELECT code FROM stages ORDER BY code")
	if err != nil {
		return nil, fmt.Errorf("failed to query stages: %w", err)
	}
	defer stageRows.Close()
	for stageRows.Next() {
		var code string
		if err := stageRows.Scan(&code); err != nil {
			return nil, err
		}
		meta.Stages = append(meta.Stages, code)
	}
	if err := stageRows.Err(); err != nil {
		return nil, err
	}

	teams, err := s.teamsBasicLocked()
	if err != nil {
		return nil, err
	}
	meta.Teams = teams
	return meta, nil
}

// ComputeTable returns the ranked standings table for (season, stage). Rows
// were ranked at seed time; they are re-sorted here with the same key for
// presentation safety. Results are cached until the next reseed.
func (s *store) ComputeTable(season int, stage string) (*Table, error) {
	cacheKey := fmt.Sprintf("%d/%s", season, stage)
	if cached, ok := s.tableCache.Get(cacheKey); ok {
		return cached.(*Table), nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT s.team_id, t.name, t.logo_key, s.mp, s.w, s.d, s.l, s.gf, s.ga, s.gd,
		       s.pts, s.ppg, s.last5, s.top_scorer, s.goalkeeper, s.avg_attendance
		FROM standings s
		JOIN teams t ON s.team_id = t.id
		WHERE s.season_year = ? AND s.stage_code = ?
	`, season, stage)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer rows.Close()

	var tableRows []TableRow
	for rows.Next() {
		var r TableRow
		var last5, topScorer, goalkeeper sql.NullString
		var avgAtt sql.NullFloat64
		err := rows.Scan(&r.TeamID, &r.Team, &r.LogoKey, &r.MP, &r.W, &r.D, &r.L, &r.GF, &r.GA,
			&r.GD, &r.Pts, &r.PPG, &last5, &topScorer, &goalkeeper, &avgAtt)
		if err != nil {
			return nil, err
		}
		r.Last5 = last5.String
		r.TopScorer = topScorer.String
		r.Goalkeeper = goalkeeper.String
		r.AvgAttendance = avgAtt.Float64
		tableRows = append(tableRows, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sortTable(tableRows)

	table := &Table{
		Season:    season,
		Stage:     stage,
		Rows:      tableRows,
		UpdatedAt: time.Now().UTC(),
		Source:    "seed",
	}
	s.tableCache.Add(cacheKey, table)
	return table, nil
}

// ListFixtures returns the stage-expanded matches for a season, optionally
// filtered by team and round label, enriched with team names and logos.
func (s *store) ListFixtures(season int, stage string, teamID int, round string) ([]Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders, args := stageQueryArgs(season, stage)
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT m.id, m.date, m.time, m.round, m.home_team_id, m.away_team_id,
		       m.home_goals, m.away_goals, m.home_xg, m.away_xg, m.attendance, m.venue, m.referee,
		       ht.name, ht.logo_key, at.name, at.logo_key
		FROM matches m
		JOIN teams ht ON m.home_team_id = ht.id
		JOIN teams at ON m.away_team_id = at.id
		WHERE m.season_year = ? AND m.stage_code IN (%s)
		ORDER BY m.date, m.id
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixtures: %w", err)
	}
	defer rows.Close()

	fixtures := []Fixture{}
	for rows.Next() {
		var f Fixture
		var homeXG, awayXG sql.NullFloat64
		var attendance sql.NullInt64
		var venue, referee sql.NullString
		err := rows.Scan(&f.MatchID, &f.Date, &f.Kickoff, &f.Round, &f.HomeTeamID, &f.AwayTeamID,
			&f.HomeGoals, &f.AwayGoals, &homeXG, &awayXG, &attendance, &venue, &referee,
			&f.Home, &f.HomeLogoKey, &f.Away, &f.AwayLogoKey)
		if err != nil {
			return nil, err
		}
		f.HomeXG = homeXG.Float64
		f.AwayXG = awayXG.Float64
		f.Attendance = int(attendance.Int64)
		f.Venue = venue.String
		f.Referee = referee.String
		if teamID != 0 && f.HomeTeamID != teamID && f.AwayTeamID != teamID {
			continue
		}
		if round != "" && f.Round != round {
			continue
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, rows.Err()
}

// ListMatchEvents returns one match's events ordered by minute then
// insertion order, enriched with team and player display names.
func (s *store) ListMatchEvents(matchID int64) ([]MatchEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT e.minute, e.team_id, t.name, e.player_id, p.full_name, e.type, e.detail
		FROM match_events e
		JOIN teams t ON e.team_id = t.id
		LEFT JOIN players p ON e.player_id = p.id
		WHERE e.match_id = ?
		ORDER BY e.minute ASC, e.id ASC
	`, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query match events: %w", err)
	}
	defer rows.Close()

	events := []MatchEvent{}
	for rows.Next() {
		var e MatchEvent
		var playerID sql.NullInt64
		var player, detail sql.NullString
		if err := rows.Scan(&e.Minute, &e.TeamID, &e.Team, &playerID, &player, &e.Type, &detail); err != nil {
			return nil, err
		}
		e.PlayerID = playerID.Int64
		e.Player = player.String
		e.Detail = detail.String
		events = append(events, e)
	}
	return events, rows.Err()
}

// ListScorers counts goal events grouped by (player, team) over the
// stage-expanded matches, ordered by goals descending then player name.
func (s *store) ListScorers(season int, stage string, top int) ([]Scorer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders, args := stageQueryArgs(season, stage)
	args = append(args, top)
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT p.id AS player_id, p.full_name AS player, t.id AS team_id, t.name AS team, COUNT(*) AS goals
		FROM match_events e
		JOIN matches m ON e.match_id = m.id
		JOIN players p ON e.player_id = p.id
		JOIN teams t ON p.team_id = t.id
		WHERE m.season_year = ? AND m.stage_code IN (%s) AND e.type = 'goal'
		GROUP BY p.id, t.name
		ORDER BY goals DESC, player ASC
		LIMIT ?
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scorers: %w", err)
	}
	defer rows.Close()

	scorers := []Scorer{}
	for rows.Next() {
		var sc Scorer
		if err := rows.Scan(&sc.PlayerID, &sc.Player, &sc.TeamID, &sc.Team, &sc.Goals); err != nil {
			return nil, err
		}
		scorers = append(scorers, sc)
	}
	return scorers, rows.Err()
}

// CardsByTeam sums yellow and red events grouped by team.
func (s *store) CardsByTeam(season int, stage string) ([]TeamCards, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cardsByTeamLocked(season, stage)
}

func (s *store) cardsByTeamLocked(season int, stage string) ([]TeamCards, error) {
	placeholders, args := stageQueryArgs(season, stage)
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT t.id, t.name, t.logo_key,
		       SUM(CASE WHEN e.type = 'yellow' THEN 1 ELSE 0 END) AS yellow,
		       SUM(CASE WHEN e.type = 'red' THEN 1 ELSE 0 END) AS red
		FROM match_events e
		JOIN matches m ON e.match_id = m.id
		JOIN teams t ON e.team_id = t.id
		WHERE m.season_year = ? AND m.stage_code IN (%s)
		GROUP BY t.id, t.name, t.logo_key
		ORDER BY t.name
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	cards := []TeamCards{}
	for rows.Next() {
		var c TeamCards
		if err := rows.Scan(&c.TeamID, &c.Team, &c.LogoKey, &c.Yellow, &c.Red); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// DisciplineTable enriches the cards table with per-team match counts and
// a cards-per-game rate.
func (s *store) DisciplineTable(season int, stage string) ([]DisciplineRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cards, err := s.cardsByTeamLocked(season, stage)
	if err != nil {
		return nil, err
	}

	placeholders, args := stageQueryArgs(season, stage)
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT t.name, COUNT(*) AS mp
		FROM matches m
		JOIN teams t ON m.home_team_id = t.id OR m.away_team_id = t.id
		WHERE m.season_year = ? AND m.stage_code IN (%s)
		GROUP BY t.name
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query match counts: %w", err)
	}
	defer rows.Close()

	matchCounts := map[string]int{}
	for rows.Next() {
		var team string
		var mp int
		if err := rows.Scan(&team, &mp); err != nil {
			return nil, err
		}
		matchCounts[team] = mp
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	table := []DisciplineRow{}
	for _, c := range cards {
		mp := matchCounts[c.Team]
		total := c.Yellow + c.Red
		var perGame float64
		if mp > 0 {
			perGame = round2(float64(total) / float64(mp))
		}
		table = append(table, DisciplineRow{
			Team:       c.Team,
			MP:         mp,
			Yellow:     c.Yellow,
			Red:        c.Red,
			TotalCards: total,
			PerGame:    perGame,
		})
	}
	return table, nil
}

// PlayerStandardStats sums per-match player statistics grouped by
// (player, team), optionally filtered by team. Age derives from the season
// year minus birth year when the birth year is known.
func (s *store) PlayerStandardStats(season int, stage string, teamID int) ([]PlayerStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders, args := stageQueryArgs(season, stage)
	teamFilter := ""
	if teamID != 0 {
		teamFilter = "AND p.team_id = ?"
		args = append(args, teamID)
	}
	rows, err := s.db.Query(fmt.Sprintf(`
		SELECT p.id, p.full_name, p.position, p.nationality, p.birth_year,
		       t.name, t.id,
		       SUM(ps.starts), COUNT(*), SUM(ps.minutes), SUM(ps.goals), SUM(ps.assists),
		       SUM(ps.shots), SUM(ps.shots_on_target), SUM(ps.xg), SUM(ps.xa),
		       SUM(ps.yellow), SUM(ps.red)
		FROM player_match_stats ps
		JOIN matches m ON ps.match_id = m.id
		JOIN players p ON ps.player_id = p.id
		JOIN teams t ON p.team_id = t.id
		WHERE m.season_year = ? AND m.stage_code IN (%s) %s
		GROUP BY p.id, t.id
		ORDER BY SUM(ps.goals) DESC, SUM(ps.assists) DESC, SUM(ps.minutes) DESC
	`, placeholders, teamFilter), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query player stats: %w", err)
	}
	defer rows.Close()

	stats := []PlayerStats{}
	for rows.Next() {
		var p PlayerStats
		var position, nationality sql.NullString
		var birthYear sql.NullInt64
		var xg, xa float64
		err := rows.Scan(&p.PlayerID, &p.Player, &position, &nationality, &birthYear,
			&p.Team, &p.TeamID, &p.Starts, &p.MP, &p.Minutes, &p.Goals, &p.Assists,
			&p.Shots, &p.ShotsOnTarget, &xg, &xa, &p.Yellow, &p.Red)
		if err != nil {
			return nil, err
		}
		p.Position = position.String
		if p.Position == "" {
			p.Position = "MF"
		}
		p.Nation = nationality.String
		if birthYear.Valid {
			p.Age = season - int(birthYear.Int64)
		}
		p.XG = round2(xg)
		p.XA = round2(xa)
		stats = append(stats, p)
	}
	return stats, rows.Err()
}

// TeamsBasic lists every team's minimal shape, ordered by name.
func (s *store) TeamsBasic() ([]TeamBasic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.teamsBasicLocked()
}

func (s *store) teamsBasicLocked() ([]TeamBasic, error) {
	rows, err := s.db.Query("SELECT id, name, short_name, logo_key FROM teams ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	teams := []TeamBasic{}
	for rows.Next() {
		var t TeamBasic
		var shortName, logoKey sql.NullString
		if err := rows.Scan(&t.ID, &t.Name, &shortName, &logoKey); err != nil {
			log.Error("Failed to scan team row", "error", err)
			continue
		}
		t.ShortName = shortName.String
		t.LogoKey = logoKey.String
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// TeamsSummary combines attendance, primary goalkeeper and leading scorer
// for every team, each independently derived for the requested stage.
func (s *store) TeamsSummary(season int, stage string) ([]TeamSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	attendance, err := avgAttendanceByTeam(s.db, season, stage)
	if err != nil {
		return nil, err
	}
	gks, err := primaryGKMap(s.db, season, stage)
	if err != nil {
		return nil, err
	}
	topScorers, err := topScorerMap(s.db, season, stage)
	if err != nil {
		return nil, err
	}
	teams, err := s.teamsBasicLocked()
	if err != nil {
		return nil, err
	}

	summaries := make([]TeamSummary, 0, len(teams))
	for _, t := range teams {
		summary := TeamSummary{
			TeamID:        t.ID,
			Team:          t.Name,
			LogoKey:       t.LogoKey,
			AvgAttendance: attendance[t.ID],
		}
		if gk, ok := gks[t.ID]; ok {
			gkCopy := gk
			summary.PrimaryGK = &gkCopy
		}
		if ts, ok := topScorers[t.ID]; ok {
			tsCopy := ts
			summary.TopScorer = &tsCopy
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// StatsInsights bundles the per-team series (goals, points, cards,
// attendance) plus the top-10 scorers for one (season, stage).
func (s *store) StatsInsights(season int, stage string) (*Insights, error) {
	table, err := s.ComputeTable(season, stage)
	if err != nil {
		return nil, err
	}
	cards, err := s.CardsByTeam(season, stage)
	if err != nil {
		return nil, err
	}
	scorers, err := s.ListScorers(season, stage, 10)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	attendance, err := avgAttendanceByTeam(s.db, season, stage)
	if err != nil {
		s.mu.RUnlock()
		return nil, err
	}
	teams, err := s.teamsBasicLocked()
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	insights := &Insights{
		Season:      season,
		Stage:       stage,
		CardsByTeam: cards,
		TopScorers:  scorers,
		Source:      "seed",
	}
	for _, row := range table.Rows {
		insights.GoalsForByTeam = append(insights.GoalsForByTeam, InsightValue{
			TeamID: row.TeamID, Team: row.Team, Value: float64(row.GF), LogoKey: row.LogoKey,
		})
		insights.PointsByTeam = append(insights.PointsByTeam, InsightValue{
			TeamID: row.TeamID, Team: row.Team, Value: float64(row.Pts), LogoKey: row.LogoKey,
		})
	}
	for _, t := range teams {
		insights.AttendanceByTeam = append(insights.AttendanceByTeam, InsightValue{
			TeamID: t.ID, Team: t.Name, Value: attendance[t.ID], LogoKey: t.LogoKey,
		})
	}
	return insights, nil
}

// SummaryForTeam condenses one team's table row and cards into the shape
// the consultant consumes. A team with no table row returns nil, not an
// error.
func (s *store) SummaryForTeam(season int, stage string, team string) (*TeamStanding, error) {
	table, err := s.ComputeTable(season, stage)
	if err != nil {
		return nil, err
	}
	var row *TableRow
	for i := range table.Rows {
		if table.Rows[i].Team == team {
			row = &table.Rows[i]
			break
		}
	}
	if row == nil {
		return nil, nil
	}

	cards, err := s.CardsByTeam(season, stage)
	if err != nil {
		return nil, err
	}
	standing := &TeamStanding{
		Team:  team,
		Pts:   row.Pts,
		GD:    row.GD,
		GF:    row.GF,
		GA:    row.GA,
		Last5: row.Last5,
	}
	for _, c := range cards {
		if c.Team == team {
			standing.Yellow = c.Yellow
			standing.Red = c.Red
			break
		}
	}
	return standing, nil
}

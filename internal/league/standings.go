package league

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so the aggregation helpers
// can run inside the seeding transaction or standalone.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// stagesForQuery expands the virtual anual stage into its underlying
// stages; every other stage expands to itself.
func stagesForQuery(stage string) []string {
	if stage == StageAnual {
		return []string{StageApertura, StageClausura}
	}
	return []string{stage}
}

func inPlaceholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func stageQueryArgs(season int, stage string) (string, []any) {
	stages := stagesForQuery(stage)
	args := make([]any, 0, len(stages)+1)
	args = append(args, season)
	for _, s := range stages {
		args = append(args, s)
	}
	return inPlaceholders(len(stages)), args
}

// teamCounts holds the six counting fields folded from match results.
// Derived fields (gd, pts, ppg) are always recomputed from these, never
// summed from other derived values.
type teamCounts struct {
	MP, W, D, L, GF, GA int
}

// buildAndStoreStandings folds a season's matches into per-stage tables,
// rolls apertura+clausura up into the virtual anual bucket, computes the
// auxiliary fields, ranks, and rewrites the standings rows for the season.
func buildAndStoreStandings(q dbtx, season int, matches []matchResult, teamNames map[int]string) error {
	counts := map[string]map[int]*teamCounts{}
	for _, stage := range []string{StageApertura, StageClausura, StageIntermedio} {
		counts[stage] = emptyCounts(teamNames)
	}

	for _, m := range matches {
		table, ok := counts[m.StageCode]
		if !ok {
			table = emptyCounts(teamNames)
			counts[m.StageCode] = table
		}
		foldSide(table, m.HomeTeamID, m.HomeGoals, m.AwayGoals)
		foldSide(table, m.AwayTeamID, m.AwayGoals, m.HomeGoals)
	}

	// Anual aggregates the counting fields of apertura and clausura.
	annual := emptyCounts(teamNames)
	for _, stage := range []string{StageApertura, StageClausura} {
		for teamID, c := range counts[stage] {
			target := annual[teamID]
			target.MP += c.MP
			target.W += c.W
			target.D += c.D
			target.L += c.L
			target.GF += c.GF
			target.GA += c.GA
		}
	}
	counts[StageAnual] = annual

	if _, err := q.Exec("DELETE FROM standings WHERE season_year = ?", season); err != nil {
		return fmt.Errorf("failed to clear standings for season %d: %w", season, err)
	}

	for _, stage := range StageCodes {
		table, ok := counts[stage]
		if !ok {
			continue
		}
		last5, err := last5Strings(q, season, stage)
		if err != nil {
			return err
		}
		topScorers, err := topScorerMap(q, season, stage)
		if err != nil {
			return err
		}
		gks, err := primaryGKMap(q, season, stage)
		if err != nil {
			return err
		}
		attendance, err := avgAttendanceByTeam(q, season, stage)
		if err != nil {
			return err
		}

		rows := make([]TableRow, 0, len(table))
		for teamID, c := range table {
			pts := c.W*3 + c.D
			mp := c.MP
			if mp == 0 {
				mp = 1
			}
			row := TableRow{
				TeamID:        teamID,
				Team:          teamNames[teamID],
				MP:            c.MP,
				W:             c.W,
				D:             c.D,
				L:             c.L,
				GF:            c.GF,
				GA:            c.GA,
				GD:            c.GF - c.GA,
				Pts:           pts,
				PPG:           round2(float64(pts) / float64(mp)),
				Last5:         last5[teamID],
				AvgAttendance: attendance[teamID],
			}
			if ts, ok := topScorers[teamID]; ok {
				row.TopScorer = fmt.Sprintf("%s–%d", ts.Name, ts.Goals)
			}
			if gk, ok := gks[teamID]; ok {
				row.Goalkeeper = gk.Name
			}
			rows = append(rows, row)
		}
		sortTable(rows)

		for _, row := range rows {
			_, err := q.Exec(`
				INSERT INTO standings(
					season_year, stage_code, team_id, mp, w, d, l, gf, ga, gd, pts, ppg, last5,
					top_scorer, goalkeeper, avg_attendance
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, season, stage, row.TeamID, row.MP, row.W, row.D, row.L, row.GF, row.GA,
				row.GD, row.Pts, row.PPG, row.Last5, row.TopScorer, row.Goalkeeper, row.AvgAttendance)
			if err != nil {
				return fmt.Errorf("failed to insert standings row for team %d: %w", row.TeamID, err)
			}
		}
	}
	return nil
}

func emptyCounts(teamNames map[int]string) map[int]*teamCounts {
	table := make(map[int]*teamCounts, len(teamNames))
	for teamID := range teamNames {
		table[teamID] = &teamCounts{}
	}
	return table
}

func foldSide(table map[int]*teamCounts, teamID, gf, ga int) {
	row, ok := table[teamID]
	if !ok {
		row = &teamCounts{}
		table[teamID] = row
	}
	row.MP++
	row.GF += gf
	row.GA += ga
	switch {
	case gf > ga:
		row.W++
	case gf == ga:
		row.D++
	default:
		row.L++
	}
}

// sortTable ranks rows by points, then goal difference, then goals for,
// all descending, with team name ascending as the final tie-break.
func sortTable(rows []TableRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Pts != b.Pts {
			return a.Pts > b.Pts
		}
		if a.GD != b.GD {
			return a.GD > b.GD
		}
		if a.GF != b.GF {
			return a.GF > b.GF
		}
		return a.Team < b.Team
	})
	for i := range rows {
		rows[i].Pos = i + 1
	}
}

// last5Strings maps each team to its recent-form string: that team's
// matches for the stage newest first, each mapped to W/D/L from the team's
// perspective, capped at five characters.
func last5Strings(q dbtx, season int, stage string) (map[int]string, error) {
	placeholders, args := stageQueryArgs(season, stage)
	rows, err := q.Query(fmt.Sprintf(`
		SELECT home_team_id, away_team_id, home_goals, away_goals
		FROM matches
		WHERE season_year = ? AND stage_code IN (%s)
		ORDER BY date DESC, id DESC
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query last5 matches: %w", err)
	}
	defer rows.Close()

	history := map[int][]string{}
	for rows.Next() {
		var home, away, hg, ag int
		if err := rows.Scan(&home, &away, &hg, &ag); err != nil {
			return nil, err
		}
		var homeRes, awayRes string
		switch {
		case hg > ag:
			homeRes, awayRes = "W", "L"
		case hg == ag:
			homeRes, awayRes = "D", "D"
		default:
			homeRes, awayRes = "L", "W"
		}
		history[home] = append(history[home], homeRes)
		history[away] = append(history[away], awayRes)
	}
	result := make(map[int]string, len(history))
	for teamID, results := range history {
		if len(results) > 5 {
			results = results[:5]
		}
		result[teamID] = strings.Join(results, "")
	}
	return result, rows.Err()
}

// topScorerMap returns each team's leading scorer by goal-event count.
// Ties at equal goals break by player name ascending.
func topScorerMap(q dbtx, season int, stage string) (map[int]ScorerSummary, error) {
	placeholders, args := stageQueryArgs(season, stage)
	rows, err := q.Query(fmt.Sprintf(`
		SELECT t.id AS team_id, p.id AS player_id, p.full_name, COUNT(*) AS goals
		FROM match_events e
		JOIN matches m ON e.match_id = m.id
		JOIN players p ON e.player_id = p.id
		JOIN teams t ON p.team_id = t.id
		WHERE m.season_year = ? AND m.stage_code IN (%s) AND e.type = 'goal'
		GROUP BY t.id, p.id
		ORDER BY goals DESC, p.full_name ASC
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query top scorers: %w", err)
	}
	defer rows.Close()

	result := map[int]ScorerSummary{}
	for rows.Next() {
		var teamID int
		var s ScorerSummary
		if err := rows.Scan(&teamID, &s.PlayerID, &s.Name, &s.Goals); err != nil {
			return nil, err
		}
		if _, ok := result[teamID]; !ok {
			result[teamID] = s
		}
	}
	return result, rows.Err()
}

// primaryGKMap returns each team's goalkeeper with the most minutes played
// in the stage; ties break by name ascending.
func primaryGKMap(q dbtx, season int, stage string) (map[int]GKSummary, error) {
	placeholders, args := stageQueryArgs(season, stage)
	rows, err := q.Query(fmt.Sprintf(`
		SELECT p.team_id, p.id AS player_id, p.full_name, SUM(ps.minutes) AS mins
		FROM player_match_stats ps
		JOIN matches m ON ps.match_id = m.id
		JOIN players p ON ps.player_id = p.id
		WHERE m.season_year = ? AND m.stage_code IN (%s) AND p.position = 'GK'
		GROUP BY p.team_id, p.id
		ORDER BY mins DESC, p.full_name ASC
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query goalkeepers: %w", err)
	}
	defer rows.Close()

	result := map[int]GKSummary{}
	for rows.Next() {
		var teamID int
		var gk GKSummary
		if err := rows.Scan(&teamID, &gk.PlayerID, &gk.Name, &gk.Minutes); err != nil {
			return nil, err
		}
		if _, ok := result[teamID]; !ok {
			result[teamID] = gk
		}
	}
	return result, rows.Err()
}

// avgAttendanceByTeam averages attendance over each team's home matches.
func avgAttendanceByTeam(q dbtx, season int, stage string) (map[int]float64, error) {
	placeholders, args := stageQueryArgs(season, stage)
	rows, err := q.Query(fmt.Sprintf(`
		SELECT home_team_id, AVG(attendance) AS avg_att
		FROM matches
		WHERE season_year = ? AND stage_code IN (%s)
		GROUP BY home_team_id
	`, placeholders), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance: %w", err)
	}
	defer rows.Close()

	result := map[int]float64{}
	for rows.Next() {
		var teamID int
		var avg float64
		if err := rows.Scan(&teamID, &avg); err != nil {
			return nil, err
		}
		result[teamID] = round2(avg)
	}
	return result, rows.Err()
}

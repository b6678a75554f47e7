package league

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// seasonSeedBase offsets the per-season PRNG seed. Seeding the same season
// twice must produce byte-identical data.
const seasonSeedBase = 42

type teamsFile struct {
	Teams []Team `json:"teams"`
}

type rosterFile struct {
	Teams []struct {
		Name    string         `json:"name"`
		Players []RosterPlayer `json:"players"`
	} `json:"teams"`
}

// Seed regenerates the entire store from the seed configuration: teams,
// seasons, simulated fixtures, events, per-player stats and standings, all
// in one transaction. Any failure rolls the whole seed back.
func (s *store) Seed(seedsDir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	teams, err := loadTeams(seedsDir)
	if err != nil {
		return err
	}
	seasons, err := loadRosterSeasons(seedsDir)
	if err != nil {
		return err
	}
	if len(seasons) == 0 {
		return fmt.Errorf("no roster files found in %s", seedsDir)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin seeding transaction: %w", err)
	}
	defer tx.Rollback()

	if err := insertBaseRows(tx, teams, seasons); err != nil {
		return err
	}

	teamIDs := make([]int, 0, len(teams))
	teamNames := make(map[int]string, len(teams))
	for _, t := range teams {
		teamIDs = append(teamIDs, t.ID)
		teamNames[t.ID] = t.Name
	}

	for _, season := range seasons {
		rng := rand.New(rand.NewSource(int64(seasonSeedBase + season)))
		roster, err := loadRostersForSeason(seedsDir, season)
		if err != nil {
			return err
		}
		playerMap, err := insertPlayers(tx, teams, roster)
		if err != nil {
			return err
		}

		var allMatches []matchResult
		var allEvents []eventRow
		var allStats []statRow
		for _, block := range generateFixtureBlocks(teamIDs, season, rng) {
			for _, fx := range block.Fixtures {
				result, events, stats, err := simulateAndInsertMatch(tx, rng, season, block.Stage, fx, playerMap, teams)
				if err != nil {
					return err
				}
				allMatches = append(allMatches, result)
				allEvents = append(allEvents, events...)
				allStats = append(allStats, stats...)
			}
		}
		if err := persistEvents(tx, allEvents); err != nil {
			return err
		}
		if err := persistPlayerStats(tx, allStats); err != nil {
			return err
		}
		if err := buildAndStoreStandings(tx, season, allMatches, teamNames); err != nil {
			return err
		}
		log.Info("Seeded season", "season", season, "matches", len(allMatches), "events", len(allEvents))
	}

	_, err = tx.Exec("INSERT OR REPLACE INTO metadata(key, value) VALUES('schema_version', ?)", SchemaVersion)
	if err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}
	s.tableCache.Purge()
	log.Info("Store seeded", "seasons", seasons, "teams", len(teams))
	return nil
}

func loadTeams(seedsDir string) ([]Team, error) {
	data, err := os.ReadFile(filepath.Join(seedsDir, "teams.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to read teams seed: %w", err)
	}
	var parsed teamsFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse teams seed: %w", err)
	}
	return parsed.Teams, nil
}

// loadRosterSeasons discovers seasons from rosters_<year>.json files.
func loadRosterSeasons(seedsDir string) ([]int, error) {
	paths, err := filepath.Glob(filepath.Join(seedsDir, "rosters_*.json"))
	if err != nil {
		return nil, err
	}
	var seasons []int
	for _, path := range paths {
		stem := strings.TrimSuffix(filepath.Base(path), ".json")
		year, err := strconv.Atoi(strings.TrimPrefix(stem, "rosters_"))
		if err != nil {
			continue
		}
		seasons = append(seasons, year)
	}
	sort.Ints(seasons)
	return seasons, nil
}

func loadRostersForSeason(seedsDir string, season int) (map[string][]RosterPlayer, error) {
	data, err := os.ReadFile(filepath.Join(seedsDir, fmt.Sprintf("rosters_%d.json", season)))
	if err != nil {
		return nil, fmt.Errorf("failed to read roster for season %d: %w", season, err)
	}
	var parsed rosterFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse roster for season %d: %w", season, err)
	}
	roster := make(map[string][]RosterPlayer, len(parsed.Teams))
	for _, entry := range parsed.Teams {
		roster[entry.Name] = entry.Players
	}
	return roster, nil
}

func insertBaseRows(tx *sql.Tx, teams []Team, seasons []int) error {
	for _, t := range teams {
		_, err := tx.Exec(
			"INSERT INTO teams(id, name, short_name, city, stadium, logo_key, is_placeholder) VALUES (?, ?, ?, ?, ?, ?, ?)",
			t.ID, t.Name, t.ShortName, t.City, t.Stadium, t.LogoKey, boolToInt(t.IsPlaceholder),
		)
		if err != nil {
			return fmt.Errorf("failed to insert team %q: %w", t.Name, err)
		}
	}
	for _, season := range seasons {
		if _, err := tx.Exec("INSERT INTO seasons(year) VALUES (?)", season); err != nil {
			return fmt.Errorf("failed to insert season %d: %w", season, err)
		}
	}
	for _, code := range StageCodes {
		if _, err := tx.Exec("INSERT INTO stages(code, name) VALUES (?, ?)", code, StageNames[code]); err != nil {
			return fmt.Errorf("failed to insert stage %q: %w", code, err)
		}
	}
	return nil
}

// insertPlayers writes one season's rosters and returns team id -> player
// ids, in roster order. A "placeholder" substring anywhere in a name is a
// hard invariant violation that aborts the whole seed.
func insertPlayers(tx *sql.Tx, teams []Team, roster map[string][]RosterPlayer) (map[int][]int64, error) {
	playerMap := make(map[int][]int64, len(teams))
	for _, team := range teams {
		players := roster[team.Name]
		ids := make([]int64, 0, len(players))
		for _, p := range players {
			if strings.Contains(strings.ToLower(p.FullName), "placeholder") {
				return nil, fmt.Errorf("invalid roster for %q: placeholder player name %q", team.Name, p.FullName)
			}
			res, err := tx.Exec(
				"INSERT INTO players(full_name, team_id, position, nationality, birth_year) VALUES (?, ?, ?, ?, ?)",
				p.FullName, team.ID, p.Position, normalizeNationality(p.Nationality), nullableYear(p.BirthYear),
			)
			if err != nil {
				return nil, fmt.Errorf("failed to insert player %q: %w", p.FullName, err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		playerMap[team.ID] = ids
	}
	return playerMap, nil
}

var nationality3to2 = map[string]string{
	"URU": "UY",
	"ARG": "AR",
	"BRA": "BR",
	"COL": "CO",
	"PAR": "PY",
	"CHI": "CL",
}

// normalizeNationality reduces roster nationality codes to ISO2.
func normalizeNationality(code string) string {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return ""
	}
	if len(normalized) == 3 {
		if iso2, ok := nationality3to2[normalized]; ok {
			return iso2
		}
	}
	if len(normalized) <= 2 {
		return normalized
	}
	return normalized[:2]
}

func nullableYear(year int) any {
	if year == 0 {
		return nil
	}
	return year
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// simulateAndInsertMatch derives the rest of a fixture (attendance, xG,
// venue, referee), persists the match row, and simulates both sides.
func simulateAndInsertMatch(tx *sql.Tx, rng *rand.Rand, season int, stage string, fx fixture, playerMap map[int][]int64, teams []Team) (matchResult, []eventRow, []statRow, error) {
	var venue string
	for _, t := range teams {
		if t.ID == fx.Home {
			venue = t.Stadium
			break
		}
	}
	minAtt, maxAtt := attendanceRange(fx.Home)
	attendance := randBetween(rng, minAtt, maxAtt)
	homeXG := round2(float64(fx.HomeGoals)*0.7 + rng.Float64()*1.5)
	awayXG := round2(float64(fx.AwayGoals)*0.7 + rng.Float64()*1.4)
	referee := referees[rng.Intn(len(referees))]
	date := fx.Date.Format("2006-01-02")

	res, err := tx.Exec(`
		INSERT INTO matches(
			season_year, stage_code, round, date, time, home_team_id, away_team_id,
			home_goals, away_goals, home_xg, away_xg, attendance, venue, referee
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, season, stage, fx.Round, date, fx.Kickoff, fx.Home, fx.Away,
		fx.HomeGoals, fx.AwayGoals, homeXG, awayXG, attendance, venue, referee)
	if err != nil {
		return matchResult{}, nil, nil, fmt.Errorf("failed to insert match: %w", err)
	}
	matchID, err := res.LastInsertId()
	if err != nil {
		return matchResult{}, nil, nil, err
	}

	var events []eventRow
	var stats []statRow
	for _, side := range []struct {
		teamID int
		goals  int
		xg     float64
	}{
		{fx.Home, fx.HomeGoals, homeXG},
		{fx.Away, fx.AwayGoals, awayXG},
	} {
		sideEvents, sideStats := simulateSide(matchID, side.teamID, side.goals, side.xg, playerMap, rng)
		events = append(events, sideEvents...)
		stats = append(stats, sideStats...)
	}

	return matchResult{
		MatchID:    matchID,
		SeasonYear: season,
		StageCode:  stage,
		HomeTeamID: fx.Home,
		AwayTeamID: fx.Away,
		HomeGoals:  fx.HomeGoals,
		AwayGoals:  fx.AwayGoals,
		Date:       date,
	}, events, stats, nil
}

func persistEvents(tx *sql.Tx, events []eventRow) error {
	stmt, err := tx.Prepare("INSERT INTO match_events(match_id, minute, team_id, player_id, type, detail) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare event insert: %w", err)
	}
	defer stmt.Close()
	for _, e := range events {
		if _, err := stmt.Exec(e.MatchID, e.Minute, e.TeamID, e.PlayerID, e.Type, e.Detail); err != nil {
			return fmt.Errorf("failed to insert match event: %w", err)
		}
	}
	return nil
}

func persistPlayerStats(tx *sql.Tx, stats []statRow) error {
	stmt, err := tx.Prepare(`
		INSERT INTO player_match_stats(
			match_id, player_id, team_id, minutes, goals, assists, shots, shots_on_target,
			xg, xa, yellow, red, starts
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare stat insert: %w", err)
	}
	defer stmt.Close()
	for _, st := range stats {
		_, err := stmt.Exec(st.MatchID, st.PlayerID, st.TeamID, st.Minutes, st.Goals, st.Assists,
			st.Shots, st.ShotsOnTarget, st.XG, st.XA, st.Yellow, st.Red, st.Starts)
		if err != nil {
			return fmt.Errorf("failed to insert player stat: %w", err)
		}
	}
	return nil
}

package league

import (
	"database/sql"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// SchemaVersion is written to the metadata table after a successful seed.
// Stores carrying an older marker are deleted and rebuilt, never migrated.
const SchemaVersion = 3

const (
	DefaultSeason = 2024
	DefaultStage  = StageApertura
)

// Stage codes. Anual is virtual: it owns no fixtures and is always derived
// from apertura plus clausura.
const (
	StageApertura   = "apertura"
	StageClausura   = "clausura"
	StageIntermedio = "intermedio"
	StageAnual      = "anual"
)

// StageCodes lists every stage in its canonical order.
var StageCodes = []string{StageApertura, StageClausura, StageIntermedio, StageAnual}

// StageNames maps stage codes to display names.
var StageNames = map[string]string{
	StageApertura:   "Torneo Apertura",
	StageClausura:   "Torneo Clausura",
	StageIntermedio: "Torneo Intermedio",
	StageAnual:      "Tabla Anual",
}

var referees = []string{
	"Esteban Ostojich",
	"Andrés Matonte",
	"Gustavo Tejera",
	"Leodán González",
	"Christian Ferreyra",
	"Daniel Fedorczuk",
}

var kickoffTimes = []string{"15:00", "16:00", "18:00", "20:30"}

// store handles all database operations for the league.
type store struct {
	db         *sql.DB
	mu         sync.RWMutex
	tableCache *lru.Cache
}

// Team is one club, loaded once from the seed configuration.
type Team struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	ShortName     string `json:"short_name"`
	City          string `json:"city"`
	Stadium       string `json:"stadium"`
	LogoKey       string `json:"logo_key"`
	IsPlaceholder bool   `json:"is_placeholder"`
}

// RosterPlayer is one player entry from a per-season roster file.
type RosterPlayer struct {
	FullName    string `json:"full_name"`
	Position    string `json:"position"`
	Nationality string `json:"nationality"`
	BirthYear   int    `json:"birth_year"`
}

// fixture is a scheduled pairing with its pre-drawn result.
type fixture struct {
	Round     string
	Date      time.Time
	Kickoff   string
	Home      int
	Away      int
	HomeGoals int
	AwayGoals int
}

// matchResult is the slice of a persisted match that the standings fold needs.
type matchResult struct {
	MatchID    int64
	SeasonYear int
	StageCode  string
	HomeTeamID int
	AwayTeamID int
	HomeGoals  int
	AwayGoals  int
	Date       string
}

// TableRow is one ranked standings entry. Legacy aliased field names
// (pj/pg/pe/pp/dg/gc) exist only at the HTTP serialization boundary.
type TableRow struct {
	Pos           int     `json:"pos"`
	TeamID        int     `json:"team_id"`
	Team          string  `json:"team"`
	LogoKey       string  `json:"logo_key"`
	MP            int     `json:"mp"`
	W             int     `json:"w"`
	D             int     `json:"d"`
	L             int     `json:"l"`
	GF            int     `json:"gf"`
	GA            int     `json:"ga"`
	GD            int     `json:"gd"`
	Pts           int     `json:"pts"`
	PPG           float64 `json:"ppg"`
	Last5         string  `json:"last5"`
	TopScorer     string  `json:"top_scorer"`
	Goalkeeper    string  `json:"goalkeeper"`
	AvgAttendance float64 `json:"avg_attendance"`
}

// Table is a full ranked standings table for one (season, stage).
type Table struct {
	Season    int       `json:"season"`
	Stage     string    `json:"stage"`
	Rows      []TableRow `json:"rows"`
	UpdatedAt time.Time `json:"updated_at"`
	Source    string    `json:"source"`
}

// Scorer is one row of the top-scorers list.
type Scorer struct {
	PlayerID int64  `json:"player_id"`
	Player   string `json:"player"`
	TeamID   int    `json:"team_id"`
	Team     string `json:"team"`
	Goals    int    `json:"goals"`
}

// TeamCards aggregates booking events for one team.
type TeamCards struct {
	TeamID  int    `json:"team_id"`
	Team    string `json:"team"`
	LogoKey string `json:"logo_key"`
	Yellow  int    `json:"yellow"`
	Red     int    `json:"red"`
}

// DisciplineRow is a cards table entry enriched with per-game rates.
type DisciplineRow struct {
	Team       string  `json:"team"`
	MP         int     `json:"mp"`
	Yellow     int     `json:"yellow"`
	Red        int     `json:"red"`
	TotalCards int     `json:"total_cards"`
	PerGame    float64 `json:"cards_per_game"`
}

// PlayerStats sums a player's per-match statistics over a stage.
type PlayerStats struct {
	PlayerID      int64   `json:"player_id"`
	Player        string  `json:"player"`
	TeamID        int     `json:"team_id"`
	Team          string  `json:"team"`
	Nation        string  `json:"nation"`
	Position      string  `json:"pos"`
	Age           int     `json:"age,omitempty"`
	MP            int     `json:"mp"`
	Starts        int     `json:"starts"`
	Minutes       int     `json:"min"`
	Goals         int     `json:"gls"`
	Assists       int     `json:"ast"`
	Shots         int     `json:"sh"`
	ShotsOnTarget int     `json:"sot"`
	Yellow        int     `json:"crdy"`
	Red           int     `json:"crdr"`
	XG            float64 `json:"xg"`
	XA            float64 `json:"xa"`
}

// Fixture is one match enriched with team names and logos.
type Fixture struct {
	MatchID     int64   `json:"match_id"`
	Date        string  `json:"date"`
	Kickoff     string  `json:"time"`
	Round       string  `json:"round"`
	Home        string  `json:"home"`
	Away        string  `json:"away"`
	HomeTeamID  int     `json:"home_team_id"`
	AwayTeamID  int     `json:"away_team_id"`
	HomeLogoKey string  `json:"home_logo_key"`
	AwayLogoKey string  `json:"away_logo_key"`
	HomeGoals   int     `json:"home_goals"`
	AwayGoals   int     `json:"away_goals"`
	HomeXG      float64 `json:"home_xg"`
	AwayXG      float64 `json:"away_xg"`
	Attendance  int     `json:"attendance"`
	Venue       string  `json:"venue"`
	Referee     string  `json:"referee"`
}

// MatchEvent is one in-match event enriched with display names.
type MatchEvent struct {
	Minute   int    `json:"minute"`
	TeamID   int    `json:"team_id"`
	Team     string `json:"team"`
	PlayerID int64  `json:"player_id,omitempty"`
	Player   string `json:"player,omitempty"`
	Type     string `json:"type"`
	Detail   string `json:"detail"`
}

// TeamBasic is the minimal team shape used in metadata and listings.
type TeamBasic struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
	LogoKey   string `json:"logo_key"`
}

// Metadata describes the known seasons, stages and teams plus defaults.
type Metadata struct {
	Seasons       []int       `json:"seasons"`
	Stages        []string    `json:"stages"`
	DefaultSeason int         `json:"default_season"`
	DefaultStage  string      `json:"default_stage"`
	Teams         []TeamBasic `json:"teams"`
}

// GKSummary identifies a team's primary goalkeeper for a stage,
// picked by minutes played descending.
type GKSummary struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	Minutes  int    `json:"minutes"`
}

// ScorerSummary identifies a team's leading scorer for a stage.
type ScorerSummary struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	Goals    int    `json:"goals"`
}

// TeamSummary combines a team's attendance, goalkeeper and top scorer.
type TeamSummary struct {
	TeamID        int            `json:"team_id"`
	Team          string         `json:"team"`
	LogoKey       string         `json:"logo_key"`
	AvgAttendance float64        `json:"avg_attendance"`
	PrimaryGK     *GKSummary     `json:"primary_gk"`
	TopScorer     *ScorerSummary `json:"top_scorer"`
}

// InsightValue is one (team, value) point of an insights series.
type InsightValue struct {
	TeamID  int     `json:"team_id"`
	Team    string  `json:"team"`
	Value   float64 `json:"value"`
	LogoKey string  `json:"logo_key"`
}

// Insights bundles the per-team series served by the stats endpoint.
type Insights struct {
	Season           int            `json:"season"`
	Stage            string         `json:"stage"`
	GoalsForByTeam   []InsightValue `json:"goals_for_by_team"`
	PointsByTeam     []InsightValue `json:"points_by_team"`
	CardsByTeam      []TeamCards    `json:"cards_by_team"`
	AttendanceByTeam []InsightValue `json:"attendance_by_team"`
	TopScorers       []Scorer       `json:"top_scorers"`
	Source           string         `json:"source"`
}

// TeamStanding is the condensed per-team view consumed by the consultant.
type TeamStanding struct {
	Team   string `json:"team"`
	Pts    int    `json:"pts"`
	GD     int    `json:"gd"`
	GF     int    `json:"gf"`
	GA     int    `json:"ga"`
	Yellow int    `json:"yellow"`
	Red    int    `json:"red"`
	Last5  string `json:"last5"`
}

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/elsastre/auf-analyzer/internal/consultor"
	"github.com/elsastre/auf-analyzer/internal/league"
	"github.com/elsastre/auf-analyzer/internal/slack"
)

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// respondError writes an error response in the {"detail": ...} shape.
func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}

// resolveParams reads and validates the season and stage query
// parameters, falling back to the defaults when absent. Unknown values
// are rejected rather than silently coerced.
func (s *Server) resolveParams(r *http.Request) (int, string, error) {
	season := league.DefaultSeason
	if v := r.URL.Query().Get("season"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, "", fmt.Errorf("invalid season %q", v)
		}
		season = parsed
	}

	stage := league.DefaultStage
	if v := r.URL.Query().Get("stage"); v != "" {
		stage = v
	}
	if !slices.Contains(league.StageCodes, stage) {
		return 0, "", fmt.Errorf("unknown stage %q", stage)
	}

	meta, err := s.Store.Metadata()
	if err != nil {
		return 0, "", fmt.Errorf("loading metadata: %w", err)
	}
	if !slices.Contains(meta.Seasons, season) {
		return 0, "", fmt.Errorf("unknown season %d", season)
	}
	return season, stage, nil
}

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) MetadataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meta, err := s.Store.Metadata()
		if err != nil {
			log.Error("Failed to get metadata", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to get metadata")
			return
		}
		respondJSON(w, http.StatusOK, meta)
	}
}

// tableRowDTO keeps the Spanish-initialism aliases older consumers
// still read (pj/pg/pe/pp/gc/dg) alongside the canonical fields.
type tableRowDTO struct {
	league.TableRow
	PJ int `json:"pj"`
	PG int `json:"pg"`
	PE int `json:"pe"`
	PP int `json:"pp"`
	GC int `json:"gc"`
	DG int `json:"dg"`
}

type tableDTO struct {
	Season    int           `json:"season"`
	Stage     string        `json:"stage"`
	Rows      []tableRowDTO `json:"rows"`
	UpdatedAt time.Time     `json:"updated_at"`
	Source    string        `json:"source"`
}

func (s *Server) TableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, stage, err := s.resolveParams(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		table, err := s.Store.ComputeTable(season, stage)
		if err != nil {
			log.Error("Failed to compute table", "season", season, "stage", stage, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to compute table")
			return
		}
		s.Metrics.IncTableQueries()

		dto := tableDTO{
			Season:    table.Season,
			Stage:     table.Stage,
			Rows:      make([]tableRowDTO, 0, len(table.Rows)),
			UpdatedAt: table.UpdatedAt,
			Source:    table.Source,
		}
		for _, row := range table.Rows {
			dto.Rows = append(dto.Rows, tableRowDTO{
				TableRow: row,
				PJ:       row.MP,
				PG:       row.W,
				PE:       row.D,
				PP:       row.L,
				GC:       row.GA,
				DG:       row.GD,
			})
		}
		respondJSON(w, http.StatusOK, dto)
	}
}

func (s *Server) ListTeamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		teams, err := s.Store.TeamsBasic()
		if err != nil {
			log.Error("Failed to get teams", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to get teams")
			return
		}
		respondJSON(w, http.StatusOK, teams)
	}
}

func (s *Server) SearchTeamsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("nombre")
		if query == "" {
			query = r.URL.Query().Get("q")
		}
		names, err := s.Store.SearchTeams(query)
		if err != nil {
			log.Error("Failed to search teams", "query", query, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to search teams")
			return
		}
		if len(names) == 0 {
			respondError(w, http.StatusNotFound, fmt.Sprintf("no team matches %q", query))
			return
		}
		respondJSON(w, http.StatusOK, names)
	}
}

func (s *Server) TeamsSummaryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, stage, err := s.resolveParams(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		summaries, err := s.Store.TeamsSummary(season, stage)
		if err != nil {
			log.Error("Failed to get team summaries", "season", season, "stage", stage, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to get team summaries")
			return
		}
		respondJSON(w, http.StatusOK, summaries)
	}
}

func (s *Server) ListFixturesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, stage, err := s.resolveParams(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		teamID := 0
		if v := r.URL.Query().Get("team_id"); v != "" {
			teamID, err = strconv.Atoi(v)
			if err != nil {
				respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid team_id %q", v))
				return
			}
		}
		round := r.URL.Query().Get("round")

		fixtures, err := s.Store.ListFixtures(season, stage, teamID, round)
		if err != nil {
			log.Error("Failed to list fixtures", "season", season, "stage", stage, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to list fixtures")
			return
		}
		respondJSON(w, http.StatusOK, fixtures)
	}
}

func (s *Server) MatchEventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matchID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid match id %q", r.PathValue("id")))
			return
		}
		events, err := s.Store.ListMatchEvents(matchID)
		if err != nil {
			log.Error("Failed to list match events", "matchID", matchID, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to list match events")
			return
		}
		respondJSON(w, http.StatusOK, events)
	}
}

func (s *Server) ListScorersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, stage, err := s.resolveParams(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		top := 20
		if v := r.URL.Query().Get("top"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid top %q", v))
				return
			}
			top = parsed
		}
		if top < 1 {
			top = 1
		}
		if top > 100 {
			top = 100
		}

		scorers, err := s.Store.ListScorers(season, stage, top)
		if err != nil {
			log.Error("Failed to list scorers", "season", season, "stage", stage, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to list scorers")
			return
		}
		respondJSON(w, http.StatusOK, scorers)
	}
}

func (s *Server) DisciplineHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, stage, err := s.resolveParams(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		rows, err := s.Store.DisciplineTable(season, stage)
		if err != nil {
			log.Error("Failed to get discipline table", "season", season, "stage", stage, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to get discipline table")
			return
		}
		respondJSON(w, http.StatusOK, rows)
	}
}

// playerDTO is the slim roster listing served by /players.
type playerDTO struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	TeamID   int    `json:"team_id"`
	Team     string `json:"team"`
	Nation   string `json:"nation"`
	Position string `json:"pos"`
	Age      int    `json:"age,omitempty"`
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, stage, err := s.resolveParams(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		teamID := 0
		if v := r.URL.Query().Get("team_id"); v != "" {
			teamID, err = strconv.Atoi(v)
			if err != nil {
				respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid team_id %q", v))
				return
			}
		}

		stats, err := s.Store.PlayerStandardStats(season, stage, teamID)
		if err != nil {
			log.Error("Failed to list players", "season", season, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to list players")
			return
		}
		players := make([]playerDTO, 0, len(stats))
		for _, st := range stats {
			players = append(players, playerDTO{
				PlayerID: st.PlayerID,
				Name:     st.Player,
				TeamID:   st.TeamID,
				Team:     st.Team,
				Nation:   st.Nation,
				Position: st.Position,
				Age:      st.Age,
			})
		}
		respondJSON(w, http.StatusOK, players)
	}
}

func (s *Server) PlayerStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, stage, err := s.resolveParams(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		teamID := 0
		if v := r.URL.Query().Get("team_id"); v != "" {
			teamID, err = strconv.Atoi(v)
			if err != nil {
				respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid team_id %q", v))
				return
			}
		}

		stats, err := s.Store.PlayerStandardStats(season, stage, teamID)
		if err != nil {
			log.Error("Failed to get player stats", "season", season, "stage", stage, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to get player stats")
			return
		}
		respondJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) InsightsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, stage, err := s.resolveParams(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		insights, err := s.Store.StatsInsights(season, stage)
		if err != nil {
			log.Error("Failed to get insights", "season", season, "stage", stage, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to get insights")
			return
		}
		respondJSON(w, http.StatusOK, insights)
	}
}

type consultorRequest struct {
	Season int    `json:"season"`
	Stage  string `json:"stage"`
	TeamA  string `json:"equipo_a"`
	TeamB  string `json:"equipo_b"`
	AltA   string `json:"team_a"`
	AltB   string `json:"team_b"`
}

func (s *Server) ConsultorHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}

		var req consultorRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		teamA := req.TeamA
		if teamA == "" {
			teamA = req.AltA
		}
		teamB := req.TeamB
		if teamB == "" {
			teamB = req.AltB
		}
		if teamA == "" || teamB == "" {
			respondError(w, http.StatusBadRequest, "equipo_a and equipo_b are required")
			return
		}
		season := req.Season
		if season == 0 {
			season = league.DefaultSeason
		}
		stage := req.Stage
		if stage == "" {
			stage = league.DefaultStage
		}
		if !slices.Contains(league.StageCodes, stage) {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown stage %q", stage))
			return
		}

		advice, err := s.Consultor.Compare(season, stage, teamA, teamB)
		if err != nil {
			if errors.Is(err, consultor.ErrTeamNotFound) {
				respondError(w, http.StatusNotFound, err.Error())
				return
			}
			log.Error("Consultor comparison failed", "teamA", teamA, "teamB", teamB, "error", err)
			respondError(w, http.StatusInternalServerError, "comparison failed")
			return
		}
		respondJSON(w, http.StatusOK, advice)
	}
}

func (s *Server) FormGuideHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.FormGuide == nil {
			respondError(w, http.StatusServiceUnavailable, "form guide provider is not configured")
			return
		}
		team := r.URL.Query().Get("team")
		if team == "" {
			respondError(w, http.StatusBadRequest, "team is required")
			return
		}
		guide, err := s.FormGuide.RecentForm(r.Context(), team)
		if err != nil {
			log.Error("Failed to fetch form guide", "team", team, "error", err)
			respondError(w, http.StatusBadGateway, "failed to fetch form guide")
			return
		}
		respondJSON(w, http.StatusOK, guide)
	}
}

func (s *Server) NotifyTableHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		season, stage, err := s.resolveParams(r)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		isDryRun := isDryRunFromContext(r)

		table, err := s.Store.ComputeTable(season, stage)
		if err != nil {
			log.Error("Failed to compute table for notification", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to compute table")
			return
		}

		notificationType := slack.TableNotification
		scorers := []league.Scorer{}
		if r.URL.Query().Get("type") == "scorers" {
			notificationType = slack.ScorersNotification
			scorers, err = s.Store.ListScorers(season, stage, 10)
			if err != nil {
				log.Error("Failed to list scorers for notification", "error", err)
				respondError(w, http.StatusInternalServerError, "failed to list scorers")
				return
			}
		}

		digest := &slack.Digest{
			Table:   table,
			Scorers: scorers,
			Season:  season,
			Stage:   stage,
		}
		channelID, timestamp, err := s.Notifier.SendNotification(digest, notificationType, s.Metrics, isDryRun)
		if err != nil {
			log.Error("Failed to send notification", "error", err)
			respondError(w, http.StatusInternalServerError, "failed to send notification")
			return
		}
		log.Info("Notification sent", "channelID", channelID, "timestamp", timestamp, "dryRun", isDryRun)
		respondJSON(w, http.StatusOK, map[string]any{
			"channel_id": channelID,
			"timestamp":  timestamp,
			"dry_run":    isDryRun,
		})
	}
}

func (s *Server) ReseedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if !s.Cfg.AllowReseed {
			respondError(w, http.StatusForbidden, "reseeding is disabled")
			return
		}

		log.Info("Starting reseed...")
		s.Metrics.IncSeederRuns()
		start := time.Now()
		if err := s.Reseed(); err != nil {
			log.Error("Reseed failed", "error", err)
			respondError(w, http.StatusInternalServerError, "reseed failed")
			return
		}
		duration := time.Since(start)
		s.Metrics.ObserveSeedingDuration(duration.Seconds())
		log.Info("Reseed completed", "duration", duration)
		respondJSON(w, http.StatusOK, map[string]any{
			"status":           "ok",
			"duration_seconds": duration.Seconds(),
		})
	}
}

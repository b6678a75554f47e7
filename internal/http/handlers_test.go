package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elsastre/auf-analyzer/internal/config"
	"github.com/elsastre/auf-analyzer/internal/consultor"
	"github.com/elsastre/auf-analyzer/internal/formguide"
	"github.com/elsastre/auf-analyzer/internal/league"
	"github.com/elsastre/auf-analyzer/internal/metrics"
	"github.com/elsastre/auf-analyzer/internal/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer wires a server from mocks only. Tests that need the
// real store live in the league package.
func setupTestServer(t *testing.T, cfg config.Config) (*Server, *league.MockStore, *metrics.Mock, *slack.MockNotifier, *consultor.Mock, *formguide.Mock) {
	t.Helper()

	store := league.NewMock()
	store.MetadataFunc = func() (*league.Metadata, error) {
		return &league.Metadata{
			Seasons:       []int{2024},
			Stages:        league.StageCodes,
			DefaultSeason: league.DefaultSeason,
			DefaultStage:  league.DefaultStage,
		}, nil
	}

	metricsSvc := metrics.NewMock()
	notifier := slack.NewMockNotifier()
	advisor := consultor.NewMock()
	guide := formguide.NewMock()
	server := NewServer(store, metricsSvc, metrics.NewMetricsHandler(), cfg, notifier, advisor, guide, func() error { return nil })
	return server, store, metricsSvc, notifier, advisor, guide
}

func testTable() *league.Table {
	return &league.Table{
		Season: 2024,
		Stage:  league.StageApertura,
		Rows: []league.TableRow{
			{Pos: 1, TeamID: 1, Team: "Nacional", MP: 15, W: 11, D: 2, L: 2, GF: 28, GA: 11, GD: 17, Pts: 35, Last5: "WWWDW"},
			{Pos: 2, TeamID: 2, Team: "Peñarol", MP: 15, W: 10, D: 3, L: 2, GF: 25, GA: 12, GD: 13, Pts: 33, Last5: "WDWWL"},
		},
		UpdatedAt: time.Now().UTC(),
		Source:    "seed",
	}
}

func TestHealthCheckHandler(t *testing.T) {
	server, _, _, _, _, _ := setupTestServer(t, config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	body, _ := io.ReadAll(rr.Body)
	assert.Equal(t, "OK!", string(body))
}

func TestTableHandler(t *testing.T) {
	server, store, metricsSvc, _, _, _ := setupTestServer(t, config.Config{})
	store.ComputeTableFunc = func(season int, stage string) (*league.Table, error) {
		assert.Equal(t, 2024, season)
		assert.Equal(t, league.StageApertura, stage)
		return testTable(), nil
	}

	req := httptest.NewRequest(http.MethodGet, "/tables", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	rows := got["rows"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "Nacional", first["team"])
	// Legacy aliases mirror the canonical counters.
	assert.EqualValues(t, 15, first["pj"])
	assert.EqualValues(t, 11, first["pg"])
	assert.EqualValues(t, 2, first["pe"])
	assert.EqualValues(t, 2, first["pp"])
	assert.EqualValues(t, 11, first["gc"])
	assert.EqualValues(t, 17, first["dg"])

	assert.Equal(t, 1, metricsSvc.TableQueries())
}

func TestStandingsAliasRoute(t *testing.T) {
	server, store, _, _, _, _ := setupTestServer(t, config.Config{})
	store.ComputeTableFunc = func(season int, stage string) (*league.Table, error) {
		return testTable(), nil
	}

	req := httptest.NewRequest(http.MethodGet, "/standings?stage=clausura", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, store.ComputeTableCalls, 1)
	assert.Equal(t, "clausura", store.ComputeTableCalls[0].Stage)
}

func TestTableHandlerRejectsUnknownParams(t *testing.T) {
	server, _, _, _, _, _ := setupTestServer(t, config.Config{})

	for _, target := range []string{"/tables?stage=playoff", "/tables?season=1999", "/tables?season=abc"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, target)
		var got map[string]string
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got), target)
		assert.NotEmpty(t, got["detail"], target)
	}
}

func TestSearchTeamsHandler(t *testing.T) {
	server, store, _, _, _, _ := setupTestServer(t, config.Config{})
	store.SearchTeamsFunc = func(query string) ([]string, error) {
		assert.Equal(t, "river", query)
		return []string{"Boston River", "River Plate"}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/teams/search?nombre=river", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got []string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, []string{"Boston River", "River Plate"}, got)
}

func TestSearchTeamsHandlerNotFound(t *testing.T) {
	server, store, _, _, _, _ := setupTestServer(t, config.Config{})
	store.SearchTeamsFunc = func(query string) ([]string, error) {
		return nil, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/teams/search?nombre=xyzzy", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Contains(t, got["detail"], "xyzzy")
}

func TestListFixturesHandlerFilters(t *testing.T) {
	server, store, _, _, _, _ := setupTestServer(t, config.Config{})
	store.ListFixturesFunc = func(season int, stage string, teamID int, round string) ([]league.Fixture, error) {
		assert.Equal(t, 2024, season)
		assert.Equal(t, "clausura", stage)
		assert.Equal(t, 3, teamID)
		assert.Equal(t, "5", round)
		return []league.Fixture{{MatchID: 7, Home: "Defensor Sporting", Away: "Danubio"}}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/fixtures?stage=clausura&team_id=3&round=5", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got []league.Fixture
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].MatchID)
}

func TestMatchEventsHandler(t *testing.T) {
	server, store, _, _, _, _ := setupTestServer(t, config.Config{})
	store.ListMatchEventsFunc = func(matchID int64) ([]league.MatchEvent, error) {
		assert.Equal(t, int64(42), matchID)
		return []league.MatchEvent{{Minute: 12, Team: "Nacional", Type: "goal"}}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/matches/42/events", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got []league.MatchEvent
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "goal", got[0].Type)
}

func TestMatchEventsHandlerRejectsBadID(t *testing.T) {
	server, _, _, _, _, _ := setupTestServer(t, config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/matches/abc/events", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListScorersHandlerClampsTop(t *testing.T) {
	server, store, _, _, _, _ := setupTestServer(t, config.Config{})

	var gotTop int
	store.ListScorersFunc = func(season int, stage string, top int) ([]league.Scorer, error) {
		gotTop = top
		return []league.Scorer{}, nil
	}

	cases := []struct {
		target string
		want   int
	}{
		{"/scorers", 20},
		{"/scorers?top=5", 5},
		{"/scorers?top=0", 1},
		{"/scorers?top=500", 100},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.target, nil)
		rr := httptest.NewRecorder()
		server.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, tc.target)
		assert.Equal(t, tc.want, gotTop, tc.target)
	}
}

func TestConsultorHandler(t *testing.T) {
	server, _, _, _, advisor, _ := setupTestServer(t, config.Config{})
	advisor.CompareFunc = func(season int, stage string, teamA, teamB string) (*consultor.Advice, error) {
		assert.Equal(t, 2024, season)
		assert.Equal(t, "apertura", stage)
		return &consultor.Advice{Season: season, Stage: stage, Favorite: teamA}, nil
	}

	body := bytes.NewBufferString(`{"equipo_a": "Nacional", "equipo_b": "Peñarol"}`)
	req := httptest.NewRequest(http.MethodPost, "/consultor", body)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got consultor.Advice
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Nacional", got.Favorite)

	require.Len(t, advisor.CompareCalls, 1)
	assert.Equal(t, "Nacional", advisor.CompareCalls[0].TeamA)
	assert.Equal(t, "Peñarol", advisor.CompareCalls[0].TeamB)
}

func TestConsultorHandlerErrors(t *testing.T) {
	server, _, _, _, advisor, _ := setupTestServer(t, config.Config{})
	advisor.CompareFunc = func(season int, stage string, teamA, teamB string) (*consultor.Advice, error) {
		return nil, fmt.Errorf("resolving %q: %w", teamA, consultor.ErrTeamNotFound)
	}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"unknown team", `{"equipo_a": "Atlantis", "equipo_b": "Peñarol"}`, http.StatusNotFound},
		{"missing team", `{"equipo_a": "Nacional"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
		{"bad stage", `{"equipo_a": "Nacional", "equipo_b": "Peñarol", "stage": "playoff"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/consultor", bytes.NewBufferString(tc.body))
			rr := httptest.NewRecorder()
			server.ServeHTTP(rr, req)
			assert.Equal(t, tc.want, rr.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/consultor", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestFormGuideHandler(t *testing.T) {
	server, _, _, _, _, guide := setupTestServer(t, config.Config{})
	guide.RecentFormFunc = func(ctx context.Context, team string) (*formguide.Guide, error) {
		assert.Equal(t, "Nacional", team)
		return &formguide.Guide{Team: "Nacional", Form: "WWDLW"}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/form-guide?team=Nacional", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got formguide.Guide
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "WWDLW", got.Form)
}

func TestFormGuideHandlerUnavailable(t *testing.T) {
	store := league.NewMock()
	server := NewServer(store, metrics.NewMock(), metrics.NewMetricsHandler(), config.Config{}, slack.NewMockNotifier(), consultor.NewMock(), nil, func() error { return nil })

	req := httptest.NewRequest(http.MethodGet, "/form-guide?team=Nacional", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestFormGuideHandlerUpstreamFailure(t *testing.T) {
	server, _, _, _, _, guide := setupTestServer(t, config.Config{})
	guide.RecentFormFunc = func(ctx context.Context, team string) (*formguide.Guide, error) {
		return nil, errors.New("status 502")
	}

	req := httptest.NewRequest(http.MethodGet, "/form-guide?team=Nacional", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestNotifyTableHandler(t *testing.T) {
	server, store, metricsSvc, notifier, _, _ := setupTestServer(t, config.Config{})
	store.ComputeTableFunc = func(season int, stage string) (*league.Table, error) {
		return testTable(), nil
	}
	notifier.SendNotificationFunc = func(digest *slack.Digest, notificationType slack.NotificationType, m metrics.Metrics, dryRun bool) (string, string, error) {
		assert.Equal(t, slack.TableNotification, notificationType)
		assert.False(t, dryRun)
		require.NotNil(t, digest.Table)
		assert.Equal(t, 2024, digest.Season)
		m.IncSlackNotifSent()
		return "C123", "167.89", nil
	}

	req := httptest.NewRequest(http.MethodGet, "/notify-table", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, notifier.SendNotificationCalls, 1)
	assert.Equal(t, 1, metricsSvc.SlackNotifSent())
}

func TestNotifyTableHandlerDryRun(t *testing.T) {
	server, store, _, notifier, _, _ := setupTestServer(t, config.Config{})
	store.ComputeTableFunc = func(season int, stage string) (*league.Table, error) {
		return testTable(), nil
	}

	req := httptest.NewRequest(http.MethodGet, "/notify-table?dry_run=true", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, notifier.SendNotificationCalls, 1)
	assert.True(t, notifier.SendNotificationCalls[0].DryRun)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, true, got["dry_run"])
}

func TestNotifyTableHandlerScorersDigest(t *testing.T) {
	server, store, _, notifier, _, _ := setupTestServer(t, config.Config{})
	store.ComputeTableFunc = func(season int, stage string) (*league.Table, error) {
		return testTable(), nil
	}
	store.ListScorersFunc = func(season int, stage string, top int) ([]league.Scorer, error) {
		assert.Equal(t, 10, top)
		return []league.Scorer{{Player: "Diego Fagúndez", Team: "Nacional", Goals: 9}}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/notify-table?type=scorers", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, notifier.SendNotificationCalls, 1)
	call := notifier.SendNotificationCalls[0]
	assert.Equal(t, slack.ScorersNotification, call.NotificationType)
	require.Len(t, call.Digest.Scorers, 1)
}

func TestReseedHandlerForbiddenByDefault(t *testing.T) {
	server, _, metricsSvc, _, _, _ := setupTestServer(t, config.Config{})

	req := httptest.NewRequest(http.MethodPost, "/admin/reseed", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, 0, metricsSvc.SeederRuns())
}

func TestReseedHandler(t *testing.T) {
	store := league.NewMock()
	store.MetadataFunc = func() (*league.Metadata, error) {
		return &league.Metadata{Seasons: []int{2024}, Stages: league.StageCodes}, nil
	}
	metricsSvc := metrics.NewMock()

	reseeded := false
	cfg := config.Config{AllowReseed: true}
	server := NewServer(store, metricsSvc, metrics.NewMetricsHandler(), cfg, slack.NewMockNotifier(), consultor.NewMock(), formguide.NewMock(), func() error {
		reseeded = true
		return nil
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/reseed", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, reseeded)
	assert.Equal(t, 1, metricsSvc.SeederRuns())

	req = httptest.NewRequest(http.MethodGet, "/admin/reseed", nil)
	rr = httptest.NewRecorder()
	server.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestReseedHandlerFailure(t *testing.T) {
	store := league.NewMock()
	store.MetadataFunc = func() (*league.Metadata, error) {
		return &league.Metadata{Seasons: []int{2024}, Stages: league.StageCodes}, nil
	}
	cfg := config.Config{AllowReseed: true}
	server := NewServer(store, metrics.NewMock(), metrics.NewMetricsHandler(), cfg, slack.NewMockNotifier(), consultor.NewMock(), formguide.NewMock(), func() error {
		return errors.New("seed failed")
	})

	req := httptest.NewRequest(http.MethodPost, "/admin/reseed", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestMetadataHandler(t *testing.T) {
	server, _, _, _, _, _ := setupTestServer(t, config.Config{})

	req := httptest.NewRequest(http.MethodGet, "/meta", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got league.Metadata
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, []int{2024}, got.Seasons)
	assert.Equal(t, league.DefaultStage, got.DefaultStage)
}

func TestListPlayersHandlerProjectsRoster(t *testing.T) {
	server, store, _, _, _, _ := setupTestServer(t, config.Config{})
	store.PlayerStandardStatsFunc = func(season int, stage string, teamID int) ([]league.PlayerStats, error) {
		return []league.PlayerStats{{
			PlayerID: 5, Player: "Sergio Rochet", TeamID: 1, Team: "Nacional",
			Nation: "UY", Position: "GK", Age: 31, Goals: 0, Minutes: 1350,
		}}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/players", nil)
	rr := httptest.NewRecorder()
	server.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Sergio Rochet", got[0]["name"])
	assert.Equal(t, "GK", got[0]["pos"])
	// Stat columns stay on /players/stats.
	assert.NotContains(t, got[0], "min")
}

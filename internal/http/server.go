package http

import (
	"net/http"

	"github.com/elsastre/auf-analyzer/internal/config"
	"github.com/elsastre/auf-analyzer/internal/consultor"
	"github.com/elsastre/auf-analyzer/internal/formguide"
	"github.com/elsastre/auf-analyzer/internal/league"
	"github.com/elsastre/auf-analyzer/internal/metrics"
	"github.com/elsastre/auf-analyzer/internal/slack"
)

func NewServer(store league.LeagueStore, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier slack.Notifier, advisor consultor.Consultor, formGuide formguide.FormGuide, reseed func() error) *Server {
	server := &Server{
		Store:          store,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Consultor:      advisor,
		FormGuide:      formGuide,
		Reseed:         reseed,
		Router:         http.NewServeMux(),
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/meta", Chain(s.MetadataHandler(), paramsMiddleware))
	s.Router.Handle("/tables", Chain(s.TableHandler(), paramsMiddleware))
	s.Router.Handle("/standings", Chain(s.TableHandler(), paramsMiddleware))
	s.Router.Handle("/teams", Chain(s.ListTeamsHandler(), paramsMiddleware))
	s.Router.Handle("/teams/search", Chain(s.SearchTeamsHandler(), paramsMiddleware))
	s.Router.Handle("/teams/summary", Chain(s.TeamsSummaryHandler(), paramsMiddleware))
	s.Router.Handle("/fixtures", Chain(s.ListFixturesHandler(), paramsMiddleware))
	s.Router.Handle("/matches/{id}/events", Chain(s.MatchEventsHandler(), paramsMiddleware))
	s.Router.Handle("/scorers", Chain(s.ListScorersHandler(), paramsMiddleware))
	s.Router.Handle("/discipline", Chain(s.DisciplineHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/players/stats", Chain(s.PlayerStatsHandler(), paramsMiddleware))
	s.Router.Handle("/stats/insights", Chain(s.InsightsHandler(), paramsMiddleware))
	s.Router.Handle("/consultor", Chain(s.ConsultorHandler(), paramsMiddleware))
	s.Router.Handle("/form-guide", Chain(s.FormGuideHandler(), paramsMiddleware))
	s.Router.Handle("/notify-table", Chain(s.NotifyTableHandler(), paramsMiddleware))
	s.Router.Handle("/admin/reseed", Chain(s.ReseedHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

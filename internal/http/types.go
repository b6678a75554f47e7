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

type Server struct {
	Store          league.LeagueStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       slack.Notifier
	Consultor      consultor.Consultor
	FormGuide      formguide.FormGuide
	Reseed         func() error
	Router         *http.ServeMux
}

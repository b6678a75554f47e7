package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		SeederRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auf_seeder_runs_total",
			Help: "The total number of times the season seeder has run.",
		}),
		SeededSeasons: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "auf_seeded_seasons",
			Help: "The number of seasons held by the current seed.",
		}),
		SeedingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "auf_seeding_duration_seconds",
			Help:    "The duration of full store seeding runs.",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		TableQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auf_table_queries_total",
			Help: "The total number of standings table queries served.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auf_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auf_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "auf_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.SeederRuns,
		s.SeededSeasons,
		s.SeedingDuration,
		s.TableQueries,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncSeederRuns() {
	s.SeederRuns.Inc()
}

func (s *Service) SetSeededSeasons(count float64) {
	s.SeededSeasons.Set(count)
}

func (s *Service) ObserveSeedingDuration(duration float64) {
	s.SeedingDuration.Observe(duration)
}

func (s *Service) IncTableQueries() {
	s.TableQueries.Inc()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}

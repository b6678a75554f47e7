package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncSeederRuns()
	SetSeededSeasons(count float64)
	ObserveSeedingDuration(duration float64)
	IncTableQueries()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}

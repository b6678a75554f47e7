package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu               sync.Mutex
	seederRuns       int
	seededSeasons    float64
	seedingDurations []float64
	tableQueries     int
	slackNotifSent   int
	slackNotifFailed int
	startupTime      float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		seedingDurations: make([]float64, 0),
	}
}

func (m *Mock) IncSeederRuns() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seederRuns++
}

func (m *Mock) SetSeededSeasons(count float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seededSeasons = count
}

func (m *Mock) ObserveSeedingDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seedingDurations = append(m.seedingDurations, duration)
}

func (m *Mock) IncTableQueries() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tableQueries++
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// SeederRuns returns the number of times IncSeederRuns was called.
func (m *Mock) SeederRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seederRuns
}

// TableQueries returns the number of times IncTableQueries was called.
func (m *Mock) TableQueries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tableQueries
}

// SlackNotifSent returns the number of times IncSlackNotifSent was called.
func (m *Mock) SlackNotifSent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifSent
}

// SlackNotifFailed returns the number of times IncSlackNotifFailed was called.
func (m *Mock) SlackNotifFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slackNotifFailed
}

package consultor

import "sync"

// Mock is a mock implementation of the Consultor interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	CompareFunc func(season int, stage string, teamA, teamB string) (*Advice, error)

	CompareCalls []struct {
		Season int
		Stage  string
		TeamA  string
		TeamB  string
	}
}

var _ Consultor = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Compare(season int, stage string, teamA, teamB string) (*Advice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CompareCalls = append(m.CompareCalls, struct {
		Season int
		Stage  string
		TeamA  string
		TeamB  string
	}{season, stage, teamA, teamB})
	if m.CompareFunc != nil {
		return m.CompareFunc(season, stage, teamA, teamB)
	}
	return &Advice{Season: season, Stage: stage}, nil
}

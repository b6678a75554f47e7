package formguide

import (
	"context"
	"sync"
)

// Mock is a mock implementation of the FormGuide interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	RecentFormFunc func(ctx context.Context, team string) (*Guide, error)

	RecentFormCalls []string
}

var _ FormGuide = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) RecentForm(ctx context.Context, team string) (*Guide, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecentFormCalls = append(m.RecentFormCalls, team)
	if m.RecentFormFunc != nil {
		return m.RecentFormFunc(ctx, team)
	}
	return &Guide{Team: team}, nil
}

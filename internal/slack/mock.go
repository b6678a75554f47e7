package slack

import (
	"sync"

	"github.com/elsastre/auf-analyzer/internal/metrics"
)

// MockNotifier is a mock implementation of the Notifier interface for
// testing. It is safe for concurrent use.
type MockNotifier struct {
	mu sync.Mutex

	SendNotificationFunc func(digest *Digest, notificationType NotificationType, m metrics.Metrics, dryRun bool) (string, string, error)

	SendNotificationCalls []struct {
		Digest           *Digest
		NotificationType NotificationType
		DryRun           bool
	}
}

var _ Notifier = (*MockNotifier)(nil)

var _ Notifier = (*SlackClient)(nil)

// NewMockNotifier creates a new mock instance.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) SendNotification(digest *Digest, notificationType NotificationType, metricsSvc metrics.Metrics, dryRun bool) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendNotificationCalls = append(m.SendNotificationCalls, struct {
		Digest           *Digest
		NotificationType NotificationType
		DryRun           bool
	}{digest, notificationType, dryRun})
	if m.SendNotificationFunc != nil {
		return m.SendNotificationFunc(digest, notificationType, metricsSvc, dryRun)
	}
	return "C000", "0.0", nil
}

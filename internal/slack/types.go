package slack

import (
	"github.com/elsastre/auf-analyzer/internal/league"
	"github.com/elsastre/auf-analyzer/internal/metrics"
	"github.com/slack-go/slack"
)

// Notifier abstracts the outbound notification client so handlers can be
// tested without a live Slack workspace.
type Notifier interface {
	SendNotification(digest *Digest, notificationType NotificationType, m metrics.Metrics, dryRun bool) (string, string, error)
}

// SlackClient is a wrapper around the official slack-go client.
type SlackClient struct {
	api       *slack.Client
	channelID string
}

// NotificationType defines the type of slack message to be sent.
type NotificationType int

const (
	TableNotification NotificationType = iota
	ScorersNotification
)

// Digest bundles the league data a notification can draw from.
type Digest struct {
	Table   *league.Table
	Scorers []league.Scorer
	Season  int
	Stage   string
}

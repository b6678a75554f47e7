package slack

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/elsastre/auf-analyzer/internal/metrics"
	"github.com/slack-go/slack"
)

// NewClient creates a new Slack client wrapper.
func NewClient(token, channelID string) *SlackClient {
	api := slack.New(token)
	return &SlackClient{
		api:       api,
		channelID: channelID,
	}
}

// NewClientWithAPI creates a new Slack client with a custom API client. Used for testing.
func NewClientWithAPI(api *slack.Client, channelID string) *SlackClient {
	return &SlackClient{
		api:       api,
		channelID: channelID,
	}
}

// SendNotification formats and sends a message to slack based on the notification type.
func (c *SlackClient) SendNotification(digest *Digest, notificationType NotificationType, m metrics.Metrics, dryRun bool) (string, string, error) {
	if c.api == nil || c.channelID == "" {
		log.Warn("Slack client or channel ID is not configured. Skipping notification.")
		return "", "", errors.New("slack client or channel ID is not configured")
	}

	var msg slack.Message
	switch notificationType {
	case TableNotification:
		msg = c.FormatTableNotification(digest.Table)
	case ScorersNotification:
		msg = c.FormatScorersNotification(digest.Scorers, digest.Season, digest.Stage)
	default:
		log.Error("Unknown notification type provided", "type", notificationType)
		return "", "", errors.New("unknown notification type provided")
	}
	if dryRun {
		log.Info("Dry run mode: Slack notification not sent.", "notificationType", notificationType, "msg", msg)
		return "", "", nil
	}

	responseChannel, messageTS, err := c.api.PostMessage(c.channelID, slack.MsgOptionBlocks(msg.Blocks.BlockSet...))
	if err != nil {
		log.Error("Failed to send Slack message", "error", err, "notificationType", notificationType)
		if m != nil {
			m.IncSlackNotifFailed()
		}
		return "", "", err
	}
	if m != nil {
		m.IncSlackNotifSent()
	}
	return responseChannel, messageTS, nil
}

// SendMessage sends a pre-built message to the configured channel.
func (c *SlackClient) SendMessage(message slack.Message, m metrics.Metrics, dryRun bool) (string, string, error) {
	if c.api == nil || c.channelID == "" {
		log.Warn("Slack client or channel ID is not configured. Skipping notification.")
		return "", "", errors.New("slack client or channel ID is not configured")
	}

	if dryRun {
		log.Info("Dry run mode: Slack notification not sent.", "msg", message)
		return "", "", nil
	}

	responseChannel, messageTS, err := c.api.PostMessage(c.channelID, slack.MsgOptionBlocks(message.Blocks.BlockSet...))
	if err != nil {
		log.Error("Failed to send Slack message", "error", err)
		if m != nil {
			m.IncSlackNotifFailed()
		}
		return "", "", err
	}
	if m != nil {
		m.IncSlackNotifSent()
	}
	return responseChannel, messageTS, nil
}

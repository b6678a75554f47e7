package slack

import (
	"fmt"
	"strings"

	"github.com/elsastre/auf-analyzer/internal/league"
	"github.com/slack-go/slack"
)

// FormatTableNotification creates the Slack message for a standings digest using Block Kit.
func (c *SlackClient) FormatTableNotification(table *league.Table) slack.Message {
	blocks := make([]slack.Block, 0)

	stageName := league.StageNames[table.Stage]
	if stageName == "" {
		stageName = table.Stage
	}
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("⚽ %s %d ⚽", stageName, table.Season), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	// Top of the table, one line per team. Slack strips leading spaces in
	// plain text, so lines are kept simple rather than column-aligned.
	var lines []string
	for _, row := range table.Rows {
		if row.Pos > 10 {
			break
		}
		lines = append(lines, fmt.Sprintf("%d. %s — %d pts (%+d) %s", row.Pos, row.Team, row.Pts, row.GD, row.Last5))
	}
	if len(lines) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))
	} else {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No standings available yet.", true, false), nil, nil))
	}

	if len(table.Rows) > 0 {
		leader := table.Rows[0]
		var contextElements []slack.MixedElement
		contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s leads with %d points", leader.Team, leader.Pts), true, false))
		if leader.TopScorer != "" {
			contextElements = append(contextElements, slack.NewTextBlockObject("plain_text", fmt.Sprintf("⚽ In-form scorer: %s", leader.TopScorer), true, false))
		}
		blocks = append(blocks, slack.NewContextBlock("", contextElements...))
	}

	return slack.NewBlockMessage(blocks...)
}

// FormatScorersNotification creates the Slack message for a top-scorers digest using Block Kit.
func (c *SlackClient) FormatScorersNotification(scorers []league.Scorer, season int, stage string) slack.Message {
	blocks := make([]slack.Block, 0)

	stageName := league.StageNames[stage]
	if stageName == "" {
		stageName = stage
	}
	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("⚽ Goleadores — %s %d ⚽", stageName, season), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(scorers) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No goals recorded yet.", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	var lines []string
	for i, s := range scorers {
		lines = append(lines, fmt.Sprintf("%d. %s (%s) — %d", i+1, s.Player, s.Team, s.Goals))
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

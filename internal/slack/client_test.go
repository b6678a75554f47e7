package slack_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	internalslack "github.com/elsastre/auf-analyzer/internal/slack"

	"github.com/elsastre/auf-analyzer/internal/league"
	"github.com/elsastre/auf-analyzer/internal/metrics"
	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDigest() *internalslack.Digest {
	return &internalslack.Digest{
		Table: &league.Table{
			Season: 2024,
			Stage:  league.StageApertura,
			Rows: []league.TableRow{
				{Pos: 1, Team: "Nacional", Pts: 35, GD: 18, Last5: "WWWDW", TopScorer: "Diego Acosta–11"},
				{Pos: 2, Team: "Peñarol", Pts: 33, GD: 15, Last5: "WDWWL"},
			},
		},
		Scorers: []league.Scorer{
			{Player: "Diego Acosta", Team: "Nacional", Goals: 11},
			{Player: "Maximiliano Silvera", Team: "Peñarol", Goals: 9},
		},
		Season: 2024,
		Stage:  league.StageApertura,
	}
}

func TestSlackClient_SendNotification_Table(t *testing.T) {
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		body, _ := io.ReadAll(r.Body)
		vals, _ := url.ParseQuery(string(body))
		assert.Equal(t, "C123", vals.Get("channel"))

		var blocks slack.Blocks
		err := json.Unmarshal([]byte(vals.Get("blocks")), &blocks)
		require.NoError(t, err)

		require.Len(t, blocks.BlockSet, 3)

		// A few basic checks to ensure we have the right formatter
		header := blocks.BlockSet[0].(*slack.HeaderBlock)
		assert.Contains(t, header.Text.Text, "Torneo Apertura")

		section := blocks.BlockSet[1].(*slack.SectionBlock)
		assert.Contains(t, section.Text.Text, "1. Nacional")
		assert.Contains(t, section.Text.Text, "35 pts")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true, "ts": "12345.6789"}`))
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	api := slack.New("test-token", slack.OptionAPIURL(srv.URL+"/"))
	client := internalslack.NewClientWithAPI(api, "C123")
	m := metrics.NewMock()

	_, _, err := client.SendNotification(testDigest(), internalslack.TableNotification, m, false)
	require.NoError(t, err)

	assert.True(t, handlerCalled, "Expected http handler to be called")
	assert.Equal(t, 1, m.SlackNotifSent())
}

func TestSlackClient_SendNotification_Scorers(t *testing.T) {
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		body, _ := io.ReadAll(r.Body)
		vals, _ := url.ParseQuery(string(body))

		var blocks slack.Blocks
		err := json.Unmarshal([]byte(vals.Get("blocks")), &blocks)
		require.NoError(t, err)

		section := blocks.BlockSet[1].(*slack.SectionBlock)
		assert.Contains(t, section.Text.Text, "Diego Acosta")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true, "ts": "12345.6789"}`))
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	api := slack.New("test-token", slack.OptionAPIURL(srv.URL+"/"))
	client := internalslack.NewClientWithAPI(api, "C123")
	m := metrics.NewMock()

	_, _, err := client.SendNotification(testDigest(), internalslack.ScorersNotification, m, false)
	require.NoError(t, err)

	assert.True(t, handlerCalled, "Expected http handler to be called")
	assert.Equal(t, 1, m.SlackNotifSent())
}

func TestSlackClient_SendNotification_DryRun(t *testing.T) {
	handlerCalled := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
	})
	srv := httptest.NewServer(handler)
	defer srv.Close()

	api := slack.New("test-token", slack.OptionAPIURL(srv.URL+"/"))
	client := internalslack.NewClientWithAPI(api, "C123")
	m := metrics.NewMock()

	_, _, err := client.SendNotification(testDigest(), internalslack.TableNotification, m, true)
	require.NoError(t, err)

	assert.False(t, handlerCalled, "Expected http handler NOT to be called in dry run")
	assert.Equal(t, 0, m.SlackNotifSent(), "Metrics should not be incremented in dry run")
}

func TestSlackClient_SendNotification_Unconfigured(t *testing.T) {
	client := internalslack.NewClientWithAPI(nil, "")
	_, _, err := client.SendNotification(testDigest(), internalslack.TableNotification, nil, false)
	require.Error(t, err)
}

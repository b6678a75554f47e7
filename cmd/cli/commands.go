package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	topScorers int
	teamID     int
	round      string
	teamName   string
	teamA      string
	teamB      string
	dryRun     bool
)

func init() {
	scorersCmd.Flags().IntVar(&topScorers, "top", 20, "Number of scorers to list")
	fixturesCmd.Flags().IntVar(&teamID, "team-id", 0, "Only fixtures involving this team")
	fixturesCmd.Flags().StringVar(&round, "round", "", "Only fixtures of this round")
	playersCmd.Flags().IntVar(&teamID, "team-id", 0, "Only players of this team")
	formCmd.Flags().StringVar(&teamName, "team", "", "Team name")
	consultorCmd.Flags().StringVar(&teamA, "equipo-a", "", "First team to compare")
	consultorCmd.Flags().StringVar(&teamB, "equipo-b", "", "Second team to compare")
	notifyCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Format the notification without posting it")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metaCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(fixturesCmd)
	rootCmd.AddCommand(scorersCmd)
	rootCmd.AddCommand(disciplineCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(consultorCmd)
	rootCmd.AddCommand(formCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(reseedCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health", nil)
	},
}

var metaCmd = &cobra.Command{
	Use:   "meta",
	Short: "Show known seasons, stages and teams",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/meta", nil)
	},
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Show the standings table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/tables", stageParams())
	},
}

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List the tournament's teams",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/teams", nil)
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show per-team attendance, goalkeeper and top-scorer summaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/teams/summary", stageParams())
	},
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "List fixtures and results",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := stageParams()
		if teamID > 0 {
			params.Set("team_id", strconv.Itoa(teamID))
		}
		if round != "" {
			params.Set("round", round)
		}
		return performGetRequest("/fixtures", params)
	},
}

var scorersCmd = &cobra.Command{
	Use:   "scorers",
	Short: "Show the top scorers",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := stageParams()
		params.Set("top", strconv.Itoa(topScorers))
		return performGetRequest("/scorers", params)
	},
}

var disciplineCmd = &cobra.Command{
	Use:   "discipline",
	Short: "Show the cards table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/discipline", stageParams())
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "Show per-player standard statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := stageParams()
		if teamID > 0 {
			params.Set("team_id", strconv.Itoa(teamID))
		}
		return performGetRequest("/players/stats", params)
	},
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show the per-team insight series",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/stats/insights", stageParams())
	},
}

var consultorCmd = &cobra.Command{
	Use:   "consultor",
	Short: "Compare two teams and get a recommendation",
	RunE: func(cmd *cobra.Command, args []string) error {
		if teamA == "" || teamB == "" {
			return fmt.Errorf("--equipo-a and --equipo-b are required")
		}
		body := map[string]any{
			"equipo_a": teamA,
			"equipo_b": teamB,
		}
		if season > 0 {
			body["season"] = season
		}
		if stage != "" {
			body["stage"] = stage
		}
		return performPostRequest("/consultor", body)
	},
}

var formCmd = &cobra.Command{
	Use:   "form",
	Short: "Fetch a team's recent form from the external provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		if teamName == "" {
			return fmt.Errorf("--team is required")
		}
		params := url.Values{}
		params.Set("team", teamName)
		return performGetRequest("/form-guide", params)
	},
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Post the standings table to Slack",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := stageParams()
		if dryRun {
			params.Set("dry_run", "true")
		}
		return performGetRequest("/notify-table", params)
	},
}

var reseedCmd = &cobra.Command{
	Use:   "reseed",
	Short: "Rebuild the seeded store (requires ALLOW_RESEED on the server)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/admin/reseed", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics", nil)
	},
}

// stageParams builds the season/stage query shared by most commands.
// Unset flags are omitted so the server applies its defaults.
func stageParams() url.Values {
	params := url.Values{}
	if season > 0 {
		params.Set("season", strconv.Itoa(season))
	}
	if stage != "" {
		params.Set("stage", stage)
	}
	return params
}

func performGetRequest(endpoint string, params url.Values) error {
	target := host + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	fmt.Printf("Making request to %s\n", target)

	resp, err := http.Get(target)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, body map[string]any) error {
	target := host + endpoint
	fmt.Printf("Making request to %s\n", target)

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}
	resp, err := http.Post(target, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}

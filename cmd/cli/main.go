package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host   string
	season int
	stage  string
)

var rootCmd = &cobra.Command{
	Use:   "auf-cli",
	Short: "A CLI to interact with the auf-analyzer server",
	Long: `A command-line interface for making requests to the various endpoints
of the auf-analyzer application.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().IntVar(&season, "season", 0, "Season year (defaults to the server's current season)")
	rootCmd.PersistentFlags().StringVar(&stage, "stage", "", "Stage code: apertura, clausura, intermedio or anual")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}

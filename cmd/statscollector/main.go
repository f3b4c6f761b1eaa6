// Package main provides the entry point for the statscollector binary.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gobx/statscollector/cmd/statscollector/commands"
	"github.com/gobx/statscollector/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "statscollector",
		Short: "Gobx Stats Collector - benchmark run-stats ingestion and dashboards",
		Long: `Gobx Stats Collector ingests benchmark run stats from client devices,
persists each run, and generates dashboard chart assets.

Commands:
  serve      Run the ingestion HTTP server
  dashboard  Generate dashboard chart assets from stored runs`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewDashboardCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "statscollector %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/gobx/statscollector/internal/config"
	"github.com/gobx/statscollector/internal/dashboard"
	"github.com/gobx/statscollector/internal/runstats"
	"github.com/gobx/statscollector/internal/store"
)

const (
	dashboardCmdUse   = "dashboard"
	dashboardCmdShort = "Generate dashboard chart assets from stored runs"

	outputFlag  = "output"
	outputShort = "o"
	outputUsage = "output directory for generated assets (overrides config)"

	limitFlag  = "limit"
	limitUsage = "max runs to load (overrides config)"
)

// NewDashboardCommand creates the dashboard subcommand.
func NewDashboardCommand() *cobra.Command {
	var (
		configPath string
		outputDir  string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   dashboardCmdUse,
		Short: dashboardCmdShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd.Context(), configPath, outputDir, limit)
		},
	}

	cmd.Flags().StringVar(&configPath, configFlag, "", configUsage)
	cmd.Flags().StringVarP(&outputDir, outputFlag, outputShort, "", outputUsage)
	cmd.Flags().IntVar(&limit, limitFlag, 0, limitUsage)

	return cmd
}

func runDashboard(ctx context.Context, configPath, outputDir string, limit int) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if outputDir == "" {
		outputDir = cfg.Dashboard.OutputDir
	}

	if limit <= 0 {
		limit = cfg.Dashboard.LoadLimit
	}

	logger := cfg.NewLogger()

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return err
	}
	defer st.Close()

	rows, err := st.RecentSamples(ctx, limit)
	if err != nil {
		return err
	}

	samples := runstats.ParseSamples(rows)
	logger.Info("loaded runs", "count", len(samples), "limit", limit)

	assets, err := dashboard.WriteAssets(outputDir, samples)
	if err != nil {
		return err
	}

	printBundle(outputDir, assets)

	return nil
}

// printBundle lists the generated assets and their sizes.
func printBundle(dir string, assets []dashboard.Asset) {
	tw := table.NewWriter()
	tw.SetOutputMirror(os.Stdout)
	tw.AppendHeader(table.Row{"Asset", "Size"})

	var total int64

	for _, asset := range assets {
		tw.AppendRow(table.Row{asset.Name, humanize.Bytes(uint64(asset.Size))})
		total += asset.Size
	}

	tw.AppendFooter(table.Row{"total", humanize.Bytes(uint64(total))})
	tw.Render()

	fmt.Printf("Wrote %d assets to %s\n", len(assets), dir)
}

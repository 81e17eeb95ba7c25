package main

import (
	"os"

	"github.com/raykavin/roadrisk/pkg/core"
	"github.com/raykavin/roadrisk/pkg/dashboard"
	"github.com/raykavin/roadrisk/pkg/report"
	"github.com/spf13/cobra"
)

// Report command flags
var (
	reportMode string
	reportTop  int
	exportFile string
)

func buildReportCmd() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print the analysis of a mode to the terminal",
		RunE:  runReport,
	}

	reportCmd.Flags().StringVarP(&reportMode, "mode", "m", string(core.ModeOverview),
		"Analysis mode (overview, prediction, geospatial)")
	reportCmd.Flags().IntVarP(&reportTop, "top", "t", 0, "Number of districts in the rankings (5-15)")
	reportCmd.Flags().StringVarP(&exportFile, "export", "e", "", "Also write the table to this CSV file")

	return reportCmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	mode, err := core.ParseMode(reportMode)
	if err != nil {
		return err
	}

	topN := cfg.Dashboard.DefaultTopN
	if cmd.Flags().Changed("top") {
		topN = reportTop
	}

	builder := dashboard.NewBuilder(log,
		dashboard.WithModelParams(cfg.Model),
		dashboard.WithTrendline(cfg.Dashboard.Trendline),
	)

	page, err := builder.Build(cmd.Context(), mode, topN)
	if err != nil {
		return err
	}

	if err := report.Write(os.Stdout, page); err != nil {
		return err
	}

	if exportFile == "" {
		return nil
	}

	file, err := os.Create(exportFile)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := page.WriteCSV(file); err != nil {
		return err
	}
	log.WithField("file", exportFile).Info("Table exported")
	return nil
}

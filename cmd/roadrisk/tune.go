package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/raykavin/roadrisk/pkg/dataset"
	"github.com/raykavin/roadrisk/pkg/optimizer"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// Tune command flags
var (
	outputFile   string
	parallel     int
	targetMetric string
	tuneTop      int
	randomIter   int
)

func buildTuneCmd() *cobra.Command {
	tuneCmd := &cobra.Command{
		Use:   "tune",
		Short: "Search random forest parameters by out-of-bag score",
		RunE:  runTune,
	}

	tuneCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write every result to this CSV file")
	tuneCmd.Flags().IntVarP(&parallel, "parallel", "p", runtime.NumCPU(), "Parameter sets evaluated in parallel")
	tuneCmd.Flags().StringVarP(&targetMetric, "target", "t", string(optimizer.MetricOOBR2),
		"Metric to rank by (oob_r2, oob_mse, r2, mse)")
	tuneCmd.Flags().IntVarP(&tuneTop, "top", "n", 5, "Results to print")
	tuneCmd.Flags().IntVarP(&randomIter, "random", "r", 0, "Sample this many random sets instead of the full grid")

	return tuneCmd
}

func runTune(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	target := optimizer.MetricName(targetMetric)
	switch target {
	case optimizer.MetricOOBR2, optimizer.MetricOOBMSE, optimizer.MetricR2, optimizer.MetricMSE:
	default:
		return fmt.Errorf("unknown target metric %q", targetMetric)
	}

	evaluator, err := optimizer.NewForestEvaluator(dataset.Load(), cfg.Model)
	if err != nil {
		return err
	}

	var progressBar *progressbar.ProgressBar
	config := optimizer.NewConfig().
		WithParameters(optimizer.ForestParameters()...).
		WithParallelism(parallel).
		WithLogger(log).
		WithTargetMetric(target, target.Maximize()).
		WithTopN(tuneTop).
		WithSeed(cfg.Model.Seed).
		WithProgress(func() {
			if err := progressBar.Add(1); err != nil {
				log.Warnf("update progressbar fail: %v", err)
			}
		})

	var search optimizer.Optimizer
	if randomIter > 0 {
		search, err = optimizer.NewRandomSearch(config.WithMaxIterations(randomIter))
		progressBar = progressbar.Default(int64(randomIter))
	} else {
		var grid *optimizer.GridSearch
		grid, err = optimizer.NewGridSearch(config.WithMaxIterations(0))
		if grid != nil {
			progressBar = progressbar.Default(int64(grid.Combinations()))
		}
		search = grid
	}
	if err != nil {
		return err
	}

	results, err := search.Optimize(cmd.Context(), evaluator, target, target.Maximize())
	if err != nil {
		return err
	}

	optimizer.WriteResultsTable(os.Stdout, results, target, tuneTop)

	if outputFile != "" {
		if err := optimizer.SaveResultsToCSV(results, target, outputFile); err != nil {
			return err
		}
		log.WithField("file", outputFile).Info("Results saved")
	}
	return nil
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/viant/vecbench/config"
	"github.com/viant/vecbench/pipeline"
	"github.com/viant/vecbench/store"
	"github.com/viant/vecbench/telemetry"
	"github.com/viant/vecbench/vector"
)

const evaluateLongDesc string = `Search a saved index with every row of a query directory.

Query files are stacked in name order, like the corpus at build time, and query
row i counts as correct when its nearest neighbour is corpus row i. By default
the query files must have the same names and row counts as the corpus files
(--alignment strict); use --alignment rows or off to relax the check.

The per-query results are written as JSON to --output and a summary is printed.

Example:
  vecbench evaluate --index docs.index --queries ./queries --output results.json
  vecbench evaluate --index docs.index --queries ./queries --top-k 10 --metrics-file vecbench.prom`

var evaluateFlags = []string{
	config.FlagQueries,
	config.FlagOutput,
	config.FlagMetric,
	config.FlagTopK,
	config.FlagAlignment,
	config.FlagMetricsFile,
}

func newEvaluateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Score top-1 self-retrieval of a saved index",
		Long:  evaluateLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, evaluateFlags...)
			if err != nil {
				return err
			}
			return runEvaluate(cmd, cfg)
		},
	}
	addStoreFlags(cmd)
	config.AddStringFlag(cmd, config.FlagQueries)
	config.AddStringFlag(cmd, config.FlagOutput)
	config.AddStringFlag(cmd, config.FlagMetric)
	config.AddIntFlag(cmd, config.FlagTopK)
	config.AddStringFlag(cmd, config.FlagAlignment)
	config.AddStringFlag(cmd, config.FlagMetricsFile)
	return cmd
}

func runEvaluate(cmd *cobra.Command, cfg *config.Config) error {
	if cfg.IndexPath == "" || cfg.QueryDir == "" {
		return fmt.Errorf("evaluate needs --index and --queries")
	}
	log := newLogger(cmd, cfg)
	ctx := cmd.Context()

	s, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return err
	}
	defer s.Close()

	ev, err := pipeline.Evaluate(ctx, pipeline.EvalOptions{
		Name:       cfg.IndexPath,
		QueryDir:   cfg.QueryDir,
		OutputPath: cfg.OutputPath,
		TopK:       cfg.TopK,
		Metric:     vector.Metric(cfg.Metric),
		Alignment:  pipeline.Alignment(cfg.Alignment),
		Store:      s,
		Reporter:   telemetry.NewReporter(telemetry.WithLogger(log)),
		Logger:     log,
	})
	if err != nil {
		return noQueryFiles(err)
	}

	sum := ev.Summary
	printSection(cmd.OutOrStdout(), "Summary", []field{
		{"Total queries", strconv.Itoa(sum.Total)},
		{"Correct top-1", strconv.Itoa(sum.Correct)},
		{"Top-1 accuracy", goodStyle.Render(fmt.Sprintf("%.4f", sum.Accuracy))},
		{"Metric", string(ev.Metric)},
		{"Time", fmt.Sprintf("%.2f s", sum.ElapsedSeconds)},
		{"Memory delta", formatBytes(sum.MemoryDeltaBytes)},
		{"CPU", fmt.Sprintf("%.2f%%", sum.CPUPercent)},
		{"Run ID", sum.RunID},
	})
	if cfg.OutputPath != "" {
		fmt.Fprintln(cmd.OutOrStdout(), dimStyle.Render("results written to "+cfg.OutputPath))
	}

	if cfg.MetricsFile != "" {
		figures := &telemetry.Figures{Total: sum.Total, Correct: sum.Correct, Accuracy: sum.Accuracy}
		if err := telemetry.Export(cfg.MetricsFile, "evaluate", ev.Usage, figures); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

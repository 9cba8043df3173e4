package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/viant/vecbench/config"
	"github.com/viant/vecbench/index"
	"github.com/viant/vecbench/pipeline"
	"github.com/viant/vecbench/store"
	"github.com/viant/vecbench/telemetry"
	"github.com/viant/vecbench/vector"
)

const buildLongDesc string = `Index every .npy file in a corpus directory.

Files are read in ascending name order and their rows stacked, so corpus row i
becomes index identifier i. With --metric cosine every row is scaled to unit
length first; an all-zero row is then an error.

Example:
  vecbench build --corpus ./embeddings --index docs.index
  vecbench build --corpus ./embeddings --index docs --store sqlite --metric cosine`

var buildFlags = []string{
	config.FlagCorpus,
	config.FlagMetric,
	config.FlagKind,
	config.FlagOverwrite,
	config.FlagMetricsFile,
}

func newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Index a corpus directory",
		Long:  buildLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, buildFlags...)
			if err != nil {
				return err
			}
			return runBuild(cmd, cfg)
		},
	}
	addStoreFlags(cmd)
	config.AddStringFlag(cmd, config.FlagCorpus)
	config.AddStringFlag(cmd, config.FlagMetric)
	config.AddStringFlag(cmd, config.FlagKind)
	config.AddStringFlag(cmd, config.FlagMetricsFile)
	config.AddBoolFlag(cmd, config.FlagOverwrite, false)
	return cmd
}

func runBuild(cmd *cobra.Command, cfg *config.Config) error {
	if cfg.CorpusDir == "" || cfg.IndexPath == "" {
		return fmt.Errorf("build needs --corpus and --index")
	}
	log := newLogger(cmd, cfg)
	ctx := cmd.Context()

	s, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return err
	}
	defer s.Close()

	report, err := pipeline.Build(ctx, pipeline.BuildOptions{
		CorpusDir: cfg.CorpusDir,
		Name:      cfg.IndexPath,
		Metric:    vector.Metric(cfg.Metric),
		Kind:      index.Kind(cfg.IndexKind),
		Store:     s,
		Reporter:  telemetry.NewReporter(telemetry.WithLogger(log)),
		Logger:    log,
	})
	if err != nil {
		return err
	}

	printSection(cmd.OutOrStdout(), "Index built", []field{
		{"Index", report.Name},
		{"Kind", string(report.Kind)},
		{"Metric", string(report.Metric)},
		{"Files", strconv.Itoa(report.Files)},
		{"Vectors", strconv.Itoa(report.Rows)},
		{"Dimension", strconv.Itoa(report.Dim)},
		{"Build ID", report.BuildID},
		{"Time", report.Usage.Elapsed.String()},
		{"Memory delta", formatBytes(report.Usage.MemoryDeltaBytes)},
	})

	if cfg.MetricsFile != "" {
		if err := telemetry.Export(cfg.MetricsFile, "build", report.Usage, nil); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

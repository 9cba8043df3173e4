package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/viant/vecbench/config"
	"github.com/viant/vecbench/store"
)

// inspectSegments caps the file list printed by inspect.
const inspectSegments = 10

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show what a saved index holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runInspect(cmd, cfg)
		},
	}
	addStoreFlags(cmd)
	return cmd
}

func runInspect(cmd *cobra.Command, cfg *config.Config) error {
	if cfg.IndexPath == "" {
		return fmt.Errorf("inspect needs --index")
	}
	ctx := cmd.Context()
	s, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return err
	}
	defer s.Close()

	e, err := s.Load(ctx, cfg.IndexPath)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printSection(out, "Index", []field{
		{"Name", cfg.IndexPath},
		{"Kind", string(e.Index.Kind())},
		{"Metric", string(e.Metric)},
		{"Vectors", strconv.Itoa(e.Index.Len())},
		{"Dimension", strconv.Itoa(e.Index.Dim())},
		{"Files", strconv.Itoa(len(e.Segments))},
		{"Build ID", e.BuildID},
		{"Created", e.CreatedAt.Format(time.RFC3339)},
	})
	if len(e.Segments) == 0 {
		return nil
	}
	shown := e.Segments[:min(len(e.Segments), inspectSegments)]
	fields := make([]field, len(shown))
	for i, seg := range shown {
		fields[i] = field{seg.Stem, strconv.Itoa(seg.Rows) + " rows"}
	}
	printSection(out, "Files", fields)
	if rest := len(e.Segments) - len(shown); rest > 0 {
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("... %d more", rest)))
	}
	return nil
}

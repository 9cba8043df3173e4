package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/viant/vecbench/config"
	"github.com/viant/vecbench/internal/logger"
)

const rootLongDesc string = `vecbench builds nearest-neighbour indexes from directories of .npy
embedding files and evaluates top-1 self-retrieval accuracy against them.

  vecbench build     Index a corpus directory
  vecbench evaluate  Search an index with a query directory and score it
  vecbench inspect   Show what a saved index holds

Settings resolve from flags, then VECBENCH_* environment variables, then the
TOML file given by --config (or ./vecbench.toml), then built-in defaults.`

const rootShortDesc string = "Build and evaluate flat vector indexes"

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "vecbench",
		Short:         rootShortDesc,
		Long:          rootLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to a TOML config file")
	config.AddBoolFlag(cmd, config.FlagDebug, true)
	config.AddBoolFlag(cmd, config.FlagJSONLogs, true)

	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newEvaluateCmd())
	cmd.AddCommand(newInspectCmd())
	return cmd
}

// storeFlags are shared by every subcommand.
var storeFlags = []string{
	config.FlagIndex,
	config.FlagBackend,
	config.FlagSQLitePath,
	config.FlagDebug,
	config.FlagJSONLogs,
}

func addStoreFlags(cmd *cobra.Command) {
	config.AddStringFlag(cmd, config.FlagIndex)
	config.AddStringFlag(cmd, config.FlagBackend)
	config.AddStringFlag(cmd, config.FlagSQLitePath)
}

// loadConfig resolves the configuration for cmd with the named flags bound
// over file and environment values.
func loadConfig(cmd *cobra.Command, keys ...string) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	v, err := config.InitViper(path)
	if err != nil {
		return nil, err
	}
	if err := config.BindFlags(v, cmd, append(keys, storeFlags...)...); err != nil {
		return nil, err
	}
	return config.Load(v)
}

func newLogger(cmd *cobra.Command, cfg *config.Config) *slog.Logger {
	return logger.New(
		logger.WithWriter(cmd.ErrOrStderr()),
		logger.WithDebug(cfg.Log.Debug),
		logger.WithPretty(cfg.Log.Pretty),
		logger.WithJSON(cfg.Log.JSON),
	)
}

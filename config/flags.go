package config

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag ties a command-line flag to its config key so the same flag is
// declared identically on every command that takes it.
type Flag struct {
	Name        string
	Shorthand   string
	ViperKey    string
	Description string
}

// Flag registry keys.
const (
	FlagCorpus      = "corpus"
	FlagQueries     = "queries"
	FlagIndex       = "index"
	FlagOutput      = "output"
	FlagMetric      = "metric"
	FlagTopK        = "top-k"
	FlagKind        = "kind"
	FlagAlignment   = "alignment"
	FlagMetricsFile = "metrics-file"
	FlagBackend     = "store"
	FlagSQLitePath  = "sqlite"
	FlagOverwrite   = "overwrite"
	FlagDebug       = "debug"
	FlagJSONLogs    = "json-logs"
)

// Flags is the registry of every flag vecbench accepts.
var Flags = map[string]Flag{
	FlagCorpus:      {Name: "corpus", Shorthand: "c", ViperKey: "corpus_dir", Description: "Directory of corpus .npy files"},
	FlagQueries:     {Name: "queries", Shorthand: "q", ViperKey: "query_dir", Description: "Directory of query .npy files"},
	FlagIndex:       {Name: "index", Shorthand: "i", ViperKey: "index_path", Description: "Index file path, or entry name with --store sqlite"},
	FlagOutput:      {Name: "output", Shorthand: "o", ViperKey: "output_path", Description: "Path of the per-query JSON results"},
	FlagMetric:      {Name: "metric", Shorthand: "m", ViperKey: "metric", Description: "Similarity metric: euclidean or cosine; evaluate defaults to the build metric"},
	FlagTopK:        {Name: "top-k", Shorthand: "k", ViperKey: "top_k", Description: "Neighbours returned per query"},
	FlagKind:        {Name: "kind", ViperKey: "index_kind", Description: "Index kind: flat or cover"},
	FlagAlignment:   {Name: "alignment", ViperKey: "alignment", Description: "Query/corpus alignment check: strict, rows or off"},
	FlagMetricsFile: {Name: "metrics-file", ViperKey: "metrics_file", Description: "Write Prometheus textfile metrics to this path"},
	FlagBackend:     {Name: "store", ViperKey: "store.backend", Description: "Index store backend: file or sqlite"},
	FlagSQLitePath:  {Name: "sqlite", ViperKey: "store.sqlite_path", Description: "SQLite database used by the sqlite store"},
	FlagOverwrite:   {Name: "overwrite", ViperKey: "store.overwrite", Description: "Replace an existing index"},
	FlagDebug:       {Name: "debug", Shorthand: "d", ViperKey: "log.debug", Description: "Enable debug logging"},
	FlagJSONLogs:    {Name: "json-logs", ViperKey: "log.json", Description: "Log as JSON"},
}

// AddStringFlag registers a string flag whose default comes from NewDefaultConfig.
func AddStringFlag(cmd *cobra.Command, key string) {
	if f, ok := Flags[key]; ok {
		cmd.Flags().StringP(f.Name, f.Shorthand, defaults().GetString(f.ViperKey), f.Description)
	}
}

// AddIntFlag registers an int flag whose default comes from NewDefaultConfig.
func AddIntFlag(cmd *cobra.Command, key string) {
	if f, ok := Flags[key]; ok {
		cmd.Flags().IntP(f.Name, f.Shorthand, defaults().GetInt(f.ViperKey), f.Description)
	}
}

// AddBoolFlag registers a bool flag. persistent puts it on the command's
// persistent flag set so subcommands inherit it.
func AddBoolFlag(cmd *cobra.Command, key string, persistent bool) {
	f, ok := Flags[key]
	if !ok {
		return
	}
	fs := cmd.Flags()
	if persistent {
		fs = cmd.PersistentFlags()
	}
	fs.BoolP(f.Name, f.Shorthand, defaults().GetBool(f.ViperKey), f.Description)
}

// BindFlags binds the named flags of cmd into v. Call after InitViper, before
// Load, so flags take precedence over env and file values.
func BindFlags(v *viper.Viper, cmd *cobra.Command, keys ...string) error {
	for _, key := range keys {
		def, ok := Flags[key]
		if !ok {
			continue
		}
		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(def.ViperKey, f); err != nil {
			return err
		}
	}
	return nil
}

func defaults() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	return v
}

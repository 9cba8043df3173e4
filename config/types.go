// Package config holds the vecbench configuration. Values resolve from, in
// increasing precedence: NewDefaultConfig, an optional TOML file, VECBENCH_
// environment variables and command-line flags.
package config

import (
	"fmt"

	"github.com/viant/vecbench/index"
	"github.com/viant/vecbench/pipeline"
	"github.com/viant/vecbench/store"
	"github.com/viant/vecbench/vector"
)

// Config is the resolved configuration for one vecbench invocation.
type Config struct {
	CorpusDir   string      `mapstructure:"corpus_dir"`
	QueryDir    string      `mapstructure:"query_dir"`
	IndexPath   string      `mapstructure:"index_path"`
	OutputPath  string      `mapstructure:"output_path"`
	// Metric empty means euclidean for build and the build-time metric for
	// evaluate.
	Metric      string      `mapstructure:"metric"`
	TopK        int         `mapstructure:"top_k"`
	IndexKind   string      `mapstructure:"index_kind"`
	Alignment   string      `mapstructure:"alignment"`
	MetricsFile string      `mapstructure:"metrics_file"`
	Store       StoreConfig `mapstructure:"store"`
	Log         LogConfig   `mapstructure:"log"`
}

// StoreConfig selects where indexes are persisted. With the sqlite backend
// IndexPath is the entry name inside the database at SQLitePath.
type StoreConfig struct {
	Backend    string `mapstructure:"backend"`
	SQLitePath string `mapstructure:"sqlite_path"`
	Overwrite  bool   `mapstructure:"overwrite"`
}

// LogConfig controls the logger built by the CLI.
type LogConfig struct {
	Debug  bool `mapstructure:"debug"`
	Pretty bool `mapstructure:"pretty"`
	JSON   bool `mapstructure:"json"`
}

// NewDefaultConfig returns the defaults every other source overrides.
func NewDefaultConfig() *Config {
	return &Config{
		OutputPath: "results.json",
		TopK:       pipeline.DefaultTopK,
		IndexKind:  string(index.KindFlat),
		Alignment:  string(pipeline.AlignStrict),
		Store: StoreConfig{
			Backend:    store.BackendFile,
			SQLitePath: "vecbench.db",
		},
		Log: LogConfig{Pretty: true},
	}
}

// Validate rejects values no command can run with.
func (c *Config) Validate() error {
	if c.TopK < 1 {
		return fmt.Errorf("config: top_k must be at least 1, got %d", c.TopK)
	}
	if _, err := vector.ParseMetric(c.Metric); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := index.ParseKind(c.IndexKind); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := pipeline.ParseAlignment(c.Alignment); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch c.Store.Backend {
	case store.BackendFile:
	case store.BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("config: store.sqlite_path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("config: unknown store backend %q", c.Store.Backend)
	}
	return nil
}

// StoreOptions converts the store section for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Backend:    c.Store.Backend,
		SQLitePath: c.Store.SQLitePath,
		Overwrite:  c.Store.Overwrite,
	}
}

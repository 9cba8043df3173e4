package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. VECBENCH_TOP_K or
// VECBENCH_STORE_BACKEND.
const EnvPrefix = "VECBENCH"

// InitViper returns a viper instance seeded with defaults, the config file at
// path (when path is non-empty) and environment variables. A missing file at
// an explicit path is an error.
func InitViper(path string) (*viper.Viper, error) {
	v := viper.New()
	setViperDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("vecbench")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v, nil
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// setViperDefaults registers NewDefaultConfig under dotted keys, so AutomaticEnv
// can see every key.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("corpus_dir", d.CorpusDir)
	v.SetDefault("query_dir", d.QueryDir)
	v.SetDefault("index_path", d.IndexPath)
	v.SetDefault("output_path", d.OutputPath)
	v.SetDefault("metric", d.Metric)
	v.SetDefault("top_k", d.TopK)
	v.SetDefault("index_kind", d.IndexKind)
	v.SetDefault("alignment", d.Alignment)
	v.SetDefault("metrics_file", d.MetricsFile)

	v.SetDefault("store.backend", d.Store.Backend)
	v.SetDefault("store.sqlite_path", d.Store.SQLitePath)
	v.SetDefault("store.overwrite", d.Store.Overwrite)

	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("log.pretty", d.Log.Pretty)
	v.SetDefault("log.json", d.Log.JSON)
}

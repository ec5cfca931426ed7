// Package config loads cargo-vendor settings from an optional config file
// and CARGO_VENDOR_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. CARGO_VENDOR_COMPRESSION.
const EnvPrefix = "CARGO_VENDOR"

// Config holds the tunables shared by all subcommands.
type Config struct {
	Cargo       string `mapstructure:"cargo"`
	Osc         string `mapstructure:"osc"`
	Compression string `mapstructure:"compression"`
	Update      bool   `mapstructure:"update"`
	OutDir      string `mapstructure:"outdir"`
	LogLevel    string `mapstructure:"log_level"`
	OBSBase     string `mapstructure:"obs_base"`
	Message     string `mapstructure:"message"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cargo:       "cargo",
		Osc:         "osc",
		Compression: "zst",
		Update:      true,
		OutDir:      ".",
		LogLevel:    "info",
		OBSBase:     "home:firstyear:branches",
		Message:     "Automatic update of vendored dependencies",
	}
}

// Load builds the configuration from defaults, the file at path (if any)
// and the environment, in increasing order of precedence.
func Load(path string) (*Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("cargo", d.Cargo)
	v.SetDefault("osc", d.Osc)
	v.SetDefault("compression", d.Compression)
	v.SetDefault("update", d.Update)
	v.SetDefault("outdir", d.OutDir)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("obs_base", d.OBSBase)
	v.SetDefault("message", d.Message)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

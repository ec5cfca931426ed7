package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fbkclanna/cargovendor/internal/config"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cargo-vendor",
		Short:         "Vendor cargo dependencies into a compressed tarball",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to a cargo-vendor config file (YAML or TOML)")
	cmd.PersistentFlags().CountP("verbose", "v", "Enable debug logging")

	cmd.AddCommand(
		newVendorCmd(),
		newUpdateCmd(),
		newInspectCmd(),
		newDoctorCmd(),
		newBulkUpdateCmd(),
	)

	return cmd
}

// loadSettings reads the config named by --config and configures logging
// for the rest of the command.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if verbose, _ := cmd.Flags().GetCount("verbose"); verbose > 0 {
		level = log.DebugLevel
	}
	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(level)
	log.SetReportTimestamp(false)
	return cfg, nil
}

// stringSetting returns the flag value when set explicitly, otherwise fallback.
func stringSetting(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

// boolSetting returns the flag value when set explicitly, otherwise fallback.
func boolSetting(cmd *cobra.Command, name string, fallback bool) bool {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetBool(name)
		return v
	}
	return fallback
}

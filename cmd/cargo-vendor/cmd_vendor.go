package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/cargovendor/internal/archive"
	"github.com/fbkclanna/cargovendor/internal/command"
	"github.com/fbkclanna/cargovendor/internal/config"
	"github.com/fbkclanna/cargovendor/internal/pipeline"
)

func newVendorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendor",
		Short: "Update, vendor and archive a project's dependencies",
		RunE:  runVendor,
	}
	cmd.Flags().String("src", ".", "Project directory")
	cmd.Flags().String("srctar", "", "Source tarball to extract and vendor instead of --src")
	cmd.Flags().String("srcdir", "", "Top-level directory inside --srctar (default: its only directory)")
	cmd.Flags().String("manifest", "", "Cargo.toml path relative to the project (default: Cargo.toml)")
	cmd.Flags().StringSlice("sync", nil, "Additional manifests to vendor alongside the main one")
	cmd.Flags().String("outdir", "", "Directory receiving the tarball (default from config: .)")
	cmd.Flags().String("cargo-config", "", "Where to write the generated cargo config (default: <outdir>/cargo_config)")
	cmd.Flags().String("compression", "", "Tarball compression: gz, xz, or zst (default from config: zst)")
	cmd.Flags().Bool("update", true, "Run cargo update before vendoring")
	return cmd
}

func runVendor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	opts, err := vendorOptions(cmd, cfg)
	if err != nil {
		return err
	}

	cargoTool := &command.Tool{Name: cfg.Cargo, Stderr: cmd.ErrOrStderr()}
	res, err := pipeline.Run(cargoTool, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Skipped {
		_, _ = fmt.Fprintln(out, "No dependencies to vendor.")
		return nil
	}
	_, _ = fmt.Fprintf(out, "Vendor tarball written to %s\n", res.ArchivePath)
	_, _ = fmt.Fprintf(out, "Cargo config written to %s\n", res.ConfigPath)
	return nil
}

func vendorOptions(cmd *cobra.Command, cfg *config.Config) (pipeline.Options, error) {
	src, _ := cmd.Flags().GetString("src")
	srctar, _ := cmd.Flags().GetString("srctar")
	srcdir, _ := cmd.Flags().GetString("srcdir")
	manifestPath, _ := cmd.Flags().GetString("manifest")
	syncPaths, _ := cmd.Flags().GetStringSlice("sync")
	cargoConfig, _ := cmd.Flags().GetString("cargo-config")

	compression, err := archive.ParseCompression(stringSetting(cmd, "compression", cfg.Compression))
	if err != nil {
		return pipeline.Options{}, err
	}

	return pipeline.Options{
		ProjectDir:     src,
		SourceTarball:  srctar,
		SourceDir:      srcdir,
		ManifestPath:   manifestPath,
		ExtraManifests: syncPaths,
		OutDir:         stringSetting(cmd, "outdir", cfg.OutDir),
		ConfigPath:     cargoConfig,
		Update:         boolSetting(cmd, "update", cfg.Update),
		Compression:    compression,
	}, nil
}

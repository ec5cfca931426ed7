package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/cargovendor/internal/cargo"
	"github.com/fbkclanna/cargovendor/internal/command"
	"github.com/fbkclanna/cargovendor/internal/project"
)

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Run cargo update for a project without vendoring",
		RunE:  runUpdate,
	}
	cmd.Flags().String("src", ".", "Project directory")
	cmd.Flags().String("manifest", "", "Cargo.toml path relative to the project (default: Cargo.toml)")
	return cmd
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	src, _ := cmd.Flags().GetString("src")
	manifestPath, _ := cmd.Flags().GetString("manifest")

	ctx, err := project.Load(src, manifestPath)
	if err != nil {
		return err
	}

	cargoTool := &command.Tool{Name: cfg.Cargo, Stderr: cmd.ErrOrStderr()}
	if err := cargo.Update(cargoTool, ctx.Root, ctx.ManifestPath); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", ctx.LockPath)
	return nil
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fbkclanna/cargovendor/internal/command"
	"github.com/fbkclanna/cargovendor/internal/project"
)

func newDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose environment for common issues",
		RunE:  runDoctor,
	}
	cmd.Flags().String("src", ".", "Project directory to check")
	return cmd
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	ok := true

	cargoTool := &command.Tool{Name: cfg.Cargo}
	if !checkTool(out, cargoTool, "https://rustup.rs/") {
		ok = false
	} else {
		_, _ = fmt.Fprint(out, "Checking cargo vendor... ")
		if _, err := cargoTool.Run(".", "vendor", "--help"); err != nil {
			_, _ = fmt.Fprintln(out, "NOT AVAILABLE")
			ok = false
		} else {
			_, _ = fmt.Fprintln(out, "OK")
		}
	}

	// osc is only needed for bulk-update.
	if !checkTool(out, &command.Tool{Name: cfg.Osc}, "https://github.com/openSUSE/osc") {
		_, _ = fmt.Fprintln(out, "  Warning: bulk-update will not work without osc")
	}

	src, _ := cmd.Flags().GetString("src")
	ctx, loadErr := project.Load(src, "")
	if loadErr == nil {
		kind := "package"
		if ctx.Manifest.IsWorkspace() {
			kind = "workspace"
		}
		_, _ = fmt.Fprintf(out, "Project: %s (%s, lockfile: %t)\n", ctx.ManifestPath, kind, ctx.HasLock())
	} else {
		_, _ = fmt.Fprintf(out, "No cargo project found (%v), skipping project checks\n", loadErr)
	}

	if ok {
		_, _ = fmt.Fprintln(out, "\nAll checks passed.")
		return nil
	}
	_, _ = fmt.Fprintln(out, "\nSome checks failed. See above for details.")
	return fmt.Errorf("doctor checks failed")
}

// checkTool reports where a tool lives and its version.
func checkTool(out io.Writer, tool *command.Tool, installHint string) bool {
	_, _ = fmt.Fprintf(out, "Checking %s... ", tool.Name)
	if !tool.Installed() {
		_, _ = fmt.Fprintln(out, "NOT FOUND")
		_, _ = fmt.Fprintf(out, "  %s is required. Install it from %s\n", tool.Name, installHint)
		return false
	}
	path, _ := tool.Path()
	_, _ = fmt.Fprintf(out, "found at %s\n", path)

	_, _ = fmt.Fprintf(out, "Checking %s version... ", tool.Name)
	ver, err := tool.Run(".", "--version")
	if err != nil {
		_, _ = fmt.Fprintln(out, "ERROR")
		return false
	}
	_, _ = fmt.Fprintln(out, strings.TrimSpace(ver))
	return true
}

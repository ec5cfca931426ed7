package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/fbkclanna/cargovendor/internal/lock"
	"github.com/fbkclanna/cargovendor/internal/project"
	"github.com/fbkclanna/cargovendor/internal/ui"
)

// inspectReport is the machine-readable form of `inspect --yaml`.
type inspectReport struct {
	Manifest        string       `yaml:"manifest"`
	Package         string       `yaml:"package,omitempty"`
	Workspace       bool         `yaml:"workspace"`
	Members         []string     `yaml:"members,omitempty"`
	HasDependencies bool         `yaml:"has_dependencies"`
	Lockfile        *lockSummary `yaml:"lockfile,omitempty"`
}

type lockSummary struct {
	Path     string `yaml:"path"`
	Version  int    `yaml:"version"`
	Packages int    `yaml:"packages"`
	Registry int    `yaml:"registry"`
	Git      int    `yaml:"git"`
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [manifest]",
		Short: "Show whether a manifest is a workspace and declares dependencies",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInspect,
	}
	cmd.Flags().String("src", ".", "Project directory")
	cmd.Flags().Bool("yaml", false, "Print the report as YAML")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	if _, err := loadSettings(cmd); err != nil {
		return err
	}
	src, _ := cmd.Flags().GetString("src")
	asYAML, _ := cmd.Flags().GetBool("yaml")

	manifestPath := ""
	if len(args) == 1 {
		manifestPath = args[0]
	}

	report, err := buildInspectReport(src, manifestPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asYAML {
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		_, err = out.Write(data)
		return err
	}

	fields := []ui.Field{
		{Key: "Manifest", Value: report.Manifest},
		{Key: "Package", Value: valueOr(report.Package, "(virtual)")},
		{Key: "Workspace", Value: report.Workspace},
	}
	if len(report.Members) > 0 {
		fields = append(fields, ui.Field{Key: "Members", Value: strings.Join(report.Members, ", ")})
	}
	fields = append(fields, ui.Field{Key: "Dependencies", Value: report.HasDependencies})
	if lf := report.Lockfile; lf != nil {
		fields = append(fields, ui.Field{
			Key:   "Lockfile",
			Value: fmt.Sprintf("v%d, %d packages (%d registry, %d git)", lf.Version, lf.Packages, lf.Registry, lf.Git),
		})
	} else {
		fields = append(fields, ui.Field{Key: "Lockfile", Value: "none"})
	}
	return ui.KeyValues(out, fields)
}

func buildInspectReport(src, manifestPath string) (*inspectReport, error) {
	ctx, err := project.Load(src, manifestPath)
	if err != nil {
		return nil, err
	}
	m := ctx.Manifest
	report := &inspectReport{
		Manifest:        ctx.ManifestPath,
		Package:         m.Name(),
		Workspace:       m.IsWorkspace(),
		Members:         m.Members(),
		HasDependencies: m.HasDependencies(),
	}
	if ctx.HasLock() {
		lf, err := lock.Load(ctx.LockPath)
		if err != nil {
			return nil, err
		}
		report.Lockfile = &lockSummary{
			Path:     ctx.LockPath,
			Version:  lf.Version,
			Packages: len(lf.Packages),
			Registry: lf.Registry(),
			Git:      lf.Git(),
		}
	}
	return report, nil
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fbkclanna/cargovendor/internal/archive"
	"github.com/fbkclanna/cargovendor/internal/command"
	"github.com/fbkclanna/cargovendor/internal/osc"
	"github.com/fbkclanna/cargovendor/internal/pipeline"
	"github.com/fbkclanna/cargovendor/internal/service"
	"github.com/fbkclanna/cargovendor/internal/ui"
)

const (
	statusSubmitted = "submitted"
	statusVendored  = "vendored"
	statusSkipped   = "skipped"
	statusFailed    = "failed"
)

type bulkOptions struct {
	Packages []string
	WorkDir  string
	Base     string
	Message  string
	Submit   bool
}

type bulkResult struct {
	Package string
	Path    string
	Status  string
	Archive string
	err     error
}

func newBulkUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk-update <package>...",
		Short: "Re-vendor branched OBS packages and submit the updates",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runBulkUpdate,
	}
	cmd.Flags().String("message", "", "Changelog, commit and request message")
	cmd.Flags().String("base", "", "OBS project holding the branches (default from config)")
	cmd.Flags().String("workdir", ".", "Directory holding the osc checkouts")
	cmd.Flags().Bool("yes", false, "Submit without asking for confirmation")
	cmd.Flags().Bool("no-submit", false, "Vendor only; do not commit or submit requests")
	return cmd
}

func runBulkUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	workdir, _ := cmd.Flags().GetString("workdir")
	yes, _ := cmd.Flags().GetBool("yes")
	noSubmit, _ := cmd.Flags().GetBool("no-submit")

	opts := bulkOptions{
		Packages: args,
		WorkDir:  workdir,
		Base:     stringSetting(cmd, "base", cfg.OBSBase),
		Message:  stringSetting(cmd, "message", cfg.Message),
		Submit:   !noSubmit,
	}

	if opts.Submit && !yes {
		if !isInteractive() {
			return fmt.Errorf("refusing to submit requests without confirmation; pass --yes or --no-submit")
		}
		if !cmd.Flags().Changed("message") {
			msg, err := promptInput("Changelog and request message", opts.Message)
			if err != nil {
				return err
			}
			opts.Message = msg
		}
		confirmed, err := promptConfirm(fmt.Sprintf("Commit and submit requests for %d package(s) in %s?", len(args), opts.Base))
		if err != nil {
			return err
		}
		opts.Submit = confirmed
	}

	oscTool := &command.Tool{Name: cfg.Osc, Stderr: cmd.ErrOrStderr()}
	cargoTool := &command.Tool{Name: cfg.Cargo, Stderr: cmd.ErrOrStderr()}
	progress := ui.NewProgress(cmd.ErrOrStderr(), len(args))

	results := bulkUpdate(oscTool, cargoTool, opts, progress)

	out := cmd.OutOrStdout()
	tbl := ui.NewTable(out, "PACKAGE", "STATUS", "ARCHIVE")
	for _, r := range results {
		tbl.Row(r.Package, r.Status, valueOr(r.Archive, "-"))
	}
	if err := tbl.Flush(); err != nil {
		return err
	}

	if failed := progress.Failed(); len(failed) > 0 {
		return fmt.Errorf("%s; failed: %s", progress.Summary(), strings.Join(failed, ", "))
	}
	return nil
}

// bulkUpdate checks out every package first, then vendors and optionally
// submits each one. A failing package does not stop the others.
func bulkUpdate(oscRunner, cargoRunner command.Runner, opts bulkOptions, progress *ui.Progress) []bulkResult {
	results := make([]bulkResult, len(opts.Packages))
	for i, pkg := range opts.Packages {
		results[i].Package = pkg
		path, err := osc.CheckoutOrUpdate(oscRunner, opts.WorkDir, opts.Base, pkg)
		if err != nil {
			results[i].Status = statusFailed
			results[i].err = err
			continue
		}
		results[i].Path = path
	}

	for i := range results {
		r := &results[i]
		progress.Start(r.Package)
		if r.err != nil {
			progress.Fail(r.Package, r.err)
			continue
		}

		res, err := vendorPackage(cargoRunner, r.Path)
		if err != nil {
			r.Status, r.err = statusFailed, err
			progress.Fail(r.Package, err)
			continue
		}
		if res.Skipped {
			r.Status = statusSkipped
			progress.Done(r.Package + " has no dependencies to vendor")
			continue
		}
		r.Archive = filepath.Base(res.ArchivePath)

		if !opts.Submit {
			r.Status = statusVendored
			progress.Done(r.Package + " vendored")
			continue
		}
		if err := osc.Submit(oscRunner, r.Path, opts.Message); err != nil {
			r.Status, r.err = statusFailed, err
			progress.Fail(r.Package, err)
			continue
		}
		r.Status = statusSubmitted
		progress.Done(r.Package + " submitted")
		if summary, err := osc.Results(oscRunner, r.Path); err != nil {
			log.Warn("Unable to fetch build results", "package", r.Package, "err", err)
		} else {
			progress.Log("%s", strings.TrimRight(summary, "\n"))
		}
	}
	return results
}

// vendorPackage re-vendors an OBS package checkout according to the
// cargo_vendor entry of its _service file.
func vendorPackage(cargoRunner command.Runner, pkgpath string) (*pipeline.Result, error) {
	params, err := service.Load(filepath.Join(pkgpath, service.FileName))
	if err != nil {
		return nil, err
	}
	log.Debug("cargo_vendor service", "update", params.Update, "srctar", params.SrcTar, "srcdir", params.SrcDir, "compression", params.Compression)

	srctar, err := params.ResolveSrcTar(pkgpath)
	if err != nil {
		return nil, err
	}
	compression, err := archive.ParseCompression(params.Compression)
	if err != nil {
		return nil, err
	}

	log.Info("Running vendor", "package", pkgpath, "srctar", srctar)
	return pipeline.Run(cargoRunner, pipeline.Options{
		SourceTarball: filepath.Join(pkgpath, srctar),
		SourceDir:     params.SrcDir,
		OutDir:        pkgpath,
		Update:        params.Update,
		Compression:   compression,
	})
}

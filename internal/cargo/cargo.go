package cargo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/fbkclanna/cargovendor/internal/command"
)

// ErrExec is returned when cargo cannot be launched or exits non-zero.
// The underlying cause is logged and wrapped.
var ErrExec = errors.New("unable to execute cargo")

// Update runs cargo update against manifestPath from prjdir.
func Update(r command.Runner, prjdir, manifestPath string) error {
	log.Info("⏫ Updating dependencies before vendor")
	args := []string{"update", "-vv", "--manifest-path", manifestPath}

	if _, err := r.Run(prjdir, args...); err != nil {
		return execError("update", err)
	}
	log.Info("⏫ Successfully ran cargo update")
	return nil
}

// VendorArgs returns the cargo vendor argument vector, one --sync pair per
// extra manifest in the given order.
func VendorArgs(manifestPath string, extra []string) []string {
	args := []string{"vendor", "-vv", "--manifest-path", manifestPath}
	for _, p := range extra {
		args = append(args, "--sync", p)
	}
	return args
}

// Vendor runs cargo vendor from prjdir and writes its stdout, the source
// replacement config, verbatim to configPath.
func Vendor(r command.Runner, prjdir, configPath, manifestPath string, extra []string) error {
	args := VendorArgs(manifestPath, extra)
	log.Debug("cargo vendor", "args", args)

	out, err := r.Run(prjdir, args...)
	if err != nil {
		return execError("vendor", err)
	}

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil { //nolint:gosec // config dir must be readable by the build
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, []byte(out), 0644); err != nil { //nolint:gosec // config must be readable by the build
		return fmt.Errorf("writing vendor config: %w", err)
	}
	log.Debug("Wrote vendor config", "path", configPath, "bytes", len(out))
	return nil
}

// execError logs why cargo failed and wraps err with ErrExec.
func execError(sub string, err error) error {
	if command.IsExitError(err) {
		log.Error("cargo "+sub+" exited with failure", "err", err)
	} else {
		log.Error("cargo could not be launched", "subcommand", sub, "err", err)
	}
	return fmt.Errorf("%w: %w", ErrExec, err)
}

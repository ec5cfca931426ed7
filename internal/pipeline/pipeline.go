// Package pipeline runs the vendoring steps in order: optional source
// extraction, cargo update, manifest inspection, cargo vendor and archiving.
// The first failing step aborts the run.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/fbkclanna/cargovendor/internal/archive"
	"github.com/fbkclanna/cargovendor/internal/cargo"
	"github.com/fbkclanna/cargovendor/internal/command"
	"github.com/fbkclanna/cargovendor/internal/lock"
	"github.com/fbkclanna/cargovendor/internal/project"
)

// DefaultConfigName is the file, inside OutDir, receiving cargo vendor's
// source replacement config when ConfigPath is unset.
const DefaultConfigName = "cargo_config"

// Options configures a single vendoring run.
type Options struct {
	// ProjectDir is the crate or workspace root. Ignored when SourceTarball is set.
	ProjectDir string
	// SourceTarball, when set, is extracted into a temporary directory which
	// becomes the project root. SourceDir names the top-level directory
	// inside the tarball; empty means the single top-level directory.
	SourceTarball string
	SourceDir     string
	ManifestPath  string
	// ExtraManifests are passed to cargo vendor as --sync arguments.
	ExtraManifests []string
	OutDir         string
	ConfigPath     string
	Update         bool
	Compression    archive.Compression
}

// Result describes the artifacts produced by Run.
type Result struct {
	ArchivePath string
	ConfigPath  string
	IsWorkspace bool
	Locked      int
	// Skipped is true when the manifest declares nothing to vendor.
	Skipped bool
}

// Run executes the pipeline with r standing in for cargo.
func Run(r command.Runner, opts Options) (*Result, error) {
	if _, err := opts.Compression.Extension(); err != nil {
		return nil, err
	}

	root := opts.ProjectDir
	if opts.SourceTarball != "" {
		tmp, err := os.MkdirTemp("", "cargo-vendor-")
		if err != nil {
			return nil, fmt.Errorf("creating extraction directory: %w", err)
		}
		defer func() { _ = os.RemoveAll(tmp) }()

		root, err = unpackSource(opts.SourceTarball, opts.SourceDir, tmp)
		if err != nil {
			return nil, err
		}
	}

	outdir, err := filepath.Abs(opts.OutDir)
	if err != nil {
		return nil, fmt.Errorf("resolving output directory: %w", err)
	}
	if err := os.MkdirAll(outdir, 0755); err != nil { //nolint:gosec // output must be readable by the packager
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	ctx, err := project.Load(root, opts.ManifestPath)
	if err != nil {
		return nil, err
	}
	log.Debug("Resolved project", "root", ctx.Root, "manifest", ctx.ManifestPath)

	if opts.Update {
		if err := cargo.Update(r, ctx.Root, ctx.ManifestPath); err != nil {
			return nil, err
		}
	}

	res := &Result{IsWorkspace: ctx.Manifest.IsWorkspace()}
	if !res.IsWorkspace && !ctx.Manifest.HasDependencies() {
		log.Info("😌 No dependencies, no need to vendor!", "manifest", ctx.ManifestPath)
		res.Skipped = true
		return res, nil
	}

	if res.IsWorkspace {
		members, err := ctx.MemberManifests()
		if err != nil {
			return nil, err
		}
		log.Info("📚 Vendoring workspace", "members", members)
	}

	res.ConfigPath = opts.ConfigPath
	if res.ConfigPath == "" {
		res.ConfigPath = filepath.Join(outdir, DefaultConfigName)
	}
	if err := cargo.Vendor(r, ctx.Root, res.ConfigPath, ctx.ManifestPath, opts.ExtraManifests); err != nil {
		return nil, err
	}
	if info, err := os.Stat(ctx.VendorPath()); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("cargo vendor did not create %s", ctx.VendorPath())
	}

	if ctx.HasLock() {
		if lf, err := lock.Load(ctx.LockPath); err != nil {
			log.Warn("Unable to read lockfile", "path", ctx.LockPath, "err", err)
		} else {
			res.Locked = len(lf.Packages)
			log.Info("🔒 Bundling lockfile", "packages", res.Locked, "registry", lf.Registry(), "git", lf.Git())
		}
	} else {
		log.Warn("No lockfile found in project root", "root", ctx.Root)
	}

	paths := ctx.ArchivePaths()
	memberLocks, err := ctx.ExtraLockfiles(opts.ExtraManifests)
	if err != nil {
		return nil, err
	}
	paths = append(paths, memberLocks...)

	res.ArchivePath, err = archive.Compress(outdir, ctx.Root, paths, opts.Compression)
	if err != nil {
		return nil, err
	}
	log.Info("🎉 Vendoring finished", "archive", res.ArchivePath)
	return res, nil
}

// unpackSource extracts tarball into tmp and returns the project root in it.
func unpackSource(tarball, srcdir, tmp string) (string, error) {
	log.Info("📤 Extracting source tarball", "path", tarball)
	if err := archive.Extract(tarball, tmp); err != nil {
		return "", err
	}
	entries, err := os.ReadDir(tmp)
	if err != nil {
		return "", err
	}
	if srcdir != "" {
		root := filepath.Join(tmp, srcdir)
		if info, err := os.Stat(root); err == nil && info.IsDir() {
			return root, nil
		}
		// Release tarballs usually unpack to <srcdir>-<version>.
		var matches []string
		for _, e := range entries {
			if e.IsDir() && strings.HasPrefix(e.Name(), srcdir) {
				matches = append(matches, e.Name())
			}
		}
		if len(matches) != 1 {
			return "", fmt.Errorf("source directory %q not found in %s", srcdir, tarball)
		}
		return filepath.Join(tmp, matches[0]), nil
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(tmp, entries[0].Name()), nil
	}
	return tmp, nil
}

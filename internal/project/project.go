package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fbkclanna/cargovendor/internal/manifest"
)

const (
	ManifestName = "Cargo.toml"
	LockName     = "Cargo.lock"
	VendorDir    = "vendor"
)

// Context holds the resolved paths and loaded manifest for a project.
type Context struct {
	Root         string
	ManifestPath string
	LockPath     string
	Manifest     *manifest.Manifest
}

// Load resolves project paths and loads the manifest. manifestPath may be
// empty (Cargo.toml in root) or relative to root.
func Load(root, manifestPath string) (*Context, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving project root: %w", err)
	}

	if manifestPath == "" {
		manifestPath = ManifestName
	}
	if !filepath.IsAbs(manifestPath) {
		manifestPath = filepath.Join(root, manifestPath)
	}

	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	return &Context{
		Root:         root,
		ManifestPath: manifestPath,
		LockPath:     filepath.Join(root, LockName),
		Manifest:     m,
	}, nil
}

// VendorPath returns the absolute path of the vendor directory.
func (c *Context) VendorPath() string {
	return filepath.Join(c.Root, VendorDir)
}

// HasLock reports whether the project root carries a Cargo.lock.
func (c *Context) HasLock() bool {
	info, err := os.Stat(c.LockPath)
	return err == nil && info.Mode().IsRegular()
}

// ArchivePaths returns the tarball members relative to Root: the vendor
// directory and, when present, the root lockfile.
func (c *Context) ArchivePaths() []string {
	paths := []string{VendorDir}
	if c.HasLock() {
		paths = append(paths, LockName)
	}
	return paths
}

// MemberManifests returns the Cargo.toml paths of workspace members that
// exist on disk, relative to Root. Glob members are expanded.
func (c *Context) MemberManifests() ([]string, error) {
	var out []string
	for _, member := range c.Manifest.Members() {
		matches, err := filepath.Glob(filepath.Join(c.Root, member, ManifestName))
		if err != nil {
			return nil, fmt.Errorf("expanding workspace member %q: %w", member, err)
		}
		for _, m := range matches {
			rel, err := filepath.Rel(c.Root, m)
			if err != nil {
				return nil, err
			}
			out = append(out, rel)
		}
	}
	return out, nil
}

// ExtraLockfiles returns lockfiles, relative to Root, that sit next to the
// given extra manifests and therefore need bundling alongside the root one.
// Manifests without dependencies, manifests outside Root and manifests
// sharing the root lockfile contribute nothing.
func (c *Context) ExtraLockfiles(manifests []string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, p := range manifests {
		if !filepath.IsAbs(p) {
			p = filepath.Join(c.Root, p)
		}
		hasDeps, err := manifest.HasDependencies(p)
		if err != nil {
			return nil, err
		}
		if !hasDeps {
			continue
		}
		lockPath := filepath.Join(filepath.Dir(p), LockName)
		if lockPath == c.LockPath || seen[lockPath] {
			continue
		}
		if info, err := os.Stat(lockPath); err != nil || !info.Mode().IsRegular() {
			continue
		}
		rel, err := filepath.Rel(c.Root, lockPath)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		seen[lockPath] = true
		out = append(out, rel)
	}
	return out, nil
}

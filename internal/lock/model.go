package lock

import "strings"

// File represents Cargo.lock.
type File struct {
	Version  int       `toml:"version"`
	Packages []Package `toml:"package"`
}

// Package records the resolved state of a single package.
type Package struct {
	Name         string   `toml:"name"`
	Version      string   `toml:"version"`
	Source       string   `toml:"source,omitempty"`
	Checksum     string   `toml:"checksum,omitempty"`
	Dependencies []string `toml:"dependencies,omitempty"`
}

// FromRegistry reports whether the package is downloaded from a registry.
func (p Package) FromRegistry() bool {
	return strings.HasPrefix(p.Source, "registry+") || strings.HasPrefix(p.Source, "sparse+")
}

// FromGit reports whether the package is pinned to a git revision.
func (p Package) FromGit() bool {
	return strings.HasPrefix(p.Source, "git+")
}

// Registry returns the number of registry-sourced packages.
func (f *File) Registry() int {
	n := 0
	for _, p := range f.Packages {
		if p.FromRegistry() {
			n++
		}
	}
	return n
}

// Git returns the number of git-sourced packages.
func (f *File) Git() int {
	n := 0
	for _, p := range f.Packages {
		if p.FromGit() {
			n++
		}
	}
	return n
}

// Package project resolves the paths of a cargo project on disk: its root,
// manifest, lockfile and vendor directory.
package project

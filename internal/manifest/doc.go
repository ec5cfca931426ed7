// Package manifest inspects Cargo.toml files: workspace detection and
// dependency presence.
package manifest

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Manifests used across package tests.
const (
	PackageManifest = `[package]
name = "hello"
version = "0.1.0"
edition = "2021"

[dependencies]
serde = "1"
`

	WorkspaceManifest = `[workspace]
members = ["crates/a", "crates/b"]
resolver = "2"
`

	EmptyManifest = `[package]
name = "bare"
version = "0.1.0"
`

	Lockfile = `version = 3

[[package]]
name = "hello"
version = "0.1.0"
dependencies = [
 "serde",
]

[[package]]
name = "serde"
version = "1.0.197"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "3fb1c873e1b9b056a4dc4c0c198b24c3ffa059243875552b2bd0933b1aee4ce2"
`
)

// WriteFile writes data to dir/rel, creating parent directories.
func WriteFile(t *testing.T, dir, rel, data string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(data), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
	return path
}

// CreateProject creates a crate directory with the given Cargo.toml content
// and a Cargo.lock. Returns the project directory.
func CreateProject(t *testing.T, manifest string) string {
	t.Helper()
	dir := t.TempDir()
	WriteFile(t, dir, "Cargo.toml", manifest)
	WriteFile(t, dir, "Cargo.lock", Lockfile)
	WriteFile(t, dir, "src/main.rs", "fn main() {}\n")
	return dir
}

// CreateVendorTree populates dir/vendor with a small crate as cargo vendor would.
func CreateVendorTree(t *testing.T, dir string) {
	t.Helper()
	if err := WriteVendorTree(dir); err != nil {
		t.Fatal(err)
	}
}

// WriteVendorTree is the non-test form of CreateVendorTree, usable from
// FakeRunner.OnRun callbacks.
func WriteVendorTree(dir string) error {
	files := map[string]string{
		"vendor/serde/Cargo.toml":           "[package]\nname = \"serde\"\nversion = \"1.0.197\"\n",
		"vendor/serde/src/lib.rs":           "pub trait Serialize {}\n",
		"vendor/serde/.cargo-checksum.json": "{\"files\":{},\"package\":\"3fb1\"}",
	}
	for rel, data := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(data), 0644); err != nil { //nolint:gosec // test fixture
			return err
		}
	}
	return nil
}

// VendorConfig is representative stdout of cargo vendor.
const VendorConfig = `[source.crates-io]
replace-with = "vendored-sources"

[source.vendored-sources]
directory = "vendor"
`

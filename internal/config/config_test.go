package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbkclanna/cargovendor/internal/testutil"
)

func TestLoad_defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoad_file(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "cargo-vendor.yaml", `
cargo: /opt/rust/bin/cargo
compression: gz
update: false
outdir: dist
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/rust/bin/cargo", cfg.Cargo)
	assert.Equal(t, "gz", cfg.Compression)
	assert.False(t, cfg.Update)
	assert.Equal(t, "dist", cfg.OutDir)
	assert.Equal(t, "osc", cfg.Osc, "unset keys keep their defaults")
}

func TestLoad_tomlFile(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "cargo-vendor.toml", "compression = \"xz\"\nlog_level = \"debug\"\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "xz", cfg.Compression)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_envOverridesFile(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "cargo-vendor.yaml", "compression: gz\n")
	t.Setenv("CARGO_VENDOR_COMPRESSION", "xz")
	t.Setenv("CARGO_VENDOR_OBS_BASE", "home:someone:branches")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "xz", cfg.Compression)
	assert.Equal(t, "home:someone:branches", cfg.OBSBase)
}

func TestLoad_missingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

package manifest

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbkclanna/cargovendor/internal/testutil"
)

func TestIsWorkspace(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     bool
	}{
		{"workspace", testutil.WorkspaceManifest, true},
		{"package", testutil.PackageManifest, false},
		{"package in workspace", testutil.PackageManifest + "\n[workspace]\n", true},
		{"empty document", "", false},
		{"nested workspace key only", "[package.metadata.workspace]\nx = 1\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, t.TempDir(), "Cargo.toml", tt.manifest)
			got, err := IsWorkspace(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHasDependencies(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		want     bool
	}{
		{"dependencies", "[dependencies]\nserde = \"1\"\n", true},
		{"dev-dependencies", "[dev-dependencies]\ntempfile = \"3\"\n", true},
		{"both", "[dependencies]\nserde = \"1\"\n[dev-dependencies]\ntempfile = \"3\"\n", true},
		{"empty table", "[dependencies]\n", true},
		{"neither", testutil.EmptyManifest, false},
		{"build-dependencies only", "[build-dependencies]\ncc = \"1\"\n", false},
		{"workspace only", testutil.WorkspaceManifest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, t.TempDir(), "Cargo.toml", tt.manifest)
			got, err := HasDependencies(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPackageManifest_notWorkspaceWithDependencies(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "Cargo.toml", testutil.PackageManifest)

	ws, err := IsWorkspace(path)
	require.NoError(t, err)
	deps, err := HasDependencies(path)
	require.NoError(t, err)

	assert.False(t, ws)
	assert.True(t, deps)
}

func TestLoad_missingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Cargo.toml")

	_, err := IsWorkspace(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
	assert.Contains(t, err.Error(), "Cargo.toml")

	_, err = HasDependencies(path)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
}

func TestLoad_invalidToml(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "Cargo.toml", "[package\nname = ")

	_, err := IsWorkspace(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.False(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), path)

	_, err = HasDependencies(path)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestManifest_MembersAndName(t *testing.T) {
	m, err := Parse([]byte(testutil.WorkspaceManifest))
	require.NoError(t, err)
	assert.Equal(t, []string{"crates/a", "crates/b"}, m.Members())
	assert.Empty(t, m.Name())

	p, err := Parse([]byte(testutil.PackageManifest))
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Name())
	assert.Nil(t, p.Members())
	assert.True(t, p.Has(KeyPackage))
}

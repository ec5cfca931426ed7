package manifest

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalid is returned when a manifest cannot be parsed as TOML.
var ErrInvalid = errors.New("invalid manifest")

// Load reads and parses a Cargo.toml file. A missing file yields an error
// matching fs.ErrNotExist; malformed content yields ErrInvalid.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is the user-supplied manifest
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.Path = path
	return m, nil
}

// Parse parses Cargo.toml content.
func Parse(data []byte) (*Manifest, error) {
	doc := map[string]any{}
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return &Manifest{doc: doc}, nil
}

// IsWorkspace reports whether the manifest at path has a workspace key.
func IsWorkspace(path string) (bool, error) {
	m, err := Load(path)
	if err != nil {
		return false, err
	}
	return m.IsWorkspace(), nil
}

// HasDependencies reports whether the manifest at path has a dependencies
// or dev-dependencies key.
func HasDependencies(path string) (bool, error) {
	m, err := Load(path)
	if err != nil {
		return false, err
	}
	return m.HasDependencies(), nil
}

package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FakeCargo writes an executable script standing in for cargo and returns
// its path. It appends each argument vector to calls.log next to itself,
// creates vendor/ on `vendor` and prints VendorConfig.
func FakeCargo(t *testing.T) string {
	t.Helper()
	script := `#!/bin/sh
echo "$@" >> "$(dirname "$0")/calls.log"
case "$1" in
update)
  exit 0
  ;;
vendor)
  if [ "$2" = "--help" ]; then
    echo "Vendor all dependencies for a project locally"
    exit 0
  fi
  mkdir -p vendor/serde/src
  printf 'pub trait Serialize {}\n' > vendor/serde/src/lib.rs
  cat <<'EOF'
` + VendorConfig + `EOF
  ;;
--version)
  echo "cargo 1.80.0 (fake)"
  ;;
*)
  echo "unsupported: $1" >&2
  exit 101
  ;;
esac
`
	path := filepath.Join(t.TempDir(), "cargo")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil { //nolint:gosec // must be executable
		t.Fatal(err)
	}
	return path
}

// FakeCargoCalls returns the argument vectors recorded by a FakeCargo script.
func FakeCargoCalls(t *testing.T, cargoPath string) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(filepath.Dir(cargoPath), "calls.log"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

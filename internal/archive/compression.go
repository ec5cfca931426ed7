package archive

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownCompression is returned for selectors outside gz, xz and zst.
var ErrUnknownCompression = errors.New("unknown compression")

// Compression selects the codec applied to the vendor tarball.
type Compression string

const (
	Gz  Compression = "gz"
	Xz  Compression = "xz"
	Zst Compression = "zst"
)

// Compressions lists every supported selector.
var Compressions = []Compression{Gz, Xz, Zst}

// ParseCompression parses a selector, defaulting to zst when empty.
// The long forms gzip and zstd are accepted as aliases.
func ParseCompression(s string) (Compression, error) {
	switch Compression(strings.ToLower(strings.TrimSpace(s))) {
	case Zst, "zstd", "":
		return Zst, nil
	case Gz, "gzip":
		return Gz, nil
	case Xz:
		return Xz, nil
	default:
		return "", fmt.Errorf("%w: %q (must be gz, xz, or zst)", ErrUnknownCompression, s)
	}
}

// Extension returns the file extension without the leading dot.
func (c Compression) Extension() (string, error) {
	switch c {
	case Gz:
		return "tar.gz", nil
	case Xz:
		return "tar.xz", nil
	case Zst:
		return "tar.zst", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCompression, string(c))
	}
}

func (c Compression) String() string {
	return string(c)
}

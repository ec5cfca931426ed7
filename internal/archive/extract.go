package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// DetectCompression infers the codec from a tarball file name. Plain .tar
// files report ok with an empty Compression.
func DetectCompression(name string) (c Compression, ok bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return Gz, true
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return Xz, true
	case strings.HasSuffix(lower, ".tar.zst"), strings.HasSuffix(lower, ".tar.zstd"):
		return Zst, true
	case strings.HasSuffix(lower, ".tar"):
		return "", true
	}
	return "", false
}

// Extract unpacks a tarball into dest. Members that would land outside
// dest are rejected.
func Extract(archivePath, dest string) error {
	c, ok := DetectCompression(archivePath)
	if !ok {
		return fmt.Errorf("%w: cannot infer format of %s", ErrUnknownCompression, archivePath)
	}

	f, err := os.Open(archivePath) //nolint:gosec // archive path is user supplied
	if err != nil {
		return fmt.Errorf("opening tarball: %w", err)
	}
	defer func() { _ = f.Close() }()

	r, closeFn, err := decompressor(f, c)
	if err != nil {
		return fmt.Errorf("reading %s: %w", archivePath, err)
	}
	defer closeFn()

	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}
	return untar(tar.NewReader(r), dest)
}

func decompressor(r io.Reader, c Compression) (io.Reader, func(), error) {
	switch c {
	case Gz:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { _ = zr.Close() }, nil
	case Xz:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return xr, func() {}, nil
	case Zst:
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return d, d.Close, nil
	default:
		return r, func() {}, nil
	}
}

func untar(tr *tar.Reader, dest string) error {
	root, err := filepath.Abs(dest)
	if err != nil {
		return err
	}
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading tar entry: %w", err)
		}

		target := filepath.Join(root, filepath.FromSlash(hdr.Name))
		if !within(root, target) {
			return fmt.Errorf("tar entry %q escapes destination", hdr.Name)
		}
		if err := checkNoSymlinkParents(root, target); err != nil {
			return fmt.Errorf("tar entry %q: %w", hdr.Name, err)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeFile(target, tr, hdr.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if filepath.IsAbs(hdr.Linkname) || !within(root, filepath.Join(filepath.Dir(target), hdr.Linkname)) {
				return fmt.Errorf("tar entry %q links outside destination: %s", hdr.Name, hdr.Linkname)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return err
			}
		}
	}
}

// within reports whether p is root or below it.
func within(root, p string) bool {
	return p == root || strings.HasPrefix(p, root+string(filepath.Separator))
}

// checkNoSymlinkParents fails when any existing path component between root
// and target, target included, is a symlink.
func checkNoSymlinkParents(root, target string) error {
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." {
		return err
	}
	cur := root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		cur = filepath.Join(cur, part)
		info, err := os.Lstat(cur)
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		if info.Mode()&fs.ModeSymlink != 0 {
			return fmt.Errorf("refusing to write through symlink %s", cur)
		}
	}
	return nil
}

func writeFile(target string, r io.Reader, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm) //nolint:gosec // target is confined to dest
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil { //nolint:gosec // archives come from the packager's own sources
		_ = f.Close()
		return err
	}
	return f.Close()
}

package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// BaseName is the file name of the vendor tarball before its extension.
const BaseName = "vendor"

// Path returns the tarball location in outdir for the given compression.
func Path(outdir string, c Compression) (string, error) {
	ext, err := c.Extension()
	if err != nil {
		return "", err
	}
	return filepath.Join(outdir, BaseName+"."+ext), nil
}

// Compress archives paths, resolved against prjdir and named relative to
// it, into outdir/vendor.<ext>. An existing tarball is replaced.
//
// The lockfile is always taken from the project root, even for workspace
// members: cargo vendor runs at the root and members cannot produce their
// own lockfile.
func Compress(outdir, prjdir string, paths []string, c Compression) (string, error) {
	log.Info("📦 Archiving vendored dependencies...")

	out, err := Path(outdir, c)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(out); err == nil {
		log.Warn("🔦 Compressed tarball for vendor exists AND will be replaced.", "replacing", out)
	}

	switch c {
	case Gz:
		err = targz(out, prjdir, paths)
	case Xz:
		err = tarxz(out, prjdir, paths)
	case Zst:
		err = tarzst(out, prjdir, paths)
	}
	if err != nil {
		return "", err
	}
	log.Debug("Compressed", "path", out)
	log.Debug(fmt.Sprintf("Finished creating %s compressed tarball", c))
	return out, nil
}

func targz(out, prjdir string, paths []string) error {
	return writeArchive(out, prjdir, paths, func(w io.Writer) (io.WriteCloser, error) {
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	})
}

func tarxz(out, prjdir string, paths []string) error {
	return writeArchive(out, prjdir, paths, func(w io.Writer) (io.WriteCloser, error) {
		return xz.NewWriter(w)
	})
}

func tarzst(out, prjdir string, paths []string) error {
	return writeArchive(out, prjdir, paths, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	})
}

// writeArchive streams a tar of paths through the codec returned by wrap.
// The tarball is built in a temporary file next to out and renamed into
// place on success, so a failed run leaves any previous tarball intact.
func writeArchive(out, prjdir string, paths []string, wrap func(io.Writer) (io.WriteCloser, error)) (err error) {
	f, err := os.CreateTemp(filepath.Dir(out), "."+filepath.Base(out)+".*")
	if err != nil {
		return fmt.Errorf("creating tarball: %w", err)
	}
	tmp := f.Name()
	closed := false
	defer func() {
		if !closed {
			_ = f.Close()
		}
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()

	if err := writeTar(f, prjdir, paths, wrap); err != nil {
		return err
	}
	closed = true
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing tarball: %w", err)
	}
	if err := os.Chmod(tmp, 0644); err != nil { //nolint:gosec // tarball is a build input
		return fmt.Errorf("setting tarball mode: %w", err)
	}
	if err := os.Rename(tmp, out); err != nil {
		return fmt.Errorf("moving tarball into place: %w", err)
	}
	return nil
}

func writeTar(f io.Writer, prjdir string, paths []string, wrap func(io.Writer) (io.WriteCloser, error)) error {
	cw, err := wrap(f)
	if err != nil {
		return fmt.Errorf("initializing compressor: %w", err)
	}
	tw := tar.NewWriter(cw)

	for _, p := range paths {
		if err := addPath(tw, prjdir, p); err != nil {
			_ = cw.Close()
			return err
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("finishing tar stream: %w", err)
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("finishing compressed stream: %w", err)
	}
	return nil
}

// addPath writes p and, for directories, everything below it in lexical order.
func addPath(tw *tar.Writer, prjdir, p string) error {
	src := p
	if !filepath.IsAbs(src) {
		src = filepath.Join(prjdir, p)
	}
	if _, err := os.Lstat(src); err != nil {
		return fmt.Errorf("archiving %s: %w", p, err)
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(prjdir, path)
		if err != nil {
			return err
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return fmt.Errorf("archiving %s: path is outside project directory %s", path, prjdir)
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		return writeEntry(tw, path, filepath.ToSlash(rel), info)
	})
}

func writeEntry(tw *tar.Writer, path, name string, info fs.FileInfo) error {
	link := ""
	if info.Mode()&fs.ModeSymlink != 0 {
		target, err := os.Readlink(path)
		if err != nil {
			return fmt.Errorf("reading symlink %s: %w", path, err)
		}
		link = target
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return fmt.Errorf("building header for %s: %w", path, err)
	}
	hdr.Name = name
	if info.IsDir() {
		hdr.Name += "/"
	}
	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "", ""

	if err := tw.WriteHeader(hdr); err != nil {
		return fmt.Errorf("writing header for %s: %w", name, err)
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(path) //nolint:gosec // path comes from walking the archive inputs
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if _, err := io.Copy(tw, f); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

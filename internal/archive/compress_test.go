package archive

import (
	"archive/tar"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbkclanna/cargovendor/internal/testutil"
)

// snapshot returns every regular file under root keyed by slash path.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	files := map[string]string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return files
}

func vendoredProject(t *testing.T) string {
	t.Helper()
	dir := testutil.CreateProject(t, testutil.PackageManifest)
	testutil.CreateVendorTree(t, dir)
	return dir
}

func TestCompress_roundTrip(t *testing.T) {
	for _, c := range Compressions {
		t.Run(string(c), func(t *testing.T) {
			prj := vendoredProject(t)
			outdir := t.TempDir()

			out, err := Compress(outdir, prj, []string{"vendor", "Cargo.lock"}, c)
			require.NoError(t, err)

			ext, _ := c.Extension()
			assert.Equal(t, filepath.Join(outdir, "vendor."+ext), out)
			assert.True(t, strings.HasSuffix(out, ".tar."+string(c)))

			dest := t.TempDir()
			require.NoError(t, Extract(out, dest))

			want := snapshot(t, filepath.Join(prj, "vendor"))
			got := snapshot(t, filepath.Join(dest, "vendor"))
			assert.Equal(t, want, got)

			lockData, err := os.ReadFile(filepath.Join(dest, "Cargo.lock"))
			require.NoError(t, err)
			assert.Equal(t, testutil.Lockfile, string(lockData))

			_, err = os.Stat(filepath.Join(dest, "src"))
			assert.True(t, os.IsNotExist(err), "only the requested paths should be archived")
		})
	}
}

func TestCompress_overwritesExisting(t *testing.T) {
	prj := vendoredProject(t)
	outdir := t.TempDir()

	first, err := Compress(outdir, prj, []string{"vendor"}, Gz)
	require.NoError(t, err)

	testutil.WriteFile(t, prj, "vendor/serde/src/lib.rs", "pub trait Deserialize {}\n")
	second, err := Compress(outdir, prj, []string{"vendor"}, Gz)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	dest := t.TempDir()
	require.NoError(t, Extract(second, dest))
	data, err := os.ReadFile(filepath.Join(dest, "vendor", "serde", "src", "lib.rs"))
	require.NoError(t, err)
	assert.Equal(t, "pub trait Deserialize {}\n", string(data))
}

func TestCompress_missingPath(t *testing.T) {
	prj := testutil.CreateProject(t, testutil.PackageManifest)
	outdir := t.TempDir()

	_, err := Compress(outdir, prj, []string{"vendor"}, Zst)
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(outdir, "vendor.tar.zst"))
	assert.True(t, os.IsNotExist(statErr), "partial tarball should be removed")
}

func TestCompress_outsideProject(t *testing.T) {
	prj := vendoredProject(t)
	other := testutil.WriteFile(t, t.TempDir(), "stray.txt", "x")

	_, err := Compress(t.TempDir(), prj, []string{other}, Xz)
	assert.Error(t, err)
}

func TestCompress_unknownCompression(t *testing.T) {
	prj := vendoredProject(t)
	_, err := Compress(t.TempDir(), prj, []string{"vendor"}, Compression("bz2"))
	assert.ErrorIs(t, err, ErrUnknownCompression)
}

func TestExtract_unknownFormat(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "src.zip", "PK")
	assert.ErrorIs(t, Extract(path, t.TempDir()), ErrUnknownCompression)
}

func TestCompress_failureKeepsPreviousTarball(t *testing.T) {
	prj := vendoredProject(t)
	outdir := t.TempDir()

	out, err := Compress(outdir, prj, []string{"vendor"}, Zst)
	require.NoError(t, err)
	before, err := os.ReadFile(out)
	require.NoError(t, err)

	_, err = Compress(outdir, prj, []string{"vendor", "missing.lock"}, Zst)
	require.Error(t, err)

	after, err := os.ReadFile(out)
	require.NoError(t, err, "previous tarball should survive a failed run")
	assert.Equal(t, before, after)

	entries, err := os.ReadDir(outdir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files should be cleaned up")
}

type tarMember struct {
	name string
	link string
	body string
}

// buildTar builds an uncompressed tarball from members in order.
func buildTar(t *testing.T, members ...tarMember) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "src.tar")
	f, err := os.Create(path)
	require.NoError(t, err)
	tw := tar.NewWriter(f)
	for _, m := range members {
		hdr := &tar.Header{Name: m.name, Mode: 0644, Typeflag: tar.TypeReg, Size: int64(len(m.body))}
		if m.link != "" {
			hdr = &tar.Header{Name: m.name, Mode: 0777, Typeflag: tar.TypeSymlink, Linkname: m.link}
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if m.link == "" {
			_, err := tw.Write([]byte(m.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestExtract_rejectsSymlinkEscape(t *testing.T) {
	outside := t.TempDir()
	tests := []struct {
		name    string
		members []tarMember
	}{
		{"absolute link", []tarMember{
			{name: "pkg/link", link: outside},
			{name: "pkg/link/x", body: "pwned"},
		}},
		{"relative link", []tarMember{
			{name: "pkg/link", link: "../../" + filepath.Base(outside)},
			{name: "pkg/link/x", body: "pwned"},
		}},
		{"traversal", []tarMember{
			{name: "../x", body: "pwned"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest := filepath.Join(filepath.Dir(outside), "dest-"+strings.ReplaceAll(tt.name, " ", "-"))
			require.Error(t, Extract(buildTar(t, tt.members...), dest))

			_, err := os.Stat(filepath.Join(outside, "x"))
			assert.True(t, os.IsNotExist(err), "nothing may be written outside the destination")
		})
	}
}

func TestExtract_refusesWritingThroughSymlink(t *testing.T) {
	dest := t.TempDir()
	tarball := buildTar(t,
		tarMember{name: "pkg/sub/keep.txt", body: "kept"},
		tarMember{name: "pkg/alias", link: "sub"},
		tarMember{name: "pkg/alias/keep.txt", body: "overwritten"},
	)

	require.Error(t, Extract(tarball, dest))

	data, err := os.ReadFile(filepath.Join(dest, "pkg", "sub", "keep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "kept", string(data))
}

func TestExtract_keepsInternalSymlinks(t *testing.T) {
	dest := t.TempDir()
	tarball := buildTar(t,
		tarMember{name: "pkg/LICENSE-MIT", body: "MIT"},
		tarMember{name: "pkg/LICENSE", link: "LICENSE-MIT"},
	)

	require.NoError(t, Extract(tarball, dest))

	link, err := os.Readlink(filepath.Join(dest, "pkg", "LICENSE"))
	require.NoError(t, err)
	assert.Equal(t, "LICENSE-MIT", link)
}

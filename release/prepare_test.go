package release

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type member struct {
	name, body string
	dir        bool
}

func tarGz(t *testing.T, members ...member) []byte {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, m := range members {
		hdr := &tar.Header{Name: m.name, Mode: 0644, Size: int64(len(m.body)), Typeflag: tar.TypeReg}
		if m.dir {
			hdr = &tar.Header{Name: m.name, Mode: 0755, Typeflag: tar.TypeDir}
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !m.dir {
			_, err := tw.Write([]byte(m.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func zipped(t *testing.T, members ...member) []byte {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range members {
		w, err := zw.Create(m.name)
		require.NoError(t, err)
		_, err = w.Write([]byte(m.body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func prepareFixture(t *testing.T, name string, data []byte) (afero.Fs, string) {
	fs := afero.NewMemMapFs()
	p := "/dl/" + name
	require.NoError(t, afero.WriteFile(fs, p, data, 0644))
	return fs, p
}

func TestPrepare(t *testing.T) {
	t.Run("should extract the codex member of a tarball", func(t *testing.T) {
		name := "codex-aarch64-unknown-linux-musl.tar.gz"
		fs, p := prepareFixture(t, name, tarGz(t,
			member{name: "README.md", body: "docs"},
			member{name: "dist", dir: true},
			member{name: "dist/codex-aarch64-unknown-linux-musl", body: "ELF"},
		))

		bin, err := Prepare(fs, "/dl", p, name)

		require.NoError(t, err)
		assert.Equal(t, "/dl/codex", bin)
		b, _ := afero.ReadFile(fs, bin)
		assert.Equal(t, "ELF", string(b))
		fi, _ := fs.Stat(bin)
		assert.Equal(t, 0111, int(fi.Mode().Perm()&0111))
		exists, _ := afero.Exists(fs, p)
		assert.False(t, exists, "archive should be removed")
	})

	t.Run("should fall back to the first file", func(t *testing.T) {
		fs, p := prepareFixture(t, "tool.tgz", tarGz(t,
			member{name: "bin/tool", body: "first"},
			member{name: "bin/other", body: "second"},
		))

		bin, err := Prepare(fs, "/dl", p, "tool.tgz")

		require.NoError(t, err)
		b, _ := afero.ReadFile(fs, bin)
		assert.Equal(t, "first", string(b))
	})

	t.Run("should fail on an archive without files", func(t *testing.T) {
		fs, p := prepareFixture(t, "empty.tar.gz", tarGz(t, member{name: "dist", dir: true}))

		_, err := Prepare(fs, "/dl", p, "empty.tar.gz")

		assert.EqualError(t, err, "failed to extract empty.tar.gz: archive does not contain any files")
	})

	t.Run("should refuse path traversal", func(t *testing.T) {
		fs, p := prepareFixture(t, "evil.tar.gz", tarGz(t, member{name: "../../codex", body: "x"}))

		_, err := Prepare(fs, "/dl", p, "evil.tar.gz")

		assert.ErrorContains(t, err, "illegal path")
		exists, _ := afero.Exists(fs, "/dl/codex")
		assert.False(t, exists)
	})

	t.Run("should fail on a corrupt archive", func(t *testing.T) {
		fs, p := prepareFixture(t, "bad.tar.gz", []byte("not gzip"))

		_, err := Prepare(fs, "/dl", p, "bad.tar.gz")

		assert.ErrorContains(t, err, "failed to extract bad.tar.gz")
	})

	t.Run("should extract zip archives", func(t *testing.T) {
		fs, p := prepareFixture(t, "codex.zip", zipped(t,
			member{name: "LICENSE", body: "mit"},
			member{name: "codex.exe", body: "PE"},
		))

		bin, err := Prepare(fs, "/dl", p, "codex.zip")

		require.NoError(t, err)
		b, _ := afero.ReadFile(fs, bin)
		assert.Equal(t, "PE", string(b))
	})

	t.Run("should reject zstd assets", func(t *testing.T) {
		fs, p := prepareFixture(t, "codex.zst", []byte("zstd"))

		_, err := Prepare(fs, "/dl", p, "codex.zst")

		assert.EqualError(t, err, `unsupported asset compression for "codex.zst"; use the .tar.gz asset`)
	})

	t.Run("should use plain files as is", func(t *testing.T) {
		fs, p := prepareFixture(t, "codex-linux", []byte("ELF"))

		bin, err := Prepare(fs, "/dl", p, "codex-linux")

		require.NoError(t, err)
		assert.Equal(t, p, bin)
		fi, _ := fs.Stat(bin)
		assert.Equal(t, "-rwxr-xr-x", fi.Mode().String())
	})
}

package release

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// BinaryName is the file Prepare leaves in its directory for archives.
const BinaryName = "codex"

// Prepare turns a downloaded asset into an executable in dir. Archives are
// unpacked to dir/codex and removed; plain files are used as is.
func Prepare(fs afero.Fs, dir, assetPath, assetName string) (string, error) {
	lowered := strings.ToLower(assetName)

	var extract func(afero.Fs, string, io.Writer) error
	switch {
	case strings.HasSuffix(lowered, ".tar.gz"), strings.HasSuffix(lowered, ".tgz"):
		extract = extractTarGz
	case strings.HasSuffix(lowered, ".zip"):
		extract = extractZip
	case strings.HasSuffix(lowered, ".zst"):
		return "", fmt.Errorf("unsupported asset compression for %q; use the .tar.gz asset", assetName)
	default:
		return assetPath, makeExecutable(fs, assetPath)
	}

	target := filepath.Join(dir, BinaryName)
	if target == assetPath {
		return "", fmt.Errorf("failed to extract %s: archive is named %s", assetName, BinaryName)
	}
	f, err := fs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to extract %s: %v", assetName, err)
	}
	err = extract(fs, assetPath, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fs.Remove(target)
		return "", fmt.Errorf("failed to extract %s: %v", assetName, err)
	}

	fs.Remove(assetPath)
	return target, makeExecutable(fs, target)
}

// isBinary matches the member names release archives use for the CLI.
func isBinary(name string) bool {
	base := path.Base(name)
	return base == "codex" || base == "codex.exe" || strings.HasPrefix(base, "codex-")
}

// safeMember rejects absolute names and names escaping the archive root.
func safeMember(name string) error {
	clean := path.Clean(strings.ReplaceAll(name, `\`, "/"))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("illegal path %q in archive", name)
	}
	return nil
}

// pickMember returns the binary among names, else the first one.
func pickMember(names []string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("archive does not contain any files")
	}
	for _, n := range names {
		if isBinary(n) {
			return n, nil
		}
	}
	return names[0], nil
}

func openTarGz(fs afero.Fs, p string) (*tar.Reader, func(), error) {
	f, err := fs.Open(p)
	if err != nil {
		return nil, nil, err
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return tar.NewReader(gz), func() { gz.Close(); f.Close() }, nil
}

func extractTarGz(fs afero.Fs, p string, w io.Writer) error {
	tr, done, err := openTarGz(fs, p)
	if err != nil {
		return err
	}
	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if errors.Is(err, tar.ErrInsecurePath) {
			done()
			return fmt.Errorf("illegal path %q in archive", hdr.Name)
		}
		if err != nil {
			done()
			return err
		}
		if hdr.Typeflag == tar.TypeReg {
			names = append(names, hdr.Name)
		}
	}
	done()

	member, err := pickMember(names)
	if err != nil {
		return err
	}
	if err := safeMember(member); err != nil {
		return err
	}

	tr, done, err = openTarGz(fs, p)
	if err != nil {
		return err
	}
	defer done()
	for {
		hdr, err := tr.Next()
		if err != nil && !errors.Is(err, tar.ErrInsecurePath) {
			return err
		}
		if hdr.Typeflag == tar.TypeReg && hdr.Name == member {
			_, err = io.Copy(w, tr)
			return err
		}
	}
}

func extractZip(fs afero.Fs, p string, w io.Writer) error {
	f, err := fs.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return err
	}

	zr, err := zip.NewReader(f, fi.Size())
	if errors.Is(err, zip.ErrInsecurePath) {
		return fmt.Errorf("illegal path in archive: %v", err)
	}
	if err != nil {
		return err
	}

	var names []string
	files := map[string]*zip.File{}
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		names = append(names, zf.Name)
		files[zf.Name] = zf
	}
	member, err := pickMember(names)
	if err != nil {
		return err
	}
	if err := safeMember(member); err != nil {
		return err
	}

	rc, err := files[member].Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	_, err = io.Copy(w, rc)
	return err
}

func makeExecutable(fs afero.Fs, p string) error {
	fi, err := fs.Stat(p)
	if err != nil {
		return err
	}
	return fs.Chmod(p, fi.Mode()|0111)
}

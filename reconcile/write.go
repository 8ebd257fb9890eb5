package reconcile

import (
	"os"
	"path/filepath"

	"github.com/fastkernel/kforge/kconfig"
	"github.com/spf13/afero"
)

// writeFile replaces path with data through a synced temp file in the same
// directory and a rename, so readers see either the old or the new file.
func writeFile(fs afero.Fs, path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-")
	if err != nil {
		return &kconfig.WriteError{Path: path, Err: err}
	}
	name := tmp.Name()
	closed := false

	defer func() {
		if err == nil {
			return
		}
		if !closed {
			tmp.Close()
		}
		fs.Remove(name)
		err = &kconfig.WriteError{Path: path, Err: err}
	}()

	if _, err = tmp.Write(data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	closed = true
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = fs.Chmod(name, perm); err != nil {
		return err
	}
	return fs.Rename(name, path)
}

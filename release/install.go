package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fastkernel/kforge/constants"
	"github.com/fastkernel/kforge/engine"
	"github.com/fastkernel/kforge/log"
	"github.com/fastkernel/kforge/tools"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
)

// Installed describes a completed install.
type Installed struct {
	Repo      string `json:"repo"`
	Tag       string `json:"tag"`
	Asset     string `json:"asset"`
	Container string `json:"container"`
	DestPath  string `json:"dest_path"`
	Size      int64  `json:"size"`
}

// Installer copies the latest release binary into a running container.
type Installer struct {
	Client   Client
	Engine   engine.Engine
	Fs       afero.Fs
	Repo     string
	Asset    string
	DestPath string

	// Progress receives the download bar. Nil hides it.
	Progress io.Writer
}

func (i *Installer) fs() afero.Fs {
	if i.Fs == nil {
		return afero.NewOsFs()
	}
	return i.Fs
}

func (i *Installer) defaults() (repo, asset, dest string) {
	repo, asset, dest = i.Repo, i.Asset, i.DestPath
	if repo == "" {
		repo = constants.CodexRepo
	}
	if asset == "" {
		asset = constants.CodexAsset
	}
	if dest == "" {
		dest = constants.CodexDestPath
	}
	return
}

// Install resolves the latest asset, downloads and prepares it in a temp
// directory and copies it to the container.
func (i *Installer) Install(ctx context.Context, container string) (*Installed, error) {
	repo, assetName, dest := i.defaults()
	fs := i.fs()

	if a, ok := i.Client.(Authenticator); ok {
		if err := a.EnsureAuth(ctx); err != nil {
			return nil, err
		}
	}

	rel, err := i.Client.Latest(ctx, repo)
	if err != nil {
		return nil, err
	}
	asset, err := rel.Asset(assetName)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect latest release for %s: %v", repo, err)
	}
	if asset.ID == 0 {
		return nil, fmt.Errorf("latest release asset missing id: %s", asset.Name)
	}

	tmp, err := afero.TempDir(fs, "", "codex-download-")
	if err != nil {
		return nil, err
	}
	defer fs.RemoveAll(tmp)

	assetPath := filepath.Join(tmp, assetName)
	if err := i.download(ctx, fs, repo, rel.TagName, asset, assetPath); err != nil {
		return nil, err
	}

	binary, err := Prepare(fs, tmp, assetPath, assetName)
	if err != nil {
		return nil, err
	}

	f, err := fs.Open(binary)
	if err != nil {
		return nil, fmt.Errorf("prepared binary is not readable: %s", binary)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if fi.Size() == 0 {
		return nil, fmt.Errorf("prepared binary is empty: %s", binary)
	}

	tag := rel.TagName
	if tag == "" {
		tag = "<unknown>"
	}
	log.Step(fmt.Sprintf("Copying %s from release %s into %s…", assetName, tag, container))
	if err := i.Engine.CopyFile(ctx, container, f, fi.Size(), dest); err != nil {
		return nil, describe(err, "failed to copy codex binary to container "+container)
	}

	return &Installed{
		Repo:      repo,
		Tag:       rel.TagName,
		Asset:     assetName,
		Container: container,
		DestPath:  dest,
		Size:      fi.Size(),
	}, nil
}

func (i *Installer) download(ctx context.Context, fs afero.Fs, repo, tag string, asset Asset, dest string) error {
	f, err := fs.Create(dest)
	if err != nil {
		return err
	}
	defer f.Close()

	var w io.Writer = f
	if i.Progress != nil {
		size := asset.Size
		if size <= 0 {
			size = -1
		}
		bar := progressbar.NewOptions64(size,
			progressbar.OptionSetWriter(i.Progress),
			progressbar.OptionSetDescription("downloading "+asset.Name),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(10),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowCount(),
			progressbar.OptionOnCompletion(func() { fmt.Fprint(i.Progress, "\n") }),
		)
		defer bar.Finish()
		w = io.MultiWriter(f, bar)
	}

	if err := i.Client.Download(ctx, repo, asset, w); err != nil {
		return describe(err, fmt.Sprintf("failed to download %s from release %s", asset.Name, tag))
	}
	return f.Close()
}

// describe formats command failures with their output.
func describe(err error, prefix string) error {
	var execErr *tools.ExecError
	if errors.As(err, &execErr) {
		return &InstallError{Message: execErr.Describe(prefix), ExitCode: execErr.ExitCode, Err: err}
	}
	return &InstallError{Message: prefix + ": " + err.Error(), ExitCode: 1, Err: err}
}

// InstallError carries the exit code of the failed step.
type InstallError struct {
	Message  string
	ExitCode int
	Err      error
}

func (e *InstallError) Error() string { return e.Message }

func (e *InstallError) Unwrap() error { return e.Err }

package build

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fastkernel/kforge/constants"
	"github.com/fastkernel/kforge/engine"
	"github.com/fastkernel/kforge/log"
	"github.com/fastkernel/kforge/types"
	"github.com/fastkernel/kforge/util"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Artifact is a file left in the output directory by the export image.
type Artifact struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Mode string `json:"mode"`
}

// Builder builds the kernel image and exports its artifacts.
type Builder struct {
	Engine engine.Engine
	Host   Host
	Fs     afero.Fs
	Config types.KernelConfig

	// Out receives build progress and the artifact table. Nil discards it.
	Out io.Writer
}

// ExportImage is the tag of the export stage image.
func (b *Builder) ExportImage() string {
	tag := b.Config.ImageTag
	if tag == "" {
		tag = constants.ImageTag
	}
	return tag + ":" + constants.ExportTarget
}

func (b *Builder) out() io.Writer {
	if b.Out == nil {
		return io.Discard
	}
	return b.Out
}

// Run starts the engine, validates its resources, builds the export stage
// and runs it with the output directory bind mounted.
func (b *Builder) Run(ctx context.Context) ([]Artifact, error) {
	if err := b.Engine.SystemStart(ctx); err != nil {
		return nil, err
	}

	if !b.Config.IgnoreResourceCheck {
		if err := CheckResources(ctx, b.Engine, b.Host); err != nil {
			return nil, err
		}
	}

	branch := b.Config.Branch
	if branch == "" {
		branch = constants.DefaultKernelBranch
	}
	image := b.ExportImage()

	log.Step("Building image (kernel " + branch + ")…")
	err := b.Engine.Build(ctx, engine.BuildSpec{
		ContextDir: b.Config.ContextDir,
		Target:     constants.ExportTarget,
		Tag:        image,
		BuildArgs:  map[string]string{"KERNEL_BRANCH": branch},
		Output:     b.out(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "kernel image build failed")
	}

	outDir, err := expandPath(b.Config.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := b.Fs.MkdirAll(outDir, 0755); err != nil {
		return nil, errors.Wrapf(err, "create %s", outDir)
	}

	log.Step("Exporting artifacts to " + outDir + " via bind mount…")
	spinner := util.NewProgressSpinner(b.out())
	err = spinner.Do(func() error {
		return b.Engine.Run(ctx, engine.RunSpec{
			Image:  image,
			Mounts: []engine.Mount{{Host: outDir, Container: constants.ExportMount}},
		})
	}, "Running ", image)
	if err != nil {
		return nil, errors.Wrap(err, "artifact export failed")
	}

	artifacts, err := b.Artifacts(outDir)
	if err != nil {
		return nil, err
	}
	log.Step("Done. Artifacts:")
	RenderArtifacts(b.out(), artifacts)
	return artifacts, nil
}

// Artifacts lists the regular files in dir.
func (b *Builder) Artifacts(dir string) ([]Artifact, error) {
	infos, err := afero.ReadDir(b.Fs, dir)
	if err != nil {
		return nil, errors.Wrapf(err, "list %s", dir)
	}

	var out []Artifact
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		out = append(out, Artifact{Name: fi.Name(), Size: fi.Size(), Mode: fi.Mode().String()})
	}
	return out, nil
}

// RenderArtifacts prints artifacts as a table.
func RenderArtifacts(w io.Writer, artifacts []Artifact) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Size", "Mode"})
	table.SetHeaderColor(
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor},
		tablewriter.Colors{tablewriter.Bold, tablewriter.FgCyanColor})

	for _, a := range artifacts {
		table.Append([]string{a.Name, humanize.IBytes(uint64(a.Size)), a.Mode})
	}
	table.Render()
}

// expandPath resolves ~ and makes p absolute, as bind mounts need.
func expandPath(p string) (string, error) {
	if p == "" {
		p = constants.DefaultOutputDir
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return filepath.Abs(p)
}

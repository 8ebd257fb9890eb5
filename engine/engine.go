package engine

//go:generate mockgen -source=$GOFILE -destination=$PWD/mocks/${GOFILE} -package=mocks

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/fastkernel/kforge/constants"
	"github.com/fastkernel/kforge/tools"
)

// Resources is what the engine has been allocated.
type Resources struct {
	CPUs   int
	Memory int64
}

// BuildSpec describes an image build.
type BuildSpec struct {
	ContextDir string
	Target     string
	Tag        string
	BuildArgs  map[string]string

	// Output receives build progress. Nil discards it.
	Output io.Writer
}

// Mount binds a host directory into a container.
type Mount struct {
	Host      string
	Container string
}

// RunSpec describes a one-shot container run. The container is removed
// once it exits.
type RunSpec struct {
	Image  string
	Mounts []Mount

	// Output receives the container's stdout. Nil discards it.
	Output io.Writer
}

// Engine is a container runtime able to build and run images.
type Engine interface {
	// SystemStart makes sure the runtime services are up.
	SystemStart(ctx context.Context) error
	Resources(ctx context.Context) (Resources, error)
	Build(ctx context.Context, spec BuildSpec) error
	Run(ctx context.Context, spec RunSpec) error
	// CopyFile writes src to dest inside a running container and makes it
	// executable.
	CopyFile(ctx context.Context, container string, src io.Reader, size int64, dest string) error
	// List writes the running containers to w.
	List(ctx context.Context, w io.Writer) error
}

// New returns the engine called name. runner is used by engines driving a
// CLI.
func New(name string, runner tools.Runner) (Engine, error) {
	switch name {
	case "", constants.EngineContainer:
		return NewCLIEngine(runner), nil
	case constants.EngineDocker:
		return NewDockerEngine()
	}
	return nil, fmt.Errorf("unknown engine %q, expected %s or %s", name, constants.EngineContainer, constants.EngineDocker)
}

func sortedArgs(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+m[k])
	}
	return out
}

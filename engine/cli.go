package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fastkernel/kforge/log"
	"github.com/fastkernel/kforge/tools"
	"github.com/pkg/errors"
)

const containerBin = "container"

// CLIEngine drives the `container` command line tool.
type CLIEngine struct {
	runner tools.Runner
}

// NewCLIEngine returns a CLIEngine running commands through runner.
func NewCLIEngine(runner tools.Runner) *CLIEngine {
	if runner == nil {
		runner = tools.NewExecRunner()
	}
	return &CLIEngine{runner: runner}
}

func (e *CLIEngine) run(ctx context.Context, c tools.Command) (tools.Result, error) {
	log.Debugf("running %s", c)
	return e.runner.Run(ctx, c)
}

// SystemStart runs `container system start`. Failures are ignored, the
// services may already be running.
func (e *CLIEngine) SystemStart(ctx context.Context) error {
	c := tools.NewCommand(containerBin, "system", "start")
	c.Stdout = io.Discard
	if _, err := e.run(ctx, c); err != nil {
		if tools.IsNotFound(err) {
			return errors.Wrap(err, "the container CLI is not installed or not on PATH")
		}
		log.Debugf("container system start: %v", err)
	}
	return nil
}

type statusDoc struct {
	Configuration struct {
		Resources struct {
			CPUs          *int   `json:"cpus"`
			MemoryInBytes *int64 `json:"memoryInBytes"`
		} `json:"resources"`
	} `json:"configuration"`
}

// Resources reads the builder allocation from `container system status`,
// falling back to `container builder status`.
func (e *CLIEngine) Resources(ctx context.Context) (Resources, error) {
	queries := [][]string{
		{"system", "status", "--json"},
		{"builder", "status", "--json"},
	}

	var lastErr error
	for i, args := range queries {
		res, err := e.run(ctx, tools.NewCommand(containerBin, args...))
		if err != nil {
			lastErr = err
			continue
		}

		var doc statusDoc
		if err := json.Unmarshal(res.Stdout, &doc); err != nil {
			lastErr = errors.Wrapf(err, "container %s", strings.Join(args, " "))
			continue
		}
		r := doc.Configuration.Resources
		if r.CPUs == nil || r.MemoryInBytes == nil {
			lastErr = fmt.Errorf("container %s: no resource configuration", strings.Join(args, " "))
			continue
		}
		if i > 0 {
			log.Step("Falling back to 'container builder status --json' for resource info")
		}
		return Resources{CPUs: *r.CPUs, Memory: *r.MemoryInBytes}, nil
	}
	return Resources{}, errors.Wrap(lastErr, "unable to determine builder resources")
}

// Build runs `container build`.
func (e *CLIEngine) Build(ctx context.Context, spec BuildSpec) error {
	args := []string{"build"}
	for _, a := range sortedArgs(spec.BuildArgs) {
		args = append(args, "--build-arg", a)
	}
	if spec.Target != "" {
		args = append(args, "--target", spec.Target)
	}
	args = append(args, "-t", spec.Tag, contextDir(spec.ContextDir))

	c := tools.NewCommand(containerBin, args...)
	c.Stdout = writerOrDiscard(spec.Output)
	c.Stderr = os.Stderr
	_, err := e.run(ctx, c)
	return err
}

// Run runs the image with `container run --rm`.
func (e *CLIEngine) Run(ctx context.Context, spec RunSpec) error {
	args := []string{"run", "--rm"}
	for _, m := range spec.Mounts {
		args = append(args, "-v", m.Host+":"+m.Container)
	}
	args = append(args, spec.Image)

	c := tools.NewCommand(containerBin, args...)
	c.Stdout = writerOrDiscard(spec.Output)
	_, err := e.run(ctx, c)
	return err
}

// CopyFile streams src into `container exec -i` and marks dest executable.
func (e *CLIEngine) CopyFile(ctx context.Context, container string, src io.Reader, size int64, dest string) error {
	q := ShellQuote(dest)
	c := tools.NewCommand(containerBin, "exec", "-i", container, "sh", "-c",
		fmt.Sprintf("cat > %s && chmod +x %s", q, q))
	c.Stdin = src
	_, err := e.run(ctx, c)
	return err
}

// List streams `container ls` to w.
func (e *CLIEngine) List(ctx context.Context, w io.Writer) error {
	c := tools.NewCommand(containerBin, "ls")
	c.Stdout = w
	_, err := e.run(ctx, c)
	if tools.IsNotFound(err) {
		return errors.New("the container CLI is not installed or not on PATH")
	}
	return err
}

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9@%+=:,./_-]+$`)

// ShellQuote quotes s for a POSIX shell.
func ShellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if shellSafe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}

func contextDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

func writerOrDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}

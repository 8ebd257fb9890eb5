package tools

//go:generate mockgen -source=$GOFILE -destination=$PWD/mocks/${GOFILE} -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Command is a single subprocess invocation.
type Command struct {
	Name string
	Args []string

	// Stdin feeds the process when set.
	Stdin io.Reader
	// Stdout streams output instead of capturing it when set.
	Stdout io.Writer
	// Stderr streams errors; stderr is captured for ExecError either way.
	Stderr io.Writer
}

// NewCommand returns a Command for name and args.
func NewCommand(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Result is what a finished command left behind. Stdout is empty when the
// command streamed to a writer.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Runner runs external commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecError describes a command that could not start or exited non-zero.
type ExecError struct {
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *ExecError) Error() string {
	return e.Describe("command " + strings.Join(e.Args, " ") + " failed")
}

func (e *ExecError) Unwrap() error { return e.Err }

// Describe formats "<prefix> (exit code N)." followed by stderr, or stdout
// when stderr is empty.
func (e *ExecError) Describe(prefix string) string {
	msg := fmt.Sprintf("%s (exit code %d).", prefix, e.ExitCode)
	details := strings.TrimSpace(e.Stderr)
	if details == "" {
		details = strings.TrimSpace(e.Stdout)
	}
	if details == "" && e.ExitCode < 0 && e.Err != nil {
		details = e.Err.Error()
	}
	if details != "" {
		msg += "\n" + details
	}
	return msg
}

// IsNotFound reports whether err means the executable is not on PATH.
func IsNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound)
}

// ExecRunner runs commands on the host with os/exec.
type ExecRunner struct{}

// NewExecRunner returns an ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes cmd and waits for it.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Stdin = c.Stdin

	var stdout, stderr bytes.Buffer
	if c.Stdout != nil {
		cmd.Stdout = c.Stdout
	} else {
		cmd.Stdout = &stdout
	}
	if c.Stderr != nil {
		cmd.Stderr = io.MultiWriter(c.Stderr, &stderr)
	} else {
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	res := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
	} else {
		res.ExitCode = -1
	}
	return res, &ExecError{
		Args:     append([]string{c.Name}, c.Args...),
		ExitCode: res.ExitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Err:      err,
	}
}

// Output runs cmd and returns trimmed stdout.
func Output(ctx context.Context, r Runner, name string, args ...string) (string, error) {
	res, err := r.Run(ctx, NewCommand(name, args...))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(res.Stdout)), nil
}

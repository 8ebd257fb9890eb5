package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fastkernel/kforge/constants"
	"github.com/fastkernel/kforge/log"
	"github.com/fastkernel/kforge/release"
	"github.com/go-errors/errors"
)

// ExitError ends the process with Code. A nil Err exits without a message,
// the command has already reported the outcome.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Execute runs the root command and returns the process exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := GetRootCommand().ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	return reportError(os.Stderr, err)
}

// reportError prints err and picks the exit code it maps to.
func reportError(w io.Writer, err error) int {
	var exit *ExitError
	if stderrors.As(err, &exit) && exit.Err == nil {
		return exit.Code
	}

	fmt.Fprintln(w, fmt.Sprintf(constants.ErrorColor, "error: "+err.Error()))

	var stack *errors.Error
	if log.Enabled(log.LevelDebug) && stderrors.As(err, &stack) {
		fmt.Fprintln(w, stack.ErrorStack())
	}

	return exitCode(err)
}

func exitCode(err error) int {
	var (
		exit    *ExitError
		install *release.InstallError
		auth    *release.AuthError
	)
	code := 1
	switch {
	case stderrors.As(err, &exit):
		code = exit.Code
	case stderrors.As(err, &install):
		code = install.ExitCode
	case stderrors.As(err, &auth):
		code = auth.ExitCode
	}
	if code == 0 {
		code = 1
	}
	return code
}

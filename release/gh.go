package release

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fastkernel/kforge/constants"
	"github.com/fastkernel/kforge/log"
	"github.com/fastkernel/kforge/tools"
)

// AuthError means the GitHub CLI cannot make authenticated calls.
type AuthError struct {
	Message  string
	ExitCode int
	Err      error
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return e.Err }

// GHClient reads releases through `gh api`.
type GHClient struct {
	Runner tools.Runner
	Host   string
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// NewGHClient returns a GHClient for github.com.
func NewGHClient(runner tools.Runner) *GHClient {
	if runner == nil {
		runner = tools.NewExecRunner()
	}
	return &GHClient{Runner: runner, Host: constants.GitHubHost, Getenv: os.Getenv}
}

// EnsureAuth checks `gh auth status` unless GH_TOKEN is set.
func (c *GHClient) EnsureAuth(ctx context.Context) error {
	getenv := c.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	if getenv("GH_TOKEN") != "" {
		log.Debug("GH_TOKEN set, skipping gh auth status")
		return nil
	}

	cmd := tools.NewCommand("gh", "auth", "status", "--hostname", c.Host)
	cmd.Stdout = io.Discard
	_, err := c.Runner.Run(ctx, cmd)
	if err == nil {
		return nil
	}

	if tools.IsNotFound(err) {
		return &AuthError{
			Message: "GitHub CLI ('gh') is not installed or not on PATH. " +
				"Install it from https://cli.github.com/ before running this command.",
			ExitCode: 1,
			Err:      err,
		}
	}

	var execErr *tools.ExecError
	if errors.As(err, &execErr) {
		msg := execErr.Describe("GitHub CLI is not authenticated for " + c.Host)
		msg += fmt.Sprintf("\nAuthenticate via `gh auth login --hostname %s` or set GH_TOKEN for this session.", c.Host)
		code := execErr.ExitCode
		if code <= 0 {
			code = 1
		}
		return &AuthError{Message: msg, ExitCode: code, Err: err}
	}
	return err
}

// Latest fetches the latest release of repo.
func (c *GHClient) Latest(ctx context.Context, repo string) (*Release, error) {
	res, err := c.Runner.Run(ctx, tools.NewCommand("gh", "api",
		"-H", "Accept: application/vnd.github+json",
		"/repos/"+repo+"/releases/latest"))
	if err != nil {
		var execErr *tools.ExecError
		if errors.As(err, &execErr) {
			return nil, errors.New(lookupHint(execErr.Describe("failed to inspect latest release for "+repo), c.Host))
		}
		return nil, fmt.Errorf("failed to inspect latest release for %s: %v", repo, err)
	}

	var rel Release
	if err := json.Unmarshal(res.Stdout, &rel); err != nil {
		return nil, fmt.Errorf("failed to inspect latest release for %s: %v", repo, err)
	}
	return &rel, nil
}

// Download streams the asset to w.
func (c *GHClient) Download(ctx context.Context, repo string, asset Asset, w io.Writer) error {
	cmd := tools.NewCommand("gh", "api",
		"-H", "Accept: application/octet-stream",
		fmt.Sprintf("/repos/%s/releases/assets/%d", repo, asset.ID))
	cmd.Stdout = w
	_, err := c.Runner.Run(ctx, cmd)
	return err
}

// lookupHint appends the remediation gh itself hints at.
func lookupHint(reason, host string) string {
	lower := strings.ToLower(reason)
	switch {
	case strings.Contains(lower, "saml enforcement"):
		reason += fmt.Sprintf("\nRun `gh auth refresh -h %s -s org:read` to enable SSO for the organization.", host)
	case strings.Contains(lower, "gh auth login"), strings.Contains(lower, "get started with github cli"):
		reason += fmt.Sprintf("\nAuthenticate via `gh auth login --hostname %s`.", host)
	}
	return reason
}

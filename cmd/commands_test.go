package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/fastkernel/kforge/build"
	"github.com/fastkernel/kforge/constants"
	"github.com/fastkernel/kforge/engine"
	mock_engine "github.com/fastkernel/kforge/engine/mocks"
	"github.com/fastkernel/kforge/release"
	goerrors "github.com/go-errors/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	upstreamPath = "/upstream/config-arm64"
	vendoredPath = "/repo/config-arm64"
)

const upstreamDoc = `#
# Automatically generated file; DO NOT EDIT.
#
CONFIG_SECURITY=y
CONFIG_LSM="yama"
# CONFIG_DEBUG_INFO is not set
`

type fixedHost engine.Resources

func (h fixedHost) Limits(ctx context.Context) (engine.Resources, error) {
	return engine.Resources(h), nil
}

// withCommandEnv gives the commands an in-memory file system holding the
// upstream template and the engine eng.
func withCommandEnv(t *testing.T, eng engine.Engine) afero.Fs {
	t.Helper()
	t.Setenv("HOME", "/home/kforge")
	t.Setenv("KFORGE_DEFAULT_CONFIG", "")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, upstreamPath, []byte(upstreamDoc), 0644))

	prevFs, prevEngine, prevHost := appFs, newEngine, newHost
	appFs = fs
	newEngine = func(name string) (engine.Engine, error) {
		if eng == nil {
			return nil, errors.New("no engine")
		}
		return eng, nil
	}
	newHost = func() build.Host { return fixedHost{CPUs: 16, Memory: 32 << 30} }
	t.Cleanup(func() {
		appFs, newEngine, newHost = prevFs, prevEngine, prevHost
	})
	return fs
}

func runCommand(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	root := GetRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func configArgs(extra ...string) []string {
	return append([]string{"config", "--upstream", upstreamPath, "--vendored", vendoredPath}, extra...)
}

func TestConfigCommand(t *testing.T) {
	t.Run("should report a missing vendored file", func(t *testing.T) {
		withCommandEnv(t, nil)

		out, _, err := runCommand(configArgs()...)

		var exit *ExitError
		require.ErrorAs(t, err, &exit)
		assert.Equal(t, 1, exit.Code)
		assert.Contains(t, out, "Vendored config missing at "+vendoredPath)
	})

	t.Run("should write then stay in sync", func(t *testing.T) {
		fs := withCommandEnv(t, nil)

		out, _, err := runCommand(configArgs("--write")...)
		require.NoError(t, err)
		assert.Contains(t, out, "Wrote derived configuration to "+vendoredPath)

		written, err := afero.ReadFile(fs, vendoredPath)
		require.NoError(t, err)
		assert.Contains(t, string(written), "CONFIG_SECURITY=y\nCONFIG_SECURITY_LANDLOCK=y\n")
		assert.Contains(t, string(written), `CONFIG_LSM="`+constants.ExpectedLSM+`"`)

		out, _, err = runCommand(configArgs()...)
		require.NoError(t, err)
		assert.Contains(t, out, "Vendored config matches derived output at "+vendoredPath)
	})

	t.Run("should fail on drift", func(t *testing.T) {
		fs := withCommandEnv(t, nil)
		_, _, err := runCommand(configArgs("--write")...)
		require.NoError(t, err)
		require.NoError(t, afero.WriteFile(fs, vendoredPath, []byte(upstreamDoc), 0644))

		out, _, err := runCommand(configArgs("--format", "table")...)

		var exit *ExitError
		require.ErrorAs(t, err, &exit)
		assert.Equal(t, 1, exit.Code)
		assert.Contains(t, out, "Rerun with --write to update the file.")
		assert.Contains(t, out, "CONFIG_SECURITY_LANDLOCK")
	})

	t.Run("should print json results", func(t *testing.T) {
		withCommandEnv(t, nil)

		out, _, err := runCommand(configArgs("--write", "--json")...)
		require.NoError(t, err)

		var res struct {
			Status string `json:"status"`
			Path   string `json:"path"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		assert.Equal(t, "written", res.Status)
		assert.Equal(t, vendoredPath, res.Path)
	})

	t.Run("should honour an overrides file", func(t *testing.T) {
		fs := withCommandEnv(t, nil)
		rules := "overrides:\n- key: CONFIG_DEBUG_INFO\n  value: \"y\"\n"
		require.NoError(t, afero.WriteFile(fs, "/repo/overrides.yaml", []byte(rules), 0644))

		_, _, err := runCommand(configArgs("--write", "--overrides", "/repo/overrides.yaml")...)
		require.NoError(t, err)

		written, err := afero.ReadFile(fs, vendoredPath)
		require.NoError(t, err)
		assert.Contains(t, string(written), "CONFIG_DEBUG_INFO=y\n")
		assert.Contains(t, string(written), `CONFIG_LSM="yama"`)
	})

	t.Run("should fail on a missing upstream", func(t *testing.T) {
		withCommandEnv(t, nil)

		_, _, err := runCommand("config", "--upstream", "/nowhere", "--vendored", vendoredPath)

		require.Error(t, err)
		var exit *ExitError
		assert.False(t, errors.As(err, &exit))
	})
}

func TestBuildCommand(t *testing.T) {
	ctrl := gomock.NewController(t)
	eng := mock_engine.NewMockEngine(ctrl)
	fs := withCommandEnv(t, eng)

	gomock.InOrder(
		eng.EXPECT().SystemStart(gomock.Any()).Return(nil),
		eng.EXPECT().Build(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, spec engine.BuildSpec) error {
			assert.Equal(t, "v6.15.2", spec.BuildArgs["KERNEL_BRANCH"])
			assert.Equal(t, constants.ImageTag+":export", spec.Tag)
			return nil
		}),
		eng.EXPECT().Run(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, spec engine.RunSpec) error {
			assert.Equal(t, []engine.Mount{{Host: "/build/out", Container: "/out"}}, spec.Mounts)
			return afero.WriteFile(fs, "/build/out/Image", []byte("kernel"), 0644)
		}),
	)

	out, _, err := runCommand("build", "--ignore-resource-check", "--kernel-branch", "v6.15.2",
		"--output-dir", "/build/out", "--json")

	require.NoError(t, err)
	var artifacts []build.Artifact
	require.NoError(t, json.Unmarshal([]byte(out), &artifacts))
	require.Len(t, artifacts, 1)
	assert.Equal(t, "Image", artifacts[0].Name)
	assert.Equal(t, int64(6), artifacts[0].Size)
}

func TestBuildCommandResourceShortfall(t *testing.T) {
	ctrl := gomock.NewController(t)
	eng := mock_engine.NewMockEngine(ctrl)
	withCommandEnv(t, eng)

	eng.EXPECT().SystemStart(gomock.Any()).Return(nil)
	eng.EXPECT().Resources(gomock.Any()).Return(engine.Resources{CPUs: 2, Memory: 2 << 30}, nil)

	_, _, err := runCommand("build", "--output-dir", "/build/out")

	var resErr *build.ResourceError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, 1, exitCode(err))
}

func listing(ctx context.Context, w io.Writer) error {
	_, err := fmt.Fprintln(w, "ID        IMAGE")
	return err
}

func TestInstallCodexCommand(t *testing.T) {
	t.Run("should list containers and exit 2 without a container", func(t *testing.T) {
		eng := mock_engine.NewMockEngine(gomock.NewController(t))
		withCommandEnv(t, eng)
		eng.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(listing)

		out, errOut, err := runCommand("install-codex")

		var exit *ExitError
		require.ErrorAs(t, err, &exit)
		assert.Equal(t, 2, exit.Code)
		assert.Nil(t, exit.Err)
		assert.Contains(t, out, "ID        IMAGE")
		assert.True(t, strings.HasPrefix(errOut, "usage: kforge install-codex"))
		assert.Contains(t, errOut, "Available containers:\n")
		assert.True(t, strings.HasSuffix(errOut, "error: container_id is required\n"))
	})

	t.Run("should only list with --list-containers", func(t *testing.T) {
		eng := mock_engine.NewMockEngine(gomock.NewController(t))
		withCommandEnv(t, eng)
		eng.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(listing)

		out, errOut, err := runCommand("install-codex", "--list-containers")

		require.NoError(t, err)
		assert.Equal(t, "ID        IMAGE\n", out)
		assert.Equal(t, "Available containers:\n", errOut)
	})

	t.Run("should keep going when listing fails", func(t *testing.T) {
		eng := mock_engine.NewMockEngine(gomock.NewController(t))
		withCommandEnv(t, eng)
		eng.EXPECT().List(gomock.Any(), gomock.Any()).Return(errors.New("the container CLI is not installed or not on PATH"))

		_, _, err := runCommand("install-codex", "--list-containers")

		assert.NoError(t, err)
	})

	t.Run("should reject an unknown client", func(t *testing.T) {
		withCommandEnv(t, mock_engine.NewMockEngine(gomock.NewController(t)))

		_, _, err := runCommand("install-codex", "abc123", "--client", "curl")

		assert.ErrorContains(t, err, `invalid client "curl"`)
	})
}

func TestReportError(t *testing.T) {
	t.Run("should stay silent for bare exit codes", func(t *testing.T) {
		var w bytes.Buffer

		code := reportError(&w, &ExitError{Code: 2})

		assert.Equal(t, 2, code)
		assert.Empty(t, w.String())
	})

	t.Run("should print the message", func(t *testing.T) {
		var w bytes.Buffer

		code := reportError(&w, goerrors.Wrap(errors.New("boom"), 0))

		assert.Equal(t, 1, code)
		assert.Contains(t, w.String(), "error: boom")
	})

	t.Run("should use release exit codes", func(t *testing.T) {
		var w bytes.Buffer

		code := reportError(&w, goerrors.Wrap(&release.InstallError{Message: "failed to download", ExitCode: 4}, 0))

		assert.Equal(t, 4, code)
		assert.Equal(t, 3, exitCode(&release.AuthError{Message: "auth", ExitCode: 3}))
		assert.Equal(t, 1, exitCode(&release.AuthError{Message: "auth"}))
	})
}

package cmd_test

import (
	"testing"

	"github.com/fastkernel/kforge/cmd"
	"github.com/fastkernel/kforge/constants"
	"github.com/fastkernel/kforge/types"
	"github.com/spf13/pflag"
	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

func TestReconcileFlagsMergeToConfig(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", 0)
	cmd.PersistReconcileCommandFlags(flagSet)

	flagSet.Set("write", "true")
	flagSet.Set("upstream", " ./upstream/config-arm64 ")
	flagSet.Set("vendored", "kernel/config-arm64")
	flagSet.Set("format", "table")

	c := types.NewConfig()
	err := cmd.NewReconcileCommandFlags(flagSet).MergeToConfig(c)

	assert.NilError(t, err)
	assert.DeepEqual(t, c.Reconcile, types.ReconcileConfig{
		Upstream: "./upstream/config-arm64",
		Vendored: "kernel/config-arm64",
		Format:   "table",
		Write:    true,
	})
}

func TestReconcileFlagsDefaults(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", 0)
	cmd.PersistReconcileCommandFlags(flagSet)

	c := types.NewConfig()
	err := cmd.NewReconcileCommandFlags(flagSet).MergeToConfig(c)

	assert.NilError(t, err)
	assert.Equal(t, c.Reconcile.Upstream, constants.UpstreamConfigURL)
	assert.Equal(t, c.Reconcile.Vendored, constants.VendoredConfigPath)
	assert.Equal(t, c.Reconcile.Write, false)
}

func TestReconcileFlagsRejectFormat(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		flagSet := pflag.NewFlagSet("test", 0)
		cmd.PersistReconcileCommandFlags(flagSet)
		flagSet.Set("format", format)

		err := cmd.NewReconcileCommandFlags(flagSet).MergeToConfig(types.NewConfig())

		assert.Check(t, is.ErrorContains(err, "invalid format"))
	}
}

func TestKernelFlagsMergeToConfig(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", 0)
	cmd.PersistKernelCommandFlags(flagSet)

	flagSet.Set("ignore-resource-check", "true")
	flagSet.Set("kernel-branch", "v6.15.1")
	flagSet.Set("output-dir", "/tmp/kernel")

	c := types.NewConfig()
	err := cmd.NewKernelCommandFlags(flagSet).MergeToConfig(c)

	assert.NilError(t, err)
	assert.DeepEqual(t, c.Kernel, types.KernelConfig{
		Branch:              "v6.15.1",
		OutputDir:           "/tmp/kernel",
		ImageTag:            constants.ImageTag,
		ContextDir:          ".",
		IgnoreResourceCheck: true,
	})
}

func TestEngineFlagsMergeToConfig(t *testing.T) {
	t.Run("should select docker", func(t *testing.T) {
		flagSet := pflag.NewFlagSet("test", 0)
		cmd.PersistEngineCommandFlags(flagSet)
		flagSet.Set("engine", "docker")

		c := types.NewConfig()
		err := cmd.NewEngineCommandFlags(flagSet).MergeToConfig(c)

		assert.NilError(t, err)
		assert.Equal(t, c.Engine, constants.EngineDocker)
	})

	t.Run("should reject unknown engines", func(t *testing.T) {
		flagSet := pflag.NewFlagSet("test", 0)
		cmd.PersistEngineCommandFlags(flagSet)
		flagSet.Set("engine", "podman")

		err := cmd.NewEngineCommandFlags(flagSet).MergeToConfig(types.NewConfig())

		assert.ErrorContains(t, err, `invalid engine "podman"`)
	})
}

func TestInstallFlagsMergeToConfig(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", 0)
	cmd.PersistInstallCommandFlags(flagSet)

	flagSet.Set("asset-name", "codex-x86_64-unknown-linux-musl.tar.gz")
	flagSet.Set("dest-path", "/opt/bin/codex")
	flagSet.Set("list-containers", "true")

	flags := cmd.NewInstallCommandFlags(flagSet)
	c := types.NewConfig()
	err := flags.MergeToConfig(c)

	assert.NilError(t, err)
	assert.Assert(t, flags.ListContainers)
	assert.Equal(t, flags.Client, "gh")
	assert.DeepEqual(t, c.Install, types.InstallConfig{
		Repo:      constants.CodexRepo,
		AssetName: "codex-x86_64-unknown-linux-musl.tar.gz",
		DestPath:  "/opt/bin/codex",
	})
}

func TestInstallFlagsRejectClient(t *testing.T) {
	flagSet := pflag.NewFlagSet("test", 0)
	cmd.PersistInstallCommandFlags(flagSet)
	flagSet.Set("client", "curl")

	err := cmd.NewInstallCommandFlags(flagSet).MergeToConfig(types.NewConfig())

	assert.ErrorContains(t, err, `invalid client "curl"`)
}

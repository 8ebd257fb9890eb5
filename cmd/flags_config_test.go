package cmd_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fastkernel/kforge/cmd"
	"github.com/fastkernel/kforge/types"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFlags(t *testing.T) {
	flagSet := newConfigFlagSet()

	flagSet.Set("config", " test.json ")

	configFlags := cmd.NewConfigCommandFlags(flagSet)

	assert.Equal(t, configFlags.Config, "test.json")
}

func TestConfigFlagsMergeToConfig(t *testing.T) {
	isolateHome(t)

	expected := &types.Config{
		Engine: "docker",
		Kernel: types.KernelConfig{
			Branch:    "v6.15",
			OutputDir: "out",
		},
		Install: types.InstallConfig{
			Repo: "acme/codex",
		},
	}
	configFileName := writeConfigToFile(t, expected)

	flagSet := newConfigFlagSet()
	flagSet.Set("config", configFileName)
	configFlags := cmd.NewConfigCommandFlags(flagSet)

	actual := &types.Config{}

	err := configFlags.MergeToConfig(actual)

	assert.Nil(t, err)
	assert.Equal(t, expected, actual)
}

func TestConfigFlagsMergeKeepsDefaults(t *testing.T) {
	isolateHome(t)

	configFileName := writeConfigToFile(t, &types.Config{Kernel: types.KernelConfig{Branch: "v6.15"}})

	flagSet := newConfigFlagSet()
	flagSet.Set("config", configFileName)

	actual := types.NewConfig()
	err := cmd.NewConfigCommandFlags(flagSet).MergeToConfig(actual)

	require.NoError(t, err)
	assert.Equal(t, "v6.15", actual.Kernel.Branch)
	assert.Equal(t, types.NewConfig().Kernel.OutputDir, actual.Kernel.OutputDir)
}

func TestConfigFlagsMissingFile(t *testing.T) {
	isolateHome(t)

	t.Run("should fail when the named file is absent", func(t *testing.T) {
		flagSet := newConfigFlagSet()
		flagSet.Set("config", filepath.Join(t.TempDir(), "absent.json"))

		err := cmd.NewConfigCommandFlags(flagSet).MergeToConfig(&types.Config{})

		assert.ErrorContains(t, err, "error reading config")
	})

	t.Run("should ignore a missing home config", func(t *testing.T) {
		err := cmd.NewConfigCommandFlags(newConfigFlagSet()).MergeToConfig(&types.Config{})

		assert.NoError(t, err)
	})

	t.Run("should read the home config", func(t *testing.T) {
		home := isolateHome(t)
		data, _ := json.Marshal(&types.Config{Engine: "docker"})
		require.NoError(t, os.WriteFile(filepath.Join(home, ".kforgerc"), data, 0644))

		c := &types.Config{}
		err := cmd.NewConfigCommandFlags(newConfigFlagSet()).MergeToConfig(c)

		require.NoError(t, err)
		assert.Equal(t, "docker", c.Engine)
	})

	t.Run("should fail when the env file is absent", func(t *testing.T) {
		t.Setenv("KFORGE_DEFAULT_CONFIG", filepath.Join(t.TempDir(), "absent.json"))

		err := cmd.NewConfigCommandFlags(newConfigFlagSet()).MergeToConfig(&types.Config{})

		assert.Error(t, err)
	})
}

func TestConfigFlagsInvalidJSON(t *testing.T) {
	isolateHome(t)

	file := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(file, []byte("{"), 0644))

	flagSet := newConfigFlagSet()
	flagSet.Set("config", file)

	err := cmd.NewConfigCommandFlags(flagSet).MergeToConfig(&types.Config{})

	assert.ErrorContains(t, err, "error config")
}

func newConfigFlagSet() (flagSet *pflag.FlagSet) {
	flagSet = pflag.NewFlagSet("test", 0)

	cmd.PersistConfigCommandFlags(flagSet)
	return
}

func writeConfigToFile(t *testing.T, c *types.Config) string {
	t.Helper()

	data, err := json.Marshal(c)
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "kforge.json")
	require.NoError(t, os.WriteFile(file, data, 0644))
	return file
}

// isolateHome points HOME at an empty directory and clears the config env.
func isolateHome(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("KFORGE_DEFAULT_CONFIG", "")
	return home
}

package cmd

import (
	"fmt"

	"github.com/fastkernel/kforge/engine"
	"github.com/fastkernel/kforge/log"
	"github.com/fastkernel/kforge/release"
	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/ttacon/chalk"
)

// InstallCodexCommand copies the latest Codex CLI release into a container
func InstallCodexCommand() *cobra.Command {
	var cmdInstall = &cobra.Command{
		Use:   "install-codex [CONTAINER]",
		Short: "Install the latest Codex CLI release into a running container",
		Args:  cobra.MaximumNArgs(1),
		RunE:  installCodexCommandHandler,
	}

	PersistInstallCommandFlags(cmdInstall.Flags())
	PersistEngineCommandFlags(cmdInstall.Flags())

	return cmdInstall
}

func installCodexCommandHandler(cmd *cobra.Command, args []string) error {
	c, err := commandConfig(cmd)
	if err != nil {
		return err
	}

	installFlags := NewInstallCommandFlags(cmd.Flags())
	engineFlags := NewEngineCommandFlags(cmd.Flags())

	mergeContainer := NewMergeConfigContainer(installFlags, engineFlags)
	if err := mergeContainer.Merge(c); err != nil {
		return err
	}

	eng, err := newEngine(c.Engine)
	if err != nil {
		return err
	}

	var container string
	if len(args) > 0 {
		container = args[0]
	}

	if installFlags.ListContainers {
		listContainers(cmd, eng)
		if container == "" {
			return nil
		}
	}

	if container == "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "usage: "+cmd.UseLine())
		listContainers(cmd, eng)
		fmt.Fprintln(cmd.ErrOrStderr(), "error: container_id is required")
		return &ExitError{Code: 2}
	}

	installer := &release.Installer{
		Client:   newReleaseClient(cmd.Context(), installFlags.Client),
		Engine:   eng,
		Fs:       appFs,
		Repo:     c.Install.Repo,
		Asset:    c.Install.AssetName,
		DestPath: c.Install.DestPath,
	}
	if !c.RunConfig.JSON {
		installer.Progress = cmd.ErrOrStderr()
	}

	installed, err := installer.Install(cmd.Context(), container)
	if err != nil {
		return errors.Wrap(err, 0)
	}

	out := cmd.OutOrStdout()
	if c.RunConfig.JSON {
		printJSON(out, installed)
		return nil
	}
	fmt.Fprintln(out, chalk.Green.Color(fmt.Sprintf("Installed Codex CLI at %s in container %s", installed.DestPath, installed.Container)))
	return nil
}

// listContainers prints the engine's containers. A failing listing is only
// reported, the command goes on.
func listContainers(cmd *cobra.Command, eng engine.Engine) {
	fmt.Fprintln(cmd.ErrOrStderr(), "Available containers:")
	if err := eng.List(cmd.Context(), cmd.OutOrStdout()); err != nil {
		log.Error(err)
	}
}

package cmd

import (
	"github.com/fastkernel/kforge/build"
	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
)

// BuildCommand builds the kernel image and exports its artifacts
func BuildCommand() *cobra.Command {
	var cmdBuild = &cobra.Command{
		Use:   "build",
		Short: "Build the kernel image and export its artifacts",
		Args:  cobra.NoArgs,
		RunE:  buildCommandHandler,
	}

	PersistKernelCommandFlags(cmdBuild.Flags())
	PersistEngineCommandFlags(cmdBuild.Flags())

	return cmdBuild
}

func buildCommandHandler(cmd *cobra.Command, args []string) error {
	c, err := commandConfig(cmd)
	if err != nil {
		return err
	}

	kernelFlags := NewKernelCommandFlags(cmd.Flags())
	engineFlags := NewEngineCommandFlags(cmd.Flags())

	mergeContainer := NewMergeConfigContainer(kernelFlags, engineFlags)
	if err := mergeContainer.Merge(c); err != nil {
		return err
	}

	eng, err := newEngine(c.Engine)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	builder := &build.Builder{
		Engine: eng,
		Host:   newHost(),
		Fs:     appFs,
		Config: c.Kernel,
		Out:    out,
	}
	if c.RunConfig.JSON {
		builder.Out = nil
	}

	artifacts, err := builder.Run(cmd.Context())
	if err != nil {
		return errors.Wrap(err, 0)
	}

	if c.RunConfig.JSON {
		printJSON(out, artifacts)
	}
	return nil
}

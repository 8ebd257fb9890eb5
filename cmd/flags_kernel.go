package cmd

import (
	"fmt"
	"strings"

	"github.com/fastkernel/kforge/constants"
	"github.com/fastkernel/kforge/types"
	"github.com/spf13/pflag"
)

// KernelCommandFlags configure the kernel image build
type KernelCommandFlags struct {
	IgnoreResourceCheck bool
	Branch              string
	OutputDir           string
	ContextDir          string
}

// MergeToConfig overrides configuration with the flags that were given
func (flags *KernelCommandFlags) MergeToConfig(c *types.Config) error {
	if flags.IgnoreResourceCheck {
		c.Kernel.IgnoreResourceCheck = true
	}
	if flags.Branch != "" {
		c.Kernel.Branch = flags.Branch
	}
	if flags.OutputDir != "" {
		c.Kernel.OutputDir = flags.OutputDir
	}
	if flags.ContextDir != "" {
		c.Kernel.ContextDir = flags.ContextDir
	}
	return nil
}

// NewKernelCommandFlags returns an instance of KernelCommandFlags
func NewKernelCommandFlags(cmdFlags *pflag.FlagSet) (flags *KernelCommandFlags) {
	flags = &KernelCommandFlags{}

	flags.IgnoreResourceCheck, _ = cmdFlags.GetBool("ignore-resource-check")
	flags.Branch, _ = cmdFlags.GetString("kernel-branch")
	flags.OutputDir, _ = cmdFlags.GetString("output-dir")
	flags.ContextDir, _ = cmdFlags.GetString("context")

	flags.Branch = strings.TrimSpace(flags.Branch)
	flags.OutputDir = strings.TrimSpace(flags.OutputDir)

	return
}

// PersistKernelCommandFlags append the build command flags
func PersistKernelCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.Bool("ignore-resource-check", false, "skip validation of container builder CPU and memory limits")
	cmdFlags.String("kernel-branch", "", "kernel branch or tag to build (default "+constants.DefaultKernelBranch+")")
	cmdFlags.String("output-dir", "", "directory where exported kernel artifacts are written (default "+constants.DefaultOutputDir+")")
	cmdFlags.String("context", "", "build context holding the Dockerfile (default .)")
}

// EngineCommandFlags select the container engine
type EngineCommandFlags struct {
	Engine string
}

// MergeToConfig overrides configuration with the flags that were given
func (flags *EngineCommandFlags) MergeToConfig(c *types.Config) error {
	if flags.Engine != "" {
		c.Engine = flags.Engine
	}
	switch c.Engine {
	case "", constants.EngineContainer, constants.EngineDocker:
		return nil
	}
	return fmt.Errorf("invalid engine %q, expected %s or %s", c.Engine, constants.EngineContainer, constants.EngineDocker)
}

// NewEngineCommandFlags returns an instance of EngineCommandFlags
func NewEngineCommandFlags(cmdFlags *pflag.FlagSet) (flags *EngineCommandFlags) {
	flags = &EngineCommandFlags{}
	flags.Engine, _ = cmdFlags.GetString("engine")
	flags.Engine = strings.TrimSpace(flags.Engine)
	return
}

// PersistEngineCommandFlags append the engine flag
func PersistEngineCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.String("engine", "", "container engine: container or docker (default container)")
}

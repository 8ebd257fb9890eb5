package cmd

import (
	"os"

	"github.com/fastkernel/kforge/log"
	"github.com/fastkernel/kforge/types"
	"github.com/spf13/cobra"
)

// GetRootCommand provides set all commands for kforge
func GetRootCommand() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:           "kforge",
		Short:         "Maintain, build and provision the arm64 container kernel",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := commandConfig(cmd)
			if err != nil {
				return err
			}

			log.InitDefault(os.Stderr, config)
			return nil
		},
	}

	// persist flags transversal to every command
	PersistGlobalCommandFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(ConfigCommand())
	rootCmd.AddCommand(BuildCommand())
	rootCmd.AddCommand(InstallCodexCommand())
	rootCmd.AddCommand(VersionCommand())

	return rootCmd
}

// commandConfig builds the configuration of a command: defaults, then the
// config file, then the global flags.
func commandConfig(cmd *cobra.Command) (*types.Config, error) {
	c := types.NewConfig()

	configFlags := NewConfigCommandFlags(cmd.Flags())
	if err := configFlags.MergeToConfig(c); err != nil {
		return nil, err
	}

	globalFlags := NewGlobalCommandFlags(cmd.Flags())
	if err := globalFlags.MergeToConfig(c); err != nil {
		return nil, err
	}

	return c, nil
}

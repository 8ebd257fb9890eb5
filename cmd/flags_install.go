package cmd

import (
	"fmt"
	"strings"

	"github.com/fastkernel/kforge/constants"
	"github.com/fastkernel/kforge/types"
	"github.com/spf13/pflag"
)

// Release clients.
const (
	clientGH   = "gh"
	clientHTTP = "http"
)

// InstallCommandFlags select the release asset and its destination
type InstallCommandFlags struct {
	Repo           string
	AssetName      string
	DestPath       string
	Client         string
	ListContainers bool
}

// MergeToConfig overrides configuration with the flags that were given
func (flags *InstallCommandFlags) MergeToConfig(c *types.Config) error {
	if flags.Repo != "" {
		c.Install.Repo = flags.Repo
	}
	if flags.AssetName != "" {
		c.Install.AssetName = flags.AssetName
	}
	if flags.DestPath != "" {
		c.Install.DestPath = flags.DestPath
	}
	if flags.Client != clientGH && flags.Client != clientHTTP {
		return fmt.Errorf("invalid client %q, expected %s or %s", flags.Client, clientGH, clientHTTP)
	}
	return nil
}

// NewInstallCommandFlags returns an instance of InstallCommandFlags
func NewInstallCommandFlags(cmdFlags *pflag.FlagSet) (flags *InstallCommandFlags) {
	flags = &InstallCommandFlags{}

	flags.Repo, _ = cmdFlags.GetString("repo")
	flags.AssetName, _ = cmdFlags.GetString("asset-name")
	flags.DestPath, _ = cmdFlags.GetString("dest-path")
	flags.Client, _ = cmdFlags.GetString("client")
	flags.ListContainers, _ = cmdFlags.GetBool("list-containers")

	flags.Repo = strings.TrimSpace(flags.Repo)
	flags.AssetName = strings.TrimSpace(flags.AssetName)
	flags.DestPath = strings.TrimSpace(flags.DestPath)

	return
}

// PersistInstallCommandFlags append the install-codex flags
func PersistInstallCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.String("repo", "", "GitHub repository publishing the release (default "+constants.CodexRepo+")")
	cmdFlags.String("asset-name", "", "release asset to download (default "+constants.CodexAsset+")")
	cmdFlags.String("dest-path", "", "destination inside the container (default "+constants.CodexDestPath+")")
	cmdFlags.String("client", clientGH, "release client: gh (GitHub CLI) or http (REST API with GH_TOKEN)")
	cmdFlags.Bool("list-containers", false, "list available containers")
}

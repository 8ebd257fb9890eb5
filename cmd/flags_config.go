package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fastkernel/kforge/types"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
)

// appFs backs every file the commands read or write.
var appFs = afero.NewOsFs()

// ConfigCommandFlags handles config file path flag and build configuration from the file
type ConfigCommandFlags struct {
	Config string
}

// MergeToConfig reads a json configuration file over c. Without --config the
// file named by KFORGE_DEFAULT_CONFIG or ~/.kforgerc is used when present.
func (flags *ConfigCommandFlags) MergeToConfig(c *types.Config) error {
	file := flags.Config
	required := file != ""

	if file == "" {
		file = defaultConfigPath()
		required = os.Getenv("KFORGE_DEFAULT_CONFIG") != ""
	}
	if file == "" {
		return nil
	}

	data, err := afero.ReadFile(appFs, file)
	if os.IsNotExist(err) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading config: %v", err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("error config: %v", err)
	}
	return nil
}

// defaultConfigPath returns KFORGE_DEFAULT_CONFIG, else ~/.kforgerc.
func defaultConfigPath() string {
	if conf := os.Getenv("KFORGE_DEFAULT_CONFIG"); conf != "" {
		return conf
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kforgerc")
}

// NewConfigCommandFlags returns an instance of ConfigCommandFlags
func NewConfigCommandFlags(cmdFlags *pflag.FlagSet) (flags *ConfigCommandFlags) {
	flags = &ConfigCommandFlags{}

	flags.Config, _ = cmdFlags.GetString("config")
	flags.Config = strings.TrimSpace(flags.Config)

	return
}

// PersistConfigCommandFlags append a command the config file flag
func PersistConfigCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.StringP("config", "c", "", "kforge config file")
}

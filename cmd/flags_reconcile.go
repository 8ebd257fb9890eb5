package cmd

import (
	"fmt"
	"strings"

	"github.com/fastkernel/kforge/constants"
	"github.com/fastkernel/kforge/reconcile"
	"github.com/fastkernel/kforge/types"
	"github.com/spf13/pflag"
)

// ReconcileCommandFlags select the inputs of the config command
type ReconcileCommandFlags struct {
	Write     bool
	Upstream  string
	Vendored  string
	Overrides string
	Format    string
}

// MergeToConfig overrides configuration with the flags that were given
func (flags *ReconcileCommandFlags) MergeToConfig(c *types.Config) error {
	if flags.Write {
		c.Reconcile.Write = true
	}
	if flags.Upstream != "" {
		c.Reconcile.Upstream = flags.Upstream
	}
	if flags.Vendored != "" {
		c.Reconcile.Vendored = flags.Vendored
	}
	if flags.Overrides != "" {
		c.Reconcile.OverridesFile = flags.Overrides
	}
	if flags.Format != "" {
		c.Reconcile.Format = flags.Format
	}

	if c.Reconcile.Format == reconcile.FormatJSON || !reconcile.ValidFormat(c.Reconcile.Format) {
		return fmt.Errorf("invalid format %q, expected text or table", c.Reconcile.Format)
	}
	return nil
}

// NewReconcileCommandFlags returns an instance of ReconcileCommandFlags
func NewReconcileCommandFlags(cmdFlags *pflag.FlagSet) (flags *ReconcileCommandFlags) {
	flags = &ReconcileCommandFlags{}

	flags.Write, _ = cmdFlags.GetBool("write")
	flags.Upstream, _ = cmdFlags.GetString("upstream")
	flags.Vendored, _ = cmdFlags.GetString("vendored")
	flags.Overrides, _ = cmdFlags.GetString("overrides")
	flags.Format, _ = cmdFlags.GetString("format")

	flags.Upstream = strings.TrimSpace(flags.Upstream)
	flags.Vendored = strings.TrimSpace(flags.Vendored)
	flags.Overrides = strings.TrimSpace(flags.Overrides)

	return
}

// PersistReconcileCommandFlags append the config command flags
func PersistReconcileCommandFlags(cmdFlags *pflag.FlagSet) {
	cmdFlags.BoolP("write", "w", false, "update the vendored config when it differs")
	cmdFlags.String("upstream", "", "upstream config URL or path (default pinned "+constants.UpstreamLabel+")")
	cmdFlags.String("vendored", "", "vendored config path (default "+constants.VendoredConfigPath+")")
	cmdFlags.String("overrides", "", "yaml file replacing the built-in override rules")
	cmdFlags.String("format", "", "changed options report: text or table (default text)")
}

package cmd

import (
	"github.com/fastkernel/kforge/reconcile"
	"github.com/fastkernel/kforge/types"
	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
)

// ConfigCommand derives the kernel config and compares it with the vendored copy
func ConfigCommand() *cobra.Command {
	var cmdConfig = &cobra.Command{
		Use:   "config",
		Short: "Derive the kernel config from upstream and check the vendored copy",
		Long: "Fetches the pinned upstream config, applies the repository overrides and " +
			"compares the result with the vendored file. Exits 1 when they differ " +
			"unless --write updates the file.",
		Args: cobra.NoArgs,
		RunE: configCommandHandler,
	}

	PersistReconcileCommandFlags(cmdConfig.Flags())

	return cmdConfig
}

func configCommandHandler(cmd *cobra.Command, args []string) error {
	c, err := commandConfig(cmd)
	if err != nil {
		return err
	}

	reconcileFlags := NewReconcileCommandFlags(cmd.Flags())
	if err := reconcileFlags.MergeToConfig(c); err != nil {
		return err
	}

	rules, err := types.LoadRuleSet(appFs, c.Reconcile.OverridesFile)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	r := &reconcile.Reconciler{
		Upstream:     reconcile.NewSource(appFs, c.Reconcile.Upstream),
		Fs:           appFs,
		VendoredPath: c.Reconcile.Vendored,
		Overrides:    rules.Overrides,
		Expect:       rules.Expect,
		Out:          out,
		Format:       c.Reconcile.Format,
	}
	if c.RunConfig.JSON {
		r.Out = nil
	}

	res, err := r.Reconcile(cmd.Context(), c.Reconcile.Write)
	if err != nil {
		return errors.Wrap(err, 0)
	}

	if c.RunConfig.JSON {
		printJSON(out, res)
	}

	if code := res.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

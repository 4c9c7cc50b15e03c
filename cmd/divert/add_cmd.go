package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/divert/internal/divert"
	"github.com/raphi011/divert/internal/format"
	"github.com/raphi011/divert/internal/ui/prompt"
)

func newAddCmd() *cobra.Command {
	var (
		flags reconcileFlags
		yes   bool
	)

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Divert a file to another location",
		Args:  cobra.ExactArgs(1),
		Long: `Add a diversion for a file.

The diversion is recorded in the dpkg registry; dpkg will install the
package's version of the file at the divert location instead of the
original path. Without --package the diversion is local (dpkg's LOCAL),
surviving any package. With --rename the file currently at the path is
moved to the divert location, unless something already exists there.

An existing diversion with a different holder or divert location is an
error unless --force is given, which replaces it via remove-then-add and
restores the previous entry if the second half fails.`,
		Example: `  divert add /etc/screenrc
  divert add /etc/screenrc -p branding
  divert add /etc/screenrc -d /etc/screenrc.local --rename
  divert add /etc/screenrc -p other -d /etc/screenrc.other --rename --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]
			tool := newTool()

			// A forced replacement is the one destructive-ish path;
			// double-check with the user when we can ask.
			if flags.force && !flags.dryRun && !yes && interactiveAllowed() {
				holder, exists, err := tool.Owner(ctx, path)
				if err != nil {
					return err
				}
				if exists {
					q := fmt.Sprintf("Replace the existing diversion of %s (held by %s)?",
						path, format.HolderLabel(holder))
					result, err := prompt.Confirm(q)
					if err != nil {
						return err
					}
					if result.Cancelled || !result.Confirmed {
						fmt.Println("Cancelled")
						return nil
					}
				}
			}

			res, err := divert.Reconcile(ctx, tool, flags.request(path, divert.Present))
			if err != nil {
				return err
			}
			return printResult(ctx, res, flags.jsonOut)
		},
	}

	addReconcileFlags(cmd, &flags)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}

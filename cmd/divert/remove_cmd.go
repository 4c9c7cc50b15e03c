package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/divert/internal/divert"
	"github.com/raphi011/divert/internal/format"
	"github.com/raphi011/divert/internal/log"
	"github.com/raphi011/divert/internal/ui"
	"github.com/raphi011/divert/internal/ui/prompt"
)

func newRemoveCmd() *cobra.Command {
	var (
		flags reconcileFlags
		yes   bool
	)

	cmd := &cobra.Command{
		Use:     "remove [path]",
		Short:   "Remove a diversion",
		Aliases: []string{"rm"},
		Args:    cobra.MaximumNArgs(1),
		Long: `Remove a diversion for a file.

With --package or --divert the diversion must match them, so a diversion
belonging to somebody else is not removed by accident; --force removes it
regardless. With --rename the diverted file is moved back to its original
path, unless something already exists there.

Without a path, an interactive picker over the existing diversions is
shown (requires a terminal).`,
		Example: `  divert remove /etc/screenrc
  divert remove /etc/screenrc -p branding
  divert remove /etc/screenrc --rename
  divert remove            # pick interactively`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			tool := newTool()

			var path string
			if len(args) == 1 {
				path = args[0]
			} else {
				if !interactiveAllowed() {
					return fmt.Errorf("path required when not running interactively")
				}

				diversions, err := tool.List(ctx, "*")
				if err != nil {
					return err
				}
				if len(diversions) == 0 {
					l.Println("No diversions found.")
					return nil
				}

				sel, err := ui.SelectDiversion(diversions)
				if err != nil {
					return err
				}
				if sel.Cancelled {
					fmt.Println("Cancelled")
					return nil
				}
				path = sel.Diversion.Path

				if !yes && !flags.dryRun {
					q := fmt.Sprintf("Remove the diversion of %s (to %s, held by %s)?",
						sel.Diversion.Path, sel.Diversion.Target, format.HolderLabel(sel.Diversion.Holder))
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

			res, err := divert.Reconcile(ctx, tool, flags.request(path, divert.Absent))
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

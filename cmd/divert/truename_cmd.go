package main

import (
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/divert/internal/log"
	"github.com/raphi011/divert/internal/output"
)

func newTruenameCmd() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:   "truename <path>",
		Short: "Print where a file is actually addressed",
		Args:  cobra.ExactArgs(1),
		Long: `Print the location the live file for a path is addressed through.

For a diverted path this is the divert location; otherwise the path
itself is echoed back.`,
		Example: `  divert truename /etc/screenrc
  divert truename /etc/screenrc --copy   # copy the result to the clipboard`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			name, err := newTool().Truename(ctx, args[0])
			if err != nil {
				return err
			}
			output.FromContext(ctx).Println(name)

			if copyToClipboard {
				if err := clipboard.WriteAll(name); err != nil {
					log.FromContext(ctx).Printf("Warning: failed to copy to clipboard: %v\n", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "Copy the path to the clipboard")

	return cmd
}

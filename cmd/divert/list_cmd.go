package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/raphi011/divert/internal/dpkg"
	"github.com/raphi011/divert/internal/format"
	"github.com/raphi011/divert/internal/log"
	"github.com/raphi011/divert/internal/output"
)

// listEntry is a diversion plus where its files actually sit.
type listEntry struct {
	dpkg.Diversion
	// Renamed describes the filesystem side: "yes" when the file sits at
	// the divert location, "no" when it is still at the original path,
	// "both" or "none" when the registry and the filesystem disagree.
	Renamed string `json:"renamed"`
}

// renamedState inspects the filesystem for one diversion.
func renamedState(d dpkg.Diversion) string {
	atTarget := fileExists(d.Target)
	atPath := fileExists(d.Path)
	switch {
	case atTarget && !atPath:
		return "yes"
	case atPath && !atTarget:
		return "no"
	case atPath && atTarget:
		return "both"
	default:
		return "none"
	}
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

func newListCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:     "list [glob]",
		Short:   "List diversions",
		Aliases: []string{"ls"},
		Args:    cobra.MaximumNArgs(1),
		Long: `List the diversions in the dpkg registry, optionally filtered by a
glob pattern matched against the original paths.

The RENAMED column reports where the file actually sits: at the divert
location (yes), still at the original path (no), or an inconsistent
state (both/none).`,
		Example: `  divert list
  divert list '/etc/*'
  divert list --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			pattern := "*"
			if len(args) == 1 {
				pattern = args[0]
			}

			diversions, err := newTool().List(ctx, pattern)
			if err != nil {
				return err
			}
			if len(diversions) == 0 {
				log.FromContext(ctx).Println("No diversions found.")
				return nil
			}

			entries := make([]listEntry, len(diversions))
			g, _ := errgroup.WithContext(ctx)
			g.SetLimit(8) // Bound concurrent stat calls
			for i, d := range diversions {
				g.Go(func() error {
					entries[i] = listEntry{Diversion: d, Renamed: renamedState(d)}
					return nil
				})
			}
			_ = g.Wait() // Goroutines only stat, never fail

			p := output.FromContext(ctx)
			if jsonOut {
				return p.JSON(entries)
			}

			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{e.Path, e.Target, format.HolderLabel(e.Holder), e.Renamed}
			}
			p.Print(format.Table([]string{"PATH", "DIVERT-TO", "BY", "RENAMED"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the listing as JSON")

	return cmd
}

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/raphi011/divert/internal/config"
	"github.com/raphi011/divert/internal/divert"
	"github.com/raphi011/divert/internal/output"
)

// reconcileFlags are shared by the add and remove commands.
type reconcileFlags struct {
	pkg     string
	divert  string
	rename  bool
	force   bool
	dryRun  bool
	jsonOut bool
}

func addReconcileFlags(cmd *cobra.Command, f *reconcileFlags) {
	cmd.Flags().StringVarP(&f.pkg, "package", "p", "", "Package holding the diversion (default: none, dpkg's LOCAL)")
	cmd.Flags().StringVarP(&f.divert, "divert", "d", "", "Divert location (default: <path>"+config.DefaultSuffix+")")
	cmd.Flags().BoolVarP(&f.rename, "rename", "r", false, "Also move the file aside (or back); skipped if the destination exists")
	cmd.Flags().BoolVarP(&f.force, "force", "f", false, "Replace an existing diversion with a different holder or target")
	cmd.Flags().BoolVarP(&f.dryRun, "dry-run", "n", false, "Predict the outcome without changing anything")
	cmd.Flags().BoolVar(&f.jsonOut, "json", false, "Print the result as JSON")
}

// request builds the reconciliation request for path.
func (f reconcileFlags) request(path string, state divert.State) divert.Request {
	return divert.Request{
		Path:   path,
		State:  state,
		Holder: f.pkg,
		Divert: resolveDivert(cfg, path, f.divert),
		Rename: f.rename,
		Force:  f.force,
		DryRun: f.dryRun,
	}
}

// resolveDivert applies the configured suffix when no explicit divert
// location is given. The stock suffix is left implicit so dpkg-divert's own
// defaulting applies.
func resolveDivert(cfg *config.Config, path, flag string) string {
	if flag != "" {
		return flag
	}
	if suffix := cfg.Divert.Suffix; suffix != "" && suffix != config.DefaultSuffix {
		return path + suffix
	}
	return ""
}

// printResult reports a reconciliation outcome. A failed result becomes the
// command's error, with the registry's own diagnostic as the message.
func printResult(ctx context.Context, res divert.Result, jsonOut bool) error {
	p := output.FromContext(ctx)

	if jsonOut {
		if err := p.JSON(res); err != nil {
			return err
		}
		if res.Failed {
			return fmt.Errorf("diversion change failed")
		}
		return nil
	}

	if s := strings.TrimSpace(res.Stdout); s != "" {
		p.Println(s)
	} else {
		for _, msg := range res.Msg {
			if msg != "" {
				p.Println(msg)
			}
		}
	}

	if res.Failed {
		msg := strings.TrimSpace(res.Stderr)
		if msg == "" {
			msg = "the requested diversion change did not take effect"
		}
		return fmt.Errorf("%s", msg)
	}
	return nil
}

// interactiveAllowed reports whether prompting the user is both possible
// and permitted.
func interactiveAllowed() bool {
	return cfg.InteractiveEnabled() && isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
}

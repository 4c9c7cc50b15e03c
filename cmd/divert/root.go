package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/divert/internal/config"
	"github.com/raphi011/divert/internal/dpkg"
	"github.com/raphi011/divert/internal/log"
	"github.com/raphi011/divert/internal/output"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// Shared state injected into commands
	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "divert",
	Short: "Manage dpkg file diversions",
	Long: `divert manages diversions of Debian package files using dpkg-divert.

A diversion tells dpkg to install a package's version of a file somewhere
else, so a local replacement at the original path survives upgrades. divert
reconciles a desired diversion state against the dpkg registry: it issues
the minimal add/remove sequence, moves the displaced file at most once in
each direction, never overwrites existing files, and rolls the registry
back if a forced replacement fails halfway.`,
	SilenceUsage:               true,
	SilenceErrors:              true,
	SuggestionsMinimumDistance: 2, // Enable typo suggestions
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip the tool check for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
			return nil
		}

		if verbose && quiet {
			return fmt.Errorf("--verbose and --quiet are mutually exclusive")
		}

		// Flags are parsed by now; this is the earliest point a logger
		// can see their values.
		cmd.SetContext(log.WithLogger(cmd.Context(), log.New(os.Stderr, verbose, quiet)))

		return newTool().Check()
	},
	// Run is not set - shows help when no subcommand provided
}

// newTool returns the dpkg-divert boundary configured from the loaded config.
func newTool() *dpkg.Tool {
	return dpkg.New(cfg.DpkgDivert, cfg.Admindir)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Load config
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg = &loadedCfg

	// Create context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The logger is attached in PersistentPreRunE, once the global flags
	// have been parsed.

	// Add output printer (stdout for primary data)
	ctx = output.WithPrinter(ctx, os.Stdout)

	// Store context for commands to use
	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress all diagnostic output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	// Version flag
	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newRemoveCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newTruenameCmd())
	rootCmd.AddCommand(newCompletionCmd())
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/maxWiklund/txConverter/internal/adapters/cli/tui"
	"github.com/maxWiklund/txConverter/internal/domain"
)

var (
	// Global flags
	configFlag  string
	toolFlag    string
	verboseFlag bool
	gammaFlag   bool
	dryRunFlag  bool
	quietFlag   bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "txconverter [dir]",
		Short: "Convert image sequences to .tx textures with maketx",
		Long: `txconverter finds image sequences in a directory tree and converts them
to tiled .tx textures with maketx.

Run with a directory in a terminal to open the interactive browser, where
rows can be toggled, renamed and converted. Without a terminal the
directory is converted directly, like "txconverter convert".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runRoot,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default ~/.txconverter/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&toolFlag, "tool", "", "maketx executable to put in generated commands")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Debug logging, also written to stderr")
	rootCmd.PersistentFlags().BoolVar(&gammaFlag, "gamma", false, "Convert from sRGB to linear (overrides defaults.gamma)")
	rootCmd.PersistentFlags().BoolVar(&dryRunFlag, "dry-run", false, "Report commands without running them")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress progress output")

	// Add subcommands
	rootCmd.AddCommand(NewConvertCmd())
	rootCmd.AddCommand(NewListCmd())
	rootCmd.AddCommand(NewDepsCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewHistoryCmd())

	return rootCmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	if !isTerminal(cmd.OutOrStdout()) || !isTerminal(os.Stdin) {
		// No terminal - convert directly
		return runConvert(cmd, args)
	}
	return runBrowser(cmd, args)
}

func runBrowser(cmd *cobra.Command, args []string) error {
	app, err := newAppFor(cmd, false)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer app.Close()

	root := ""
	if len(args) > 0 {
		dirs, err := CollectDirs(args, "")
		if err != nil {
			return err
		}
		root = dirs[0]
	}

	app.Log.Info("browser started", "root", root, "tool", app.Tool, "dry_run", dryRunFlag)
	return tui.RunBrowser(cmd.Context(), domain.NewCollection(), app.ScanSvc, app.ConvertSvc, tui.BrowserOptions{
		Root:   root,
		DryRun: dryRunFlag,
	})
}

// newAppFor builds the App from the global flags. console enables stderr
// logging when --verbose is set.
func newAppFor(cmd *cobra.Command, console bool) (*App, error) {
	opts := AppOptions{
		ConfigPath: configFlag,
		Tool:       toolFlag,
		Verbose:    verboseFlag,
		Console:    console && verboseFlag,
	}
	if cmd.Flags().Changed("gamma") {
		gamma := gammaFlag
		opts.Gamma = &gamma
	}
	return NewApp(opts)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

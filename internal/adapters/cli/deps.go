package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxWiklund/txConverter/internal/adapters/maketx"
)

// NewDepsCmd creates the deps subcommand
func NewDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Check external tools (maketx)",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show dependency status",
		RunE:  runDepsStatus,
	}

	cmd.AddCommand(statusCmd)
	return cmd
}

func runDepsStatus(cmd *cobra.Command, args []string) error {
	app, err := newAppFor(cmd, true)
	if err != nil {
		return err
	}
	defer app.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Dependency Status:")
	fmt.Fprintln(out)

	if app.Runner.IsAvailable() {
		fmt.Fprintf(out, "  maketx:   installed (%s)\n", app.Runner.GetBinaryPath())
	} else {
		fmt.Fprintln(out, "  maketx:   not found")
	}
	fmt.Fprintf(out, "  command:  %s -v <input> -o <output>\n", app.Tool)
	fmt.Fprintln(out)

	if !app.Runner.IsAvailable() {
		fmt.Fprintln(out, maketx.Instructions())
		fmt.Fprintln(out)
	}
	return nil
}

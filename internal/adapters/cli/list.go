package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/maxWiklund/txConverter/internal/adapters/cli/tui"
	"github.com/maxWiklund/txConverter/internal/domain"
)

var commandsFlag bool

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [dirs...]",
		Short: "Show the images a conversion would pick up",
		Long: `Scan directories and print one row per discovered image or sequence,
including duplicates that would be skipped.

With --commands the generated maketx commands of every convertible row
are printed instead, one per line.`,
		RunE: runList,
	}

	cmd.Flags().StringVarP(&dirFileFlag, "file", "f", "", "File with directories to scan (one per line)")
	cmd.Flags().BoolVar(&commandsFlag, "commands", false, "Print the generated commands")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	dirs, err := CollectDirs(args, dirFileFlag)
	if err != nil {
		return fmt.Errorf("failed to collect directories: %w", err)
	}

	app, err := newAppFor(cmd, true)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer app.Close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	coll := domain.NewCollection()
	scanErr := scanDirs(ctx, app, dirs, coll, nil)

	out := cmd.OutOrStdout()
	if commandsFlag {
		printCommands(out, coll)
	} else {
		printElements(out, coll)
	}
	return scanErr
}

func printElements(out io.Writer, coll *domain.Collection) {
	if coll.Len() == 0 {
		fmt.Fprintln(out, "No images found.")
		return
	}

	headers := []string{"#", "Convert", "File name", "Output Name", "Gamma", "Frames", "Path"}
	aligns := []columnAlignment{alignRight, alignCenter, alignLeft, alignLeft, alignCenter, alignLeft, alignLeft}

	var rows [][]string
	enabled, commands := 0, 0
	for i, e := range coll.Snapshot() {
		name := e.Name()
		if e.Duplicated() {
			name += " (duplicate)"
		}
		if e.Enabled() {
			enabled++
			commands += e.FrameCount()
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			checkMark(e.Enabled()),
			name,
			tui.FormatOutputName(e),
			checkMark(e.Gamma()),
			tui.FormatFrames(e.Input()),
			e.Input().FilePath(),
		})
	}

	fmt.Fprintln(out, renderTable(headers, rows, aligns))
	fmt.Fprintf(out, "%d to convert (%d commands), %d skipped\n", enabled, commands, coll.Len()-enabled)
}

func printCommands(out io.Writer, coll *domain.Collection) {
	for _, e := range coll.Enabled() {
		for _, c := range e.CommandList() {
			fmt.Fprintln(out, c)
		}
	}
}

func checkMark(v bool) string {
	if v {
		return "✓"
	}
	return ""
}

package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/maxWiklund/txConverter/internal/adapters/cli/tui"
	"github.com/maxWiklund/txConverter/internal/domain"
)

var clearAllFlag bool

// NewHistoryCmd creates the history subcommand
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded conversion batches",
		RunE:  runHistoryList,
	}

	showCmd := &cobra.Command{
		Use:   "show <batch-id>",
		Short: "Show a batch and its failed commands",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShow,
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove expired batch reports",
		RunE:  runHistoryClear,
	}
	clearCmd.Flags().BoolVar(&clearAllFlag, "all", false, "Remove all batch reports")

	cmd.AddCommand(showCmd, clearCmd)
	return cmd
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	app, err := newAppFor(cmd, true)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	reports, err := app.HistorySvc.List(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(reports) == 0 {
		fmt.Fprintln(out, "No conversion batches recorded.")
		return nil
	}

	headers := []string{"Batch", "Started", "Status", "Commands", "Failed", "Took"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight}

	var rows [][]string
	for _, r := range reports {
		status := r.Status
		if r.DryRun {
			status += " (dry run)"
		}
		rows = append(rows, []string{
			r.ID,
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			status,
			strconv.Itoa(r.Total),
			strconv.Itoa(r.Failed()),
			tui.FormatDuration(r.FinishedAt.Sub(r.StartedAt)),
		})
	}
	fmt.Fprintln(out, renderTable(headers, rows, aligns))

	stats, err := app.HistorySvc.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%d batches, %s commands, %s failed (kept for %s)\n",
		stats.Batches, tui.FormatCount(int64(stats.Commands)), tui.FormatCount(int64(stats.Failed)),
		app.Config.History.Retention)
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	app, err := newAppFor(cmd, true)
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.HistorySvc.Get(cmd.Context(), args[0])
	if errors.Is(err, domain.ErrReportNotFound) || errors.Is(err, domain.ErrReportExpired) {
		return fmt.Errorf("batch %s: %w", args[0], err)
	}
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), report)
	return nil
}

func printReport(out io.Writer, r *domain.BatchReport) {
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Batch:     %s\n", r.ID)
	fmt.Fprintf(out, "Started:   %s\n", r.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Took:      %s\n", tui.FormatDuration(r.FinishedAt.Sub(r.StartedAt)))
	fmt.Fprintf(out, "Status:    %s\n", r.Status)
	fmt.Fprintf(out, "Dry run:   %s\n", checkMark(r.DryRun))
	fmt.Fprintf(out, "Images:    %d\n", r.Elements)
	fmt.Fprintf(out, "Commands:  %d/%d succeeded\n", r.Total-r.Failed(), r.Total)

	if r.Failed() == 0 {
		fmt.Fprintln(out)
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Failed commands:")
	for _, f := range r.Failures {
		fmt.Fprintf(out, "  [%s] %s\n", f.Element, f.Command)
		fmt.Fprintf(out, "      %s\n", f.Error)
	}
	fmt.Fprintln(out)
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	app, err := newAppFor(cmd, true)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if clearAllFlag {
		if err := app.HistorySvc.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "All batch reports removed")
		return nil
	}

	cleaned, err := app.HistorySvc.CleanExpired(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed %d expired reports\n", cleaned)
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/maxWiklund/txConverter/internal/adapters/cli/tui"
	"github.com/maxWiklund/txConverter/internal/adapters/maketx"
	"github.com/maxWiklund/txConverter/internal/application"
	"github.com/maxWiklund/txConverter/internal/domain"
)

var dirFileFlag string

// NewConvertCmd creates the convert command
func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [dirs...]",
		Short: "Scan directories and convert every image to .tx",
		Long: `Scan one or more directories for image sequences and convert them to
tiled .tx textures with maketx, one command per frame.

Commands run one after another. A failing frame is reported and the
batch carries on.

Example:
  txconverter convert ./textures
  txconverter convert --gamma shots/sh010 shots/sh020
  txconverter convert --file dirs.txt --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, args)
		},
	}

	cmd.Flags().StringVarP(&dirFileFlag, "file", "f", "", "File with directories to scan (one per line)")

	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	quiet := quietFlag || !isTerminal(out)
	steps := tui.NewProgressDisplay(out, []string{"Checking maketx", "Scanning"}, quiet)

	// Step 1: maketx is only needed when commands really run
	steps.StartStep(0)
	switch {
	case dryRunFlag:
		steps.CompleteStep(0, "dry run")
	case !app.Runner.IsAvailable():
		steps.FailStep(0, domain.ErrToolNotFound.Error())
		return fmt.Errorf("%w\n%s", domain.ErrToolNotFound, maketx.Instructions())
	default:
		steps.CompleteStep(0, app.Runner.GetBinaryPath())
	}

	// Step 2: scan
	coll := domain.NewCollection()
	steps.StartStep(1)
	spinnerDone := steps.StartSpinner()
	found := 0
	scanErr := scanDirs(ctx, app, dirs, coll, func(ev domain.Event) {
		if _, ok := ev.(domain.ElementDiscovered); ok {
			found++
			steps.UpdateCount(1, found, 0)
		}
	})
	close(spinnerDone)
	if scanErr != nil {
		steps.FailStep(1, application.ErrorText(scanErr))
		if errors.Is(scanErr, context.Canceled) {
			return scanErr
		}
		fmt.Fprintln(cmd.ErrOrStderr(), scanErr)
	} else {
		steps.CompleteStep(1, fmt.Sprintf("%d found", coll.Len()))
	}

	for _, dup := range duplicates(coll) {
		app.Log.Warn("skipping duplicate", "name", dup.Name(), "path", dup.Input().FilePath())
		if !quietFlag {
			fmt.Fprintf(cmd.ErrOrStderr(), "skipping duplicate: %s\n", dup.Input().FilePath())
		}
	}

	// Step 3: convert
	events, err := app.ConvertSvc.ConvertEnabled(ctx, coll, application.ConvertOptions{DryRun: dryRunFlag})
	if errors.Is(err, domain.ErrNoEnabledElements) {
		fmt.Fprintln(out, application.ErrorText(err))
		return scanErr
	}
	if err != nil {
		return err
	}

	return reportBatch(out, events, quiet, quietFlag)
}

// reportBatch drains a conversion stream into a BatchProgress display.
// Without live output a one-line summary is printed unless silent.
func reportBatch(out io.Writer, events <-chan domain.Event, quiet, silent bool) error {
	var progress *tui.BatchProgress
	var finished domain.ConvertFinished
	last := time.Now()

	for ev := range events {
		switch e := ev.(type) {
		case domain.ConvertStarted:
			progress = tui.NewBatchProgress(out, e.Commands, quiet)
			last = time.Now()
		case domain.CommandFinished:
			errMsg := ""
			if e.Err != nil {
				errMsg = e.Err.Error()
			}
			label := fmt.Sprintf("%s [%d/%d]", e.Element, e.Index, e.Total)
			progress.AddResult(label, e.Err == nil, errMsg, time.Since(last))
			last = time.Now()
		case domain.ConvertFinished:
			finished = e
		}
	}

	if progress != nil {
		progress.Complete()
	}
	if quiet && !silent {
		fmt.Fprintf(out, "%s %d/%d commands succeeded\n",
			application.StatusText(finished), finished.Total-finished.Failed, finished.Total)
	}
	if finished.Failed > 0 {
		if !silent {
			fmt.Fprintf(out, "Failed commands: txconverter history show %s\n", finished.BatchID)
		}
		return fmt.Errorf("%d of %d commands failed", finished.Failed, finished.Total)
	}
	return nil
}

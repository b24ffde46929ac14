package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maxWiklund/txConverter/internal/domain"
	"github.com/maxWiklund/txConverter/internal/ports"
)

// ConvertOptions configures a conversion batch
type ConvertOptions struct {
	DryRun bool // report commands without running them
}

// ConvertService runs conversion batches
type ConvertService struct {
	runner  ports.CommandRunner
	reports ports.ReportStore
	log     *slog.Logger
	now     func() time.Time

	mu    sync.Mutex
	state domain.BatchStatus
}

// NewConvertService creates a new conversion service
func NewConvertService(runner ports.CommandRunner, log *slog.Logger) *ConvertService {
	if log == nil {
		log = slog.Default()
	}
	return &ConvertService{runner: runner, log: log, now: time.Now}
}

// WithReports records a report of every finished batch in store.
func (s *ConvertService) WithReports(store ports.ReportStore) *ConvertService {
	s.reports = store
	return s
}

// State returns the status of the most recent batch.
func (s *ConvertService) State() domain.BatchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *ConvertService) setState(st domain.BatchStatus) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// ConvertEnabled snapshots the enabled elements of coll and converts them.
// An empty snapshot is rejected with ErrNoEnabledElements and nothing is
// started.
func (s *ConvertService) ConvertEnabled(ctx context.Context, coll *domain.Collection, opts ConvertOptions) (<-chan domain.Event, error) {
	elements := coll.Enabled()
	if len(elements) == 0 {
		return nil, domain.ErrNoEnabledElements
	}
	return s.Convert(ctx, elements, opts), nil
}

// Convert runs every command of every element in the background, strictly
// one after another in element then frame order. A failing command is
// logged and counted; it never stops the batch. The channel carries
// ConvertStarted, one CommandFinished per command and a final
// ConvertFinished, then closes. The channel holds the whole batch, so the
// producer never blocks on a consumer that stopped reading.
func (s *ConvertService) Convert(ctx context.Context, elements []*domain.Element, opts ConvertOptions) <-chan domain.Event {
	type job struct {
		element string
		command string
	}

	var jobs []job
	for _, e := range elements {
		for _, cmd := range e.CommandList() {
			jobs = append(jobs, job{element: e.Name(), command: cmd})
		}
	}

	batchID := uuid.NewString()
	log := s.log.With("batch", batchID)
	s.setState(domain.BatchRunning)

	report := &domain.BatchReport{DryRun: opts.DryRun}
	events := make(chan domain.Event, len(jobs)+2)
	emit := func(ev domain.Event) {
		report.Apply(ev, s.now())
		events <- ev
	}

	go func() {
		defer close(events)

		emit(domain.ConvertStarted{BatchID: batchID, Elements: len(elements), Commands: len(jobs)})
		log.Info("conversion started", "elements", len(elements), "commands", len(jobs))

		failed := 0
		for i, j := range jobs {
			err := s.run(ctx, j.command, opts)
			if err != nil {
				log.Warn(fmt.Sprintf("Failed to execute command: %q", j.command), "error", err)
				failed++
			}
			emit(domain.CommandFinished{
				BatchID: batchID,
				Element: j.element,
				Command: j.command,
				Index:   i + 1,
				Total:   len(jobs),
				Err:     err,
			})
		}

		status := domain.BatchSucceeded
		if failed > 0 {
			status = domain.BatchFailed
		}
		s.setState(status)
		log.Info("conversion finished", "status", status.String(), "failed", failed, "total", len(jobs))

		finished := domain.ConvertFinished{BatchID: batchID, Status: status, Total: len(jobs), Failed: failed}
		report.Apply(finished, s.now())
		s.record(ctx, report)
		events <- finished
	}()
	return events
}

// record saves the report before the terminal event goes out, so a
// caller reacting to ConvertFinished can already read it back.
func (s *ConvertService) record(ctx context.Context, report *domain.BatchReport) {
	if s.reports == nil {
		return
	}
	if err := s.reports.Save(context.WithoutCancel(ctx), report); err != nil {
		s.log.Warn("failed to save batch report", "batch", report.ID, "error", err)
	}
}

func (s *ConvertService) run(ctx context.Context, command string, opts ConvertOptions) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("skipped: %w", err)
	}
	if opts.DryRun {
		s.log.Info("dry run", "command", command)
		return nil
	}
	return s.runner.Run(ctx, command)
}

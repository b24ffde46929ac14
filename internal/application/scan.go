package application

import (
	"context"
	"log/slog"

	"github.com/maxWiklund/txConverter/internal/domain"
	"github.com/maxWiklund/txConverter/internal/ports"
)

// ScanOptions configures how discovered sequences become elements
type ScanOptions struct {
	Tool      string // executable token, empty for maketx
	TargetExt string // output extension, empty for .tx
	Gamma     bool   // initial gamma flag
}

// ScanService turns a directory into a stream of elements
type ScanService struct {
	discoverer ports.SequenceDiscoverer
	opts       ScanOptions
	log        *slog.Logger
}

// NewScanService creates a new scan service
func NewScanService(discoverer ports.SequenceDiscoverer, opts ScanOptions, log *slog.Logger) *ScanService {
	if log == nil {
		log = slog.Default()
	}
	return &ScanService{
		discoverer: discoverer,
		opts:       opts,
		log:        log,
	}
}

// NewElement builds an element from a discovered sequence. The input
// reference is kept and deep-copied once for the output.
func (s *ScanService) NewElement(seq *domain.Sequence) *domain.Element {
	return domain.NewElement(seq,
		domain.WithTool(s.opts.Tool),
		domain.WithTargetExt(s.opts.TargetExt),
		domain.WithGamma(s.opts.Gamma),
	)
}

// Scan discovers the sequences under dir in the background. The returned
// channel carries ScanStarted, one ElementDiscovered per sequence and a
// final ScanFinished, then closes. When dir is not a directory no work is
// started and the channel carries a single ScanAborted.
//
// Cancelling ctx stops the walk and releases the producer even when nobody
// reads the channel any more. Events not yet received at that point may be
// dropped, ScanFinished included.
func (s *ScanService) Scan(ctx context.Context, dir string) <-chan domain.Event {
	return s.scan(ctx, dir, nil)
}

// ScanInto is Scan that also appends every element to coll, one at a
// time, before its event is delivered. The event carries a copy of the row.
func (s *ScanService) ScanInto(ctx context.Context, dir string, coll *domain.Collection) <-chan domain.Event {
	return s.scan(ctx, dir, coll)
}

func (s *ScanService) scan(ctx context.Context, dir string, coll *domain.Collection) <-chan domain.Event {
	if !s.discoverer.IsDir(dir) {
		s.log.Info("scan aborted", "path", dir, "reason", domain.ErrInvalidScanTarget)
		events := make(chan domain.Event, 1)
		events <- domain.ScanAborted{Path: dir, Reason: domain.ErrInvalidScanTarget.Error()}
		close(events)
		return events
	}

	events := make(chan domain.Event)
	send := func(ev domain.Event) bool {
		select {
		case events <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	go func() {
		defer close(events)

		if !send(domain.ScanStarted{Path: dir}) {
			s.log.Debug("scan abandoned", "path", dir)
			return
		}
		s.log.Debug("scan started", "path", dir)

		count := 0
		err := s.discoverer.Discover(ctx, dir, func(seq *domain.Sequence) error {
			e := s.NewElement(seq)
			if coll != nil {
				e = coll.Add(e)
			}
			count++
			if !send(domain.ElementDiscovered{Element: e}) {
				return ctx.Err()
			}
			return nil
		})
		if err != nil {
			s.log.Warn("scan stopped early", "path", dir, "error", err)
		}

		s.log.Debug("scan finished", "path", dir, "elements", count)
		send(domain.ScanFinished{Path: dir, Count: count, Err: err})
	}()
	return events
}

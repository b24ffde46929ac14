package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// StepStatus is the state of one step of a console run
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepError
)

// ProgressStep is one line of a ProgressDisplay
type ProgressStep struct {
	Name    string
	Status  StepStatus
	Current int // items handled so far
	Total   int // 0 when unknown
	Detail  string
}

// label renders the status column of the step
func (s ProgressStep) label(frame string) string {
	switch s.Status {
	case StepRunning:
		switch {
		case s.Total > 0:
			return fmt.Sprintf("%s %d/%d", frame, s.Current, s.Total)
		case s.Current > 0:
			return fmt.Sprintf("%s %d", frame, s.Current)
		}
		return frame
	case StepComplete:
		return strings.TrimSpace("✓ " + s.Detail)
	case StepError:
		return "✗ " + s.Detail
	}
	return " "
}

const redrawInterval = 100 * time.Millisecond

// ProgressDisplay redraws a fixed list of steps in place
type ProgressDisplay struct {
	mu     sync.Mutex
	out    io.Writer
	quiet  bool
	steps  []ProgressStep
	frames []string
	frame  int
	drawn  bool
	drawAt time.Time
}

// NewProgressDisplay creates a display with every step pending
func NewProgressDisplay(out io.Writer, names []string, quiet bool) *ProgressDisplay {
	steps := make([]ProgressStep, 0, len(names))
	for _, name := range names {
		steps = append(steps, ProgressStep{Name: name})
	}
	return &ProgressDisplay{
		out:    out,
		quiet:  quiet,
		steps:  steps,
		frames: spinner.Dot.Frames,
	}
}

// update applies fn to step i and redraws. Out of range indexes are ignored.
func (p *ProgressDisplay) update(i int, force bool, fn func(*ProgressStep)) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i < 0 || i >= len(p.steps) {
		return
	}
	fn(&p.steps[i])
	if force || time.Since(p.drawAt) > redrawInterval {
		p.draw()
	}
}

func (p *ProgressDisplay) StartStep(i int) {
	p.update(i, true, func(s *ProgressStep) { s.Status = StepRunning })
}

func (p *ProgressDisplay) CompleteStep(i int, detail string) {
	p.update(i, true, func(s *ProgressStep) { s.Status, s.Detail = StepComplete, detail })
}

func (p *ProgressDisplay) FailStep(i int, reason string) {
	p.update(i, true, func(s *ProgressStep) { s.Status, s.Detail = StepError, reason })
}

// UpdateCount sets the item counter of a running step. Redraws are throttled.
func (p *ProgressDisplay) UpdateCount(i, current, total int) {
	p.update(i, false, func(s *ProgressStep) { s.Current, s.Total = current, total })
}

// Tick advances the spinner of running steps
func (p *ProgressDisplay) Tick() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.frame = (p.frame + 1) % len(p.frames)
	p.draw()
}

// Steps returns a copy of the step states
func (p *ProgressDisplay) Steps() []ProgressStep {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ProgressStep(nil), p.steps...)
}

// draw rewrites every step line. Caller holds mu.
func (p *ProgressDisplay) draw() {
	if p.quiet {
		return
	}
	p.drawAt = time.Now()

	var b strings.Builder
	if p.drawn {
		// Move up over the previous frame and clear to the end of screen
		fmt.Fprintf(&b, "\033[%dA\033[J", len(p.steps))
	}
	for i, s := range p.steps {
		fmt.Fprintf(&b, "[%d/%d] %s... %s\n", i+1, len(p.steps), s.Name, s.label(p.frames[p.frame]))
	}
	io.WriteString(p.out, b.String())
	p.drawn = true
}

// StartSpinner ticks the display until the returned channel is closed
func (p *ProgressDisplay) StartSpinner() chan struct{} {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(redrawInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p.Tick()
			}
		}
	}()
	return done
}

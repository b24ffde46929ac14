package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// renderProgressBar creates a text progress bar like [=====>    ]
// current=0, total=10, width=10 → [          ]
// current=5, total=10, width=10 → [=====>    ]
// current=10, total=10, width=10 → [==========]
// current=3, total=10, width=10 → [==>       ]
func renderProgressBar(current, total, width int) string {
	switch {
	case total <= 0 || current <= 0:
		return "[" + strings.Repeat(" ", width) + "]"
	case current >= total:
		return "[" + strings.Repeat("=", width) + "]"
	}

	ratio := float64(current) / float64(total)
	head := max(int(ratio*float64(width)+0.5), 1)

	// From the halfway mark the head sits after the filled part
	equals := head - 1
	if ratio >= 0.5 {
		equals = head
	}
	equals = min(max(equals, 0), width-1)

	return "[" + strings.Repeat("=", equals) + ">" + strings.Repeat(" ", width-equals-1) + "]"
}

// CommandResult is the outcome of one conversion command
type CommandResult struct {
	Label    string
	Success  bool
	ErrMsg   string
	Duration time.Duration
}

func (r CommandResult) line() string {
	if r.Success {
		return fmt.Sprintf("✓ %s (%s)", r.Label, FormatDuration(r.Duration))
	}
	return fmt.Sprintf("✗ %s: %s", r.Label, r.ErrMsg)
}

// recentResults is how many finished commands stay visible under the bar
const recentResults = 10

// BatchProgress redraws a progress bar and the latest command results in
// place while a conversion runs
type BatchProgress struct {
	mu      sync.Mutex
	out     io.Writer
	quiet   bool
	total   int
	results []CommandResult
	failed  int
	lines   int // lines written by the last draw
	start   time.Time
}

// NewBatchProgress creates a display for total commands
func NewBatchProgress(out io.Writer, total int, quiet bool) *BatchProgress {
	return &BatchProgress{
		out:   out,
		quiet: quiet,
		total: max(total, 0),
		start: time.Now(),
	}
}

// AddResult records a finished command and redraws
func (bp *BatchProgress) AddResult(label string, success bool, errMsg string, duration time.Duration) {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	bp.results = append(bp.results, CommandResult{
		Label:    label,
		Success:  success,
		ErrMsg:   errMsg,
		Duration: duration,
	})
	if !success {
		bp.failed++
	}
	bp.draw()
}

// draw rewrites the bar and the recent results. Caller holds mu.
func (bp *BatchProgress) draw() {
	if bp.quiet {
		return
	}

	var b strings.Builder
	if bp.lines > 0 {
		fmt.Fprintf(&b, "\033[%dA\033[J", bp.lines)
	}

	done := len(bp.results)
	percent := 0
	if bp.total > 0 {
		percent = done * 100 / bp.total
	}
	fmt.Fprintf(&b, "Converting %d/%d frames %s %d%%\n", done, bp.total, renderProgressBar(done, bp.total, 20), percent)

	recent := bp.results[max(done-recentResults, 0):]
	for _, r := range recent {
		b.WriteString(r.line())
		b.WriteByte('\n')
	}

	io.WriteString(bp.out, b.String())
	bp.lines = 1 + len(recent)
}

// Complete prints the summary and every failure
func (bp *BatchProgress) Complete() {
	if bp.quiet {
		return
	}

	bp.mu.Lock()
	defer bp.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "\nConversion complete: %d/%d succeeded in %s\n",
		len(bp.results)-bp.failed, bp.total, FormatDuration(time.Since(bp.start)))

	if bp.failed > 0 {
		b.WriteString("\nFailures:\n")
		for _, r := range bp.results {
			if !r.Success {
				b.WriteString("  " + r.line() + "\n")
			}
		}
	}
	io.WriteString(bp.out, b.String())
}

// Succeeded returns the number of successful commands so far
func (bp *BatchProgress) Succeeded() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return len(bp.results) - bp.failed
}

// Failed returns the number of failed commands so far
func (bp *BatchProgress) Failed() int {
	bp.mu.Lock()
	defer bp.mu.Unlock()
	return bp.failed
}

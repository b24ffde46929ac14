package tui

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/maxWiklund/txConverter/internal/domain"
)

// FormatCount formats a number with K/M suffix
// Examples: 892 -> "892", 1234 -> "1.2K", 1500000 -> "1.5M"
func FormatCount(count int64) string {
	if count >= 1000000 {
		return fmt.Sprintf("%.1fM", float64(count)/1000000)
	}
	if count >= 1000 {
		return fmt.Sprintf("%.1fK", float64(count)/1000)
	}
	return fmt.Sprintf("%d", count)
}

// FormatFrames describes the frames of a sequence
// Examples: single file -> "single", [1001..1010] -> "1001-1010 (10)"
func FormatFrames(seq *domain.Sequence) string {
	if !seq.IsSequence() {
		return "single"
	}
	if len(seq.Frames) == 0 {
		return "no frames"
	}
	return fmt.Sprintf("%s (%s)", seq.FrameRange(), FormatCount(int64(len(seq.Frames))))
}

// FormatCheck renders a boolean column
func FormatCheck(v bool) string {
	if v {
		return "[x]"
	}
	return "[ ]"
}

// FormatOutputName shows the output file name the way it lands on disk
func FormatOutputName(e *domain.Element) string {
	return filepath.Base(e.Output().FilePath())
}

// FormatDuration rounds a duration for status lines
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// Truncate shortens s to max runes, ending in "..."
func Truncate(s string, max int) string {
	r := []rune(s)
	if max <= 3 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

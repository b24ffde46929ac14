package domain

import (
	"fmt"
	"strings"
)

const (
	// DefaultTool is the executable token every generated command starts with.
	DefaultTool = "maketx"
	// DefaultTargetExt is the extension forced onto output sequences.
	DefaultTargetExt = ".tx"

	duplicateTooltip = "Element is a duplicate and can't be converted."
)

// gammaDirective converts from sRGB to linear.
var gammaDirective = []string{"--colorconvert", "sRGB", "linear"}

// Element is one convertible unit: a discovered sequence, its derived
// output sequence and the per-element conversion flags.
type Element struct {
	id     uint64 // row identity assigned by a Collection, kept by Clone
	input  *Sequence
	output *Sequence
	name   string
	tool   string

	enabled     bool
	userEnabled bool // last value chosen by the user, restored on promotion
	gamma       bool
	duplicated  bool
}

// ElementOption configures a new Element.
type ElementOption func(*Element)

// WithTool overrides the executable token.
func WithTool(tool string) ElementOption {
	return func(e *Element) {
		if tool != "" {
			e.tool = tool
		}
	}
}

// WithTargetExt overrides the output extension.
func WithTargetExt(ext string) ElementOption {
	return func(e *Element) {
		if ext != "" {
			e.output.SetExt(ext)
		}
	}
}

// WithGamma sets the initial gamma flag.
func WithGamma(gamma bool) ElementOption {
	return func(e *Element) {
		e.gamma = gamma
	}
}

// NewElement wraps a discovered sequence. The output sequence is a deep
// copy of the input with its extension forced to the target format.
func NewElement(seq *Sequence, opts ...ElementOption) *Element {
	output := seq.Clone()
	output.SetExt(DefaultTargetExt)

	e := &Element{
		input:       seq,
		output:      output,
		name:        seq.BaseName(),
		tool:        DefaultTool,
		enabled:     true,
		userEnabled: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name is the dedup key, derived once from the input base name.
func (e *Element) Name() string { return e.name }

// Input returns the discovered sequence.
func (e *Element) Input() *Sequence { return e.input }

// Output returns the derived output sequence.
func (e *Element) Output() *Sequence { return e.output }

func (e *Element) Enabled() bool    { return e.enabled }
func (e *Element) Gamma() bool      { return e.gamma }
func (e *Element) Duplicated() bool { return e.duplicated }

// SetEnabled records the user's choice. Enabling a duplicated element is
// refused and reported as false.
func (e *Element) SetEnabled(enabled bool) bool {
	if e.duplicated && enabled {
		return false
	}
	e.enabled = enabled
	e.userEnabled = enabled
	return true
}

func (e *Element) SetGamma(gamma bool) { e.gamma = gamma }

// markDuplicate is driven by the collection's duplicate pass only.
func (e *Element) markDuplicate(duplicated bool) {
	if duplicated {
		e.duplicated = true
		e.enabled = false
		return
	}
	if e.duplicated {
		e.enabled = e.userEnabled
	}
	e.duplicated = false
}

// Tooltip returns the duplicate warning or the input file path.
func (e *Element) Tooltip() string {
	if e.duplicated {
		return duplicateTooltip
	}
	return fmt.Sprintf("File path: %s", e.input.FilePath())
}

// OutputName returns the output sequence base name.
func (e *Element) OutputName() string {
	return e.output.Name
}

// SetOutputName renames the output sequence. Refusing edits on duplicates
// is left to the caller.
func (e *Element) SetOutputName(name string) {
	e.output.SetName(name)
}

// FrameCount returns the number of commands CommandList will produce.
func (e *Element) FrameCount() int {
	return len(e.input.Paths())
}

// BuildCommand builds one conversion command. Paths are inserted verbatim.
func (e *Element) BuildCommand(inputPath, outputPath string) string {
	return strings.Join(e.buildArgs(inputPath, outputPath), " ")
}

func (e *Element) buildArgs(inputPath, outputPath string) []string {
	args := []string{e.tool, "-v", inputPath}
	if e.gamma {
		args = append(args, gammaDirective...)
	}
	return append(args, "-o", outputPath)
}

// CommandList returns one command per frame, in frame order.
func (e *Element) CommandList() []string {
	ins, outs := e.input.Paths(), e.output.Paths()
	n := min(len(ins), len(outs))

	commands := make([]string, 0, n)
	for i := 0; i < n; i++ {
		commands = append(commands, e.BuildCommand(ins[i], outs[i]))
	}
	return commands
}

// CommandArgs returns the same commands as argument vectors, for runners
// that bypass the shell.
func (e *Element) CommandArgs() [][]string {
	ins, outs := e.input.Paths(), e.output.Paths()
	n := min(len(ins), len(outs))

	args := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		args = append(args, e.buildArgs(ins[i], outs[i]))
	}
	return args
}

// Clone returns a copy with its own output sequence. The input sequence
// is shared since elements never mutate it.
func (e *Element) Clone() *Element {
	c := *e
	c.output = e.output.Clone()
	return &c
}

package domain

import (
	"reflect"
	"strings"
	"testing"
)

func mustParse(t *testing.T, path string, frames ...int) *Sequence {
	t.Helper()
	seq, err := ParseSequencePath(path)
	if err != nil {
		t.Fatalf("ParseSequencePath(%s) error = %v", path, err)
	}
	seq.Frames = frames
	return seq
}

func TestElement_CommandList(t *testing.T) {
	e := NewElement(mustParse(t, "/mock/file.%04d.exr", 1001))

	expected := []string{"maketx -v /mock/file.1001.exr -o /mock/file.1001.tx"}
	if got := e.CommandList(); !reflect.DeepEqual(got, expected) {
		t.Errorf("CommandList() = %v, want %v", got, expected)
	}
}

func TestElement_CommandListGamma(t *testing.T) {
	e := NewElement(mustParse(t, "/mock/file.1009.exr"))
	e.SetGamma(true)

	expected := []string{"maketx -v /mock/file.1009.exr --colorconvert sRGB linear -o /mock/file.1009.tx"}
	if got := e.CommandList(); !reflect.DeepEqual(got, expected) {
		t.Errorf("CommandList() = %v, want %v", got, expected)
	}
}

func TestElement_CommandListMultipleFrames(t *testing.T) {
	e := NewElement(mustParse(t, "/mock/file.%04d.exr", 1001, 1002, 1003))

	expected := []string{
		"maketx -v /mock/file.1001.exr -o /mock/file.1001.tx",
		"maketx -v /mock/file.1002.exr -o /mock/file.1002.tx",
		"maketx -v /mock/file.1003.exr -o /mock/file.1003.tx",
	}
	if got := e.CommandList(); !reflect.DeepEqual(got, expected) {
		t.Errorf("CommandList() = %v, want %v", got, expected)
	}
}

func TestElement_CommandListNoFrames(t *testing.T) {
	e := NewElement(mustParse(t, "/mock/file.exr"))

	expected := []string{"maketx -v /mock/file.exr -o /mock/file.tx"}
	if got := e.CommandList(); !reflect.DeepEqual(got, expected) {
		t.Errorf("CommandList() = %v, want %v", got, expected)
	}
}

func TestElement_CommandListEmptyExpansion(t *testing.T) {
	e := NewElement(mustParse(t, "/mock/file.%04d.exr"))

	if got := e.CommandList(); len(got) != 0 {
		t.Errorf("CommandList() = %v, want empty", got)
	}
	if e.FrameCount() != 0 {
		t.Errorf("FrameCount() = %d, want 0", e.FrameCount())
	}
}

func TestElement_CommandListFollowsOutputName(t *testing.T) {
	e := NewElement(mustParse(t, "/mock/file.%04d.exr", 1, 2))
	e.SetOutputName("renamed")

	expected := []string{
		"maketx -v /mock/file.0001.exr -o /mock/renamed.0001.tx",
		"maketx -v /mock/file.0002.exr -o /mock/renamed.0002.tx",
	}
	if got := e.CommandList(); !reflect.DeepEqual(got, expected) {
		t.Errorf("CommandList() = %v, want %v", got, expected)
	}
	if e.Name() != "file" {
		t.Errorf("Name() = %q, want file (name must not follow output)", e.Name())
	}
}

func TestElement_BuildCommandGammaPlacement(t *testing.T) {
	e := NewElement(mustParse(t, "/mock/file.exr"))

	plain := e.BuildCommand("/in.exr", "/out.tx")
	if strings.Contains(plain, "--colorconvert") {
		t.Errorf("BuildCommand() without gamma = %q, must not contain --colorconvert", plain)
	}

	e.SetGamma(true)
	withGamma := e.BuildCommand("/in.exr", "/out.tx")
	in := strings.Index(withGamma, "/in.exr")
	cc := strings.Index(withGamma, "--colorconvert")
	out := strings.Index(withGamma, "-o ")
	if cc < 0 {
		t.Fatalf("BuildCommand() with gamma = %q, missing --colorconvert", withGamma)
	}
	if !(in < cc && cc < out) {
		t.Errorf("BuildCommand() = %q, --colorconvert must sit between input path and -o", withGamma)
	}
}

func TestElement_Options(t *testing.T) {
	e := NewElement(mustParse(t, "/mock/file.exr"),
		WithTool("/opt/oiio/bin/maketx"),
		WithTargetExt("tex"),
		WithGamma(true),
	)

	expected := []string{"/opt/oiio/bin/maketx -v /mock/file.exr --colorconvert sRGB linear -o /mock/file.tex"}
	if got := e.CommandList(); !reflect.DeepEqual(got, expected) {
		t.Errorf("CommandList() = %v, want %v", got, expected)
	}
}

func TestElement_CommandArgs(t *testing.T) {
	e := NewElement(mustParse(t, "/mock/file.%04d.exr", 1001))
	e.SetGamma(true)

	expected := [][]string{{"maketx", "-v", "/mock/file.1001.exr", "--colorconvert", "sRGB", "linear", "-o", "/mock/file.1001.tx"}}
	if got := e.CommandArgs(); !reflect.DeepEqual(got, expected) {
		t.Errorf("CommandArgs() = %v, want %v", got, expected)
	}
}

func TestElement_Defaults(t *testing.T) {
	seq := mustParse(t, "/mock/file.%04d.exr", 1001)
	e := NewElement(seq)

	if !e.Enabled() {
		t.Error("Enabled() = false, want true by default")
	}
	if e.Gamma() {
		t.Error("Gamma() = true, want false by default")
	}
	if e.Duplicated() {
		t.Error("Duplicated() = true, want false by default")
	}
	if e.Output().Ext != ".tx" {
		t.Errorf("Output().Ext = %q, want .tx", e.Output().Ext)
	}
	if e.Input().Ext != ".exr" {
		t.Errorf("Input().Ext = %q, want .exr (input must be untouched)", e.Input().Ext)
	}
	if e.Input() != seq {
		t.Error("Input() should reference the discovered sequence")
	}
}

func TestElement_Tooltip(t *testing.T) {
	e := NewElement(mustParse(t, "/mock/file.%04d.exr", 1001))

	if got, want := e.Tooltip(), "File path: /mock/file.%04d.exr"; got != want {
		t.Errorf("Tooltip() = %q, want %q", got, want)
	}

	e.markDuplicate(true)
	if got, want := e.Tooltip(), "Element is a duplicate and can't be converted."; got != want {
		t.Errorf("Tooltip() = %q, want %q", got, want)
	}
}

func TestElement_SetEnabledOnDuplicate(t *testing.T) {
	e := NewElement(mustParse(t, "/mock/file.exr"))
	e.markDuplicate(true)

	if e.SetEnabled(true) {
		t.Error("SetEnabled(true) on duplicate = true, want refused")
	}
	if e.Enabled() {
		t.Error("duplicate element must stay disabled")
	}

	// Output name edits stay possible at the data level.
	e.SetOutputName("fixed")
	if e.OutputName() != "fixed" {
		t.Errorf("OutputName() = %q, want fixed", e.OutputName())
	}
}

func TestElement_CloneDetachesOutput(t *testing.T) {
	e := NewElement(mustParse(t, "/mock/file.exr"))
	c := e.Clone()
	c.SetOutputName("changed")
	c.SetGamma(true)

	if e.OutputName() != "file" {
		t.Errorf("original OutputName() = %q, want file", e.OutputName())
	}
	if e.Gamma() {
		t.Error("original Gamma() changed through clone")
	}
}

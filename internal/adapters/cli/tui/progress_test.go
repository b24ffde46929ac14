package tui

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgressDisplay_Steps(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressDisplay(&buf, []string{"Checking maketx", "Scanning", "Converting"}, false)

	p.StartStep(0)
	p.CompleteStep(0, "/usr/bin/maketx")
	p.StartStep(1)
	p.FailStep(1, "path does not exist")
	p.StartStep(7)

	steps := p.Steps()
	want := []StepStatus{StepComplete, StepError, StepPending}
	for i, s := range steps {
		if s.Status != want[i] {
			t.Errorf("steps[%d].Status = %v, want %v", i, s.Status, want[i])
		}
	}

	out := buf.String()
	if !strings.Contains(out, "[1/3] Checking maketx... ✓ /usr/bin/maketx") {
		t.Errorf("output missing completed step:\n%s", out)
	}
	if !strings.Contains(out, "[2/3] Scanning... ✗ path does not exist") {
		t.Errorf("output missing failed step:\n%s", out)
	}
}

func TestProgressDisplay_Quiet(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgressDisplay(&buf, []string{"Scanning"}, true)

	p.StartStep(0)
	p.UpdateCount(0, 3, 0)
	p.CompleteStep(0, "")

	if buf.Len() != 0 {
		t.Errorf("quiet display wrote %q", buf.String())
	}
}

func TestProgressStep_Label(t *testing.T) {
	tests := []struct {
		step ProgressStep
		want string
	}{
		{ProgressStep{Status: StepPending}, " "},
		{ProgressStep{Status: StepRunning}, "*"},
		{ProgressStep{Status: StepRunning, Current: 4}, "* 4"},
		{ProgressStep{Status: StepRunning, Current: 4, Total: 9}, "* 4/9"},
		{ProgressStep{Status: StepComplete}, "✓"},
		{ProgressStep{Status: StepComplete, Detail: "12 found"}, "✓ 12 found"},
		{ProgressStep{Status: StepError, Detail: "boom"}, "✗ boom"},
	}

	for _, tt := range tests {
		if got := tt.step.label("*"); got != tt.want {
			t.Errorf("label(%+v) = %q, want %q", tt.step, got, tt.want)
		}
	}
}

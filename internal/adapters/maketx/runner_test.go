package maketx

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/maxWiklund/txConverter/internal/domain"
)

func TestMakeTxBinaryName(t *testing.T) {
	name := binaryName()

	if runtime.GOOS == "windows" {
		if name != "maketx.exe" {
			t.Errorf("binaryName() = %s, want maketx.exe on Windows", name)
		}
	} else {
		if name != "maketx" {
			t.Errorf("binaryName() = %s, want maketx", name)
		}
	}
}

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell tests need sh")
	}
}

func TestRunner_Run(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner("")

	if err := r.Run(context.Background(), "true"); err != nil {
		t.Errorf("Run(true) error = %v", err)
	}
}

func TestRunner_RunFailure(t *testing.T) {
	skipOnWindows(t)
	r := NewRunner("")

	err := r.Run(context.Background(), "echo broken frame >&2; exit 3")
	if !errors.Is(err, domain.ErrCommandFailed) {
		t.Fatalf("Run() error = %v, want ErrCommandFailed", err)
	}
	if !strings.Contains(err.Error(), "broken frame") {
		t.Errorf("Run() error = %q, want stderr included", err)
	}
}

func TestRunner_RunCancelled(t *testing.T) {
	skipOnWindows(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewRunner("").Run(ctx, "sleep 5")
	if !errors.Is(err, domain.ErrCommandFailed) || !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want ErrCommandFailed wrapping context.Canceled", err)
	}
}

func TestRunner_Override(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, binaryName())
	if err := os.WriteFile(bin, []byte{}, 0755); err != nil {
		t.Fatalf("failed to write binary: %v", err)
	}

	r := NewRunner(bin)
	if got := r.GetBinaryPath(); got != bin {
		t.Errorf("GetBinaryPath() = %s, want %s", got, bin)
	}
	if !r.IsAvailable() {
		t.Error("IsAvailable() = false, want true")
	}
	if got := r.Tool(); got != domain.DefaultTool {
		t.Errorf("Tool() = %s, want %s", got, domain.DefaultTool)
	}
}

func TestRunner_MissingOverride(t *testing.T) {
	r := NewRunner(filepath.Join(t.TempDir(), "nope"))

	if r.IsAvailable() {
		t.Error("IsAvailable() = true, want false")
	}
	if got := r.Tool(); got != domain.DefaultTool {
		t.Errorf("Tool() = %s, want %s", got, domain.DefaultTool)
	}
}

func TestRunner_BundledBinDir(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, binaryName())
	if err := os.WriteFile(bin, []byte{}, 0755); err != nil {
		t.Fatalf("failed to write binary: %v", err)
	}

	r := &Runner{binDir: dir}
	if got := r.GetBinaryPath(); got != bin {
		t.Errorf("GetBinaryPath() = %s, want %s", got, bin)
	}
}

func TestLastLines(t *testing.T) {
	got := lastLines("a\nb\nc\nd\n", 2)
	if got != "c\nd" {
		t.Errorf("lastLines() = %q, want %q", got, "c\nd")
	}
}

func TestRunner_BundledToolRunsByBareName(t *testing.T) {
	skipOnWindows(t)
	dir := filepath.Join(t.TempDir(), "home with space", "bin")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create bin dir: %v", err)
	}
	script := "#!/bin/sh\necho bundled maketx \"$@\" >&2\nexit 3\n"
	if err := os.WriteFile(filepath.Join(dir, "maketx"), []byte(script), 0755); err != nil {
		t.Fatalf("failed to write binary: %v", err)
	}

	r := &Runner{binDir: dir}
	if got := r.Tool(); got != domain.DefaultTool {
		t.Fatalf("Tool() = %s, want %s", got, domain.DefaultTool)
	}

	command := domain.NewElement(&domain.Sequence{Dir: "/mock", Name: "plate", Ext: ".exr"}, domain.WithTool(r.Tool())).CommandList()[0]
	if !strings.HasPrefix(command, "maketx -v ") {
		t.Fatalf("command = %q, want bare maketx token", command)
	}

	err := r.Run(context.Background(), command)
	if !errors.Is(err, domain.ErrCommandFailed) {
		t.Fatalf("Run() error = %v, want ErrCommandFailed from the bundled script", err)
	}
	if !strings.Contains(err.Error(), "bundled maketx -v /mock/plate.exr") {
		t.Errorf("Run() error = %q, want output of the bundled binary", err)
	}
}

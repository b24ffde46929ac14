package maketx

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/maxWiklund/txConverter/internal/config"
	"github.com/maxWiklund/txConverter/internal/domain"
	"github.com/maxWiklund/txConverter/internal/ports"
)

// Ensure Runner implements ports.CommandRunner
var _ ports.CommandRunner = (*Runner)(nil)

// Runner executes generated conversion commands through the system shell
type Runner struct {
	override string
	binDir   string
	binPath  string
}

// NewRunner creates a runner. override is a configured maketx path; empty
// means search the bundled bin dir, then PATH.
func NewRunner(override string) *Runner {
	return &Runner{override: override, binDir: config.BinDir()}
}

func binaryName() string {
	if runtime.GOOS == "windows" {
		return "maketx.exe"
	}
	return "maketx"
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}

func (r *Runner) findBinary() string {
	if r.override != "" {
		if _, err := os.Stat(r.override); err == nil {
			return r.override
		}
		// A bare name such as "maketx-2.5" is looked up on PATH
		if !strings.ContainsRune(r.override, filepath.Separator) {
			if path, err := exec.LookPath(r.override); err == nil {
				return path
			}
		}
		return ""
	}

	// Check bundled location first
	bundled := filepath.Join(r.binDir, binaryName())
	if _, err := os.Stat(bundled); err == nil {
		return bundled
	}

	// Check system PATH
	if path, err := exec.LookPath(binaryName()); err == nil {
		return path
	}

	return ""
}

// GetBinaryPath returns the resolved maketx path, or "" when not found
func (r *Runner) GetBinaryPath() string {
	if r.binPath != "" {
		return r.binPath
	}
	r.binPath = r.findBinary()
	return r.binPath
}

// IsAvailable reports whether maketx could be located
func (r *Runner) IsAvailable() bool {
	return r.GetBinaryPath() != ""
}

// Tool returns the token generated commands should start with. It is
// always a bare name: Run puts the directory of the resolved binary first
// on the child's PATH, so a bundled maketx keeps the plain "maketx -v"
// command text.
func (r *Runner) Tool() string {
	path := r.GetBinaryPath()
	if path == "" || filepath.Base(path) == binaryName() {
		return domain.DefaultTool
	}
	return strings.TrimSuffix(filepath.Base(path), ".exe")
}

// env returns the child environment with the resolved binary's directory
// leading PATH, or nil to inherit ours unchanged.
func (r *Runner) env() []string {
	path := r.GetBinaryPath()
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	return append(os.Environ(), "PATH="+dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// Instructions describes how to make maketx available
func Instructions() string {
	return fmt.Sprintf(`maketx ships with OpenImageIO.
  macOS:   brew install openimageio
  Debian:  apt install openimageio-tools
  Other:   copy the %s binary to %s
           or set paths.maketx in %s`, binaryName(), config.BinDir(), config.ConfigPath())
}

// Run executes command through the shell. A non-zero exit wraps
// domain.ErrCommandFailed together with the tail of stderr.
func (r *Runner) Run(ctx context.Context, command string) error {
	var stderr bytes.Buffer
	cmd := shellCommand(ctx, command)
	cmd.Env = r.env()
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", domain.ErrCommandFailed, ctx.Err())
		}
		msg := strings.TrimSpace(lastLines(stderr.String(), 5))
		if msg == "" {
			return fmt.Errorf("%w: %w", domain.ErrCommandFailed, err)
		}
		return fmt.Errorf("%w: %w: %s", domain.ErrCommandFailed, err, msg)
	}
	return nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

package ports

import "context"

// CommandRunner executes a pre-joined command line through a shell and
// blocks until the process exits. A non-zero exit or a launch failure is
// returned as an error.
type CommandRunner interface {
	Run(ctx context.Context, command string) error
}

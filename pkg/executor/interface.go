package executor

import (
	"context"
	"io"
)

// Executor defines the interface for executing external commands
type Executor interface {
	// Execute runs a command to completion and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) (string, error)

	// Start launches a command and exposes its stdout as a live stream.
	// The caller must call Wait (or Kill) on the returned Process.
	Start(ctx context.Context, name string, args ...string) (Process, error)
}

// Process is a started external command whose output is consumed incrementally
type Process interface {
	// Stdout returns the live standard output of the process.
	Stdout() io.Reader

	// Wait blocks until the process exits. A non-zero exit is returned
	// as an error that includes the captured stderr.
	Wait() error

	// Kill terminates the process without waiting for it to exit.
	Kill() error
}

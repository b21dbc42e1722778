package domain

import (
	"context"
	"time"
)

// CommandRunner abstracts external tool invocation (dump, archive, restore
// replay) so executors stay testable without spawning real processes.
type CommandRunner interface {
	// Run executes name with args, honoring ctx and, when timeout > 0, a
	// deadline. It returns the exit code and combined stdout/stderr. A
	// non-nil error means the process could not be run or was killed; a
	// non-zero exit code alone comes back with a nil error.
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (int, []byte, error)
}

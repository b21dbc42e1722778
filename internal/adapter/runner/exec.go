package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ExecRunner runs external tools through os/exec. A timeout, when set, is
// applied as a context deadline; a killed process surfaces like any other
// failed invocation so dump timeouts follow the subprocess-failure path.
type ExecRunner struct{}

func NewExec() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (int, []byte, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return -1, output, fmt.Errorf("%s: %w", name, ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), output, nil
		}
		return -1, output, fmt.Errorf("run %s: %w", name, err)
	}

	return 0, output, nil
}

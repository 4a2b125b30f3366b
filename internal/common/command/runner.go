package command

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"
)

var (
	// ErrTimeout is returned when a command exceeds its timeout
	ErrTimeout = errors.New("command timed out")
	// ErrExecutableNotFound is returned when the executable cannot be located
	ErrExecutableNotFound = errors.New("executable not found")
)

// waitDelay bounds how long Run waits for output pipes after the process is killed
const waitDelay = 2 * time.Second

// Runner executes commands on the local system.
type Runner struct {
	// environ returns the base environment; overridable for tests
	environ func() []string
}

// NewRunner creates a Runner that inherits the current process environment.
func NewRunner() *Runner {
	return &Runner{
		environ: os.Environ,
	}
}

// Run spawns exactly one child process and captures its output.
// There are no retries.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, req.Name, req.Args...)
	if len(req.Env) > 0 {
		cmd.Env = MergeEnv(r.environ(), req.Env)
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf
	cmd.WaitDelay = waitDelay
	configureProcessGroup(cmd)

	start := time.Now()
	err := cmd.Run()
	result := &Result{
		Stdout:   stdoutBuf.String(),
		Stderr:   stderrBuf.String(),
		Duration: time.Since(start),
	}

	if err == nil {
		return result, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w: %s after %s", ErrTimeout, req.Name, req.Timeout)
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrExecutableNotFound, req.Name)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}

	return nil, fmt.Errorf("running %s: %w", req.Name, err)
}

// MergeEnv overlays vars on base. Overlaid keys replace existing entries and
// are appended in sorted order.
func MergeEnv(base []string, vars map[string]string) []string {
	merged := make([]string, 0, len(base)+len(vars))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, overridden := vars[key]; overridden {
			continue
		}
		merged = append(merged, kv)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		merged = append(merged, k+"="+vars[k])
	}

	return merged
}

// Ensure Runner implements Executor interface
var _ Executor = (*Runner)(nil)

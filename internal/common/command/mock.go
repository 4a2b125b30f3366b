package command

import (
	"context"
	"sync"
)

// MockRunner implements Executor for testing.
// RunFunc controls behavior; every request is recorded.
type MockRunner struct {
	RunFunc func(ctx context.Context, req Request) (*Result, error)

	mu    sync.Mutex
	calls []Request
}

// NewMockRunner creates a MockRunner that answers with fn
func NewMockRunner(fn func(ctx context.Context, req Request) (*Result, error)) *MockRunner {
	return &MockRunner{RunFunc: fn}
}

// Run records the request and delegates to RunFunc.
// Without RunFunc it returns an empty successful result.
func (m *MockRunner) Run(ctx context.Context, req Request) (*Result, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, req)
	}
	return &Result{}, nil
}

// Calls returns a copy of the recorded requests in call order
func (m *MockRunner) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// Exited builds a Result for a command that exited with code
func Exited(code int, stdout, stderr string) *Result {
	return &Result{ExitCode: code, Stdout: stdout, Stderr: stderr}
}

// Ensure MockRunner implements Executor interface
var _ Executor = (*MockRunner)(nil)

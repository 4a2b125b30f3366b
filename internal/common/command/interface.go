package command

import (
	"context"
	"strings"
	"time"
)

// Request describes a single external command invocation.
type Request struct {
	// Name is the executable to run, resolved through PATH
	Name string
	// Args are passed to the executable verbatim
	Args []string
	// Timeout bounds the whole invocation; zero means no bound
	Timeout time.Duration
	// Env is overlaid on the current process environment when non-empty
	Env map[string]string
}

// String returns the command line for logging.
func (r Request) String() string {
	if len(r.Args) == 0 {
		return r.Name
	}
	return r.Name + " " + strings.Join(r.Args, " ")
}

// Result is the outcome of a command that ran to completion.
// A non-zero ExitCode is a normal result, not an error.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Success reports whether the command exited with status zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// Executor runs external commands.
// This interface allows for mocking command execution in tests.
type Executor interface {
	// Run executes the request and waits for it to exit or time out.
	// It returns ErrTimeout or ErrExecutableNotFound for those failure kinds
	// and a Result for every command that exited, whatever its status.
	Run(ctx context.Context, req Request) (*Result, error)
}

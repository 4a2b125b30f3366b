package dnf

import (
	"errors"

	"github.com/obentoo/dnfkit/internal/common/command"
)

// Failure kinds. Every operation error unwraps to one of these.
var (
	// ErrTimeout means an operation exceeded its bound; callers may retry
	ErrTimeout = command.ErrTimeout
	// ErrExecutableMissing means a required binary is not installed
	ErrExecutableMissing = command.ErrExecutableNotFound
	// ErrNotFound means the entity does not exist in any source
	ErrNotFound = errors.New("not found")
	// ErrCommandFailed means a command exited with a non-zero status
	ErrCommandFailed = errors.New("command failed")
)

// opError is an operation-level sentinel carrying its failure kind.
type opError struct {
	msg  string
	kind error
}

func (e *opError) Error() string { return e.msg }
func (e *opError) Unwrap() error { return e.kind }

// Operation errors
var (
	ErrSearchTimedOut = &opError{"DNF search timed out", ErrTimeout}
	ErrSearchFailed   = &opError{"DNF search failed", ErrCommandFailed}
	// ErrSearch wraps any other search failure together with its cause
	ErrSearch = &opError{"failed to search packages", nil}

	ErrInfoTimedOut    = &opError{"package info lookup timed out", ErrTimeout}
	ErrPackageNotFound = &opError{"package not found", ErrNotFound}
	ErrInfo            = &opError{"failed to get package info", nil}

	ErrListTimedOut = &opError{"failed to get installed packages: timeout", ErrTimeout}
	ErrListFailed   = &opError{"failed to get installed packages", ErrCommandFailed}

	ErrUpdateCheckTimedOut = &opError{"update check timed out", ErrTimeout}
	ErrUpdateCheckFailed   = &opError{"failed to check updates", ErrCommandFailed}

	ErrInstallTimedOut   = &opError{"installation timed out", ErrTimeout}
	ErrUninstallTimedOut = &opError{"uninstallation timed out", ErrTimeout}
	ErrUpgradeTimedOut   = &opError{"system update timed out", ErrTimeout}

	// ErrHelperMissing matches any MissingHelperError
	ErrHelperMissing = &opError{"elevation helper not found", ErrExecutableMissing}
)

// MissingHelperError reports that the elevation helper binary is absent.
type MissingHelperError struct {
	Helper string
}

func (e *MissingHelperError) Error() string {
	return e.Helper + " not found. Please install polkit."
}

func (e *MissingHelperError) Is(target error) bool {
	return target == ErrHelperMissing || target == ErrExecutableMissing
}

// ErrorKind is the presentation-level classification of a failure.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindTimeout
	KindNotFound
	KindExecutableMissing
	KindCommandFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNotFound:
		return "not found"
	case KindExecutableMissing:
		return "executable missing"
	case KindCommandFailed:
		return "command failed"
	default:
		return "unknown"
	}
}

// KindOf classifies err into its failure kind
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrExecutableMissing):
		return KindExecutableMissing
	case errors.Is(err, ErrCommandFailed):
		return KindCommandFailed
	default:
		return KindUnknown
	}
}

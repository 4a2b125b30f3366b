package dnf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/obentoo/dnfkit/internal/common/command"
	"github.com/obentoo/dnfkit/internal/common/logger"
)

// Timeouts bounds each kind of invocation
type Timeouts struct {
	Search      time.Duration
	Info        time.Duration
	List        time.Duration
	UpdateCheck time.Duration
	// Detail bounds per-package lookups against the local database
	Detail    time.Duration
	Install   time.Duration
	Uninstall time.Duration
	Upgrade   time.Duration
}

// DefaultTimeouts returns the standard bounds
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Search:      30 * time.Second,
		Info:        10 * time.Second,
		List:        30 * time.Second,
		UpdateCheck: 60 * time.Second,
		Detail:      5 * time.Second,
		Install:     5 * time.Minute,
		Uninstall:   5 * time.Minute,
		Upgrade:     10 * time.Minute,
	}
}

// Options names the binaries the client drives
type Options struct {
	// Manager is the package manager binary (default: dnf)
	Manager string
	// PackageDB is the local package database binary (default: rpm)
	PackageDB string
	// ElevationHelper runs mutating commands with administrative rights (default: pkexec)
	ElevationHelper string
	Timeouts        Timeouts
	// DetailConcurrency limits parallel per-package lookups during update check
	DetailConcurrency int
}

// DefaultOptions returns options for a stock Fedora system
func DefaultOptions() Options {
	return Options{
		Manager:           "dnf",
		PackageDB:         "rpm",
		ElevationHelper:   "pkexec",
		Timeouts:          DefaultTimeouts(),
		DetailConcurrency: 8,
	}
}

// Client runs package manager queries and mutations.
// It holds no state between calls and is safe for concurrent use.
type Client struct {
	exec      command.Executor
	dialect   *Dialect
	opts      Options
	lookupEnv func(string) (string, bool)
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithDialect sets the output dialect used by the parsers
func WithDialect(d *Dialect) ClientOption {
	return func(c *Client) {
		c.dialect = d
	}
}

// WithOptions sets binaries and timeouts
func WithOptions(opts Options) ClientOption {
	return func(c *Client) {
		c.opts = opts
	}
}

// WithLookupEnv sets the environment lookup used for the elevation overlay
func WithLookupEnv(fn func(string) (string, bool)) ClientOption {
	return func(c *Client) {
		c.lookupEnv = fn
	}
}

// NewClient creates a client that runs commands through exec
func NewClient(exec command.Executor, opts ...ClientOption) *Client {
	c := &Client{
		exec:      exec,
		dialect:   DNF4(),
		opts:      DefaultOptions(),
		lookupEnv: os.LookupEnv,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.opts.DetailConcurrency < 1 {
		c.opts.DetailConcurrency = 1
	}
	return c
}

// Dialect returns the dialect in use
func (c *Client) Dialect() *Dialect {
	return c.dialect
}

// Search runs the manager's search for query. Empty queries must be rejected
// by the caller; no result limit is applied here.
func (c *Client) Search(ctx context.Context, query string) ([]Package, error) {
	logger.Debug("Searching packages with query: %s", query)

	res, err := c.exec.Run(ctx, command.Request{
		Name:    c.opts.Manager,
		Args:    []string{"search", "--quiet", query},
		Timeout: c.opts.Timeouts.Search,
	})
	if err != nil {
		if errors.Is(err, command.ErrTimeout) {
			logger.Error("DNF search timed out for query: %s", query)
			return nil, ErrSearchTimedOut
		}
		logger.Error("Unexpected error during package search: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrSearch, err)
	}
	if !res.Success() {
		logger.Error("DNF search failed for query: %s, exit code %d", query, res.ExitCode)
		return nil, commandFailure(ErrSearchFailed, res)
	}

	packages := ParseSearchOutput(res.Stdout, c.dialect)
	logger.Info("Found %d packages for query: %s", len(packages), query)
	return packages, nil
}

// Info returns details for a package. The manager's info command is tried
// first; when it fails the local package database is queried instead.
func (c *Client) Info(ctx context.Context, name string) (*PackageInfo, error) {
	logger.Debug("Getting package info for: %s", name)
	base := CanonicalName(name)

	res, err := c.exec.Run(ctx, command.Request{
		Name:    c.opts.Manager,
		Args:    []string{"info", base},
		Timeout: c.opts.Timeouts.Info,
	})
	if err != nil {
		if errors.Is(err, command.ErrTimeout) {
			logger.Error("Package info lookup timed out for: %s", name)
			return nil, ErrInfoTimedOut
		}
		logger.Error("Failed to get package info for %s: %v", name, err)
		return nil, fmt.Errorf("%w: %w", ErrInfo, err)
	}

	if !res.Success() {
		logger.Debug("DNF info failed, trying local database for: %s", base)
		return c.localInfo(ctx, base)
	}

	info := ParseInfoOutput(res.Stdout, base, c.dialect)
	info.Installed = c.IsInstalled(ctx, base)
	logger.Debug("Successfully retrieved info for: %s", name)
	return &info, nil
}

// localInfo queries the local package database for base
func (c *Client) localInfo(ctx context.Context, base string) (*PackageInfo, error) {
	res, err := c.exec.Run(ctx, command.Request{
		Name:    c.opts.PackageDB,
		Args:    []string{"-qi", base},
		Timeout: c.opts.Timeouts.Info,
	})
	if err != nil {
		if errors.Is(err, command.ErrTimeout) {
			logger.Error("Local info lookup timed out for: %s", base)
			return nil, ErrInfoTimedOut
		}
		return nil, fmt.Errorf("%w: %w", ErrInfo, err)
	}
	if !res.Success() {
		logger.Warn("Package not found: %s", base)
		return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, base)
	}

	logger.Debug("Found package info via local database for: %s", base)
	info := ParseLocalInfoOutput(res.Stdout, base)
	return &info, nil
}

// IsInstalled asks the local package database whether name is installed.
// Any failure counts as not installed.
func (c *Client) IsInstalled(ctx context.Context, name string) bool {
	res, err := c.exec.Run(ctx, command.Request{
		Name:    c.opts.PackageDB,
		Args:    []string{"-q", name},
		Timeout: c.opts.Timeouts.Detail,
	})
	if err != nil {
		logger.Debug("Could not check installed status for %s: %v", name, err)
		return false
	}
	return res.Success()
}

// ListInstalled returns every installed package sorted by name
func (c *Client) ListInstalled(ctx context.Context) ([]Package, error) {
	logger.Debug("Fetching installed packages")

	res, err := c.exec.Run(ctx, command.Request{
		Name:    c.opts.PackageDB,
		Args:    []string{"-qa", "--queryformat", installedQueryFormat},
		Timeout: c.opts.Timeouts.List,
	})
	if err != nil {
		if errors.Is(err, command.ErrTimeout) {
			logger.Error("Timeout while fetching installed packages")
			return nil, ErrListTimedOut
		}
		logger.Error("Unexpected error getting installed packages: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrListFailed, err)
	}
	if !res.Success() {
		logger.Error("Failed to get installed packages: exit code %d", res.ExitCode)
		return nil, commandFailure(ErrListFailed, res)
	}

	packages := ParseInstalledOutput(res.Stdout)
	logger.Info("Found %d installed packages", len(packages))
	return packages, nil
}

// CheckUpdates lists available updates, one record per package, sorted by name.
// Current version and summary come from best-effort local lookups.
func (c *Client) CheckUpdates(ctx context.Context) ([]UpdateRecord, error) {
	logger.Debug("Checking for available updates")

	res, err := c.exec.Run(ctx, command.Request{
		Name:    c.opts.Manager,
		Args:    []string{"check-update", "--quiet"},
		Timeout: c.opts.Timeouts.UpdateCheck,
	})
	if err != nil {
		if errors.Is(err, command.ErrTimeout) {
			logger.Error("Update check timed out")
			return nil, ErrUpdateCheckTimedOut
		}
		logger.Error("Failed to check updates: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrUpdateCheckFailed, err)
	}

	// check-update exits 100 when updates are available
	if res.ExitCode != 0 && res.ExitCode != 100 {
		logger.Error("Failed to check updates: exit code %d", res.ExitCode)
		return nil, commandFailure(ErrUpdateCheckFailed, res)
	}
	if res.ExitCode == 0 && strings.TrimSpace(res.Stdout) == "" {
		logger.Info("No updates available")
		return []UpdateRecord{}, nil
	}

	candidates := ParseUpdateOutput(res.Stdout, c.dialect)
	updates := make([]UpdateRecord, len(candidates))

	var g errgroup.Group
	g.SetLimit(c.opts.DetailConcurrency)
	for i, cand := range candidates {
		g.Go(func() error {
			current, summary := c.packageDetails(ctx, cand.Name)
			updates[i] = UpdateRecord{
				Name:             cand.Name,
				DisplayName:      DisplayName(cand.Name),
				CurrentVersion:   current,
				AvailableVersion: cand.AvailableVersion,
				Summary:          summary,
				Kind:             ClassifyUpdate(current, cand.AvailableVersion),
			}
			return nil
		})
	}
	_ = g.Wait()

	sortUpdates(updates)
	logger.Info("Found %d available updates", len(updates))
	return updates, nil
}

// packageDetails returns the installed version-release and summary of name.
// Failures yield empty values.
func (c *Client) packageDetails(ctx context.Context, name string) (version, summary string) {
	res, err := c.exec.Run(ctx, command.Request{
		Name:    c.opts.PackageDB,
		Args:    []string{"-q", "--queryformat", detailQueryFormat, name},
		Timeout: c.opts.Timeouts.Detail,
	})
	if err != nil {
		logger.Debug("Detail lookup failed for %s: %v", name, err)
		return "", ""
	}
	if !res.Success() {
		return "", ""
	}
	return ParseDetailOutput(res.Stdout)
}

// commandFailure wraps sentinel with the tool's own reason when it gave one
func commandFailure(sentinel error, res *command.Result) error {
	reason := strings.TrimSpace(res.Stderr)
	if reason == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, reason)
}

package dnf

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/obentoo/dnfkit/internal/common/command"
	"github.com/obentoo/dnfkit/internal/common/logger"
)

// sessionVars must be present for the elevation helper's prompt to render
var sessionVars = []string{"DISPLAY", "XAUTHORITY"}

// mutation describes one privileged manager command
type mutation struct {
	verb       string // manager subcommand
	pkg        string // empty for system upgrade
	label      string // human name used in messages
	timeout    time.Duration
	timeoutErr error
}

// Install installs a package through the elevation helper.
// Command failure is reported in the result; only a timeout or a missing
// helper return an error.
func (c *Client) Install(ctx context.Context, name string) (*MutationResult, error) {
	logger.Info("Installing package: %s", name)
	return c.mutate(ctx, mutation{
		verb:       "install",
		pkg:        CanonicalName(name),
		label:      "Installation",
		timeout:    c.opts.Timeouts.Install,
		timeoutErr: ErrInstallTimedOut,
	})
}

// Uninstall removes a package through the elevation helper
func (c *Client) Uninstall(ctx context.Context, name string) (*MutationResult, error) {
	logger.Info("Uninstalling package: %s", name)
	return c.mutate(ctx, mutation{
		verb:       "remove",
		pkg:        CanonicalName(name),
		label:      "Uninstallation",
		timeout:    c.opts.Timeouts.Uninstall,
		timeoutErr: ErrUninstallTimedOut,
	})
}

// Upgrade upgrades all packages through the elevation helper
func (c *Client) Upgrade(ctx context.Context) (*MutationResult, error) {
	logger.Info("Updating system packages")
	return c.mutate(ctx, mutation{
		verb:       "upgrade",
		label:      "System update",
		timeout:    c.opts.Timeouts.Upgrade,
		timeoutErr: ErrUpgradeTimedOut,
	})
}

func (m mutation) subject() string {
	if m.pkg == "" {
		return "system"
	}
	return m.pkg
}

func (c *Client) mutate(ctx context.Context, m mutation) (*MutationResult, error) {
	args := []string{c.opts.Manager, m.verb, "-y"}
	if m.pkg != "" {
		args = append(args, m.pkg)
	}

	res, err := c.exec.Run(ctx, command.Request{
		Name:    c.opts.ElevationHelper,
		Args:    args,
		Timeout: m.timeout,
		Env:     c.elevationEnv(),
	})
	if err != nil {
		switch {
		case errors.Is(err, command.ErrTimeout):
			logger.Error("%s timed out for: %s", m.label, m.subject())
			return nil, m.timeoutErr
		case errors.Is(err, command.ErrExecutableNotFound):
			logger.Error("%s not found", c.opts.ElevationHelper)
			return nil, &MissingHelperError{Helper: c.opts.ElevationHelper}
		default:
			logger.Error("%s error for %s: %v", m.label, m.subject(), err)
			return &MutationResult{
				Success: false,
				Message: fmt.Sprintf("%s error: %v", m.label, err),
			}, nil
		}
	}

	if res.Success() {
		logger.Info("%s completed successfully for: %s", m.label, m.subject())
		return &MutationResult{Success: true, Message: res.Stdout}, nil
	}

	message := res.Stderr
	if strings.TrimSpace(message) == "" {
		message = res.Stdout
	}
	if strings.TrimSpace(message) == "" {
		message = m.label + " failed"
	}
	logger.Error("%s failed for %s: %s", m.label, m.subject(), strings.TrimSpace(message))
	return &MutationResult{Success: false, Message: message}, nil
}

// elevationEnv sets unset session variables to the empty string
func (c *Client) elevationEnv() map[string]string {
	env := make(map[string]string)
	for _, key := range sessionVars {
		if _, ok := c.lookupEnv(key); !ok {
			env[key] = ""
		}
	}
	return env
}

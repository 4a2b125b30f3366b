package main

import (
	"context"
	"fmt"
	"os"

	"github.com/obentoo/dnfkit/internal/backend"
	"github.com/obentoo/dnfkit/internal/common/output"
	"github.com/obentoo/dnfkit/internal/dnf"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <package>",
	Short: "Install a package",
	Long:  `Install a package through the elevation helper (pkexec by default).`,
	Args:  cobra.ExactArgs(1),
	Run:   runInstall,
}

var removeCmd = &cobra.Command{
	Use:     "remove <package>",
	Aliases: []string{"uninstall"},
	Short:   "Remove a package",
	Long:    `Remove a package through the elevation helper (pkexec by default).`,
	Args:    cobra.ExactArgs(1),
	Run:     runRemove,
}

var upgradeCmd = &cobra.Command{
	Use:   "upgrade",
	Short: "Upgrade all packages",
	Long:  `Upgrade the whole system through the elevation helper (pkexec by default).`,
	Args:  cobra.NoArgs,
	Run:   runUpgrade,
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(upgradeCmd)
}

// mutationLabels names a mutation in progress and on completion
type mutationLabels struct {
	progress string
	done     string
	failed   string
}

func runInstall(cmd *cobra.Command, args []string) {
	name := args[0]
	runMutation(mutationLabels{
		progress: "Installing " + name + "...",
		done:     "Installed " + name,
		failed:   "Failed to install " + name,
	}, func(ctx context.Context, b *backend.Backend) (*dnf.MutationResult, error) {
		return b.Install(ctx, name)
	})
}

func runRemove(cmd *cobra.Command, args []string) {
	name := args[0]
	runMutation(mutationLabels{
		progress: "Removing " + name + "...",
		done:     "Removed " + name,
		failed:   "Failed to remove " + name,
	}, func(ctx context.Context, b *backend.Backend) (*dnf.MutationResult, error) {
		return b.Uninstall(ctx, name)
	})
}

func runUpgrade(cmd *cobra.Command, args []string) {
	runMutation(mutationLabels{
		progress: "Upgrading system...",
		done:     "System upgraded",
		failed:   "System upgrade failed",
	}, func(ctx context.Context, b *backend.Backend) (*dnf.MutationResult, error) {
		return b.Upgrade(ctx)
	})
}

// runMutation runs one privileged operation and reports its outcome.
// Exits with a non-zero status unless the operation succeeded.
func runMutation(labels mutationLabels, op func(context.Context, *backend.Backend) (*dnf.MutationResult, error)) {
	a := mustSetup()
	ctx, stop := signalContext()
	defer stop()

	output.PrintInfo("%s", labels.progress)

	res, err := await(ctx, func(ctx context.Context) (*dnf.MutationResult, error) {
		return op(ctx, a.backend)
	})
	if err != nil {
		failErr(fmt.Errorf("%s: %w", labels.failed, err))
	}

	lines := messageLines(res.Message, output.Width()-4)
	if !res.Success {
		output.PrintError("%s", labels.failed)
		if len(lines) > 0 {
			output.Box("Output", lines...)
		}
		os.Exit(exitFailure)
	}

	if len(lines) > 0 && verbose {
		output.Box("Output", lines...)
	}
	output.PrintSuccess("%s", labels.done)
}

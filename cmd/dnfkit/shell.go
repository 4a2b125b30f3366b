package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/obentoo/dnfkit/internal/async"
	"github.com/obentoo/dnfkit/internal/common/logger"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive package shell",
	Long: `Start an interactive shell. Commands run in the background while the
shell stays responsive, search results are cached for the session and
changes to preferences.ini are picked up immediately. Type "help" for the
command list.

Privileged commands need a graphical polkit agent.`,
	Args: cobra.NoArgs,
	Run:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, args []string) {
	a := mustSetup()
	ctx, stop := signalContext()
	defer stop()

	model := newShellModel(a.backend)
	program := tea.NewProgram(model, tea.WithContext(ctx))
	dispatcher := async.NewProgramDispatcher(program)
	model.bind(a.backend.Async(ctx, dispatcher))

	err := a.prefs.Watch(ctx, func() {
		dispatcher.Dispatch(model.reloadCachePreference)
	})
	if err != nil {
		logger.Warn("Not watching preferences: %v", err)
	}

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		fail("%v", err)
	}
}

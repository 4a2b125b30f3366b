package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/obentoo/dnfkit/internal/async"
	"github.com/obentoo/dnfkit/internal/backend"
	"github.com/obentoo/dnfkit/internal/common/command"
	"github.com/obentoo/dnfkit/internal/common/config"
	"github.com/obentoo/dnfkit/internal/common/logger"
	"github.com/obentoo/dnfkit/internal/common/output"
	"github.com/obentoo/dnfkit/internal/common/prefs"
	"github.com/obentoo/dnfkit/internal/dnf"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	quiet      bool
	noColor    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "dnfkit",
	Short: "DNF package toolkit",
	Long: `Search, inspect, install and upgrade packages on DNF/RPM systems.

Exit status is 0 on success, 3 when a command timed out, 4 when a package
was not found, 5 when a required program is missing and 1 otherwise.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure logging based on flags
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")
}

// app holds what every command needs
type app struct {
	cfg     *config.Config
	prefs   *prefs.Store
	backend *backend.Backend
}

// loadConfig reads --config or the default config file
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// setup loads configuration and preferences and builds the backend
func setup() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if cfg.Log.File {
		if err := logger.Default().EnableFileLogging(); err != nil {
			logger.Warn("File logging disabled: %v", err)
		}
	}

	prefsPath, err := prefs.DefaultPath()
	if err != nil {
		return nil, err
	}
	store, err := prefs.Open(prefsPath)
	if err != nil {
		return nil, fmt.Errorf("loading preferences: %w", err)
	}

	b, err := backend.NewFromConfig(cfg, command.NewRunner(), store)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, prefs: store, backend: b}, nil
}

// mustSetup is setup for commands that cannot continue without it
func mustSetup() *app {
	a, err := setup()
	if err != nil {
		fail("%v", err)
	}
	return a
}

// fail prints an error and exits with status 1
func fail(format string, args ...interface{}) {
	output.PrintError(format, args...)
	os.Exit(1)
}

// signalContext is canceled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// await runs work off the calling goroutine and drives a dispatch loop on
// it until the outcome is delivered. A panic in work comes back as an error
// carrying its text.
func await[T any](ctx context.Context, work func(context.Context) (T, error)) (T, error) {
	loop := async.NewLoop(1)
	defer loop.Close()

	var (
		value    T
		err      error
		errText  string
		finished bool
	)
	async.Run(loop, func() (T, error) {
		v, workErr := work(ctx)
		err = workErr
		return v, workErr
	}, func(v T) {
		value, finished = v, true
	}, func(text string) {
		errText, finished = text, true
	})

	for !finished {
		if loopErr := loop.RunOnce(ctx); loopErr != nil {
			var zero T
			return zero, loopErr
		}
	}
	if err == nil && errText != "" {
		err = errors.New(errText)
	}
	return value, err
}

// Exit statuses by failure kind
const (
	exitFailure           = 1
	exitTimeout           = 3
	exitNotFound          = 4
	exitExecutableMissing = 5
)

// exitCode maps an operation error to the process exit status
func exitCode(err error) int {
	switch dnf.KindOf(err) {
	case dnf.KindTimeout:
		return exitTimeout
	case dnf.KindNotFound:
		return exitNotFound
	case dnf.KindExecutableMissing:
		return exitExecutableMissing
	default:
		return exitFailure
	}
}

// failErr prints err and exits with the status of its kind
func failErr(err error) {
	output.PrintError("%v", err)
	os.Exit(exitCode(err))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

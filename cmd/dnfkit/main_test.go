package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/obentoo/dnfkit/internal/backend"
	"github.com/obentoo/dnfkit/internal/dnf"
)

func TestAwaitReturnsValue(t *testing.T) {
	b := backend.New(&fakeClient{installed: []dnf.Package{{Name: "bash", DisplayName: "bash"}}})

	got, err := await(context.Background(), b.ListInstalled)
	if err != nil {
		t.Fatalf("await() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "bash" {
		t.Errorf("got %v, want [bash]", got)
	}
}

func TestAwaitKeepsErrorChain(t *testing.T) {
	b := backend.New(&fakeClient{})

	_, err := await(context.Background(), func(ctx context.Context) ([]dnf.Package, error) {
		return b.Search(ctx, "   ")
	})
	if !errors.Is(err, backend.ErrEmptyQuery) {
		t.Errorf("await() error = %v, want ErrEmptyQuery", err)
	}
}

func TestAwaitReportsPanicAsError(t *testing.T) {
	_, err := await(context.Background(), func(context.Context) (int, error) {
		panic("boom")
	})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("await() error = %v, want panic text", err)
	}
}

func TestAwaitStopsOnCanceledContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	b := backend.New(&fakeClient{search: func(string) ([]dnf.Package, error) {
		<-block
		return nil, nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := await(ctx, func(ctx context.Context) ([]dnf.Package, error) {
		return b.Search(ctx, "vim")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("await() error = %v, want context.Canceled", err)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "search timeout", err: dnf.ErrSearchTimedOut, want: exitTimeout},
		{name: "wrapped mutation timeout", err: fmt.Errorf("install vim: %w", dnf.ErrInstallTimedOut), want: exitTimeout},
		{name: "package not found", err: dnf.ErrPackageNotFound, want: exitNotFound},
		{name: "helper missing", err: &dnf.MissingHelperError{}, want: exitExecutableMissing},
		{name: "command failed", err: dnf.ErrSearchFailed, want: exitFailure},
		{name: "plain error", err: errors.New("boom"), want: exitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestLoadConfigUsesFlag(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	configPath = path
	t.Cleanup(func() { configPath = "" })

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Manager != "dnf" {
		t.Errorf("Manager = %q, want dnf", cfg.Manager)
	}
}

func TestResetConfigOverwritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("manager: dnf5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	configPath = path
	t.Cleanup(func() { configPath = "" })

	written, err := resetConfig()
	if err != nil {
		t.Fatalf("resetConfig() error = %v", err)
	}
	if written != path {
		t.Errorf("resetConfig() path = %q, want %q", written, path)
	}
	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Manager != "dnf" {
		t.Errorf("Manager = %q, want dnf", cfg.Manager)
	}
}

func TestResetConfigUsesDefaultPath(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)

	written, err := resetConfig()
	if err != nil {
		t.Fatalf("resetConfig() error = %v", err)
	}
	if want := filepath.Join(xdg, "dnfkit", "config.yaml"); written != want {
		t.Errorf("resetConfig() path = %q, want %q", written, want)
	}
	if _, err := os.Stat(written); err != nil {
		t.Errorf("config file not written: %v", err)
	}
}

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/obentoo/dnfkit/internal/async"
	"github.com/obentoo/dnfkit/internal/backend"
	"github.com/obentoo/dnfkit/internal/dnf"
)

// maxShellLines bounds the scrollback kept by the shell
const maxShellLines = 1000

// defaultShellWidth is used until the terminal reports its size
const defaultShellWidth = 80

var (
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	echoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// shellModel is the interactive shell. Its Update goroutine is the owning
// context: every backend callback runs there through async.DispatchMsg.
type shellModel struct {
	backend *backend.Backend
	ops     *backend.Async
	input   textinput.Model
	lines   []string
	width   int
	height  int

	// searches drops results of searches superseded by a newer one
	searches async.Gate
	// listings does the same for installed listings
	listings async.Gate
	pending  int
}

func newShellModel(b *backend.Backend) *shellModel {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render("dnfkit> ")
	ti.Placeholder = "type help"
	ti.CharLimit = 200
	ti.Focus()

	return &shellModel{
		backend: b,
		input:   ti,
		width:   defaultShellWidth,
	}
}

// bind sets the callback surface used for backend operations
func (m *shellModel) bind(ops *backend.Async) {
	m.ops = ops
}

func (m *shellModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *shellModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case async.DispatchMsg:
		msg.Invoke()
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-10, 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+d":
			return m, tea.Quit
		case "enter":
			line := m.input.Value()
			m.input.Reset()
			return m, m.execute(line)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *shellModel) View() string {
	var b strings.Builder

	lines := m.lines
	if m.height > 0 {
		room := max(m.height-3, 1)
		if len(lines) > room {
			lines = lines[len(lines)-room:]
		}
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	b.WriteString(m.input.View())
	b.WriteByte('\n')
	b.WriteString(statusStyle.Render(m.statusLine()))
	return b.String()
}

// statusLine shows work in flight and the cache state
func (m *shellModel) statusLine() string {
	cache := "cache off"
	if m.backend.CacheEnabled() {
		cache = "cache on"
	}
	if m.pending > 0 {
		return fmt.Sprintf("working (%d)  %s", m.pending, cache)
	}
	return cache
}

// print appends lines to the scrollback
func (m *shellModel) print(lines ...string) {
	m.lines = append(m.lines, lines...)
	if over := len(m.lines) - maxShellLines; over > 0 {
		m.lines = append(m.lines[:0], m.lines[over:]...)
	}
}

func (m *shellModel) printError(text string) {
	m.print(errorStyle.Render("✗ " + text))
}

func (m *shellModel) printSuccess(text string) {
	m.print(successStyle.Render("✓ " + text))
}

// begin counts an operation in flight; the returned function ends it
func (m *shellModel) begin() func() {
	m.pending++
	return func() { m.pending-- }
}

// execute runs one input line. It returns tea.Quit for "quit".
func (m *shellModel) execute(line string) tea.Cmd {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	m.print(echoStyle.Render("> " + strings.TrimSpace(line)))

	c, err := parseShellCommand(line)
	if err != nil {
		m.printError(err.Error())
		return nil
	}

	switch c.name {
	case "search":
		m.search(c.arg())
	case "info":
		m.info(c.args[0])
	case "installed":
		m.installed(c.arg())
	case "updates":
		m.updates()
	case "install":
		m.mutate("Installed "+c.args[0], "Failed to install "+c.args[0], func(onResult func(*dnf.MutationResult), onError func(string)) {
			m.ops.Install(c.args[0], onResult, onError)
		})
	case "remove":
		m.mutate("Removed "+c.args[0], "Failed to remove "+c.args[0], func(onResult func(*dnf.MutationResult), onError func(string)) {
			m.ops.Uninstall(c.args[0], onResult, onError)
		})
	case "upgrade":
		m.mutate("System upgraded", "System upgrade failed", func(onResult func(*dnf.MutationResult), onError func(string)) {
			m.ops.Upgrade(onResult, onError)
		})
	case "cache":
		m.cache(c.args[0])
	case "clear":
		m.lines = m.lines[:0]
	case "help":
		m.print(shellHelp()...)
	case "quit":
		return tea.Quit
	}
	return nil
}

func (m *shellModel) search(query string) {
	token := m.searches.Next()
	end := m.begin()
	m.ops.Search(query, func(pkgs []dnf.Package) {
		end()
		if !m.searches.Current(token) {
			return
		}
		if len(pkgs) == 0 {
			m.print(fmt.Sprintf("No packages found for %q", query))
			return
		}
		for _, p := range pkgs {
			m.print(formatPackageLine(p, m.width))
		}
		m.print(countLabel(len(pkgs), "package") + " found")
	}, func(msg string) {
		end()
		if m.searches.Current(token) {
			m.printError(msg)
		}
	})
}

func (m *shellModel) info(name string) {
	end := m.begin()
	m.ops.Info(name, func(info *dnf.PackageInfo) {
		end()
		for _, f := range infoFields(info) {
			if f[1] != "" {
				m.print(fmt.Sprintf("%-13s %s", f[0]+":", f[1]))
			}
		}
		if info.Description != "" {
			m.print("")
			m.print(messageLines(info.Description, m.width)...)
		}
	}, func(msg string) {
		end()
		m.printError(msg)
	})
}

func (m *shellModel) installed(filter string) {
	token := m.listings.Next()
	end := m.begin()
	m.ops.ListInstalled(func(pkgs []dnf.Package) {
		end()
		if !m.listings.Current(token) {
			return
		}
		pkgs = dnf.FilterPackages(pkgs, filter)
		for _, p := range pkgs {
			m.print(formatInstalledLine(p, m.width))
		}
		m.print(countLabel(len(pkgs), "package") + " installed")
	}, func(msg string) {
		end()
		if m.listings.Current(token) {
			m.printError(msg)
		}
	})
}

func (m *shellModel) updates() {
	end := m.begin()
	m.ops.CheckUpdates(func(updates []dnf.UpdateRecord) {
		end()
		if len(updates) == 0 {
			m.printSuccess("System is up to date")
			return
		}
		for _, u := range updates {
			m.print(formatUpdateLine(u))
		}
		m.print(countLabel(len(updates), "update") + " available")
	}, func(msg string) {
		end()
		m.printError(msg)
	})
}

// mutate runs a privileged operation and reports its outcome
func (m *shellModel) mutate(done, failed string, start func(func(*dnf.MutationResult), func(string))) {
	end := m.begin()
	start(func(res *dnf.MutationResult) {
		end()
		if res.Success {
			m.printSuccess(done)
			return
		}
		m.printError(failed)
		m.print(messageLines(res.Message, m.width-2)...)
	}, func(msg string) {
		end()
		m.printError(failed + ": " + msg)
	})
}

func (m *shellModel) cache(action string) {
	switch action {
	case "clear":
		m.backend.ClearCache()
		m.printSuccess("Search cache cleared")
	case "enable", "disable":
		enabled := action == "enable"
		if err := m.backend.SetCacheEnabled(enabled); err != nil {
			m.printError(err.Error())
			return
		}
		m.printSuccess("Search cache " + action + "d")
	case "status":
		stats := m.backend.CacheStats()
		m.print(
			fmt.Sprintf("%-13s %t", "Enabled:", stats.Enabled),
			fmt.Sprintf("%-13s %d", "Entries:", stats.Entries),
			fmt.Sprintf("%-13s %d", "Capacity:", stats.Capacity),
			fmt.Sprintf("%-13s %s", "TTL:", stats.TTL),
		)
	}
}

// reloadCachePreference applies an externally changed enable_cache
func (m *shellModel) reloadCachePreference() {
	before := m.backend.CacheEnabled()
	m.backend.ReloadCachePreference()
	if after := m.backend.CacheEnabled(); after != before {
		state := "disabled"
		if after {
			state = "enabled"
		}
		m.print(statusStyle.Render("Search cache " + state + " from preferences"))
	}
}

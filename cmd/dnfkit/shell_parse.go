package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errUsage          = errors.New("usage")
)

// shellCommand is one parsed shell input line
type shellCommand struct {
	name string
	args []string
}

// arg returns the arguments joined by single spaces
func (c shellCommand) arg() string {
	return strings.Join(c.args, " ")
}

type commandSpec struct {
	name    string
	usage   string
	help    string
	minArgs int
	maxArgs int // -1 for no limit
}

// shellSpecs lists shell commands in help order
var shellSpecs = []commandSpec{
	{name: "search", usage: "search <query>", help: "search available packages", minArgs: 1, maxArgs: -1},
	{name: "info", usage: "info <package>", help: "show package details", minArgs: 1, maxArgs: 1},
	{name: "installed", usage: "installed [filter]", help: "list installed packages", minArgs: 0, maxArgs: -1},
	{name: "updates", usage: "updates", help: "list available updates", minArgs: 0, maxArgs: 0},
	{name: "install", usage: "install <package>", help: "install a package", minArgs: 1, maxArgs: 1},
	{name: "remove", usage: "remove <package>", help: "remove a package", minArgs: 1, maxArgs: 1},
	{name: "upgrade", usage: "upgrade", help: "upgrade all packages", minArgs: 0, maxArgs: 0},
	{name: "cache", usage: "cache clear|enable|disable|status", help: "control the search cache", minArgs: 1, maxArgs: 1},
	{name: "clear", usage: "clear", help: "clear the screen", minArgs: 0, maxArgs: 0},
	{name: "help", usage: "help", help: "show this help", minArgs: 0, maxArgs: 0},
	{name: "quit", usage: "quit", help: "leave the shell", minArgs: 0, maxArgs: 0},
}

var shellAliases = map[string]string{
	"uninstall": "remove",
	"exit":      "quit",
	"?":         "help",
}

var cacheActions = []string{"clear", "enable", "disable", "status"}

// parseShellCommand splits a line into a command and its arguments.
// A blank line yields a command with an empty name.
func parseShellCommand(line string) (shellCommand, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return shellCommand{}, nil
	}

	name := strings.ToLower(fields[0])
	if alias, ok := shellAliases[name]; ok {
		name = alias
	}
	spec, ok := findSpec(name)
	if !ok {
		return shellCommand{}, fmt.Errorf("%w: %s", errUnknownCommand, fields[0])
	}

	args := fields[1:]
	if len(args) < spec.minArgs || (spec.maxArgs >= 0 && len(args) > spec.maxArgs) {
		return shellCommand{}, fmt.Errorf("%w: %s", errUsage, spec.usage)
	}
	if name == "cache" {
		args[0] = strings.ToLower(args[0])
		if !slices.Contains(cacheActions, args[0]) {
			return shellCommand{}, fmt.Errorf("%w: %s", errUsage, spec.usage)
		}
	}

	return shellCommand{name: name, args: args}, nil
}

func findSpec(name string) (commandSpec, bool) {
	for _, s := range shellSpecs {
		if s.name == name {
			return s, true
		}
	}
	return commandSpec{}, false
}

// shellHelp returns one aligned line per command
func shellHelp() []string {
	width := 0
	for _, s := range shellSpecs {
		width = max(width, len(s.usage))
	}
	lines := make([]string, 0, len(shellSpecs))
	for _, s := range shellSpecs {
		lines = append(lines, fmt.Sprintf("%-*s  %s", width, s.usage, s.help))
	}
	return lines
}

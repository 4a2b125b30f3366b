package output

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	// Package state colors
	Installed = color.New(color.FgGreen)
	Available = color.New(color.FgBlue)

	// Update kind colors
	Major   = color.New(color.FgRed, color.Bold)
	Minor   = color.New(color.FgYellow)
	Patch   = color.New(color.FgGreen)
	Release = color.New(color.FgCyan)

	// Message colors
	Success = color.New(color.FgGreen)
	Warning = color.New(color.FgYellow)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Dim     = color.New(color.Faint)

	// Structural colors
	Header  = color.New(color.FgWhite, color.Bold)
	Package = color.New(color.FgBlue, color.Bold)
	Label   = color.New(color.FgWhite, color.Bold)
)

// NoColor disables color output
func NoColor() {
	color.NoColor = true
}

// ForceColor enables color output even when not a TTY
func ForceColor() {
	color.NoColor = false
}

// KindColor returns the color for an update kind name
// ("major", "minor", "patch", "release")
func KindColor(kind string) *color.Color {
	switch strings.ToLower(kind) {
	case "major":
		return Major
	case "minor":
		return Minor
	case "patch":
		return Patch
	case "release":
		return Release
	default:
		return color.New(color.Reset)
	}
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Success.Printf("✓ "+format+"\n", args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Error.Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	Warning.Printf("⚠ "+format+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Info.Printf("→ "+format+"\n", args...)
}

// Sprintf returns a colored string without printing
func Sprintf(c *color.Color, format string, args ...interface{}) string {
	return c.Sprintf(format, args...)
}

// Sprint returns a colored string without printing
func Sprint(c *color.Color, a ...interface{}) string {
	return c.Sprint(a...)
}

// FormatKind formats an update kind as a colored tag; unknown kinds yield ""
func FormatKind(kind string) string {
	if kind == "" || kind == "unknown" {
		return ""
	}
	return KindColor(kind).Sprintf("[%s]", kind)
}

// FormatPackage formats a package name, marking installed ones
func FormatPackage(name string, installed bool) string {
	if installed {
		return Package.Sprint(name) + " " + Installed.Sprint("[installed]")
	}
	return Package.Sprint(name)
}

// Field prints an aligned "label: value" line, skipping empty values
func Field(label, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%s %s\n", Label.Sprintf("%-13s", label+":"), value)
}

// Box prints a boxed block of lines
func Box(title string, lines ...string) {
	fmt.Println()
	Header.Println("┌─ " + title + " ─")
	fmt.Println("│")
	for _, line := range lines {
		fmt.Println("│  " + line)
	}
	fmt.Println("│")
	Header.Println("└────────────────")
	fmt.Println()
}

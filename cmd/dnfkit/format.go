package main

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/obentoo/dnfkit/internal/common/output"
	"github.com/obentoo/dnfkit/internal/dnf"
)

// summarySeparator sits between a package name and its summary
const summarySeparator = " - "

// formatPackageLine renders "name [installed] - summary" within width columns.
// Only the summary is shortened.
func formatPackageLine(p dnf.Package, width int) string {
	name := p.DisplayName
	if name == "" {
		name = p.Name
	}
	line := output.FormatPackage(name, p.Installed)
	if p.Summary == "" {
		return line
	}

	used := utf8.RuneCountInString(name) + utf8.RuneCountInString(summarySeparator)
	if p.Installed {
		used += utf8.RuneCountInString(" [installed]")
	}
	summary := output.Truncate(p.Summary, width-used)
	if summary == "" {
		return line
	}
	return line + summarySeparator + summary
}

// formatInstalledLine renders "name version-release - summary"
func formatInstalledLine(p dnf.Package, width int) string {
	evr := joinEVR(p.Version, p.Release)
	name := p.DisplayName
	if name == "" {
		name = p.Name
	}

	used := utf8.RuneCountInString(name)
	line := output.Package.Sprint(name)
	if evr != "" {
		line += " " + output.Dim.Sprint(evr)
		used += 1 + utf8.RuneCountInString(evr)
	}
	if p.Summary == "" {
		return line
	}
	used += utf8.RuneCountInString(summarySeparator)
	if summary := output.Truncate(p.Summary, width-used); summary != "" {
		line += summarySeparator + summary
	}
	return line
}

// formatUpdateLine renders "name current -> available [kind]"
func formatUpdateLine(u dnf.UpdateRecord) string {
	name := u.DisplayName
	if name == "" {
		name = u.Name
	}
	current := u.CurrentVersion
	if current == "" {
		current = "?"
	}

	line := fmt.Sprintf("%s %s → %s", output.Package.Sprint(name), output.Dim.Sprint(current), u.AvailableVersion)
	if tag := output.FormatKind(u.Kind.String()); tag != "" {
		line += " " + tag
	}
	return line
}

// joinEVR joins version and release the way rpm prints them
func joinEVR(version, release string) string {
	switch {
	case version == "":
		return ""
	case release == "":
		return version
	default:
		return version + "-" + release
	}
}

// infoFields lists the labeled fields shown for a package
func infoFields(info *dnf.PackageInfo) [][2]string {
	return [][2]string{
		{"Name", info.DisplayName},
		{"Version", info.Version},
		{"Release", info.Release},
		{"Architecture", info.Architecture},
		{"Size", info.Size},
		{"Repository", info.Repository},
		{"License", info.License},
		{"URL", info.URL},
		{"Summary", info.Summary},
		{"Source", info.Source.String()},
	}
}

// messageLines splits a tool message into display lines cut to width.
// Blank lines at either end are dropped.
func messageLines(message string, width int) []string {
	message = strings.Trim(message, "\n")
	if strings.TrimSpace(message) == "" {
		return nil
	}
	lines := strings.Split(message, "\n")
	for i, line := range lines {
		lines[i] = output.Truncate(strings.TrimRight(line, " \t\r"), width)
	}
	return lines
}

// countLabel returns "1 package" or "n packages"
func countLabel(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

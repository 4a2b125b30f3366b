package dnf

import (
	"strings"

	"github.com/obentoo/dnfkit/internal/common/logger"
)

// ParseSearchOutput parses the manager's search output into packages.
//
// Metadata header lines are discarded. Each remaining line is either
// "name<sep>summary" or a bare name. Architecture qualifiers are stripped and
// duplicates are dropped case-insensitively, keeping the first occurrence in
// output order.
func ParseSearchOutput(output string, d *Dialect) []Package {
	packages := []Package{}
	seen := make(map[string]bool)

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || d.isSearchHeader(line) {
			continue
		}

		name, summary := d.splitSearchLine(line)
		name = CanonicalName(name)
		if name == "" {
			logger.Debug("dropping search row without a name: %q", line)
			continue
		}

		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		packages = append(packages, Package{
			Name:        name,
			DisplayName: DisplayName(name),
			Summary:     summary,
		})
	}

	return packages
}

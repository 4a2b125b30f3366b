package dnf

import (
	"sort"
	"strings"

	"github.com/obentoo/dnfkit/internal/common/logger"
)

// installedQueryFormat requests one tab-separated record per installed package
const installedQueryFormat = "%{NAME}\t%{VERSION}\t%{RELEASE}\t%{SUMMARY}\n"

// ParseInstalledOutput parses the tab-separated installed-package listing.
// Release and summary may be missing; lines without a version are dropped.
// The result is sorted by case-insensitive name.
func ParseInstalledOutput(output string) []Package {
	packages := []Package{}

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, "\t", 4)
		if len(parts) < 2 {
			logger.Debug("dropping installed row with %d fields: %q", len(parts), line)
			continue
		}

		name := strings.TrimSpace(parts[0])
		if name == "" {
			continue
		}

		pkg := Package{
			Name:        name,
			DisplayName: DisplayName(name),
			Version:     strings.TrimSpace(parts[1]),
			Installed:   true,
		}
		if len(parts) > 2 {
			pkg.Release = strings.TrimSpace(parts[2])
		}
		if len(parts) > 3 {
			pkg.Summary = strings.TrimSpace(parts[3])
		}
		packages = append(packages, pkg)
	}

	sortPackages(packages)
	return packages
}

// FilterPackages keeps packages whose name or summary contains query,
// ignoring case. An empty query keeps everything.
func FilterPackages(packages []Package, query string) []Package {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return packages
	}

	filtered := []Package{}
	for _, pkg := range packages {
		if strings.Contains(strings.ToLower(pkg.Name), query) ||
			strings.Contains(strings.ToLower(pkg.Summary), query) {
			filtered = append(filtered, pkg)
		}
	}
	return filtered
}

func sortPackages(packages []Package) {
	sort.SliceStable(packages, func(i, j int) bool {
		return strings.ToLower(packages[i].Name) < strings.ToLower(packages[j].Name)
	})
}

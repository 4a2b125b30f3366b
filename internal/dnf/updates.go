package dnf

import (
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/obentoo/dnfkit/internal/common/logger"
)

// detailQueryFormat requests "version-release<TAB>summary" for one package
const detailQueryFormat = "%{VERSION}-%{RELEASE}\t%{SUMMARY}"

// UpdateCandidate is one row of the update-check listing
type UpdateCandidate struct {
	Name             string
	AvailableVersion string
}

// ParseUpdateOutput parses update-check output into unique candidates.
//
// Each row is "name.arch  version  repository". Rows the manager wrapped
// because the name was too long (name alone, then an indented
// "version repository" line) are joined. Parsing stops at an obsoletes section.
func ParseUpdateOutput(output string, d *Dialect) []UpdateCandidate {
	candidates := []UpdateCandidate{}
	seen := make(map[string]bool)
	pending := ""

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if d.isUpdateStop(line) {
			break
		}
		if d.isUpdateHeader(line) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) == 1 && !isIndented(raw) {
			pending = fields[0]
			continue
		}
		if pending != "" && isIndented(raw) {
			fields = append([]string{pending}, fields...)
		}
		pending = ""

		if len(fields) < 2 {
			logger.Debug("dropping update row: %q", line)
			continue
		}

		name := CanonicalName(fields[0])
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		candidates = append(candidates, UpdateCandidate{
			Name:             name,
			AvailableVersion: fields[1],
		})
	}

	return candidates
}

// ParseDetailOutput splits "version-release<TAB>summary" output
func ParseDetailOutput(output string) (version, summary string) {
	parts := strings.SplitN(output, "\t", 2)
	version = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		summary = strings.TrimSpace(parts[1])
	}
	return version, summary
}

// ClassifyUpdate compares "version-release" strings. Versions that are not
// semver-like, or that do not move forward, classify as UpdateUnknown.
func ClassifyUpdate(current, available string) UpdateKind {
	if current == "" || available == "" {
		return UpdateUnknown
	}

	curVer, curRel := splitEVR(current)
	availVer, availRel := splitEVR(available)

	if curVer == availVer {
		if curRel != availRel {
			return UpdateRelease
		}
		return UpdateUnknown
	}

	cur, err := semver.NewVersion(curVer)
	if err != nil {
		return UpdateUnknown
	}
	avail, err := semver.NewVersion(availVer)
	if err != nil {
		return UpdateUnknown
	}

	switch {
	case !avail.GreaterThan(cur):
		return UpdateUnknown
	case avail.Major() != cur.Major():
		return UpdateMajor
	case avail.Minor() != cur.Minor():
		return UpdateMinor
	case avail.Patch() != cur.Patch():
		return UpdatePatch
	default:
		return UpdateUnknown
	}
}

// splitEVR drops an epoch prefix and splits version from release
func splitEVR(evr string) (version, release string) {
	if _, rest, ok := strings.Cut(evr, ":"); ok {
		evr = rest
	}
	if idx := strings.LastIndexByte(evr, '-'); idx > 0 {
		return evr[:idx], evr[idx+1:]
	}
	return evr, ""
}

func isIndented(raw string) bool {
	return strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "\t")
}

func sortUpdates(updates []UpdateRecord) {
	sort.SliceStable(updates, func(i, j int) bool {
		return strings.ToLower(updates[i].Name) < strings.ToLower(updates[j].Name)
	})
}

package dnf

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

var (
	// ErrUnknownDialect is returned when a dialect name has no builtin definition
	ErrUnknownDialect = errors.New("unknown output dialect: must be 'dnf4' or 'dnf5'")
	// ErrDialectFileNotFound is returned when a dialect file does not exist
	ErrDialectFileNotFound = errors.New("dialect file not found")
)

// InfoLabels lists the accepted labels for each info field.
// Matching is case-insensitive on the text before the first colon.
type InfoLabels struct {
	Name         []string `toml:"name"`
	Version      []string `toml:"version"`
	Release      []string `toml:"release"`
	Architecture []string `toml:"architecture"`
	Size         []string `toml:"size"`
	Summary      []string `toml:"summary"`
	URL          []string `toml:"url"`
	License      []string `toml:"license"`
	Repository   []string `toml:"repository"`
	Description  []string `toml:"description"`
}

// Dialect describes the output vocabulary of one manager version.
// Parsers depend on these prefixes and labels, so each builtin has a fixture
// corpus under testdata/<name>.
type Dialect struct {
	// Name identifies the dialect (e.g., "dnf4")
	Name string `toml:"name"`
	// SearchHeaders are line prefixes of search metadata to discard
	SearchHeaders []string `toml:"search_headers"`
	// SearchSeparators split "name<sep>summary"; the first one found wins
	SearchSeparators []string `toml:"search_separators"`
	// Info holds labels for the manager's info output
	Info InfoLabels `toml:"info"`
	// UpdateHeaders are line prefixes of update-check output to discard
	UpdateHeaders []string `toml:"update_headers"`
	// UpdateStopMarkers end parsing of update-check output
	UpdateStopMarkers []string `toml:"update_stop_markers"`
}

// DNF4 returns the dialect of dnf 4.x
func DNF4() *Dialect {
	return &Dialect{
		Name: "dnf4",
		SearchHeaders: []string{
			"matched:",
			"matched fields",
			"name (",
			"summary (",
			"description (",
			"=",
			"last metadata",
		},
		SearchSeparators: []string{":"},
		Info: InfoLabels{
			Name:         []string{"Name"},
			Version:      []string{"Version"},
			Release:      []string{"Release"},
			Architecture: []string{"Architecture", "Arch"},
			Size:         []string{"Size"},
			Summary:      []string{"Summary"},
			URL:          []string{"URL"},
			License:      []string{"License"},
			Repository:   []string{"From repo", "Repository", "Repo"},
			Description:  []string{"Description"},
		},
		UpdateHeaders:     []string{"Last metadata", "Security:"},
		UpdateStopMarkers: []string{"Obsoleting Packages"},
	}
}

// DNF5 returns the dialect of dnf 5.x
func DNF5() *Dialect {
	d := DNF4()
	d.Name = "dnf5"
	d.SearchHeaders = append(d.SearchHeaders,
		"updating and loading repositories",
		"repositories loaded",
	)
	d.SearchSeparators = []string{"\t", ":"}
	d.Info.Size = []string{"Installed size", "Download size", "Package size", "Size"}
	d.Info.Repository = []string{"Repository", "From repository", "From repo"}
	d.UpdateHeaders = append(d.UpdateHeaders,
		"Updating and loading repositories",
		"Repositories loaded",
	)
	return d
}

// BuiltinDialect returns the builtin dialect with the given name.
// An empty name selects dnf4.
func BuiltinDialect(name string) (*Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dnf4", "dnf":
		return DNF4(), nil
	case "dnf5":
		return DNF5(), nil
	default:
		return nil, fmt.Errorf("%w: got %q", ErrUnknownDialect, name)
	}
}

// LoadDialect reads a dialect from a TOML file.
// Keys missing from the file keep their dnf4 values.
func LoadDialect(path string) (*Dialect, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrDialectFileNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dialect file: %w", err)
	}

	return ParseDialect(data)
}

// ParseDialect decodes TOML dialect content on top of the dnf4 defaults
func ParseDialect(data []byte) (*Dialect, error) {
	d := DNF4()
	d.Name = "custom"
	if err := toml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("failed to parse dialect: %w", err)
	}
	return d, nil
}

// ResolveDialect picks the dialect file when set, otherwise the named builtin
func ResolveDialect(name, file string) (*Dialect, error) {
	if file != "" {
		return LoadDialect(file)
	}
	return BuiltinDialect(name)
}

func (d *Dialect) isSearchHeader(line string) bool {
	return hasAnyPrefixFold(line, d.SearchHeaders)
}

func (d *Dialect) isUpdateHeader(line string) bool {
	return hasAnyPrefixFold(line, d.UpdateHeaders)
}

func (d *Dialect) isUpdateStop(line string) bool {
	return hasAnyPrefixFold(line, d.UpdateStopMarkers)
}

// splitSearchLine splits a search row into name and summary
func (d *Dialect) splitSearchLine(line string) (name, summary string) {
	for _, sep := range d.SearchSeparators {
		if sep == "" {
			continue
		}
		if idx := strings.Index(line, sep); idx >= 0 {
			return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+len(sep):])
		}
	}
	return strings.TrimSpace(line), ""
}

func hasAnyPrefixFold(line string, prefixes []string) bool {
	lower := strings.ToLower(line)
	for _, p := range prefixes {
		if p != "" && strings.HasPrefix(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

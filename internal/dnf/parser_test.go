package dnf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func readFixture(t *testing.T, parts ...string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(append([]string{"testdata"}, parts...)...))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return string(data)
}

func packageNames(pkgs []Package) []string {
	names := make([]string, len(pkgs))
	for i, p := range pkgs {
		names[i] = p.Name
	}
	return names
}

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"vim-enhanced.x86_64", "vim-enhanced"},
		{"filesystem.noarch", "filesystem"},
		{"glibc.i686", "glibc"},
		{"kernel.AARCH64", "kernel"},
		{"bash.src", "bash"},
		{"python3.11", "python3.11"},
		{"python3.11.x86_64", "python3.11"},
		{"  htop  ", "htop"},
		{"foo.x86_64.noarch", "foo"},
		{".x86_64.noarch", ".x86_64"},
		{".x86_64", ".x86_64"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CanonicalName(tt.input); got != tt.expected {
				t.Errorf("CanonicalName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
			if got := DisplayName(tt.input); got != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSearchNameMatchesDisplayName(t *testing.T) {
	pkgs := ParseSearchOutput("foo.x86_64.noarch : stacked qualifiers\n", DNF4())
	if len(pkgs) != 1 {
		t.Fatalf("expected 1 package, got %d", len(pkgs))
	}
	if pkgs[0].Name != "foo" || pkgs[0].DisplayName != "foo" {
		t.Errorf("Name = %q, DisplayName = %q, want both foo", pkgs[0].Name, pkgs[0].DisplayName)
	}
}

func TestParseSearchOutput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Package
	}{
		{
			name:     "empty output",
			input:    "",
			expected: []Package{},
		},
		{
			name:  "case-insensitive dedup keeps first",
			input: "Foo: bar\nfoo: baz\n",
			expected: []Package{
				{Name: "Foo", DisplayName: "Foo", Summary: "bar"},
			},
		},
		{
			name:  "metadata headers are discarded",
			input: "Matched: vim\nMatched fields: name\nName (exact): x\nSummary (y): z\nDescription (q): w\nvim.x86_64 : editor\n",
			expected: []Package{
				{Name: "vim", DisplayName: "vim", Summary: "editor"},
			},
		},
		{
			name:  "bare name without summary",
			input: "neovim.x86_64\n",
			expected: []Package{
				{Name: "neovim", DisplayName: "neovim"},
			},
		},
		{
			name:  "empty summary",
			input: "htop.x86_64 :\n",
			expected: []Package{
				{Name: "htop", DisplayName: "htop"},
			},
		},
		{
			name:     "row without a name is dropped",
			input:    ": orphan summary\n",
			expected: []Package{},
		},
		{
			name:  "summary keeps later colons",
			input: "git.x86_64 : Fast: distributed version control\n",
			expected: []Package{
				{Name: "git", DisplayName: "git", Summary: "Fast: distributed version control"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseSearchOutput(tt.input, DNF4())
			if len(result) != len(tt.expected) {
				t.Fatalf("expected %d packages, got %d: %v", len(tt.expected), len(result), result)
			}
			for i, pkg := range result {
				if pkg != tt.expected[i] {
					t.Errorf("package %d: expected %+v, got %+v", i, tt.expected[i], pkg)
				}
			}
		})
	}
}

func TestParseSearchFixtures(t *testing.T) {
	tests := []struct {
		dialect  *Dialect
		expected []string
	}{
		{
			dialect:  DNF4(),
			expected: []string{"vim-enhanced", "vim-minimal", "vim-common", "vim-filesystem", "python3.11", "neovim"},
		},
		{
			dialect:  DNF5(),
			expected: []string{"vim-enhanced", "vim-minimal", "vim-common"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.dialect.Name, func(t *testing.T) {
			result := ParseSearchOutput(readFixture(t, tt.dialect.Name, "search.txt"), tt.dialect)
			names := packageNames(result)
			if strings.Join(names, ",") != strings.Join(tt.expected, ",") {
				t.Errorf("names = %v, want %v", names, tt.expected)
			}
		})
	}

	t.Run("dnf5 tab separator wins over colon", func(t *testing.T) {
		result := ParseSearchOutput(readFixture(t, "dnf5", "search.txt"), DNF5())
		if result[1].Summary != "A minimal version of the VIM editor: tiny" {
			t.Errorf("summary = %q", result[1].Summary)
		}
	})
}

func TestParseInfoOutput(t *testing.T) {
	t.Run("description stops at blank line", func(t *testing.T) {
		input := "Name: foo\nVersion: 1.2\n\nDescription: line one\nline two\n\nafter blank\n"
		info := ParseInfoOutput(input, "foo", DNF4())

		if info.Name != "foo" || info.Version != "1.2" {
			t.Errorf("unexpected name/version: %q %q", info.Name, info.Version)
		}
		if info.Description != "line one\nline two" {
			t.Errorf("description = %q", info.Description)
		}
		if info.Source != SourceManager {
			t.Errorf("source = %v, want manager", info.Source)
		}
	})

	t.Run("fields in any order and absent", func(t *testing.T) {
		input := "License : MIT\nSummary : tool\nName : bar\n"
		info := ParseInfoOutput(input, "bar", DNF4())

		if info.License != "MIT" || info.Summary != "tool" || info.Name != "bar" {
			t.Errorf("unexpected info: %+v", info)
		}
		if info.Version != "" || info.URL != "" || info.Description != "" || info.Repository != "" {
			t.Errorf("absent fields should stay empty: %+v", info)
		}
	})

	t.Run("empty name keeps base", func(t *testing.T) {
		info := ParseInfoOutput("Name :\nVersion : 1\n", "base.x", DNF4())
		if info.Name != "base.x" {
			t.Errorf("name = %q, want base", info.Name)
		}
	})

	t.Run("dnf4 fixture", func(t *testing.T) {
		info := ParseInfoOutput(readFixture(t, "dnf4", "info.txt"), "vim-enhanced", DNF4())
		want := PackageInfo{
			Name:         "vim-enhanced",
			DisplayName:  "vim-enhanced",
			Version:      "9.1.825",
			Release:      "1.fc41",
			Architecture: "x86_64",
			Size:         "4.1 M",
			Summary:      "A version of the VIM editor which includes recent enhancements",
			URL:          "http://www.vim.org/",
			License:      "Vim AND LGPL-2.1-or-later AND MIT",
			Repository:   "updates",
			Description: "VIM (VIsual editor iMproved) is an updated and improved version of the\n" +
				"vi editor.\n\nThis package contains a version of VIM with extra features.",
			Source: SourceManager,
		}
		if info != want {
			t.Errorf("info mismatch\n got: %+v\nwant: %+v", info, want)
		}
	})

	t.Run("dnf5 fixture", func(t *testing.T) {
		info := ParseInfoOutput(readFixture(t, "dnf5", "info.txt"), "vim-enhanced", DNF5())
		if info.Size != "4.1 MiB" {
			t.Errorf("size = %q", info.Size)
		}
		if info.Repository != "updates" {
			t.Errorf("repository = %q", info.Repository)
		}
		if info.Description != "VIM (VIsual editor iMproved) is an updated and improved version of the\nvi editor." {
			t.Errorf("description = %q", info.Description)
		}
	})
}

func TestParseLocalInfoOutput(t *testing.T) {
	info := ParseLocalInfoOutput(readFixture(t, "rpm", "info.txt"), "htop")

	if !info.Installed {
		t.Error("local database info should be installed")
	}
	if info.Source != SourceLocalDB {
		t.Errorf("source = %v, want local-db", info.Source)
	}
	if info.Version != "3.3.0" || info.Release != "4.fc41" || info.Architecture != "x86_64" {
		t.Errorf("unexpected version fields: %+v", info)
	}
	if info.URL != "https://htop.dev" {
		t.Errorf("url = %q", info.URL)
	}
	if info.Repository != "" {
		t.Errorf("repository should be absent, got %q", info.Repository)
	}
	if info.Description != "htop is an interactive text-mode process viewer for Linux, similar to\ntop(1)." {
		t.Errorf("description = %q", info.Description)
	}
}

func TestParseLocalInfoDescriptionText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantDesc string
		wantURL  string
	}{
		{
			name:     "label-like prose is kept",
			input:    "Name        : foo\nDescription :\nFoo does things.\nNote : works offline.\nMore text.\n",
			wantDesc: "Foo does things.\nNote : works offline.\nMore text.",
		},
		{
			name:     "known label in prose does not overwrite the field",
			input:    "Name        : foo\nURL         : https://foo.example\nDescription :\nFoo does things.\nURL: see docs\n",
			wantDesc: "Foo does things.\nURL: see docs",
			wantURL:  "https://foo.example",
		},
		{
			name:     "blank line ends the description",
			input:    "Description :\nFirst.\n\nNot description.\n",
			wantDesc: "First.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseLocalInfoOutput(tt.input, "foo")
			if info.Description != tt.wantDesc {
				t.Errorf("description = %q, want %q", info.Description, tt.wantDesc)
			}
			if info.URL != tt.wantURL {
				t.Errorf("url = %q, want %q", info.URL, tt.wantURL)
			}
		})
	}
}

func TestParseInfoDescriptionEndsAtAlignedLabel(t *testing.T) {
	input := "Name        : foo\n" +
		"Description : first line\n" +
		"            : second line\n" +
		"Note: prose with a colon\n" +
		"Vendor      : Example\n" +
		"trailing\n"
	info := ParseInfoOutput(input, "foo", DNF4())

	want := "first line\nsecond line\nNote: prose with a colon"
	if info.Description != want {
		t.Errorf("description = %q, want %q", info.Description, want)
	}
}

func TestParseInstalledOutput(t *testing.T) {
	result := ParseInstalledOutput(readFixture(t, "rpm", "installed.txt"))

	expected := []Package{
		{Name: "acl", DisplayName: "acl", Version: "2.3.2", Installed: true},
		{Name: "bash", DisplayName: "bash", Version: "5.2.32", Release: "1.fc41", Summary: "The GNU Bourne Again shell", Installed: true},
		{Name: "gpg-pubkey", DisplayName: "gpg-pubkey", Version: "0727707ea15b79cc", Release: "5c9a4a3d", Installed: true},
		{Name: "htop", DisplayName: "htop", Version: "3.3.0", Release: "4.fc41", Summary: "Interactive process viewer\twith a tab", Installed: true},
		{Name: "Zlib", DisplayName: "Zlib", Version: "1.3.1", Release: "2.fc41", Summary: "Compression and decompression library", Installed: true},
	}

	if len(result) != len(expected) {
		t.Fatalf("expected %d packages, got %d: %v", len(expected), len(result), packageNames(result))
	}
	for i := range expected {
		if result[i] != expected[i] {
			t.Errorf("package %d: expected %+v, got %+v", i, expected[i], result[i])
		}
	}
}

func TestFilterPackages(t *testing.T) {
	pkgs := []Package{
		{Name: "bash", Summary: "The GNU Bourne Again shell"},
		{Name: "htop", Summary: "Interactive process viewer"},
		{Name: "zsh", Summary: "Powerful interactive SHELL"},
	}

	tests := []struct {
		query    string
		expected []string
	}{
		{"", []string{"bash", "htop", "zsh"}},
		{"shell", []string{"bash", "zsh"}},
		{"HTOP", []string{"htop"}},
		{"nothing", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			names := packageNames(FilterPackages(pkgs, tt.query))
			if strings.Join(names, ",") != strings.Join(tt.expected, ",") {
				t.Errorf("FilterPackages(%q) = %v, want %v", tt.query, names, tt.expected)
			}
		})
	}
}

func TestParseUpdateOutput(t *testing.T) {
	t.Run("single row", func(t *testing.T) {
		result := ParseUpdateOutput("pkg.x86_64   2.0-1   repo", DNF4())
		if len(result) != 1 {
			t.Fatalf("expected 1 candidate, got %d", len(result))
		}
		if result[0].Name != "pkg" || result[0].AvailableVersion != "2.0-1" {
			t.Errorf("unexpected candidate: %+v", result[0])
		}
	})

	t.Run("dnf4 fixture", func(t *testing.T) {
		result := ParseUpdateOutput(readFixture(t, "dnf4", "check-update.txt"), DNF4())
		want := []UpdateCandidate{
			{Name: "NetworkManager", AvailableVersion: "1:1.48.10-1.fc41"},
			{Name: "bash", AvailableVersion: "5.2.32-1.fc41"},
			{Name: "kernel-core", AvailableVersion: "6.11.3-300.fc41"},
			{Name: "a-very-long-package-name-that-wraps", AvailableVersion: "2.0-1.fc41"},
		}
		if len(result) != len(want) {
			t.Fatalf("expected %d candidates, got %d: %+v", len(want), len(result), result)
		}
		for i := range want {
			if result[i] != want[i] {
				t.Errorf("candidate %d: expected %+v, got %+v", i, want[i], result[i])
			}
		}
	})

	t.Run("dnf5 fixture", func(t *testing.T) {
		result := ParseUpdateOutput(readFixture(t, "dnf5", "check-update.txt"), DNF5())
		if len(result) != 3 {
			t.Fatalf("expected 3 candidates, got %d: %+v", len(result), result)
		}
	})

	t.Run("single field rows are dropped", func(t *testing.T) {
		result := ParseUpdateOutput("   orphan\n", DNF4())
		if len(result) != 0 {
			t.Errorf("expected no candidates, got %+v", result)
		}
	})
}

func TestParseDetailOutput(t *testing.T) {
	tests := []struct {
		input       string
		wantVersion string
		wantSummary string
	}{
		{"5.2.32-1.fc41\tThe GNU Bourne Again shell", "5.2.32-1.fc41", "The GNU Bourne Again shell"},
		{"1.0-1", "1.0-1", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		version, summary := ParseDetailOutput(tt.input)
		if version != tt.wantVersion || summary != tt.wantSummary {
			t.Errorf("ParseDetailOutput(%q) = %q, %q", tt.input, version, summary)
		}
	}
}

func TestClassifyUpdate(t *testing.T) {
	tests := []struct {
		current   string
		available string
		expected  UpdateKind
	}{
		{"1.2.3-1.fc41", "2.0.0-1.fc41", UpdateMajor},
		{"1.2.3-1.fc41", "1.3.0-1.fc41", UpdateMinor},
		{"1.2.3-1.fc41", "1.2.4-1.fc41", UpdatePatch},
		{"5.2.32-1.fc41", "5.2.32-2.fc41", UpdateRelease},
		{"1:1.48.9-1.fc41", "1:1.48.10-1.fc41", UpdatePatch},
		{"", "1.0-1", UpdateUnknown},
		{"2.0-1", "1.0-1", UpdateUnknown},
		{"1.0.0.1-1", "1.0.0.2-1", UpdateUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.current+"->"+tt.available, func(t *testing.T) {
			if got := ClassifyUpdate(tt.current, tt.available); got != tt.expected {
				t.Errorf("ClassifyUpdate(%q, %q) = %v, want %v", tt.current, tt.available, got, tt.expected)
			}
		})
	}
}

// =============================================================================
// Property-Based Tests
// =============================================================================

func hasArchSuffix(name string) bool {
	lower := strings.ToLower(name)
	for _, arch := range archQualifiers {
		if strings.HasSuffix(lower, "."+arch) {
			return true
		}
	}
	return false
}

// TestSearchNamesAreCanonical checks that parsed search names are never empty
// and never carry an architecture qualifier.
func TestSearchNamesAreCanonical(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	archGen := gen.OneConstOf("x86_64", "noarch", "aarch64", "i686", "ppc64le", "s390x")

	properties.Property("parsed names are non-empty and arch-free", prop.ForAll(
		func(names []string, arch string, withSummary bool) bool {
			var sb strings.Builder
			for _, n := range names {
				sb.WriteString(n + "." + arch)
				if withSummary {
					sb.WriteString(" : summary of " + n)
				}
				sb.WriteString("\n")
			}
			for _, pkg := range ParseSearchOutput(sb.String(), DNF4()) {
				if pkg.Name == "" || hasArchSuffix(pkg.Name) || hasArchSuffix(pkg.DisplayName) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
		archGen,
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// TestSearchDedupIsCaseInsensitive checks that one record survives per
// case-insensitive name and that first-occurrence order is kept.
func TestSearchDedupIsCaseInsensitive(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	// The first spelling is kept as is ("Foo" wins over a later "foo").
	properties.Property("dedup keeps first occurrence per lowercase name", prop.ForAll(
		func(names []string) bool {
			var sb strings.Builder
			var order []string
			seen := make(map[string]bool)
			for i, n := range names {
				variant := n
				if i%2 == 1 {
					variant = strings.ToUpper(n)
				}
				sb.WriteString(variant + ".noarch : s\n")
				if !seen[strings.ToLower(n)] {
					seen[strings.ToLower(n)] = true
					order = append(order, variant)
				}
			}

			got := packageNames(ParseSearchOutput(sb.String(), DNF4()))
			return strings.Join(got, ",") == strings.Join(order, ",")
		},
		gen.SliceOf(gen.OneConstOf("vim", "Vim", "htop", "bash", "zsh", "git")),
	))

	properties.TestingRun(t)
}

// TestInstalledOutputIsSorted checks the sort contract of the installed listing
func TestInstalledOutputIsSorted(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("installed packages are sorted by lowercase name", prop.ForAll(
		func(names []string) bool {
			var sb strings.Builder
			for _, n := range names {
				sb.WriteString(n + "\t1.0\t1\tsummary\n")
			}
			result := ParseInstalledOutput(sb.String())
			if len(result) != len(names) {
				return false
			}
			for i := 1; i < len(result); i++ {
				if strings.ToLower(result[i-1].Name) > strings.ToLower(result[i].Name) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.Identifier()),
	))

	properties.TestingRun(t)
}

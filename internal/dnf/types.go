package dnf

// Package is a normalized package record as listed by search or the
// installed-package listing. Optional fields are empty when unknown.
type Package struct {
	// Name is the canonical package name with any architecture qualifier removed
	Name string `json:"name"`
	// DisplayName is the name shown to users
	DisplayName string `json:"display_name"`
	Summary     string `json:"summary,omitempty"`
	Version     string `json:"version,omitempty"`
	Release     string `json:"release,omitempty"`
	// Installed is best-effort; search results always report false
	Installed bool `json:"installed"`
}

// InfoSource identifies which tool produced a PackageInfo.
type InfoSource int

const (
	// SourceManager means the manager's info command answered
	SourceManager InfoSource = iota
	// SourceLocalDB means the manager failed and the local package database answered
	SourceLocalDB
)

func (s InfoSource) String() string {
	switch s {
	case SourceManager:
		return "manager"
	case SourceLocalDB:
		return "local-db"
	default:
		return "unknown"
	}
}

// PackageInfo holds detailed information about a single package.
// The two sources populate different subsets of fields; absent fields stay empty.
type PackageInfo struct {
	Name         string     `json:"name"`
	DisplayName  string     `json:"display_name"`
	Version      string     `json:"version,omitempty"`
	Release      string     `json:"release,omitempty"`
	Architecture string     `json:"architecture,omitempty"`
	Size         string     `json:"size,omitempty"` // as reported, unit suffix included
	Summary      string     `json:"summary,omitempty"`
	Description  string     `json:"description,omitempty"`
	URL          string     `json:"url,omitempty"`
	License      string     `json:"license,omitempty"`
	Repository   string     `json:"repository,omitempty"`
	Installed    bool       `json:"installed"`
	Source       InfoSource `json:"-"`
}

// UpdateKind classifies how far an available update moves a package.
type UpdateKind int

const (
	UpdateUnknown UpdateKind = iota
	UpdateMajor
	UpdateMinor
	UpdatePatch
	// UpdateRelease is a new package release of the same upstream version
	UpdateRelease
)

func (k UpdateKind) String() string {
	switch k {
	case UpdateMajor:
		return "major"
	case UpdateMinor:
		return "minor"
	case UpdatePatch:
		return "patch"
	case UpdateRelease:
		return "release"
	default:
		return "unknown"
	}
}

// UpdateRecord describes one package with an available update.
type UpdateRecord struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	// CurrentVersion comes from the local package database and may be empty
	CurrentVersion   string     `json:"current_version,omitempty"`
	AvailableVersion string     `json:"available_version"`
	Summary          string     `json:"summary,omitempty"`
	Kind             UpdateKind `json:"-"`
}

// MutationResult is the outcome of a privileged install, uninstall or upgrade.
// Message is standard output on success and standard error (falling back to
// standard output) on failure.
type MutationResult struct {
	Success bool
	Message string
}

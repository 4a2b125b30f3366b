package dnf

import (
	"strings"
)

// localDBLabels are the labels of the package database's "-qi" output
var localDBLabels = InfoLabels{
	Name:         []string{"Name"},
	Version:      []string{"Version"},
	Release:      []string{"Release"},
	Architecture: []string{"Architecture"},
	Size:         []string{"Size"},
	Summary:      []string{"Summary"},
	URL:          []string{"URL"},
	License:      []string{"License"},
	Description:  []string{"Description"},
}

// infoField identifies which PackageInfo field a label fills
type infoField int

const (
	fieldNone infoField = iota
	fieldName
	fieldVersion
	fieldRelease
	fieldArchitecture
	fieldSize
	fieldSummary
	fieldURL
	fieldLicense
	fieldRepository
	fieldDescription
)

// match returns the field whose label list contains key
func (l *InfoLabels) match(key string) infoField {
	candidates := []struct {
		labels []string
		field  infoField
	}{
		{l.Name, fieldName},
		{l.Version, fieldVersion},
		{l.Release, fieldRelease},
		{l.Architecture, fieldArchitecture},
		{l.Size, fieldSize},
		{l.Summary, fieldSummary},
		{l.URL, fieldURL},
		{l.License, fieldLicense},
		{l.Repository, fieldRepository},
		{l.Description, fieldDescription},
	}
	for _, c := range candidates {
		for _, label := range c.labels {
			if strings.EqualFold(key, label) {
				return c.field
			}
		}
	}
	return fieldNone
}

// ParseInfoOutput parses the manager's info output for the package base.
// Installed is left false; the caller determines it separately.
func ParseInfoOutput(output, base string, d *Dialect) PackageInfo {
	info := parseLabeled(output, base, &d.Info, true)
	info.Source = SourceManager
	return info
}

// ParseLocalInfoOutput parses the local package database's info output.
// A package found there is installed by definition.
func ParseLocalInfoOutput(output, base string) PackageInfo {
	info := parseLabeled(output, base, &localDBLabels, false)
	info.Source = SourceLocalDB
	info.Installed = true
	return info
}

// parseLabeled reads "Label : value" lines in any order. A Description label
// opens a section that continues over unlabeled lines until a blank line.
// Inside the section only a label whose colon sits in the Description label's
// column counts as a label. An unknown label there ends the section when
// endOnUnknown is set and is kept as description text otherwise.
// When the output lists several records, later values win.
func parseLabeled(output, base string, labels *InfoLabels, endOnUnknown bool) PackageInfo {
	info := PackageInfo{Name: base}

	inDescription := false
	descColumn := -1
	var description []string

	for _, raw := range strings.Split(output, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			inDescription = false
			continue
		}

		rawKey, value, hasColon := strings.Cut(line, ":")
		key := strings.TrimSpace(rawKey)
		value = strings.TrimSpace(value)

		field := fieldNone
		if hasColon && key != "" {
			field = labels.match(key)
		}

		if inDescription {
			aligned := hasColon && key != "" && strings.IndexByte(raw, ':') == descColumn
			switch {
			case !aligned:
				// aligned continuation lines look like ": more text"
				if hasColon && key == "" {
					line = value
				}
				description = append(description, line)
				continue
			case field == fieldNone && endOnUnknown:
				inDescription = false
				continue
			case field == fieldNone:
				description = append(description, line)
				continue
			}
		} else if field == fieldNone {
			// "Vendor      : x" is a label we do not keep
			continue
		}

		inDescription = false
		switch field {
		case fieldName:
			if value != "" {
				info.Name = value
			}
		case fieldVersion:
			info.Version = value
		case fieldRelease:
			info.Release = value
		case fieldArchitecture:
			info.Architecture = value
		case fieldSize:
			info.Size = value
		case fieldSummary:
			info.Summary = value
		case fieldURL:
			info.URL = value
		case fieldLicense:
			info.License = value
		case fieldRepository:
			info.Repository = value
		case fieldDescription:
			inDescription = true
			descColumn = strings.IndexByte(raw, ':')
			description = description[:0]
			if value != "" {
				description = append(description, value)
			}
		}
	}

	info.Description = strings.Join(description, "\n")
	info.DisplayName = DisplayName(info.Name)
	return info
}

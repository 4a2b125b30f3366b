package dnf

import "strings"

// archQualifiers are the architecture suffixes removed from package names
var archQualifiers = []string{
	"x86_64",
	"noarch",
	"aarch64",
	"armv7hl",
	"i686",
	"i386",
	"ppc64le",
	"ppc64",
	"s390x",
	"riscv64",
	"src",
}

// CanonicalName removes trailing architecture qualifiers (".x86_64",
// ".noarch", ...) from name until none is left. Other dotted suffixes such as
// "python3.11" are kept.
func CanonicalName(name string) string {
	name = strings.TrimSpace(name)
	for {
		stripped, ok := stripArch(name)
		if !ok {
			return name
		}
		name = stripped
	}
}

// stripArch removes one trailing architecture qualifier
func stripArch(name string) (string, bool) {
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 {
		return name, false
	}
	suffix := name[dot+1:]
	for _, arch := range archQualifiers {
		if strings.EqualFold(suffix, arch) {
			return name[:dot], true
		}
	}
	return name, false
}

// DisplayName returns the presentation form of a package name.
// It currently matches CanonicalName.
func DisplayName(name string) string {
	return CanonicalName(name)
}

package platform

import (
	"strings"

	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/failure"
)

// familyMap maps distribution names to their canonical family names.
// This is used to normalize variations of family strings from gopsutil.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian, // gopsutil might return ubuntu as family
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
	"gentoo":   FamilyGentoo,
}

// TargetFor maps an OS and architecture string to a release target.
// Both Go names (GOOS/GOARCH) and uname-style names are accepted.
func TargetFor(goos, goarch string) (Target, error) {
	osName, err := normalizeOS(goos)
	if err != nil {
		return Target{}, err
	}
	arch, err := normalizeArch(goarch)
	if err != nil {
		return Target{}, err
	}
	return Target{Arch: arch, OS: osName}, nil
}

// normalizeOS maps a kernel name to the triple's OS component.
// Linux always maps to the statically linked musl build.
func normalizeOS(goos string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(goos)) {
	case "linux":
		return OSLinuxMusl, nil
	case "darwin":
		return OSAppleDarwin, nil
	default:
		return "", failure.UnsupportedPlatform("unsupported operating system: %q (supported: linux, darwin)", goos)
	}
}

// normalizeArch maps a CPU architecture to the triple's arch component.
func normalizeArch(arch string) (string, error) {
	switch strings.TrimSpace(arch) {
	case "amd64", "x86_64":
		return ArchX86_64, nil
	case "arm64", "aarch64":
		return ArchAarch64, nil
	default:
		return "", failure.UnsupportedPlatform("unsupported architecture: %q (supported: x86_64, aarch64)", arch)
	}
}

// normalizePlatform converts platform IDs to lowercase for consistency.
func normalizePlatform(platform string) string {
	return strings.ToLower(strings.TrimSpace(platform))
}

// mapFamily maps distribution family strings to canonical family names.
func mapFamily(family string) string {
	normalized := strings.ToLower(strings.TrimSpace(family))
	if canonical, ok := familyMap[normalized]; ok {
		return canonical
	}
	return FamilyUnknown
}

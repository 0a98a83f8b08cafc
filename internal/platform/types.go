// Package platform maps the running operating system and CPU
// architecture to the target triple used to name lanbuffer release
// assets.
//
// The triple format ("x86_64-unknown-linux-musl", "aarch64-apple-darwin",
// ...) must match the release producer's asset naming exactly. Any
// OS/architecture outside the supported set is a hard failure.
//
// On Linux the detector also reads distribution details through
// gopsutil. Those are informational only and never affect the target.
package platform

import "context"

// Canonical architecture names used in target triples.
const (
	ArchX86_64  = "x86_64"
	ArchAarch64 = "aarch64"
)

// Canonical OS components used in target triples.
const (
	OSLinuxMusl   = "unknown-linux-musl"
	OSAppleDarwin = "apple-darwin"
)

// Linux distribution family constants.
// These represent canonical family names for grouping related distributions.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Target is a release target triple.
type Target struct {
	Arch string // ArchX86_64 or ArchAarch64
	OS   string // OSLinuxMusl or OSAppleDarwin
}

// String returns the triple as "<arch>-<os>".
func (t Target) String() string {
	return t.Arch + "-" + t.OS
}

// Info contains platform detection information.
type Info struct {
	OS       string // runtime OS, e.g. "linux", "darwin"
	Arch     string // runtime architecture, e.g. "amd64", "arm64"
	Target   Target // normalized release target
	Platform string // distro ID (Linux only, e.g., "ubuntu", "arch")
	Family   string // canonical family (e.g., "debian", "rhel", "arch")
	Version  string // distro version (Linux only, e.g., "22.04")
}

// Distro contains Linux distribution information.
// This is nil on non-Linux platforms.
type Distro struct {
	ID      string // distro ID (e.g., "ubuntu")
	Family  string // canonical family (e.g., "debian")
	Version string // version (e.g., "22.04")
}

// GetDistro returns distro information if this is a Linux platform.
// Returns nil for non-Linux platforms or if distro detection failed.
func (i *Info) GetDistro() *Distro {
	if i.Target.OS != OSLinuxMusl || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using the running process's
// environment.
type RealDetector struct {
	goos   string
	goarch string
}

// NewDetector creates a detector for the current process.
func NewDetector() Detector {
	return &RealDetector{goos: runtime.GOOS, goarch: runtime.GOARCH}
}

// Detect resolves the release target and, on Linux, distribution
// details.
//
// An unsupported OS or architecture fails before anything else is
// inspected. Distro detection failures fall back to empty distro fields;
// only context cancellation is treated as a hard failure there.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	target, err := TargetFor(d.goos, d.goarch)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}

	info := &Info{
		OS:     d.goos,
		Arch:   d.goarch,
		Target: target,
	}

	if target.OS != OSLinuxMusl {
		return info, nil
	}

	platform, family, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
		}
		return info, nil
	}

	platform = normalizePlatform(platform)
	if platform != "" {
		info.Platform = platform
		info.Family = mapFamily(family)
		info.Version = normalizePlatform(version)
	}

	return info, nil
}

// StaticDetector returns a fixed target without touching the host.
// It is used when the caller already knows the target (tests, and
// installs for a platform other than the running one).
type StaticDetector struct {
	GOOS   string
	GOARCH string
}

// Detect normalizes the configured OS and architecture.
func (s StaticDetector) Detect(ctx context.Context) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	target, err := TargetFor(s.GOOS, s.GOARCH)
	if err != nil {
		return nil, fmt.Errorf("platform detection failed: %w", err)
	}
	return &Info{OS: s.GOOS, Arch: s.GOARCH, Target: target}, nil
}

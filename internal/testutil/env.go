// Package testutil provides utilities for testing the installer in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env holds the isolated directories created by SetupTestEnv.
type Env struct {
	Home       string
	InstallDir string
	ConfigDir  string
}

// SetupTestEnv points HOME at a temp directory and clears every
// environment variable the installer reads, so tests never touch the
// user's real ~/.local/bin or ~/.config/lanbuffer and never pick up a
// developer's GITHUB_TOKEN.
//
// The cleanup function is automatically handled by t.TempDir() and
// t.Setenv(), so callers don't need to manually clean up.
func SetupTestEnv(t *testing.T) *Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := &Env{
		Home:       filepath.Join(tmpDir, "home"),
		InstallDir: filepath.Join(tmpDir, "home", ".local", "bin"),
		ConfigDir:  filepath.Join(tmpDir, "home", ".config", "lanbuffer"),
	}

	t.Setenv("HOME", env.Home)
	t.Setenv("XDG_CONFIG_HOME", "")
	for _, key := range []string{
		"LANBUFFER_REPO",
		"LANBUFFER_API_BASE",
		"LANBUFFER_DOWNLOAD_BASE",
		"GITHUB_TOKEN",
	} {
		t.Setenv(key, "")
	}

	if err := os.MkdirAll(env.Home, 0o750); err != nil {
		t.Fatalf("failed to create test home %s: %v", env.Home, err)
	}

	return env
}

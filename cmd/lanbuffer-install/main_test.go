package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/binary"
	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/installer"
	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/platform"
	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/testutil"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_Help(t *testing.T) {
	testutil.SetupTestEnv(t)

	for _, arg := range []string{"--help", "-h"} {
		t.Run(arg, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, arg)
			if code != 0 {
				t.Errorf("exit code = %d, want 0", code)
			}
			for _, flag := range []string{"--repo", "--version", "--install-dir", "--config-dir", "--no-verify", "--uninstall"} {
				if !strings.Contains(stdout, flag) {
					t.Errorf("usage lacks %s", flag)
				}
			}
			if stderr != "" {
				t.Errorf("stderr = %q, want empty", stderr)
			}
		})
	}
}

func TestRun_UsageErrors(t *testing.T) {
	testutil.SetupTestEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown flag", []string{"--frobnicate"}, "frobnicate"},
		{"positional argument", []string{"extra"}, "unexpected argument: extra"},
		{"missing flag value", []string{"--repo"}, "repo"},
		{"invalid repo", []string{"--repo", "no-slash"}, "OWNER/NAME"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, tt.args...)
			if code != 2 {
				t.Errorf("exit code = %d, want 2", code)
			}
			if !strings.Contains(stderr, "[ERROR]") || !strings.Contains(stderr, tt.want) {
				t.Errorf("stderr = %q, want tagged error mentioning %q", stderr, tt.want)
			}
			if stdout != "" {
				t.Errorf("stdout = %q, want empty", stdout)
			}
		})
	}
}

func TestRun_InstallerVersion(t *testing.T) {
	testutil.SetupTestEnv(t)

	code, stdout, _ := runCLI(t, "--installer-version")
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout, Version) {
		t.Errorf("stdout = %q, want version %s", stdout, Version)
	}
}

func TestRun_UninstallNothingInstalled(t *testing.T) {
	testutil.SetupTestEnv(t)

	code, stdout, stderr := runCLI(t, "--uninstall")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if !strings.Contains(stdout, "nothing to remove") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRun_UninstallKeepsConfig(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	installDir := filepath.Join(env.Home, "bin")
	if err := os.MkdirAll(installDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(installDir, "lanbuffer"), []byte("x"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(env.ConfigDir, 0755); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := runCLI(t, "--uninstall", "--install-dir", installDir)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if !strings.Contains(stdout, "Removed") || !strings.Contains(stdout, "Configuration kept at "+env.ConfigDir) {
		t.Errorf("stdout = %q", stdout)
	}
	if _, err := os.Stat(env.ConfigDir); err != nil {
		t.Errorf("config dir removed: %v", err)
	}
}

// hostTarget returns the release target for the test host, skipping when
// the host can't run an install.
func hostTarget(t *testing.T) platform.Target {
	t.Helper()
	target, err := platform.TargetFor(runtime.GOOS, runtime.GOARCH)
	if err != nil {
		t.Skipf("host platform not supported: %v", err)
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	return target
}

func TestRun_Install(t *testing.T) {
	env := testutil.SetupTestEnv(t)
	target := hostTarget(t)

	server := testutil.NewReleaseServer(t, "acme/lanbuffer-release", "v1.0.2")
	archive := testutil.TarGz(t, testutil.TarEntry{Name: "lanbuffer", Body: "#!/bin/sh\n"})
	server.AddRelease("v1.0.2", target.String(), archive, true)

	t.Setenv(installer.EnvRepo, "acme/lanbuffer-release")
	t.Setenv(installer.EnvAPIBase, server.URL)
	t.Setenv(installer.EnvDownloadBase, server.URL)

	code, stdout, stderr := runCLI(t)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}

	binPath := filepath.Join(env.InstallDir, "lanbuffer")
	info, err := os.Stat(binPath)
	if err != nil {
		t.Fatalf("binary not installed: %v", err)
	}
	if info.Mode().Perm() != 0755 {
		t.Errorf("binary mode = %o", info.Mode().Perm())
	}

	for _, want := range []string{
		"[INFO] Detected platform: " + target.String(),
		"lanbuffer v1.0.2 installed",
		"Binary:    " + binPath,
		"Checksum:  SHA256",
		"Next steps:",
		"run.sh",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout lacks %q:\n%s", want, stdout)
		}
	}
	if stderr != "" {
		t.Errorf("stderr = %q, want empty", stderr)
	}
}

func TestRun_InstallFailureExitCode(t *testing.T) {
	testutil.SetupTestEnv(t)
	target := hostTarget(t)

	server := testutil.NewReleaseServer(t, "acme/lanbuffer-release", "v1.0.2")
	archive := testutil.TarGz(t, testutil.TarEntry{Name: "lanbuffer", Body: "#!/bin/sh\n"})
	server.AddRelease("v1.0.2", target.String(), archive, false)
	asset := binary.Locate(server.URL, "acme/lanbuffer-release", "v1.0.2", target).ChecksumName
	server.SetFile("v1.0.2", asset, []byte(strings.Repeat("f", 64)+"\n"))

	t.Setenv(installer.EnvAPIBase, server.URL)
	t.Setenv(installer.EnvDownloadBase, server.URL)

	code, stdout, stderr := runCLI(t, "--repo", "acme/lanbuffer-release", "--verbose")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "[ERROR]") || !strings.Contains(stderr, "ChecksumMismatch") {
		t.Errorf("stderr = %q", stderr)
	}
	if !strings.Contains(stdout, "[DEBUG] state") {
		t.Errorf("--verbose produced no state transitions: %q", stdout)
	}
	if strings.Contains(stdout, "installed") {
		t.Errorf("success summary printed on failure: %q", stdout)
	}
}

func TestRun_NoVerifyWarns(t *testing.T) {
	testutil.SetupTestEnv(t)
	target := hostTarget(t)

	server := testutil.NewReleaseServer(t, "acme/lanbuffer-release", "v1.0.2")
	archive := testutil.TarGz(t, testutil.TarEntry{Name: "lanbuffer", Body: "#!/bin/sh\n"})
	server.AddRelease("v1.0.2", target.String(), archive, true)

	t.Setenv(installer.EnvAPIBase, server.URL)
	t.Setenv(installer.EnvDownloadBase, server.URL)

	code, stdout, stderr := runCLI(t, "--repo", "acme/lanbuffer-release", "--version", "v1.0.2", "--no-verify")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
	if !strings.Contains(stderr, "[WARN]") {
		t.Errorf("expected a warning on stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Checksum:  skipped (disabled)") {
		t.Errorf("stdout = %q", stdout)
	}
	if server.LatestCalls() != 0 {
		t.Errorf("--version still queried the latest release")
	}
}

func TestInPath(t *testing.T) {
	sep := string(os.PathListSeparator)
	tests := []struct {
		dir  string
		path string
		want bool
	}{
		{"/home/a/.local/bin", "/usr/bin" + sep + "/home/a/.local/bin", true},
		{"/home/a/.local/bin", "/usr/bin" + sep + "/home/a/.local/bin/", true},
		{"/home/a/.local/bin", "/usr/bin", false},
		{"/home/a/.local/bin", "", false},
	}
	for _, tt := range tests {
		if got := inPath(tt.dir, tt.path); got != tt.want {
			t.Errorf("inPath(%q, %q) = %v, want %v", tt.dir, tt.path, got, tt.want)
		}
	}
}

func TestPrintInstallSummary_PathAdvice(t *testing.T) {
	result := &installer.Result{
		Version:      "v1.0.2",
		BinaryPath:   "/home/a/.local/bin/lanbuffer",
		ConfigDir:    "/home/a/.config/lanbuffer",
		Verification: binary.VerificationSHA256,
		ArchiveSize:  3 << 20,
	}

	var out bytes.Buffer
	printInstallSummary(&out, result, userEnv{Path: "/usr/bin", Shell: "/bin/bash", Home: "/home/a"})
	got := out.String()

	for _, want := range []string{
		"Archive:   3.0 MiB",
		"1. Add /home/a/.local/bin to your PATH",
		">> /home/a/.bashrc",
		"2. cp /home/a/.config/lanbuffer/lanbuffer.toml.example /home/a/.config/lanbuffer/lanbuffer.toml",
		"4. Start lanbuffer: /home/a/.config/lanbuffer/run.sh",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary lacks %q:\n%s", want, got)
		}
	}

	out.Reset()
	printInstallSummary(&out, result, userEnv{Path: "/home/a/.local/bin", Shell: "/bin/bash", Home: "/home/a"})
	if strings.Contains(out.String(), "to your PATH") {
		t.Errorf("PATH advice printed although install dir is on PATH:\n%s", out.String())
	}
}

func TestRun_WithoutHome(t *testing.T) {
	root := t.TempDir()
	t.Setenv("HOME", "")

	t.Run("help", func(t *testing.T) {
		code, stdout, stderr := runCLI(t, "--help")
		if code != 0 {
			t.Fatalf("exit code = %d, stderr = %q", code, stderr)
		}
		if !strings.Contains(stdout, "~/.local/bin") {
			t.Errorf("usage lacks the default install dir: %q", stdout)
		}
	})

	t.Run("installer version", func(t *testing.T) {
		if code, _, stderr := runCLI(t, "--installer-version"); code != 0 {
			t.Fatalf("exit code = %d, stderr = %q", code, stderr)
		}
	})

	t.Run("explicit dirs", func(t *testing.T) {
		installDir := filepath.Join(root, "bin")
		configDir := filepath.Join(root, "config")
		code, stdout, stderr := runCLI(t, "--install-dir", installDir, "--config-dir", configDir, "--uninstall")
		if code != 0 {
			t.Fatalf("exit code = %d, stderr = %q", code, stderr)
		}
		if !strings.Contains(stdout, "nothing to remove") {
			t.Errorf("stdout = %q", stdout)
		}
	})

	t.Run("uninstall needs only install dir", func(t *testing.T) {
		code, _, stderr := runCLI(t, "--install-dir", filepath.Join(root, "bin"), "--uninstall")
		if code != 0 {
			t.Fatalf("exit code = %d, stderr = %q", code, stderr)
		}
	})

	t.Run("default dirs unknown", func(t *testing.T) {
		code, _, stderr := runCLI(t, "--uninstall")
		if code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
		if !strings.Contains(stderr, "[ERROR]") || !strings.Contains(stderr, "home directory") {
			t.Errorf("stderr = %q", stderr)
		}
	})
}

func TestRun_UninstallIgnoresBadRepoEnv(t *testing.T) {
	testutil.SetupTestEnv(t)
	t.Setenv(installer.EnvRepo, "no-slash")

	code, _, stderr := runCLI(t, "--uninstall")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr = %q", code, stderr)
	}
}

package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/binary"
	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/installer"
	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/scaffold"
	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/shell"
)

// userEnv is the slice of the caller's environment the summary reads.
type userEnv struct {
	Path  string // $PATH
	Shell string // $SHELL
	Home  string
}

// printInstallSummary prints where things landed and what to do next.
func printInstallSummary(w io.Writer, result *installer.Result, env userEnv) {
	verification := result.Verification.String()
	if result.Verification == binary.VerificationNone {
		verification = "skipped (" + result.ChecksumSkip.String() + ")"
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "✓ lanbuffer %s installed\n", result.Version)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Binary:    %s\n", result.BinaryPath)
	fmt.Fprintf(w, "  Config:    %s\n", result.ConfigDir)
	fmt.Fprintf(w, "  Archive:   %s\n", humanize.IBytes(uint64(result.ArchiveSize)))
	fmt.Fprintf(w, "  Checksum:  %s\n", verification)
	fmt.Fprintln(w)

	step := 1
	fmt.Fprintln(w, "Next steps:")
	if binDir := filepath.Dir(result.BinaryPath); !inPath(binDir, env.Path) {
		fmt.Fprintf(w, "  %d. %s\n", step, shell.Advice(shell.Detect(env.Shell), env.Home, binDir))
		step++
	}
	fmt.Fprintf(w, "  %d. cp %s %s\n", step,
		filepath.Join(result.ConfigDir, scaffold.ConfigExampleName),
		filepath.Join(result.ConfigDir, scaffold.ConfigName))
	step++
	fmt.Fprintf(w, "  %d. cp %s %s and fill in your secrets\n", step,
		filepath.Join(result.ConfigDir, scaffold.EnvExampleName),
		filepath.Join(result.ConfigDir, scaffold.EnvName))
	step++
	fmt.Fprintf(w, "  %d. Start lanbuffer: %s\n", step, filepath.Join(result.ConfigDir, scaffold.LauncherName))
}

func printUninstallSummary(w io.Writer, result *installer.UninstallResult) {
	if result.Removed {
		fmt.Fprintf(w, "✓ Removed %s\n", result.BinaryPath)
	} else {
		fmt.Fprintf(w, "lanbuffer is not installed at %s; nothing to remove\n", result.BinaryPath)
	}
	if result.ConfigDirExists {
		fmt.Fprintf(w, "Configuration kept at %s (remove it manually if you no longer need it)\n", result.ConfigDir)
	}
}

func inPath(dir, pathEnv string) bool {
	dir = filepath.Clean(dir)
	for _, entry := range filepath.SplitList(pathEnv) {
		if entry != "" && filepath.Clean(entry) == dir {
			return true
		}
	}
	return false
}

// Package shell produces PATH guidance for the user's login shell.
//
// The installer never edits rc files; it only prints the line to add.
package shell

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Type is a shell the installer knows how to give PATH advice for.
type Type string

const (
	Bash    Type = "bash"
	Zsh     Type = "zsh"
	Fish    Type = "fish"
	Unknown Type = "unknown"
)

func (t Type) String() string {
	return string(t)
}

// Detect maps a $SHELL value such as "/usr/bin/zsh" to a Type.
func Detect(shellPath string) Type {
	if shellPath == "" {
		return Unknown
	}
	switch strings.ToLower(filepath.Base(shellPath)) {
	case "bash":
		return Bash
	case "zsh":
		return Zsh
	case "fish":
		return Fish
	default:
		return Unknown
	}
}

// RCFile returns the startup file for t under home, or "" for Unknown.
func RCFile(t Type, home string) string {
	switch t {
	case Bash:
		return filepath.Join(home, ".bashrc")
	case Zsh:
		return filepath.Join(home, ".zshrc")
	case Fish:
		return filepath.Join(home, ".config", "fish", "config.fish")
	default:
		return ""
	}
}

// PathLine returns the line that puts dir on PATH for t. Unknown shells
// get the POSIX form.
func PathLine(t Type, dir string) string {
	if t == Fish {
		return fmt.Sprintf("fish_add_path %s", quote(dir))
	}
	return fmt.Sprintf(`export PATH=%s:"$PATH"`, quote(dir))
}

// Advice is a one-line instruction for adding dir to PATH.
func Advice(t Type, home, dir string) string {
	line := PathLine(t, dir)
	rc := RCFile(t, home)
	if rc == "" {
		return fmt.Sprintf("Add %s to your PATH: %s", dir, line)
	}
	return fmt.Sprintf("Add %s to your PATH: echo '%s' >> %s", dir, strings.ReplaceAll(line, "'", `'\''`), rc)
}

// quote double-quotes s when it contains characters the shell would
// split or expand.
func quote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\"'$`\\*?[]{}()<>|&;#~") {
		return s
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "$", `\$`, "`", "\\`")
	return `"` + r.Replace(s) + `"`
}

// Package scaffold writes the lanbuffer configuration directory: an
// example config, an example secrets file and a launcher script.
//
// The example files and the launcher are rewritten on every run. Files a
// user creates by copying the examples (lanbuffer.toml, .env) are never
// opened; the ".example" suffix is the only thing separating installer
// output from user data.
package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

// File names written into the config directory.
const (
	ConfigExampleName = "lanbuffer.toml.example"
	EnvExampleName    = ".env.example"
	LauncherName      = "run.sh"

	// ConfigName and EnvName are the user-owned copies. Scaffold never
	// writes them.
	ConfigName = "lanbuffer.toml"
	EnvName    = ".env"
)

//go:embed templates/*
var templates embed.FS

var launcherTemplate = template.Must(
	template.New("run.sh.tmpl").
		Funcs(template.FuncMap{"shellQuote": shellQuote}).
		ParseFS(templates, "templates/run.sh.tmpl"),
)

// Result lists what Scaffold wrote.
type Result struct {
	Dir   string
	Files []string // absolute paths, in write order
}

type file struct {
	name string
	mode os.FileMode
	body []byte
}

// Scaffold creates configDir if needed and (re)writes the example
// config, the example secrets file and the launcher script. binaryPath
// is the installed lanbuffer executable the launcher execs.
//
// Output is deterministic for a given binaryPath, so repeated runs leave
// byte-identical files.
func Scaffold(configDir, binaryPath string) (*Result, error) {
	files, err := render(binaryPath)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory %s: %w", configDir, err)
	}

	result := &Result{Dir: configDir}
	for _, f := range files {
		path := filepath.Join(configDir, f.name)
		if err := writeAtomic(path, f.body, f.mode); err != nil {
			return nil, err
		}
		result.Files = append(result.Files, path)
	}
	return result, nil
}

func render(binaryPath string) ([]file, error) {
	configExample, err := templates.ReadFile("templates/lanbuffer.toml.example")
	if err != nil {
		return nil, fmt.Errorf("failed to read config template: %w", err)
	}
	envExample, err := templates.ReadFile("templates/env.example")
	if err != nil {
		return nil, fmt.Errorf("failed to read env template: %w", err)
	}

	var launcher bytes.Buffer
	data := struct{ BinaryPath string }{BinaryPath: binaryPath}
	if err := launcherTemplate.Execute(&launcher, data); err != nil {
		return nil, fmt.Errorf("failed to render launcher: %w", err)
	}

	return []file{
		{name: ConfigExampleName, mode: 0644, body: configExample},
		{name: EnvExampleName, mode: 0600, body: envExample},
		{name: LauncherName, mode: 0755, body: launcher.Bytes()},
	}, nil
}

// writeAtomic replaces path with body via a temp file in the same
// directory. The mode is applied explicitly so an existing file with
// looser or stricter bits is corrected on rewrite.
func writeAtomic(path string, body []byte, mode os.FileMode) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".lanbuffer-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for %s: %w", path, err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(body); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if err := os.Chmod(tmpPath, mode); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// shellQuote wraps s in single quotes for POSIX sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

package installer

import (
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/binary"
)

// UninstallResult describes what Uninstall did.
type UninstallResult struct {
	BinaryPath      string
	Removed         bool // false when there was no binary to remove
	ConfigDir       string
	ConfigDirExists bool
}

// Uninstall removes InstallDir/lanbuffer and nothing else. A missing
// binary is not an error. The config directory is never deleted; its
// presence is reported so the caller can tell the user.
func (i *Installer) Uninstall() (*UninstallResult, error) {
	if err := i.cfg.Validate(); err != nil {
		return nil, err
	}

	result := &UninstallResult{
		BinaryPath: filepath.Join(i.cfg.InstallDir, binary.BinaryName),
		ConfigDir:  i.cfg.ConfigDir,
	}

	removed, err := binary.RemoveBinary(i.cfg.InstallDir, binary.BinaryName)
	if err != nil {
		return nil, err
	}
	result.Removed = removed
	if removed {
		i.log.Info("Removed " + result.BinaryPath)
	} else {
		i.log.Info("Nothing to remove at " + result.BinaryPath)
	}

	if result.ConfigDir != "" {
		if info, err := os.Stat(result.ConfigDir); err == nil && info.IsDir() {
			result.ConfigDirExists = true
		}
	}
	return result, nil
}

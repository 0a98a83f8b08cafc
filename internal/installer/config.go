package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/binary"
	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/failure"
)

// Environment variables read by LoadConfig.
const (
	EnvRepo         = "LANBUFFER_REPO"
	EnvToken        = "GITHUB_TOKEN"
	EnvAPIBase      = "LANBUFFER_API_BASE"
	EnvDownloadBase = "LANBUFFER_DOWNLOAD_BASE"
)

// DefaultRepo is the release repository used when neither a flag nor
// LANBUFFER_REPO names one.
const DefaultRepo = "lanbuffer/lanbuffer"

var repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// Action selects what the installer does.
type Action int

const (
	ActionInstall Action = iota
	ActionUninstall
)

func (a Action) String() string {
	switch a {
	case ActionInstall:
		return "install"
	case ActionUninstall:
		return "uninstall"
	default:
		return "unknown"
	}
}

// Config is the complete input to one installer run. It is built once at
// startup and passed by value; nothing reads the environment after that.
type Config struct {
	Repo       string // owner/name
	Version    string // explicit tag; empty resolves the latest release
	InstallDir string
	ConfigDir  string
	Verify     bool
	Action     Action

	APIBaseURL      string
	DownloadBaseURL string
	Token           string // bearer credential; empty for anonymous API calls
}

// DefaultConfig derives defaults from getenv and the user's home
// directory. An empty home leaves InstallDir and ConfigDir unset.
func DefaultConfig(getenv func(string) string, home string) Config {
	cfg := Config{
		Repo:            DefaultRepo,
		Verify:          true,
		Action:          ActionInstall,
		APIBaseURL:      binary.DefaultAPIBaseURL,
		DownloadBaseURL: binary.DefaultDownloadBaseURL,
		Token:           getenv(EnvToken),
	}
	if home != "" {
		cfg.InstallDir = filepath.Join(home, ".local", "bin")
		cfg.ConfigDir = filepath.Join(home, ".config", "lanbuffer")
	}
	if repo := getenv(EnvRepo); repo != "" {
		cfg.Repo = repo
	}
	if base := getenv(EnvAPIBase); base != "" {
		cfg.APIBaseURL = base
	}
	if base := getenv(EnvDownloadBase); base != "" {
		cfg.DownloadBaseURL = base
	}
	return cfg
}

// LoadConfig returns DefaultConfig for the current process environment.
//
// When the home directory cannot be determined the returned Config is
// still populated, without the home-derived directories, and the error
// explains why. Callers that supply both directories can ignore it.
func LoadConfig() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultConfig(os.Getenv, ""), fmt.Errorf("failed to get home directory: %w", err)
	}
	return DefaultConfig(os.Getenv, home), nil
}

// Validate checks values that come from the command line or environment.
// Only the fields the selected action uses are checked; uninstall needs
// nothing but InstallDir. Problems are usage errors.
func (c Config) Validate() error {
	switch c.Action {
	case ActionInstall:
		if !repoPattern.MatchString(c.Repo) {
			return failure.Usage("invalid repository %q: expected OWNER/NAME", c.Repo)
		}
		if c.ConfigDir == "" {
			return failure.Usage("config directory must not be empty")
		}
	case ActionUninstall:
	default:
		return failure.Usage("unknown action %d", c.Action)
	}
	if c.InstallDir == "" {
		return failure.Usage("install directory must not be empty")
	}
	return nil
}

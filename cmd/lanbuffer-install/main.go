// lanbuffer-install downloads a lanbuffer release for the current
// platform, verifies it against the published SHA-256 checksum, installs
// the binary and scaffolds a configuration directory with a launcher.
//
// It is non-interactive and safe to run from a pipe or CI job. Running it
// again upgrades in place.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/failure"
	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/installer"
	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/logging"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds the parsed command line. Directory and repository flags
// override the loaded Config only when given.
type options struct {
	repo             string
	version          string
	installDir       string
	configDir        string
	noVerify         bool
	uninstall        bool
	verbose          bool
	installerVersion bool
	help             bool
}

func run(args []string, stdout, stderr io.Writer) int {
	flagSet, opts := newFlagSet()
	if err := flagSet.Parse(args); err != nil {
		return usageError(stderr, flagSet, err)
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return usageError(stderr, flagSet, fmt.Errorf("unexpected argument: %s", rest[0]))
	}

	if opts.help {
		printUsage(stdout, flagSet)
		return 0
	}
	if opts.installerVersion {
		fmt.Fprintf(stdout, "lanbuffer-install %s\n", Version)
		return 0
	}

	logger := logging.New(stdout, stderr, opts.verbose)
	log := logging.NewAdapter(logger)

	cfg, homeErr := installer.LoadConfig()
	opts.apply(flagSet, &cfg)

	// Without a home directory the default directories are unknown; that
	// only matters when no flag filled them in.
	if homeErr != nil && missingDir(cfg) {
		log.Error(homeErr.Error())
		fmt.Fprintln(stderr, "Pass --install-dir and --config-dir explicitly.")
		return 1
	}

	if err := cfg.Validate(); err != nil {
		log.Error(err.Error())
		fmt.Fprintln(stderr, "Run 'lanbuffer-install --help' for usage.")
		return failure.ExitCode(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	inst := installer.New(cfg, installer.WithLogger(log))

	switch cfg.Action {
	case installer.ActionUninstall:
		result, err := inst.Uninstall()
		if err != nil {
			log.Error(err.Error())
			return failure.ExitCode(err)
		}
		printUninstallSummary(stdout, result)
	default:
		result, err := inst.Install(ctx)
		if err != nil {
			log.Error(err.Error(), "kind", failure.KindOf(err))
			return failure.ExitCode(err)
		}
		home, _ := os.UserHomeDir()
		printInstallSummary(stdout, result, userEnv{
			Path:  os.Getenv("PATH"),
			Shell: os.Getenv("SHELL"),
			Home:  home,
		})
	}
	return 0
}

func newFlagSet() (*pflag.FlagSet, *options) {
	opts := &options{}

	flagSet := pflag.NewFlagSet("lanbuffer-install", pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.SortFlags = false

	flagSet.StringVar(&opts.repo, "repo", "", "release repository as OWNER/NAME (default "+installer.DefaultRepo+", env "+installer.EnvRepo+")")
	flagSet.StringVar(&opts.version, "version", "", "release tag to install, e.g. v1.0.2 (default: latest release)")
	flagSet.StringVar(&opts.installDir, "install-dir", "", "directory for the lanbuffer binary (default ~/.local/bin)")
	flagSet.StringVar(&opts.configDir, "config-dir", "", "directory for config templates and run.sh (default ~/.config/lanbuffer)")
	flagSet.BoolVar(&opts.noVerify, "no-verify", false, "skip SHA-256 checksum verification")
	flagSet.BoolVar(&opts.uninstall, "uninstall", false, "remove the installed binary (config is kept)")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log every install step")
	flagSet.BoolVar(&opts.installerVersion, "installer-version", false, "print the installer version and exit")
	flagSet.BoolVarP(&opts.help, "help", "h", false, "show help")

	return flagSet, opts
}

// apply copies the flags the user set onto cfg.
func (o *options) apply(flagSet *pflag.FlagSet, cfg *installer.Config) {
	if flagSet.Changed("repo") {
		cfg.Repo = o.repo
	}
	if flagSet.Changed("version") {
		cfg.Version = o.version
	}
	if flagSet.Changed("install-dir") {
		cfg.InstallDir = o.installDir
	}
	if flagSet.Changed("config-dir") {
		cfg.ConfigDir = o.configDir
	}
	cfg.Verify = !o.noVerify
	if o.uninstall {
		cfg.Action = installer.ActionUninstall
	}
}

// missingDir reports whether cfg lacks a directory its action needs.
func missingDir(cfg installer.Config) bool {
	if cfg.InstallDir == "" {
		return true
	}
	return cfg.Action == installer.ActionInstall && cfg.ConfigDir == ""
}

func usageError(w io.Writer, flagSet *pflag.FlagSet, err error) int {
	fmt.Fprintf(w, "[ERROR] %v\n\n", err)
	printUsage(w, flagSet)
	return failure.ExitCode(failure.Usage("%w", err))
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `lanbuffer-install: install or upgrade the lanbuffer binary.

Downloads the release archive for this platform, verifies its SHA-256
checksum, installs the binary and writes lanbuffer.toml.example,
.env.example and run.sh into the config directory. Existing
lanbuffer.toml and .env files are never modified.

Usage:
  lanbuffer-install [flags]

Flags:
%s
Environment:
  %-24s release repository (OWNER/NAME)
  %-24s bearer token for the releases API
  %-24s releases API base URL
  %-24s release download base URL
`, flagSet.FlagUsages(), installer.EnvRepo, installer.EnvToken, installer.EnvAPIBase, installer.EnvDownloadBase)
}

// Package installer downloads, verifies and installs a lanbuffer release
// and scaffolds its configuration directory.
package installer

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/hashicorp/go-multierror"

	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/binary"
	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/failure"
	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/platform"
	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/scaffold"
)

// LauncherShell is the interpreter run.sh needs. Install refuses to run
// without it.
const LauncherShell = "sh"

// State is a step of the install state machine. States only move
// forward.
type State string

const (
	StateStart               State = "START"
	StateVersionResolved     State = "VERSION_RESOLVED"
	StateTargetDetected      State = "TARGET_DETECTED"
	StateDownloaded          State = "DOWNLOADED"
	StateVerified            State = "VERIFIED"
	StateVerificationSkipped State = "VERIFICATION_SKIPPED"
	StateExtracted           State = "EXTRACTED"
	StateBinaryPlaced        State = "BINARY_PLACED"
	StateConfigScaffolded    State = "CONFIG_SCAFFOLDED"
	StateDone                State = "DONE"
)

// Result describes a completed install.
type Result struct {
	Version      string
	Platform     *platform.Info
	BinaryPath   string
	ConfigDir    string
	ConfigFiles  []string
	Verification binary.VerificationMethod
	ChecksumSkip binary.ChecksumSkip
	ArchiveSize  int64
}

// Installer runs install and uninstall for a fixed Config.
type Installer struct {
	cfg      Config
	detector platform.Detector
	client   binary.HTTPClient
	log      Logger
	lookPath func(string) (string, error)
}

// Option configures an Installer.
type Option func(*Installer)

// WithDetector replaces the host platform detector.
func WithDetector(d platform.Detector) Option {
	return func(i *Installer) { i.detector = d }
}

// WithHTTPClient sets the client used for API and download requests.
func WithHTTPClient(c binary.HTTPClient) Option {
	return func(i *Installer) { i.client = c }
}

// WithLogger sets the progress logger.
func WithLogger(l Logger) Option {
	return func(i *Installer) { i.log = l }
}

// New creates an installer for cfg.
func New(cfg Config, opts ...Option) *Installer {
	i := &Installer{
		cfg:      cfg,
		detector: platform.NewDetector(),
		log:      silent{},
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.client == nil {
		i.client = binary.NewHTTPClient()
	}
	return i
}

// Install resolves, downloads, verifies and installs a release, then
// scaffolds the config directory.
//
// Every failure is terminal. The scratch directory holding the download
// is removed on every return path; if that removal fails too, the
// returned error carries both failures.
func (i *Installer) Install(ctx context.Context) (result *Result, err error) {
	if err := i.cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := i.lookPath(LauncherShell); err != nil {
		return nil, failure.MissingDependency("%s not found on PATH (required by the launcher script): %w", LauncherShell, err)
	}

	scratch, err := os.MkdirTemp("", "lanbuffer-install-*")
	if err != nil {
		return nil, failure.Internal("create scratch directory: %w", err)
	}
	defer func() {
		rmErr := os.RemoveAll(scratch)
		if rmErr == nil {
			return
		}
		rmErr = fmt.Errorf("remove scratch directory %s: %w", scratch, rmErr)
		if err != nil {
			err = multierror.Append(err, rmErr)
			return
		}
		i.log.Warn("Could not remove scratch directory", "error", rmErr)
	}()

	i.transition(StateStart, "scratch", scratch)

	resolver := binary.NewResolver(i.cfg.APIBaseURL, i.cfg.Token, i.client)
	if i.cfg.Version == "" {
		i.log.Info(fmt.Sprintf("Resolving latest release of %s", i.cfg.Repo))
	}
	version, err := resolver.ResolveVersion(ctx, i.cfg.Repo, i.cfg.Version)
	if err != nil {
		return nil, err
	}
	i.transition(StateVersionResolved, "version", version)

	info, err := i.detector.Detect(ctx)
	if err != nil {
		return nil, err
	}
	i.log.Info("Detected platform: " + describePlatform(info))
	i.transition(StateTargetDetected, "target", info.Target.String())

	fetcher := binary.NewFetcher(i.cfg.DownloadBaseURL, i.client)
	i.log.Info(fmt.Sprintf("Downloading lanbuffer %s for %s", version, info.Target))
	artifact, err := fetcher.Fetch(ctx, i.cfg.Repo, version, info.Target, scratch, i.cfg.Verify)
	if err != nil {
		return nil, err
	}
	i.transition(StateDownloaded, "archive", artifact.Location.AssetName, "bytes", artifact.ArchiveSize)

	result = &Result{
		Version:      version,
		Platform:     info,
		ConfigDir:    i.cfg.ConfigDir,
		ChecksumSkip: artifact.ChecksumSkip,
		ArchiveSize:  artifact.ArchiveSize,
	}

	if err := interrupted(ctx, StateDownloaded); err != nil {
		return nil, err
	}
	verifyState := StateVerificationSkipped
	if artifact.ChecksumSkip == binary.ChecksumNotSkipped {
		if err := binary.VerifyFile(artifact.ArchivePath, artifact.ChecksumPath); err != nil {
			return nil, err
		}
		result.Verification = binary.VerificationSHA256
		i.log.Info("Checksum verified (SHA256)")
		verifyState = StateVerified
		i.transition(StateVerified)
	} else {
		i.warnSkipped(artifact)
		i.transition(StateVerificationSkipped, "reason", artifact.ChecksumSkip.String())
	}

	if err := interrupted(ctx, verifyState); err != nil {
		return nil, err
	}
	payload, err := binary.ExtractPayload(artifact.ArchivePath, scratch, binary.BinaryName)
	if err != nil {
		return nil, err
	}
	i.transition(StateExtracted, "payload", payload)

	if err := interrupted(ctx, StateExtracted); err != nil {
		return nil, err
	}
	binPath, err := binary.PlaceBinary(payload, i.cfg.InstallDir, binary.BinaryName)
	if err != nil {
		return nil, err
	}
	result.BinaryPath = binPath
	i.log.Info("Installed " + binPath)
	i.transition(StateBinaryPlaced, "path", binPath)

	if err := interrupted(ctx, StateBinaryPlaced); err != nil {
		return nil, err
	}
	scaffolded, err := scaffold.Scaffold(i.cfg.ConfigDir, binPath)
	if err != nil {
		return nil, failure.Wrap(failure.KindInternal, fmt.Errorf("scaffold config: %w", err))
	}
	result.ConfigFiles = scaffolded.Files
	i.log.Info("Wrote config templates to " + scaffolded.Dir)
	i.transition(StateConfigScaffolded, "files", len(scaffolded.Files))

	i.transition(StateDone)
	return result, nil
}

// interrupted reports a cancelled ctx as a failure after state.
func interrupted(ctx context.Context, state State) error {
	if err := ctx.Err(); err != nil {
		return failure.Wrap(failure.KindInternal, fmt.Errorf("install interrupted after %s: %w", state, err))
	}
	return nil
}

func (i *Installer) transition(state State, keysAndValues ...interface{}) {
	i.log.Debug("state", append([]interface{}{"state", state}, keysAndValues...)...)
}

func (i *Installer) warnSkipped(artifact *binary.Artifact) {
	switch artifact.ChecksumSkip {
	case binary.ChecksumSkipDisabled:
		i.log.Warn("Checksum verification disabled; installing unverified archive")
	case binary.ChecksumSkipNotFound:
		i.log.Warn("No checksum published for " + artifact.Location.AssetName + "; skipping verification")
	case binary.ChecksumSkipUnavailable:
		i.log.Warn("Could not fetch checksum for "+artifact.Location.AssetName+"; skipping verification",
			"error", artifact.ChecksumErr)
	}
}

func describePlatform(info *platform.Info) string {
	desc := info.Target.String()
	if d := info.GetDistro(); d != nil {
		desc += " (" + d.ID
		if d.Version != "" {
			desc += " " + d.Version
		}
		// Distros that are their own family don't repeat the name.
		if d.Family != "" && d.Family != platform.FamilyUnknown && d.Family != d.ID {
			desc += ", " + d.Family + " family"
		}
		desc += ")"
	}
	return desc
}

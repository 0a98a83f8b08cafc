package binary

// BinaryName is the file name of the installed lanbuffer executable and
// of the payload inside release archives.
const BinaryName = "lanbuffer"

// ChecksumSkip explains why a downloaded archive was not verified.
type ChecksumSkip int

const (
	// ChecksumNotSkipped means the checksum file was fetched and
	// verification will run.
	ChecksumNotSkipped ChecksumSkip = iota
	// ChecksumSkipDisabled means verification was turned off by the caller.
	ChecksumSkipDisabled
	// ChecksumSkipNotFound means the release has no checksum file (404).
	ChecksumSkipNotFound
	// ChecksumSkipUnavailable means fetching the checksum file failed for
	// a reason other than 404 (server error, connection reset, ...).
	ChecksumSkipUnavailable
)

// String returns a human-readable description of the skip reason.
func (s ChecksumSkip) String() string {
	switch s {
	case ChecksumNotSkipped:
		return "not skipped"
	case ChecksumSkipDisabled:
		return "disabled"
	case ChecksumSkipNotFound:
		return "checksum file not found"
	case ChecksumSkipUnavailable:
		return "checksum file unavailable"
	default:
		return "unknown"
	}
}

// VerificationMethod indicates how an archive was verified
type VerificationMethod int

const (
	// VerificationNone indicates the archive was installed unverified
	VerificationNone VerificationMethod = iota
	// VerificationSHA256 indicates SHA256 checksum verification was used
	VerificationSHA256
)

// String returns the string representation of the verification method
func (v VerificationMethod) String() string {
	switch v {
	case VerificationSHA256:
		return "SHA256"
	case VerificationNone:
		return "None"
	default:
		return "Unknown"
	}
}

// AssetLocation names a release archive and where to download it from.
type AssetLocation struct {
	AssetName    string // lanbuffer-<version>-<target>.tar.gz
	ChecksumName string // AssetName + ".sha256"
	BaseURL      string // <host>/<repo>/releases/download/<version>
}

// AssetURL returns the archive download URL.
func (l AssetLocation) AssetURL() string {
	return l.BaseURL + "/" + l.AssetName
}

// ChecksumURL returns the checksum file download URL.
func (l AssetLocation) ChecksumURL() string {
	return l.BaseURL + "/" + l.ChecksumName
}

// Artifact is a release archive downloaded into a scratch directory.
type Artifact struct {
	Location     AssetLocation
	ArchivePath  string
	ArchiveSize  int64
	ChecksumPath string // empty when ChecksumSkip != ChecksumNotSkipped
	ChecksumSkip ChecksumSkip
	// ChecksumErr is the fetch error behind ChecksumSkipNotFound or
	// ChecksumSkipUnavailable.
	ChecksumErr error
}

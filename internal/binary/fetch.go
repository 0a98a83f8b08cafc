package binary

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/failure"
	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/platform"
)

// DefaultDownloadBaseURL is the release download host.
const DefaultDownloadBaseURL = "https://github.com"

// Locate builds the asset location for a release.
// Pattern: <host>/<repo>/releases/download/<version>/lanbuffer-<version>-<target>.tar.gz
func Locate(downloadBase, repo, version string, target platform.Target) AssetLocation {
	if downloadBase == "" {
		downloadBase = DefaultDownloadBaseURL
	}
	asset := fmt.Sprintf("%s-%s-%s.tar.gz", BinaryName, version, target)
	return AssetLocation{
		AssetName:    asset,
		ChecksumName: asset + ".sha256",
		BaseURL:      fmt.Sprintf("%s/%s/releases/download/%s", strings.TrimRight(downloadBase, "/"), repo, version),
	}
}

// Fetcher downloads release archives and their checksum files.
type Fetcher struct {
	downloadBase string
	downloader   *Downloader
}

// NewFetcher creates a fetcher against downloadBase. A nil client
// selects NewHTTPClient.
func NewFetcher(downloadBase string, client HTTPClient) *Fetcher {
	return &Fetcher{
		downloadBase: downloadBase,
		downloader:   NewDownloader(client),
	}
}

// Fetch downloads the archive for repo/version/target into destDir.
//
// Any failure downloading the archive is a DownloadFailed error. When
// verify is set the sibling .sha256 file is fetched as well; failing to
// fetch it is not an error; the reason is recorded in the returned
// Artifact's ChecksumSkip instead. Cancellation of ctx is always an
// error.
func (f *Fetcher) Fetch(ctx context.Context, repo, version string, target platform.Target, destDir string, verify bool) (*Artifact, error) {
	loc := Locate(f.downloadBase, repo, version, target)

	artifact := &Artifact{
		Location:    loc,
		ArchivePath: filepath.Join(destDir, loc.AssetName),
	}

	size, err := f.downloader.DownloadToFile(ctx, loc.AssetURL(), artifact.ArchivePath)
	if err != nil {
		return nil, failure.DownloadFailed("download %s: %w", loc.AssetURL(), err)
	}
	artifact.ArchiveSize = size

	if !verify {
		artifact.ChecksumSkip = ChecksumSkipDisabled
		return artifact, nil
	}

	checksumPath := filepath.Join(destDir, loc.ChecksumName)
	if _, err := f.downloader.DownloadToFile(ctx, loc.ChecksumURL(), checksumPath); err != nil {
		// An interrupted fetch says nothing about whether the release
		// publishes a checksum; it must not turn into a skip.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, failure.DownloadFailed("download %s: %w", loc.ChecksumURL(), ctxErr)
		}
		artifact.ChecksumErr = err
		if IsNotFound(err) {
			artifact.ChecksumSkip = ChecksumSkipNotFound
		} else {
			artifact.ChecksumSkip = ChecksumSkipUnavailable
		}
		return artifact, nil
	}

	artifact.ChecksumPath = checksumPath
	return artifact, nil
}

// Package binary resolves, downloads, verifies, and unpacks lanbuffer
// release archives.
//
// # Security Model
//
// Archives are downloaded from a GitHub-style release host and checked
// against the published "<asset>.sha256" file:
//   - A digest mismatch is always fatal; a mismatching archive is never
//     extracted or installed.
//   - A checksum file that cannot be fetched (404 or any other transport
//     failure) downgrades to a warning and the archive is installed
//     unverified. The skip reason is reported to the caller.
//   - An empty or unparsable checksum value is a verification failure,
//     never a skip.
//
// # Architecture
//
// The package is organized into several components:
//   - Resolver: latest-release lookup against the releases API
//   - Fetcher: asset naming, archive and checksum download
//   - Downloader: single-attempt HTTP download with atomic rename
//   - Verify/Digest: SHA256 checksum verification
//   - ExtractPayload/PlaceBinary: tar.gz extraction and installation
//
// # Usage
//
//	resolver := binary.NewResolver(apiBase, token, nil)
//	version, err := resolver.ResolveVersion(ctx, "acme/lanbuffer", "")
//
//	fetcher := binary.NewFetcher(downloadBase, nil)
//	artifact, err := fetcher.Fetch(ctx, "acme/lanbuffer", version, target, scratchDir, true)
//	if artifact.ChecksumSkip == binary.ChecksumNotSkipped {
//	    err = binary.VerifyFile(artifact.ArchivePath, artifact.ChecksumPath)
//	}
package binary

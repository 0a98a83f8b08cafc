package binary

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/failure"
)

// ExtractPayload unpacks the binary payload of a .tar.gz release archive
// into destDir and returns the extracted file's path.
//
// The payload is the top-level regular file called name. When no such
// entry exists, an archive holding exactly one top-level regular file is
// accepted as-is. Directories, nested files, links and other entry types
// are never extracted.
func ExtractPayload(archivePath, destDir, name string) (string, error) {
	index, err := selectPayload(archivePath, name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", failure.Internal("create dest dir: %w", err)
	}

	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return "", failure.ExtractionFailed("open archive: %w", err)
	}
	defer archiveFile.Close()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return "", failure.ExtractionFailed("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)
	for i := 0; ; i++ {
		hdr, err := tarReader.Next()
		if err == io.EOF {
			return "", failure.ExtractionFailed("payload entry %d vanished from archive", index)
		}
		if err != nil {
			return "", failure.ExtractionFailed("read tar header: %w", err)
		}
		if i != index {
			continue
		}
		if hdr.Typeflag != tar.TypeReg {
			return "", failure.ExtractionFailed("payload entry %s is not a regular file", hdr.Name)
		}

		target := filepath.Join(destDir, path.Base(topLevelName(hdr.Name)))
		if err := writeFile(target, tarReader); err != nil {
			return "", failure.ExtractionFailed("write %s: %w", target, err)
		}
		return target, nil
	}
}

// selectPayload scans the archive once and returns the position of the
// payload entry. Entries sharing the payload's name but of another type
// (links, directories) are never selected.
func selectPayload(archivePath, name string) (int, error) {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return -1, failure.ExtractionFailed("open archive: %w", err)
	}
	defer archiveFile.Close()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return -1, failure.ExtractionFailed("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)

	named := -1
	var regular []int
	for i := 0; ; i++ {
		hdr, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return -1, failure.ExtractionFailed("read tar header: %w", err)
		}

		clean := topLevelName(hdr.Name)
		if clean == "" {
			continue
		}
		if !filepath.IsLocal(clean) {
			return -1, failure.ExtractionFailed("illegal file path in archive: %s", hdr.Name)
		}

		if hdr.Typeflag != tar.TypeReg || strings.Contains(clean, "/") {
			continue
		}

		regular = append(regular, i)
		if clean == name && named < 0 {
			named = i
		}
	}

	if named >= 0 {
		return named, nil
	}

	switch len(regular) {
	case 0:
		return -1, failure.ExtractionFailed("archive contains no top-level file")
	case 1:
		return regular[0], nil
	default:
		return -1, failure.ExtractionFailed("archive contains %d top-level files and none is named %s", len(regular), name)
	}
}

// topLevelName normalizes a tar entry name: "./lanbuffer" and
// "lanbuffer" are the same entry.
func topLevelName(name string) string {
	clean := path.Clean(strings.TrimPrefix(name, "./"))
	if clean == "." {
		return ""
	}
	return clean
}

func writeFile(target string, r io.Reader) error {
	outFile, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}

	if _, err := io.Copy(outFile, r); err != nil {
		outFile.Close()
		return err
	}

	return outFile.Close()
}

// PlaceBinary installs src as installDir/name with mode 0755 and returns
// the installed path.
//
// The file is staged next to its destination and renamed over it, so an
// existing binary is replaced atomically (upgrade in place) and is left
// untouched if anything before the rename fails. The mode is set
// explicitly rather than inherited from the archive.
func PlaceBinary(src, installDir, name string) (string, error) {
	if err := os.MkdirAll(installDir, 0755); err != nil {
		return "", failure.Internal("create install dir: %w", err)
	}

	destPath := filepath.Join(installDir, name)

	in, err := os.Open(src)
	if err != nil {
		return "", failure.Internal("open payload: %w", err)
	}
	defer in.Close()

	tmpFile, err := os.CreateTemp(installDir, "."+name+"-*")
	if err != nil {
		return "", failure.Internal("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := io.Copy(tmpFile, in); err != nil {
		tmpFile.Close()
		return "", failure.Internal("copy payload: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return "", failure.Internal("close temp file: %w", err)
	}

	if err := SetExecutable(tmpPath); err != nil {
		return "", failure.Internal("%w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return "", failure.Internal("install %s: %w", destPath, err)
	}

	return destPath, nil
}

// SetExecutable sets executable permissions on a file
func SetExecutable(path string) error {
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}

// RemoveBinary deletes installDir/name. It reports whether a file was
// removed; a missing file is not an error.
func RemoveBinary(installDir, name string) (bool, error) {
	target := filepath.Join(installDir, name)
	if err := os.Remove(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, failure.Internal("remove %s: %w", target, err)
	}
	return true, nil
}

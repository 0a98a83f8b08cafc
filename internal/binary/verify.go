package binary

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/failure"
)

// maxChecksumLine bounds the first line read from a checksum file.
const maxChecksumLine = 4096

// Digest returns the lowercase hex SHA256 of the file at path.
func Digest(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// Verify reports whether the file's digest equals expected. Both sides
// are compared after trimming whitespace; an empty expected value never
// verifies.
func Verify(path, expected string) (bool, error) {
	expected = strings.TrimSpace(expected)
	if expected == "" {
		return false, nil
	}

	actual, err := Digest(path)
	if err != nil {
		return false, err
	}

	return actual == expected, nil
}

// ReadExpectedChecksum returns the first whitespace-delimited token on
// the first line of a checksum file. Both "<hash>" and
// "<hash>  <filename>" layouts are accepted; anything after the hash is
// ignored. An empty file yields "".
func ReadExpectedChecksum(checksumPath string) (string, error) {
	file, err := os.Open(checksumPath)
	if err != nil {
		return "", fmt.Errorf("open checksum file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 256), maxChecksumLine)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("scan checksum file: %w", err)
		}
		return "", nil
	}

	fields := strings.Fields(scanner.Text())
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], nil
}

// VerifyFile checks path against the checksum published in checksumPath.
// Any disagreement, including an empty or unreadable expected value, is
// a ChecksumMismatch carrying both digests.
func VerifyFile(path, checksumPath string) error {
	expected, err := ReadExpectedChecksum(checksumPath)
	if err != nil {
		return failure.ChecksumMismatch("read published checksum: %w", err)
	}

	actual, err := Digest(path)
	if err != nil {
		return failure.Internal("calculate checksum: %w", err)
	}

	if expected == "" {
		return failure.ChecksumMismatch("checksum mismatch for %s:\nexpected: (empty or unparsable)\nactual:   %s",
			path, actual)
	}

	if actual != expected {
		return failure.ChecksumMismatch("checksum mismatch for %s:\nexpected: %s\nactual:   %s",
			path, expected, actual)
	}

	return nil
}

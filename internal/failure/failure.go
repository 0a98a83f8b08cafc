// Package failure defines the installer's error taxonomy.
//
// Every error that reaches the CLI is terminal for the invocation. The
// kind decides the process exit code: usage errors exit 2, everything
// else exits 1.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies an installer failure.
type Kind string

const (
	KindUnsupportedPlatform     Kind = "UnsupportedPlatform"
	KindMissingDependency       Kind = "MissingDependency"
	KindVersionResolutionFailed Kind = "VersionResolutionFailed"
	KindDownloadFailed          Kind = "DownloadFailed"
	KindChecksumMismatch        Kind = "ChecksumMismatch"
	KindExtractionFailed        Kind = "ExtractionFailed"
	KindUsage                   Kind = "UsageError"
	// KindInternal covers local I/O failures (permissions, full disk)
	// that don't belong to any of the categories above.
	KindInternal Kind = "Internal"
)

// String returns the kind name.
func (k Kind) String() string {
	return string(k)
}

// Error is a classified error. It wraps the underlying cause so
// errors.Is and errors.As keep working through it.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// ExitCode returns the process exit code for this error.
func (e *Error) ExitCode() int {
	if e.Kind == KindUsage {
		return 2
	}
	return 1
}

// New creates a classified error from a format string.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap classifies an existing error. Wrapping nil returns nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Err: err}
}

// UnsupportedPlatform reports an OS or architecture outside the supported set.
func UnsupportedPlatform(format string, args ...any) *Error {
	return New(KindUnsupportedPlatform, format, args...)
}

// MissingDependency reports a required external tool that is not installed.
func MissingDependency(format string, args ...any) *Error {
	return New(KindMissingDependency, format, args...)
}

// VersionResolutionFailed reports that the release tag could not be determined.
func VersionResolutionFailed(format string, args ...any) *Error {
	return New(KindVersionResolutionFailed, format, args...)
}

// DownloadFailed reports a transport failure fetching the release archive.
func DownloadFailed(format string, args ...any) *Error {
	return New(KindDownloadFailed, format, args...)
}

// ChecksumMismatch reports a downloaded artifact whose digest disagrees
// with the published checksum.
func ChecksumMismatch(format string, args ...any) *Error {
	return New(KindChecksumMismatch, format, args...)
}

// ExtractionFailed reports an archive that could not be unpacked or
// didn't contain a usable payload.
func ExtractionFailed(format string, args ...any) *Error {
	return New(KindExtractionFailed, format, args...)
}

// Usage reports invalid command-line input.
func Usage(format string, args ...any) *Error {
	return New(KindUsage, format, args...)
}

// Internal reports a local failure outside the other categories.
func Internal(format string, args ...any) *Error {
	return New(KindInternal, format, args...)
}

// KindOf returns the kind of the first classified error in err's chain,
// or KindInternal if there is none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}

// ExitCode maps any error to a process exit code. nil maps to 0.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

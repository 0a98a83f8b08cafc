package binary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 5 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "lanbuffer-install/1.0"
	// maxRedirects bounds redirect chains (release downloads redirect to a CDN)
	maxRedirects = 10
)

// HTTPClient is the subset of *http.Client used by the downloader and
// the release resolver.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NewHTTPClient returns the HTTP client used for API and download
// requests.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
}

// StatusError is returned when a server answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status code: %d", e.URL, e.StatusCode)
}

// IsNotFound reports whether err is a 404 from the download host.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}

// Downloader fetches URLs to local files. It makes exactly one attempt
// per call; retrying is left to whoever invoked the installer.
type Downloader struct {
	client    HTTPClient
	userAgent string
}

// NewDownloader creates a downloader. A nil client selects NewHTTPClient.
func NewDownloader(client HTTPClient) *Downloader {
	if client == nil {
		client = NewHTTPClient()
	}
	return &Downloader{
		client:    client,
		userAgent: DefaultUserAgent,
	}
}

// DownloadToFile downloads url to destPath and returns the number of
// bytes written. The body is streamed into destPath+".tmp" and renamed
// into place only after a complete transfer, so a failed download
// never leaves a truncated file at destPath.
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return 0, fmt.Errorf("create dest dir: %w", err)
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, resp.Body)
	if err != nil {
		return 0, fmt.Errorf("copy response body: %w", err)
	}
	if resp.ContentLength >= 0 && written != resp.ContentLength {
		return 0, fmt.Errorf("partial transfer: got %d of %d bytes", written, resp.ContentLength)
	}

	if err := tmpFile.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return 0, fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return written, nil
}

package testutil

import (
	"archive/tar"
	"bytes"
	"testing"

	"github.com/klauspost/compress/gzip"
)

// TarEntry describes one entry of a test archive. A zero Type means a
// regular file; a zero Mode means 0644.
type TarEntry struct {
	Name     string
	Body     string
	Mode     int64
	Type     byte
	Linkname string
}

// TarGz builds an in-memory .tar.gz archive from entries, in order.
func TarGz(t *testing.T, entries ...TarEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gzipWriter := gzip.NewWriter(&buf)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, e := range entries {
		header := &tar.Header{
			Name:     e.Name,
			Mode:     e.Mode,
			Typeflag: e.Type,
			Linkname: e.Linkname,
		}
		if header.Mode == 0 {
			header.Mode = 0644
		}
		if header.Typeflag == 0 {
			header.Typeflag = tar.TypeReg
		}
		if header.Typeflag == tar.TypeReg {
			header.Size = int64(len(e.Body))
		}

		if err := tarWriter.WriteHeader(header); err != nil {
			t.Fatalf("failed to write header for %s: %v", e.Name, err)
		}
		if header.Typeflag == tar.TypeReg {
			if _, err := tarWriter.Write([]byte(e.Body)); err != nil {
				t.Fatalf("failed to write content for %s: %v", e.Name, err)
			}
		}
	}

	if err := tarWriter.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	if err := gzipWriter.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}

	return buf.Bytes()
}

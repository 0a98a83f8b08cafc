package testutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// ReleaseServer fakes both the releases API and the download host.
//
//	GET /repos/<repo>/releases/latest           -> {"tag_name": Tag}
//	GET /<repo>/releases/download/<tag>/<file>  -> Files[<tag>/<file>]
//
// Set LatestStatus or FileStatus to force error responses.
type ReleaseServer struct {
	*httptest.Server

	mu           sync.Mutex
	Repo         string
	Tag          string
	LatestStatus int
	LatestBody   string
	Files        map[string][]byte
	FileStatus   map[string]int

	latestCalls int
	authHeaders []string
	requests    []string
}

// NewReleaseServer starts a server for repo whose latest release is tag.
// The server is closed when the test ends.
func NewReleaseServer(t *testing.T, repo, tag string) *ReleaseServer {
	t.Helper()

	rs := &ReleaseServer{
		Repo:       repo,
		Tag:        tag,
		Files:      map[string][]byte{},
		FileStatus: map[string]int{},
	}
	rs.Server = httptest.NewServer(http.HandlerFunc(rs.handle))
	t.Cleanup(rs.Close)
	return rs
}

// AddRelease publishes an archive for tag/target and, when withChecksum
// is set, its .sha256 file in "<hash>  <asset>" form. It returns the
// archive's hex digest.
func (rs *ReleaseServer) AddRelease(tag, target string, archive []byte, withChecksum bool) string {
	sum := sha256.Sum256(archive)
	digest := hex.EncodeToString(sum[:])

	asset := fmt.Sprintf("lanbuffer-%s-%s.tar.gz", tag, target)

	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.Files[tag+"/"+asset] = archive
	if withChecksum {
		rs.Files[tag+"/"+asset+".sha256"] = []byte(digest + "  " + asset + "\n")
	}
	return digest
}

// SetFile publishes an arbitrary file under tag.
func (rs *ReleaseServer) SetFile(tag, name string, body []byte) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.Files[tag+"/"+name] = body
}

// SetFileStatus forces the response status for tag/name.
func (rs *ReleaseServer) SetFileStatus(tag, name string, status int) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.FileStatus[tag+"/"+name] = status
}

// LatestCalls returns how many times the latest-release endpoint was hit.
func (rs *ReleaseServer) LatestCalls() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.latestCalls
}

// AuthHeaders returns the Authorization headers seen on API calls.
func (rs *ReleaseServer) AuthHeaders() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]string(nil), rs.authHeaders...)
}

// Requests returns the request paths served so far.
func (rs *ReleaseServer) Requests() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]string(nil), rs.requests...)
}

func (rs *ReleaseServer) handle(w http.ResponseWriter, r *http.Request) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.requests = append(rs.requests, r.URL.Path)

	if r.URL.Path == "/repos/"+rs.Repo+"/releases/latest" {
		rs.latestCalls++
		rs.authHeaders = append(rs.authHeaders, r.Header.Get("Authorization"))
		if rs.LatestStatus != 0 {
			w.WriteHeader(rs.LatestStatus)
			fmt.Fprint(w, `{"message": "forced failure"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if rs.LatestBody != "" {
			fmt.Fprint(w, rs.LatestBody)
			return
		}
		fmt.Fprintf(w, `{"url": "https://api.example.test/release/1", "tag_name": %q, "name": "Release %s", "draft": false}`, rs.Tag, rs.Tag)
		return
	}

	prefix := "/" + rs.Repo + "/releases/download/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.NotFound(w, r)
		return
	}
	key := strings.TrimPrefix(r.URL.Path, prefix)

	if status, ok := rs.FileStatus[key]; ok {
		w.WriteHeader(status)
		return
	}
	body, ok := rs.Files[key]
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write(body)
}

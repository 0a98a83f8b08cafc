package binary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/ZebulonRouseFrantzich/lanbuffer-install/internal/failure"
)

// DefaultAPIBaseURL is the GitHub REST API root.
const DefaultAPIBaseURL = "https://api.github.com"

// maxReleaseBody caps how much of the release document is read.
const maxReleaseBody = 4 << 20

// tagNamePattern extracts the tag from a release document. Only this
// one scalar is needed, so the document is not decoded.
var tagNamePattern = regexp.MustCompile(`"tag_name"\s*:\s*"((?:[^"\\]|\\.)*)"`)

// Resolver determines which release tag to install.
type Resolver struct {
	apiBase   string
	token     string
	client    HTTPClient
	userAgent string
}

// NewResolver creates a resolver against apiBase. An empty token makes
// unauthenticated requests; a nil client selects NewHTTPClient.
func NewResolver(apiBase, token string, client HTTPClient) *Resolver {
	if apiBase == "" {
		apiBase = DefaultAPIBaseURL
	}
	if client == nil {
		client = NewHTTPClient()
	}
	return &Resolver{
		apiBase:   strings.TrimRight(apiBase, "/"),
		token:     token,
		client:    client,
		userAgent: DefaultUserAgent,
	}
}

// ResolveVersion returns explicit unchanged when it is non-empty,
// without contacting the API. Otherwise it returns the tag of repo's
// latest published release.
func (r *Resolver) ResolveVersion(ctx context.Context, repo, explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	return r.Latest(ctx, repo)
}

// Latest queries the latest-release endpoint for repo.
func (r *Resolver) Latest(ctx context.Context, repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", r.apiBase, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", failure.VersionResolutionFailed("create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", r.userAgent)
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", failure.VersionResolutionFailed("query latest release of %s: %w", repo, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxReleaseBody))
	if err != nil {
		return "", failure.VersionResolutionFailed("read latest release of %s: %w", repo, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", failure.VersionResolutionFailed("query latest release of %s: unexpected status %d: %s",
			repo, resp.StatusCode, summarizeBody(body))
	}

	tag, ok := extractTagName(body)
	if !ok {
		return "", failure.VersionResolutionFailed("latest release of %s has no tag_name", repo)
	}
	return tag, nil
}

// extractTagName finds the tag_name value in a release document.
func extractTagName(body []byte) (string, bool) {
	m := tagNamePattern.FindSubmatch(body)
	if m == nil {
		return "", false
	}
	tag := strings.TrimSpace(string(m[1]))
	if tag == "" {
		return "", false
	}
	return tag, true
}

// summarizeBody trims an error response for inclusion in a message.
func summarizeBody(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

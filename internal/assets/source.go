package assets

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// FSSource reads files from an fs.FS.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource wraps fsys as a Source.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewDirSource reads files below a local directory.
func NewDirSource(root string) *FSSource {
	return NewFSSource(os.DirFS(root))
}

// Fetch reads name from the underlying file system.
func (s *FSSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return fs.ReadFile(s.fsys, name)
}

// HTTPSource fetches files with a plain GET relative to a base URL.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPSource creates a source rooted at baseURL. A zero timeout leaves
// requests bounded only by the caller's context.
func NewHTTPSource(baseURL string, timeout time.Duration) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: unsupported scheme %q", baseURL, u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &HTTPSource{
		base:   u,
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Fetch issues a GET for name.
func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	target := s.base.ResolveReference(&url.URL{Path: name})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &fs.PathError{Op: "get", Path: name, Err: fs.ErrNotExist}
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("get %s: unexpected status %s", target, resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// Package fetch reads the blog's static files, either over plain HTTP GET from
// a deployed site or straight from a site directory.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when the requested file does not exist.
var ErrNotFound = errors.New("fetch: not found")

// StatusError reports a non-success HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch: GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Is matches ErrNotFound for 404 responses.
func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// Fetcher returns the contents of a site-relative path such as "posts.json"
// or "pages/hello.md".
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// HTTP fetches files relative to a base URL.
type HTTP struct {
	base   *url.URL
	client *http.Client
}

// HTTPOption configures an HTTP fetcher.
type HTTPOption func(*HTTP)

// WithClient replaces the default client.
func WithClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		h.client = c
	}
}

// NewHTTP returns a fetcher rooted at base. A base without a trailing slash is
// treated as a directory.
func NewHTTP(base string, opts ...HTTPOption) (*HTTP, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("fetch: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("fetch: unsupported scheme %q", u.Scheme)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	h := &HTTP{
		base:   u,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Fetch issues a GET for name under the base URL.
func (h *HTTP) Fetch(ctx context.Context, name string) ([]byte, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("fetch: parse %q: %w", name, err)
	}
	target := h.base.ResolveReference(ref).String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: GET %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: target, Code: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fetch: read %s: %w", target, err)
	}
	return body, nil
}

// Dir fetches files from a file system, typically os.DirFS of the site
// directory.
type Dir struct {
	fsys fs.FS
}

// NewDir returns a fetcher over fsys.
func NewDir(fsys fs.FS) *Dir {
	return &Dir{fsys: fsys}
}

// Fetch reads name from the file system. Escaped names are unescaped the way
// a static file server would; names that would leave the root, or contain
// dot segments, are reported as not found.
func (d *Dir) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, err := url.PathUnescape(name)
	if err != nil {
		return nil, fmt.Errorf("fetch: %q: %w", name, err)
	}
	if !fs.ValidPath(clean) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	data, err := fs.ReadFile(d.fsys, clean)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
		}
		return nil, fmt.Errorf("fetch: read %s: %w", clean, err)
	}
	return data, nil
}

// New returns an HTTP fetcher when source is an http(s) URL and a directory
// fetcher otherwise.
func New(source string, dirFS func(string) fs.FS) (Fetcher, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return NewHTTP(source)
	}
	return NewDir(dirFS(source)), nil
}

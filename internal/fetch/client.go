package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const maxArchiveSize = 256 << 20 // 256 MB

// Option configures a Client.
type Option func(*Client)

// Client downloads repository snapshots over HTTP.
type Client struct {
	baseURL    string // replaces https://<host> (testing)
	token      string
	httpClient *http.Client
	cache      *Cache
}

// NewClient creates a new archive client. Caching is off unless WithCache is given.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithBaseURL sets a base URL used instead of the source's host.
// This is primarily useful for testing with httptest servers.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithToken sets a GitHub token, sent only with GitHub requests.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// WithCache reuses archives downloaded within ttl.
func WithCache(ttl time.Duration) Option {
	return func(c *Client) { c.cache = NewCache(ttl) }
}

// ArchiveURL builds the full URL of a source's snapshot tarball.
func (c *Client) ArchiveURL(src Source) string {
	if c.baseURL != "" {
		return c.baseURL + "/" + src.ArchivePath()
	}
	return "https://" + src.Host + "/" + src.ArchivePath()
}

// Archive downloads the gzipped tarball of a source's repository.
func (c *Client) Archive(ctx context.Context, src Source) ([]byte, error) {
	archiveURL := c.ArchiveURL(src)
	if c.cache != nil {
		if cached, ok := c.cache.Get(archiveURL); ok {
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, nil)
	if err != nil {
		return nil, err
	}
	if c.token != "" && src.Host == HostGitHub {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("repository %s/%s or ref %q not found (HTTP 404)", src.Owner, src.Repo, src.Ref)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, archiveURL)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArchiveSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", archiveURL, err)
	}
	if len(data) > maxArchiveSize {
		return nil, fmt.Errorf("archive %s exceeds %d bytes", archiveURL, maxArchiveSize)
	}

	ct := resp.Header.Get("Content-Type")
	if strings.Contains(ct, "text/html") {
		return nil, fmt.Errorf("received HTML response from %s (expected an archive)", archiveURL)
	}

	if c.cache != nil {
		c.cache.Set(archiveURL, data)
	}
	return data, nil
}

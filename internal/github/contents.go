// Package github lists and downloads repository contents through the
// GitHub contents API. Listings go through the feed cache; file
// downloads do not.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/raphi011/funcwiz/internal/feed"
	"github.com/raphi011/funcwiz/internal/log"
)

// Entry types returned by the contents API.
const (
	TypeFile = "file"
	TypeDir  = "dir"
)

// ContentEntry is one item of a contents listing.
type ContentEntry struct {
	Name        string `json:"name" yaml:"name"`
	Path        string `json:"path" yaml:"path"`
	Type        string `json:"type" yaml:"type"`
	Size        int64  `json:"size" yaml:"size"`
	URL         string `json:"url" yaml:"-"`
	DownloadURL string `json:"download_url" yaml:"download_url,omitempty"`
	HTMLURL     string `json:"html_url" yaml:"html_url,omitempty"`
}

// IsDir reports whether the entry is a directory.
func (e ContentEntry) IsDir() bool { return e.Type == TypeDir }

// Client talks to the contents API.
type Client struct {
	feed      *feed.Cache
	http      *http.Client
	token     string
	userAgent string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the client used for file downloads.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithToken authenticates downloads, raising GitHub's rate limit.
// Listings use the token configured on the feed cache.
func WithToken(token string) ClientOption {
	return func(c *Client) { c.token = token }
}

// NewClient returns a client listing through f.
func NewClient(f *feed.Cache, opts ...ClientOption) *Client {
	c := &Client{
		feed:      f,
		http:      &http.Client{Timeout: feed.DefaultTimeout},
		userAgent: "funcwiz",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// List returns the entries at url. A url naming a single file yields a
// one-element list.
func (c *Client) List(ctx context.Context, url string) ([]ContentEntry, error) {
	raw, err := c.feed.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", url, err)
	}

	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '{' {
		var e ContentEntry
		if err := json.Unmarshal(trimmed, &e); err != nil {
			return nil, fmt.Errorf("list %s: %w", url, err)
		}
		return []ContentEntry{e}, nil
	}

	var entries []ContentEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("list %s: %w", url, err)
	}
	return entries, nil
}

// Dirs returns only the directory entries at url.
func (c *Client) Dirs(ctx context.Context, url string) ([]ContentEntry, error) {
	entries, err := c.List(ctx, url)
	if err != nil {
		return nil, err
	}
	dirs := entries[:0]
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e)
		}
	}
	return dirs, nil
}

// Walk lists every file below url, descending into directories.
func (c *Client) Walk(ctx context.Context, url string) ([]ContentEntry, error) {
	entries, err := c.List(ctx, url)
	if err != nil {
		return nil, err
	}

	var files []ContentEntry
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch e.Type {
		case TypeFile:
			files = append(files, e)
		case TypeDir:
			if e.URL == "" {
				return nil, fmt.Errorf("directory %s has no listing url", e.Path)
			}
			sub, err := c.Walk(ctx, e.URL)
			if err != nil {
				return nil, err
			}
			files = append(files, sub...)
		default:
			log.FromContext(ctx).Debug("skipping entry", "path", e.Path, "type", e.Type)
		}
	}
	return files, nil
}

// ContentsURL returns the listing URL for path below a contents root
// such as https://api.github.com/repos/<owner>/<repo>/contents.
func ContentsURL(root, path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return strings.TrimRight(root, "/")
	}
	return strings.TrimRight(root, "/") + "/" + path
}

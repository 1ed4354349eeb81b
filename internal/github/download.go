package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/funcwiz/internal/feed"
	"github.com/raphi011/funcwiz/internal/log"
)

// DefaultConcurrency bounds parallel file downloads.
const DefaultConcurrency = 4

// MirrorOptions configures Mirror.
type MirrorOptions struct {
	// Concurrency bounds parallel downloads (default DefaultConcurrency).
	Concurrency int
	// OnFile is called after each file is written, with the number of
	// files done so far.
	OnFile func(done, total int, rel string)
}

// Mirror downloads files into dest, keeping their paths relative to
// base. The first failure cancels the remaining downloads.
func (c *Client) Mirror(ctx context.Context, files []ContentEntry, base, dest string, opts MirrorOptions) error {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	type job struct {
		entry ContentEntry
		rel   string
	}
	jobs := make([]job, 0, len(files))
	for _, f := range files {
		rel, err := relativePath(base, f.Path)
		if err != nil {
			return err
		}
		if f.DownloadURL == "" {
			return fmt.Errorf("%s has no download url", f.Path)
		}
		jobs = append(jobs, job{entry: f, rel: rel})
	}

	var done atomic.Int32
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, j := range jobs {
		g.Go(func() error {
			target := filepath.Join(dest, filepath.FromSlash(j.rel))
			if err := c.download(ctx, j.entry.DownloadURL, target); err != nil {
				return fmt.Errorf("download %s: %w", j.entry.Path, err)
			}
			n := done.Add(1)
			if opts.OnFile != nil {
				opts.OnFile(int(n), len(jobs), j.rel)
			}
			return nil
		})
	}
	return g.Wait()
}

// relativePath returns p relative to base, rejecting paths that would
// escape the destination.
func relativePath(base, p string) (string, error) {
	base = strings.Trim(base, "/")
	rel := strings.TrimPrefix(p, base)
	rel = strings.TrimPrefix(rel, "/")
	if base != "" && !strings.HasPrefix(p, base+"/") {
		return "", fmt.Errorf("%s is outside %s", p, base)
	}
	if rel == "" || !filepath.IsLocal(filepath.FromSlash(rel)) || path.Clean(rel) != rel {
		return "", fmt.Errorf("unsafe path %q", p)
	}
	return rel, nil
}

func (c *Client) download(ctx context.Context, url, target string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log.FromContext(ctx).Debug("download", "url", url)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &feed.StatusError{URL: url, Status: resp.StatusCode}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	tmp := target + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, target)
}

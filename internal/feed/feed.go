package feed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/raphi011/funcwiz/internal/log"
)

const (
	// DefaultTTL is how long a fetched payload is served before re-fetching.
	DefaultTTL = 10 * time.Minute

	// DefaultTimeout bounds a single transfer.
	DefaultTimeout = 15 * time.Second

	maxBodySize = 16 << 20
)

var byteOrderMark = []byte("\ufeff")

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

// Cache memoizes JSON documents by URL.
type Cache struct {
	store     Store
	client    *http.Client
	now       func() time.Time
	ttl       time.Duration
	timeout   time.Duration
	userAgent string
	token     string
	group     singleflight.Group
}

// Option configures a Cache.
type Option func(*Cache)

// WithStore sets the backing store. Defaults to a new MemoryStore.
func WithStore(s Store) Option {
	return func(c *Cache) { c.store = s }
}

// WithHTTPClient sets the HTTP client used for fetches.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Cache) { c.client = hc }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithTTL sets the time-to-live of fetched entries.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithTimeout sets the per-request transfer timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithToken sends an Authorization bearer token, e.g. a GitHub token to
// lift the anonymous rate limit.
func WithToken(token string) Option {
	return func(c *Cache) { c.token = token }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Cache) { c.userAgent = ua }
}

// New creates a Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		client:    http.DefaultClient,
		now:       time.Now,
		ttl:       DefaultTTL,
		timeout:   DefaultTimeout,
		userAgent: "funcwiz",
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = NewMemoryStore()
	}
	return c
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Store returns the backing store.
func (c *Cache) Store() Store {
	return c.store
}

// GetJSON returns the document at url decoded into dst, fetching it only
// when there is no entry or the entry is past its refresh time.
func (c *Cache) GetJSON(ctx context.Context, url string, dst any) error {
	raw, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// Get returns the raw JSON payload for url.
func (c *Cache) Get(ctx context.Context, url string) (json.RawMessage, error) {
	l := log.FromContext(ctx)

	entry, ok, err := c.store.Get(url)
	if err != nil {
		l.Debug("feed store read failed, refetching", "url", url, "err", err)
		ok = false
	}
	if ok && !entry.Expired(c.now()) {
		l.Debug("feed cache hit", "url", url)
		return entry.Payload, nil
	}

	// The shared fetch must not inherit one caller's cancellation; the
	// transfer timeout still bounds it. Each caller waits on its own ctx.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(url, func() (any, error) {
		return c.fetch(fetchCtx, url)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Cache) fetch(ctx context.Context, url string) (json.RawMessage, error) {
	l := log.FromContext(ctx)
	fetchedAt := c.now()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	l.Debug("feed fetch", "url", url)
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}

	var payload json.RawMessage
	if err := ParseJSON(body, &payload); err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}

	entry := Entry{Payload: payload, NextRefresh: fetchedAt.Add(c.ttl)}
	if err := c.store.Put(url, entry); err != nil {
		l.Debug("feed store write failed", "url", url, "err", err)
	}
	return payload, nil
}

// ParseJSON decodes data into dst, tolerating a leading byte order mark.
func ParseJSON(data []byte, dst any) error {
	return json.Unmarshal(bytes.TrimPrefix(data, byteOrderMark), dst)
}

package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingServer serves body and counts requests.
func countingServer(t *testing.T, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestParseJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"plain object", `{"a":1}`},
		{"leading byte order mark", "\ufeff" + `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got map[string]int
			if err := ParseJSON([]byte(tt.input), &got); err != nil {
				t.Fatalf("ParseJSON() error = %v", err)
			}
			if got["a"] != 1 || len(got) != 1 {
				t.Errorf("ParseJSON() = %v, want map[a:1]", got)
			}
		})
	}

	t.Run("invalid json", func(t *testing.T) {
		t.Parallel()
		var got any
		if err := ParseJSON([]byte("{"), &got); err == nil {
			t.Error("ParseJSON({) = nil, want error")
		}
	})
}

func TestCache_HitWithinTTL(t *testing.T) {
	t.Parallel()

	srv, hits := countingServer(t, `[{"name":"HttpTrigger"}]`)
	clock := newFakeClock()
	c := New(WithClock(clock.Now), WithTTL(10*time.Minute))

	for i := range 3 {
		var got []map[string]string
		if err := c.GetJSON(context.Background(), srv.URL, &got); err != nil {
			t.Fatalf("GetJSON() #%d error = %v", i, err)
		}
		if got[0]["name"] != "HttpTrigger" {
			t.Errorf("GetJSON() #%d = %v", i, got)
		}
		clock.Advance(3 * time.Minute)
	}

	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}
}

func TestCache_RefetchAfterTTL(t *testing.T) {
	t.Parallel()

	srv, hits := countingServer(t, `{"ok":true}`)
	clock := newFakeClock()
	c := New(WithClock(clock.Now), WithTTL(10*time.Minute))

	var got map[string]bool
	if err := c.GetJSON(context.Background(), srv.URL, &got); err != nil {
		t.Fatal(err)
	}

	// Exactly at the refresh time the entry is still served.
	clock.Advance(10 * time.Minute)
	if err := c.GetJSON(context.Background(), srv.URL, &got); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n != 1 {
		t.Fatalf("server hits at refresh boundary = %d, want 1", n)
	}

	clock.Advance(time.Second)
	if err := c.GetJSON(context.Background(), srv.URL, &got); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server hits after expiry = %d, want 2", n)
	}
}

func TestCache_SharedAcrossCallers(t *testing.T) {
	t.Parallel()

	srv, hits := countingServer(t, `{"v":1}`)
	store := NewMemoryStore()

	// Two independent caches over one store behave like two wizard runs
	// sharing the process-wide cache.
	first := New(WithStore(store))
	second := New(WithStore(store))

	var v map[string]int
	if err := first.GetJSON(context.Background(), srv.URL, &v); err != nil {
		t.Fatal(err)
	}
	if err := second.GetJSON(context.Background(), srv.URL, &v); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}
	if store.Len() != 1 {
		t.Errorf("store.Len() = %d, want 1", store.Len())
	}
}

func TestCache_BOMPayload(t *testing.T) {
	t.Parallel()

	srv, _ := countingServer(t, "\ufeff"+`{"a":1}`)
	c := New()

	var got map[string]int
	if err := c.GetJSON(context.Background(), srv.URL, &got); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}
	if got["a"] != 1 {
		t.Errorf("GetJSON() = %v, want map[a:1]", got)
	}
}

func TestCache_FailuresNotCached(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			http.Error(w, "rate limited", http.StatusForbidden)
			return
		}
		fmt.Fprint(w, `{"ok":true}`)
	}))
	t.Cleanup(srv.Close)

	c := New()
	var got map[string]bool

	err := c.GetJSON(context.Background(), srv.URL, &got)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusForbidden {
		t.Fatalf("first GetJSON() error = %v, want StatusError 403", err)
	}

	if err := c.GetJSON(context.Background(), srv.URL, &got); err != nil {
		t.Fatalf("second GetJSON() error = %v", err)
	}
	if !got["ok"] {
		t.Errorf("second GetJSON() = %v", got)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server hits = %d, want 2", n)
	}
}

func TestCache_ParseFailureNotCached(t *testing.T) {
	t.Parallel()

	srv, hits := countingServer(t, `<html>not json</html>`)
	c := New()

	for range 2 {
		var got any
		if err := c.GetJSON(context.Background(), srv.URL, &got); err == nil {
			t.Fatal("GetJSON() = nil, want parse error")
		}
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("server hits = %d, want 2", n)
	}
}

func TestCache_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	c := New(WithTimeout(50 * time.Millisecond))
	var got any
	err := c.GetJSON(context.Background(), srv.URL, &got)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("GetJSON() error = %v, want deadline exceeded", err)
	}
}

// blockingServer answers with body once release is closed and signals
// each request it receives on started.
func blockingServer(t *testing.T, body string) (srv *httptest.Server, hits *atomic.Int32, started chan struct{}, release chan struct{}) {
	t.Helper()
	hits = new(atomic.Int32)
	started = make(chan struct{}, 16)
	release = make(chan struct{})
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		started <- struct{}{}
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, hits, started, release
}

func TestCache_ConcurrentMissesCollapse(t *testing.T) {
	t.Parallel()

	srv, hits, started, release := blockingServer(t, `{"v":1}`)
	c := New()

	const callers = 8
	errs := make(chan error, callers)
	for range callers {
		go func() {
			var v map[string]int
			err := c.GetJSON(context.Background(), srv.URL, &v)
			if err == nil && v["v"] != 1 {
				err = fmt.Errorf("got %v", v)
			}
			errs <- err
		}()
	}

	<-started
	close(release)
	for range callers {
		if err := <-errs; err != nil {
			t.Errorf("GetJSON() error = %v", err)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}
}

func TestCache_CancelledCallerDoesNotFailOthers(t *testing.T) {
	t.Parallel()

	srv, hits, started, release := blockingServer(t, `{"v":1}`)
	c := New()

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		var v any
		firstErr <- c.GetJSON(firstCtx, srv.URL, &v)
	}()
	<-started

	secondErr := make(chan error, 1)
	var second map[string]int
	go func() {
		secondErr <- c.GetJSON(context.Background(), srv.URL, &second)
	}()

	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled caller error = %v, want context.Canceled", err)
	}

	close(release)
	if err := <-secondErr; err != nil {
		t.Fatalf("live caller error = %v, want nil", err)
	}
	if second["v"] != 1 {
		t.Errorf("live caller got %v", second)
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}
}

func TestCache_Token(t *testing.T) {
	t.Parallel()

	var auth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth.Store(r.Header.Get("Authorization"))
		fmt.Fprint(w, `[]`)
	}))
	t.Cleanup(srv.Close)

	var got []any
	if err := New(WithToken("ghp_test")).GetJSON(context.Background(), srv.URL, &got); err != nil {
		t.Fatal(err)
	}
	if auth.Load() != "Bearer ghp_test" {
		t.Errorf("Authorization = %v, want Bearer ghp_test", auth.Load())
	}
}

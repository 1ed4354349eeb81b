package cache

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raphi011/funcwiz/internal/feed"
)

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	f, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if f.Entries == nil || len(f.Entries) != 0 {
		t.Errorf("Load() entries = %v, want empty map", f.Entries)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(CachePath(dir), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v, want corrupt file treated as empty", err)
	}
	if len(f.Entries) != 0 {
		t.Errorf("Load() entries = %v, want empty", f.Entries)
	}
}

func TestFileStore_PutGet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewFileStore(dir)
	refresh := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	if _, ok, err := s.Get("https://example.test/a"); err != nil || ok {
		t.Fatalf("Get() on empty store = %v, %v", ok, err)
	}

	if err := s.Put("https://example.test/a", feed.Entry{Payload: []byte(`{"a":1}`), NextRefresh: refresh}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	// A fresh store over the same directory sees the entry.
	got, ok, err := NewFileStore(dir).Get("https://example.test/a")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if string(got.Payload) != `{"a":1}` {
		t.Errorf("Payload = %s", got.Payload)
	}
	if !got.NextRefresh.Equal(refresh) {
		t.Errorf("NextRefresh = %v, want %v", got.NextRefresh, refresh)
	}
}

func TestFileStore_Clear(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := NewFileStore(dir)
	if err := s.Put("https://example.test/a", feed.Entry{Payload: []byte(`1`)}); err != nil {
		t.Fatal(err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Errorf("cache file still present after Clear(): %v", err)
	}
	// Clearing an empty cache succeeds.
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear() error = %v", err)
	}
}

func TestFileStore_List(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	s := NewFileStore(t.TempDir())
	_ = s.Put("https://b.test", feed.Entry{Payload: []byte(`[1,2]`), NextRefresh: now.Add(time.Minute)})
	_ = s.Put("https://a.test", feed.Entry{Payload: []byte(`{}`), NextRefresh: now.Add(-time.Minute)})

	got, err := s.List(now)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("List() len = %d, want 2", len(got))
	}
	if got[0].URL != "https://a.test" || !got[0].Expired || got[0].Size != 2 {
		t.Errorf("List()[0] = %+v", got[0])
	}
	if got[1].URL != "https://b.test" || got[1].Expired {
		t.Errorf("List()[1] = %+v", got[1])
	}
}

func TestFileStore_SurvivesProcessRestart(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"templates":["HttpTrigger"]}`)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	var got map[string][]string

	// Each feed.Cache stands for one short-lived CLI process.
	for range 2 {
		c := feed.New(feed.WithStore(NewFileStore(dir)))
		if err := c.GetJSON(context.Background(), srv.URL, &got); err != nil {
			t.Fatal(err)
		}
	}

	if n := hits.Load(); n != 1 {
		t.Errorf("server hits = %d, want 1", n)
	}
	if got["templates"][0] != "HttpTrigger" {
		t.Errorf("GetJSON() = %v", got)
	}
}

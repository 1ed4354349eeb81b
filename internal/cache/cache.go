package cache

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/raphi011/funcwiz/internal/feed"
	"github.com/raphi011/funcwiz/internal/storage"
)

const (
	fileName = "feeds.json"
	lockName = "feeds.lock"
)

// record is the on-disk form of a feed.Entry.
type record struct {
	Payload     json.RawMessage `json:"payload"`
	NextRefresh time.Time       `json:"next_refresh"`
}

// File is the persisted cache document.
type File struct {
	Entries map[string]record `json:"entries"`
}

// CachePath returns the path to the cache file in dir.
func CachePath(dir string) string {
	return filepath.Join(dir, fileName)
}

// LockPath returns the path to the lock file in dir.
func LockPath(dir string) string {
	return filepath.Join(dir, lockName)
}

// Load reads the cache file in dir. A missing or corrupt file yields an
// empty cache.
func Load(dir string) (*File, error) {
	var f File
	err := storage.LoadJSON(CachePath(dir), &f)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// first run
	case err != nil:
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr) {
			return nil, err
		}
		f = File{}
	}
	if f.Entries == nil {
		f.Entries = make(map[string]record)
	}
	return &f, nil
}

// Save writes the cache file atomically.
func Save(dir string, f *File) error {
	return storage.SaveJSON(CachePath(dir), f)
}

// LoadWithLock acquires the lock and loads the cache.
// Caller must defer unlock() if err == nil.
func LoadWithLock(dir string) (*File, func(), error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, nil, err
	}
	lock := NewFileLock(LockPath(dir))
	if err := lock.Lock(); err != nil {
		return nil, nil, fmt.Errorf("failed to acquire lock: %w", err)
	}

	f, err := Load(dir)
	if err != nil {
		_ = lock.Unlock()
		return nil, nil, fmt.Errorf("failed to load cache: %w", err)
	}

	unlock := func() { _ = lock.Unlock() }
	return f, unlock, nil
}

// FileStore is a feed.Store backed by a JSON file.
type FileStore struct {
	dir string
}

var _ feed.Store = (*FileStore)(nil)

// NewFileStore returns a store that keeps its file in dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the cache file path.
func (s *FileStore) Path() string {
	return CachePath(s.dir)
}

// Get implements feed.Store.
func (s *FileStore) Get(url string) (feed.Entry, bool, error) {
	f, unlock, err := LoadWithLock(s.dir)
	if err != nil {
		return feed.Entry{}, false, err
	}
	defer unlock()

	r, ok := f.Entries[url]
	if !ok {
		return feed.Entry{}, false, nil
	}
	return feed.Entry{Payload: compact(r.Payload), NextRefresh: r.NextRefresh}, true, nil
}

// compact undoes the indentation SaveJSON applies to nested payloads.
func compact(raw json.RawMessage) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

// Put implements feed.Store.
func (s *FileStore) Put(url string, e feed.Entry) error {
	f, unlock, err := LoadWithLock(s.dir)
	if err != nil {
		return err
	}
	defer unlock()

	f.Entries[url] = record{Payload: e.Payload, NextRefresh: e.NextRefresh}
	return Save(s.dir, f)
}

// Clear implements feed.Store by removing the cache file.
func (s *FileStore) Clear() error {
	lock := NewFileLock(LockPath(s.dir))
	if err := lock.Lock(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Summary describes one cached URL.
type Summary struct {
	URL         string    `json:"url" yaml:"url"`
	Size        int       `json:"size" yaml:"size"`
	NextRefresh time.Time `json:"next_refresh" yaml:"next_refresh"`
	Expired     bool      `json:"expired" yaml:"expired"`
}

// List returns a summary of every entry, sorted by URL.
func (s *FileStore) List(now time.Time) ([]Summary, error) {
	f, unlock, err := LoadWithLock(s.dir)
	if err != nil {
		return nil, err
	}
	defer unlock()

	out := make([]Summary, 0, len(f.Entries))
	for url, r := range f.Entries {
		out = append(out, Summary{
			URL:         url,
			Size:        len(compact(r.Payload)),
			NextRefresh: r.NextRefresh,
			Expired:     now.After(r.NextRefresh),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out, nil
}

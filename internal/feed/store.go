package feed

import (
	"encoding/json"
	"sync"
	"time"
)

// Entry is one cached document.
type Entry struct {
	Payload     json.RawMessage `json:"payload"`
	NextRefresh time.Time       `json:"next_refresh"`
}

// Expired reports whether now is past the entry's refresh time.
func (e Entry) Expired(now time.Time) bool {
	return now.After(e.NextRefresh)
}

// Store persists entries keyed by URL.
type Store interface {
	Get(url string) (Entry, bool, error)
	Put(url string, e Entry) error
	Clear() error
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Get(url string) (Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[url]
	return e, ok, nil
}

func (s *MemoryStore) Put(url string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[url] = e
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]Entry)
	return nil
}

// Len returns the number of cached URLs.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Package history tracks recently used Functions projects.
// This lets commands that need a project fall back to the last one used
// when run outside of any project.
package history

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/raphi011/funcwiz/internal/storage"
)

const maxEntries = 50

// Entry is one recently used project.
type Entry struct {
	Path        string    `json:"path"`
	Runtime     string    `json:"runtime,omitempty"`
	AccessCount int       `json:"access_count"`
	LastAccess  time.Time `json:"last_access"`
}

// History is the list of recently used projects.
type History struct {
	Entries []Entry `json:"entries"`
}

// DefaultPath returns ~/.funcwiz/history.json.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".funcwiz", "history.json")
}

// Load reads the history at path. A missing file is an empty history.
func Load(path string) (*History, error) {
	var h History
	if err := storage.LoadJSON(path, &h); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &History{}, nil
		}
		return nil, err
	}
	return &h, nil
}

// Save writes the history to path atomically.
func (h *History) Save(path string) error {
	return storage.SaveJSON(path, h)
}

// FindByPath returns the entry for path, or nil.
func (h *History) FindByPath(path string) *Entry {
	for i := range h.Entries {
		if h.Entries[i].Path == path {
			return &h.Entries[i]
		}
	}
	return nil
}

// RemoveByPath removes the entry for path and reports whether it existed.
func (h *History) RemoveByPath(path string) bool {
	n := len(h.Entries)
	h.Entries = slices.DeleteFunc(h.Entries, func(e Entry) bool { return e.Path == path })
	return len(h.Entries) != n
}

// RemoveStale drops entries whose directory no longer exists and returns
// how many were removed.
func (h *History) RemoveStale() int {
	n := len(h.Entries)
	h.Entries = slices.DeleteFunc(h.Entries, func(e Entry) bool {
		_, err := os.Stat(e.Path)
		return err != nil
	})
	return n - len(h.Entries)
}

// SortByRecent orders entries newest first.
func (h *History) SortByRecent() {
	slices.SortStableFunc(h.Entries, func(a, b Entry) int {
		return b.LastAccess.Compare(a.LastAccess)
	})
}

// RecordAccess marks the project at path as used now. The worker runtime
// is kept from earlier records when empty.
func RecordAccess(path, runtime, historyFile string) error {
	h, err := Load(historyFile)
	if err != nil {
		// Corrupted - start fresh
		h = &History{}
	}

	now := time.Now()
	if e := h.FindByPath(path); e != nil {
		e.AccessCount++
		e.LastAccess = now
		if runtime != "" {
			e.Runtime = runtime
		}
	} else {
		h.Entries = append(h.Entries, Entry{
			Path:        path,
			Runtime:     runtime,
			AccessCount: 1,
			LastAccess:  now,
		})
	}

	if len(h.Entries) > maxEntries {
		h.SortByRecent()
		h.Entries = h.Entries[:maxEntries]
	}

	return h.Save(historyFile)
}

// GetMostRecent returns the most recently used project path, or "" when
// the history is empty.
func GetMostRecent(historyFile string) (string, error) {
	h, err := Load(historyFile)
	if err != nil {
		return "", err
	}
	if len(h.Entries) == 0 {
		return "", nil
	}
	h.SortByRecent()
	return h.Entries[0].Path, nil
}

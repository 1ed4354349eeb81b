package feed

import (
	"testing"
	"time"
)

func TestEntry_Expired(t *testing.T) {
	t.Parallel()

	refresh := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	e := Entry{NextRefresh: refresh}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before refresh", refresh.Add(-time.Minute), false},
		{"at refresh", refresh, false},
		{"after refresh", refresh.Add(time.Nanosecond), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := e.Expired(tt.now); got != tt.want {
				t.Errorf("Expired(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	if _, ok, _ := s.Get("https://example.test/a"); ok {
		t.Fatal("Get() on empty store reported a hit")
	}

	want := Entry{Payload: []byte(`{"a":1}`)}
	if err := s.Put("https://example.test/a", want); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Get("https://example.test/a")
	if err != nil || !ok {
		t.Fatalf("Get() = %v, %v", ok, err)
	}
	if string(got.Payload) != `{"a":1}` {
		t.Errorf("Payload = %s", got.Payload)
	}

	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", s.Len())
	}
}

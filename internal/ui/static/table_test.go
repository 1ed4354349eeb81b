package static

import (
	"strings"
	"testing"
	"time"
)

func TestRenderTable(t *testing.T) {
	t.Parallel()

	if got := RenderTable([]string{"URL"}, nil); got != "" {
		t.Errorf("empty table = %q, want empty", got)
	}

	out := RenderTable([]string{"NAME", "TRIGGER"}, [][]string{
		{"HttpExample", "httpTrigger"},
		{"Cleanup", "timerTrigger"},
	})
	for _, want := range []string{"NAME", "TRIGGER", "HttpExample", "timerTrigger"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("table should end with a newline")
	}
}

func TestRenderKeyValues(t *testing.T) {
	t.Parallel()

	out := RenderKeyValues([]KeyValue{
		{Key: "Status", Value: "200 OK"},
		{Key: "Body", Value: "hello"},
	})
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "Status:") || !strings.HasSuffix(lines[0], "200 OK") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "Body:") || !strings.HasSuffix(lines[1], "hello") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncated", 5, "trun…"},
		{"äöüß", 3, "äö…"},
		{"x", 0, "x"},
		{"abc", 1, "…"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestFormatRefresh(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		next time.Time
		want string
	}{
		{now.Add(4*time.Minute + 30*time.Second), "in 4m"},
		{now.Add(30 * time.Second), "in 30s"},
		{now.Add(-2 * time.Hour), "expired 2h ago"},
		{now, "expired 0s ago"},
		{now.Add(-72 * time.Hour), "expired 3d ago"},
	}
	for _, tt := range tests {
		if got := FormatRefresh(tt.next, now); got != tt.want {
			t.Errorf("FormatRefresh(%v) = %q, want %q", tt.next.Sub(now), got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	tests := map[int]string{
		12:          "12 B",
		2048:        "2.0 KiB",
		3 * 1 << 20: "3.0 MiB",
	}
	for n, want := range tests {
		if got := FormatBytes(n); got != want {
			t.Errorf("FormatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}

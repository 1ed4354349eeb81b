package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestPrintf(t *testing.T) {
	t.Parallel()

	t.Run("writes formatted output", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		New(&buf, false, false).Printf("created %s in %d steps", "HttpTrigger1", 3)
		if got := buf.String(); got != "created HttpTrigger1 in 3 steps" {
			t.Errorf("Printf output = %q", got)
		}
	})

	t.Run("suppressed when quiet", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		New(&buf, false, true).Printf("should not appear")
		if buf.Len() != 0 {
			t.Errorf("Printf wrote %q when quiet", buf.String())
		}
	})
}

func TestPrintln(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	New(&buf, false, false).Println("func", "init")
	if got := buf.String(); got != "func init\n" {
		t.Errorf("Println output = %q, want %q", got, "func init\n")
	}
}

func TestCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		dir     string
		want    string
	}{
		{"verbose with dir", true, false, "/tmp/app", "[/tmp/app] $ func init --worker-runtime node (100ms)\n"},
		{"verbose without dir", true, false, "", "$ func init --worker-runtime node (100ms)\n"},
		{"not verbose", false, false, "/tmp/app", ""},
		{"quiet overrides verbose", true, true, "/tmp/app", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			done := New(&buf, tt.verbose, tt.quiet).Command(tt.dir, "func", "init", "--worker-runtime", "node")
			done(100 * time.Millisecond)
			if got := buf.String(); got != tt.want {
				t.Errorf("Command output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDebug(t *testing.T) {
	t.Parallel()

	t.Run("key-value format", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		New(&buf, true, false).Debug("execute step", "id", "func-init", "priority", 100)
		got := buf.String()
		for _, want := range []string{"execute step", "id=func-init", "priority=100"} {
			if !strings.Contains(got, want) {
				t.Errorf("Debug output = %q, want to contain %q", got, want)
			}
		}
	})

	t.Run("odd keyvals drops last", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		New(&buf, true, false).Debug("msg", "k", "v", "orphan")
		if strings.Contains(buf.String(), "orphan") {
			t.Errorf("Debug output = %q, should not contain orphan key", buf.String())
		}
	})

	t.Run("silent unless verbose", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		New(&buf, false, false).Debug("hidden", "k", "v")
		if buf.Len() != 0 {
			t.Errorf("Debug wrote %q when not verbose", buf.String())
		}
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		l := New(io.Discard, true, false)
		if got := FromContext(WithLogger(context.Background(), l)); got != l {
			t.Error("FromContext did not return the stored logger")
		}
	})

	t.Run("fallback discards", func(t *testing.T) {
		t.Parallel()
		l := FromContext(context.Background())
		l.Printf("nowhere")
		if l.Writer() != io.Discard {
			t.Error("fallback logger should write to io.Discard")
		}
	})
}

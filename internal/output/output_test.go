package output

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := FromContext(WithPrinter(context.Background(), &buf))
	p.Println("/home/dev/app")
	if got := buf.String(); got != "/home/dev/app\n" {
		t.Errorf("Println = %q", got)
	}

	if FromContext(context.Background()).Writer() != os.Stdout {
		t.Error("fallback printer should write to os.Stdout")
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	v := map[string]any{"language": "python", "port": 7071}

	tests := []struct {
		format string
		want   string
	}{
		{"yaml", "language: python\nport: 7071\n"},
		{"json", "{\n  \"language\": \"python\",\n  \"port\": 7071\n}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := New(&buf).Encode(tt.format, v); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("Encode(%s) = %q, want %q", tt.format, buf.String(), tt.want)
			}
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		err := New(&bytes.Buffer{}).Encode("xml", v)
		if err == nil || !strings.Contains(err.Error(), "xml") {
			t.Errorf("Encode(xml) error = %v, want unknown format error", err)
		}
	})
}

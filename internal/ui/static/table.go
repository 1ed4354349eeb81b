// Package static renders non-interactive terminal output: the feed cache
// listing, template tables and trigger responses.
package static

import (
	"fmt"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/funcwiz/internal/ui/styles"
)

// RenderTable creates a borderless table with aligned columns. It
// returns "" for no rows so callers can print their own empty message.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	return t.String() + "\n"
}

// KeyValue is one line of RenderKeyValues output.
type KeyValue struct {
	Key   string
	Value string
}

// RenderKeyValues renders "key: value" lines with keys padded to the
// widest key and rendered muted.
func RenderKeyValues(pairs []KeyValue) string {
	width := 0
	for _, p := range pairs {
		width = max(width, len(p.Key))
	}

	var b strings.Builder
	for _, p := range pairs {
		key := fmt.Sprintf("%-*s", width+1, p.Key+":")
		b.WriteString(styles.MutedStyle.Render(key))
		b.WriteString(" ")
		b.WriteString(p.Value)
		b.WriteString("\n")
	}
	return b.String()
}

// Truncate shortens s to n runes, ending with "…" when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// FormatRefresh describes when a cache entry refreshes relative to now,
// e.g. "in 4m" or "expired 2h ago".
func FormatRefresh(next, now time.Time) string {
	d := next.Sub(now)
	if d > 0 {
		return "in " + shortDuration(d)
	}
	return "expired " + shortDuration(-d) + " ago"
}

func shortDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

// FormatBytes renders a size as B, KiB or MiB.
func FormatBytes(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KiB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1024*1024))
	}
}

package framework

import (
	"strings"
	"unicode"
)

// RuneFilter determines which runes are allowed in input.
type RuneFilter func(r rune) bool

// RuneFilterNone allows all printable characters.
func RuneFilterNone(r rune) bool {
	return unicode.IsPrint(r)
}

// RuneFilterNoSpaces allows printable characters except spaces.
// Use for function names and setting names.
func RuneFilterNoSpaces(r rune) bool {
	return unicode.IsPrint(r) && r != ' '
}

// FilterText returns the characters of text that pass the filter.
// A nil filter allows all printable characters.
func FilterText(text string, filter RuneFilter) string {
	if filter == nil {
		filter = RuneFilterNone
	}
	var b strings.Builder
	for _, r := range text {
		if filter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DeleteLastWord removes the last word from a string (for alt+backspace).
func DeleteLastWord(s string) string {
	s = strings.TrimRight(s, " ")
	i := strings.LastIndex(s, " ")
	if i == -1 {
		return ""
	}
	return s[:i+1]
}

// DeleteLastRune removes the last character, respecting multi-byte runes.
func DeleteLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

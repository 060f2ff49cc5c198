package llm

import (
	"strings"
	"unicode/utf8"
)

const (
	maxStatusLen   = 50
	truncatedRunes = 47
)

const quoteChars = "\"'"

// Clean turns raw backend output into a single short line: quotes and
// whitespace stripped, first line only, at most 50 characters.
func Clean(raw string) string {
	text := strings.Trim(strings.TrimSpace(raw), quoteChars)
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	text = strings.Trim(strings.TrimSpace(text), quoteChars)
	if utf8.RuneCountInString(text) > maxStatusLen {
		text = string([]rune(text)[:truncatedRunes]) + "..."
	}
	return strings.TrimSpace(text)
}

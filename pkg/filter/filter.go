// Package filter holds the appropriateness check applied to generated text.
//
// It is a plain substring denylist: no word boundaries, no stemming. It
// blocks innocent words that contain a term ("hello" contains "hell") and
// lets paraphrases through. That behaviour is relied upon as-is.
package filter

import (
	"strings"
	"unicode/utf8"
)

// MinLength is the shortest trimmed text, in characters, that is accepted.
const MinLength = 3

// IsAppropriate reports whether text is safe to show: at least MinLength
// characters after trimming and free of every denylist term, ignoring case.
func IsAppropriate(text string, denylist []string) bool {
	lower := strings.ToLower(text)
	for _, term := range denylist {
		if term == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(term)) {
			return false
		}
	}
	return utf8.RuneCountInString(strings.TrimSpace(text)) >= MinLength
}

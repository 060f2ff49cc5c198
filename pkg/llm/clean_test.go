package llm

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestClean(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"quoted first line", "\"Drowning in meetings\"\nextra line", "Drowning in meetings"},
		{"single quotes", "  'Espresso yourself'  ", "Espresso yourself"},
		{"plain", "Walking it off", "Walking it off"},
		{"empty", "", ""},
		{"exactly fifty", strings.Repeat("a", 50), strings.Repeat("a", 50)},
		{"fifty one", strings.Repeat("b", 51), strings.Repeat("b", 47) + "..."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clean(tc.in); got != tc.want {
				t.Fatalf("Clean(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCleanTruncatesOnRunes(t *testing.T) {
	in := strings.Repeat("é", 60)
	got := Clean(in)
	if utf8.RuneCountInString(got) != 50 || !strings.HasSuffix(got, "...") {
		t.Fatalf("Clean produced %q", got)
	}
	if !utf8.ValidString(got) {
		t.Fatal("truncation split a rune")
	}
}

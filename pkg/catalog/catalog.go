package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	goerrors "github.com/goliatone/go-errors"
	"github.com/hjson/hjson-go/v4"

	"github.com/nathfavour/statussage/pkg/filter"
)

const catalogInvalidCode = "CATALOG_INVALID"

// MaxPhraseLength is the longest canned phrase, in runes, a catalog accepts.
const MaxPhraseLength = 50

// StatusType is a catalog key such as "lunch" or "coffee".
type StatusType string

// Entry is one status type with its description and canned phrases.
type Entry struct {
	Type        StatusType
	Description string
	Phrases     []string
}

// Catalog is immutable after construction and safe for concurrent reads.
type Catalog struct {
	order        []StatusType
	descriptions map[StatusType]string
	phrases      map[StatusType][]string
	denylist     []string
}

// New validates entries and builds a catalog. Every type needs a description
// and at least one phrase, and every phrase must pass the appropriateness
// filter and fit in MaxPhraseLength. Denylist terms are lowercased.
func New(entries []Entry, denylist []string) (*Catalog, error) {
	c := &Catalog{
		order:        make([]StatusType, 0, len(entries)),
		descriptions: make(map[StatusType]string, len(entries)),
		phrases:      make(map[StatusType][]string, len(entries)),
	}

	for _, term := range denylist {
		if term = strings.ToLower(strings.TrimSpace(term)); term != "" {
			c.denylist = append(c.denylist, term)
		}
	}

	var problems []string
	for _, e := range entries {
		key := StatusType(strings.TrimSpace(string(e.Type)))
		switch {
		case key == "":
			problems = append(problems, "status type with empty key")
			continue
		case c.has(key):
			problems = append(problems, fmt.Sprintf("duplicate status type %q", key))
			continue
		}
		if strings.TrimSpace(e.Description) == "" {
			problems = append(problems, fmt.Sprintf("status type %q has no description", key))
		}

		phrases := make([]string, 0, len(e.Phrases))
		for _, p := range e.Phrases {
			if p = strings.TrimSpace(p); p == "" {
				continue
			}
			switch {
			case utf8.RuneCountInString(p) > MaxPhraseLength:
				problems = append(problems, fmt.Sprintf("phrase %q for %q is longer than %d characters", p, key, MaxPhraseLength))
			case !filter.IsAppropriate(p, c.denylist):
				problems = append(problems, fmt.Sprintf("phrase %q for %q fails the appropriateness filter", p, key))
			default:
				phrases = append(phrases, p)
			}
		}
		if len(phrases) == 0 {
			problems = append(problems, fmt.Sprintf("status type %q has no phrases", key))
		}

		c.order = append(c.order, key)
		c.descriptions[key] = e.Description
		c.phrases[key] = phrases
	}

	if len(c.order) == 0 {
		problems = append(problems, "catalog has no status types")
	}

	if len(problems) > 0 {
		return nil, goerrors.New("invalid catalog: "+strings.Join(problems, "; "), goerrors.CategoryValidation).
			WithTextCode(catalogInvalidCode)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaultEntries, defaultDenylist)
	if err != nil {
		panic(err)
	}
	return c
}

// Describe returns the human-readable description, or "" for unknown types.
func (c *Catalog) Describe(t StatusType) string {
	return c.descriptions[t]
}

// PhrasesFor returns a copy of the canned phrases for t.
func (c *Catalog) PhrasesFor(t StatusType) []string {
	src := c.phrases[t]
	if len(src) == 0 {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// IsValidType reports whether text is a known key. Matching is exact and
// case-sensitive; callers normalize first.
func (c *Catalog) IsValidType(text string) bool {
	return c.has(StatusType(text))
}

// Types returns every status type in declaration order.
func (c *Catalog) Types() []StatusType {
	out := make([]StatusType, len(c.order))
	copy(out, c.order)
	return out
}

// Denylist returns a copy of the lowercase denylist terms.
func (c *Catalog) Denylist() []string {
	out := make([]string, len(c.denylist))
	copy(out, c.denylist)
	return out
}

func (c *Catalog) has(t StatusType) bool {
	_, ok := c.descriptions[t]
	return ok
}

// file is the on-disk HJSON layout. Any section that is present replaces
// the built-in one wholesale.
type file struct {
	Order       []string            `json:"order"`
	StatusTypes map[string]string   `json:"status_types"`
	Phrases     map[string][]string `json:"phrases"`
	Denylist    []string            `json:"denylist"`
}

// Load reads an HJSON catalog file layered over the built-in defaults.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes HJSON catalog data layered over the built-in defaults.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := hjson.Unmarshal(data, &f); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "parse catalog").
			WithTextCode(catalogInvalidCode)
	}

	descriptions := make(map[StatusType]string, len(defaultEntries))
	phrases := make(map[StatusType][]string, len(defaultEntries))
	order := make([]StatusType, 0, len(defaultEntries))
	for _, e := range defaultEntries {
		order = append(order, e.Type)
		descriptions[e.Type] = e.Description
		phrases[e.Type] = e.Phrases
	}

	if len(f.StatusTypes) > 0 {
		descriptions = make(map[StatusType]string, len(f.StatusTypes))
		for k, v := range f.StatusTypes {
			descriptions[StatusType(k)] = v
		}
		order = fileOrder(f.Order, f.StatusTypes)
	}
	if len(f.Phrases) > 0 {
		phrases = make(map[StatusType][]string, len(f.Phrases))
		for k, v := range f.Phrases {
			phrases[StatusType(k)] = v
		}
		for k := range phrases {
			if _, ok := descriptions[k]; !ok {
				return nil, goerrors.New(fmt.Sprintf("invalid catalog: phrases for undeclared status type %q", k), goerrors.CategoryValidation).
					WithTextCode(catalogInvalidCode)
			}
		}
	}
	denylist := defaultDenylist
	if f.Denylist != nil {
		denylist = f.Denylist
	}

	entries := make([]Entry, 0, len(order))
	for _, t := range order {
		entries = append(entries, Entry{Type: t, Description: descriptions[t], Phrases: phrases[t]})
	}
	return New(entries, denylist)
}

// fileOrder honours an explicit order list and appends any remaining keys sorted.
func fileOrder(explicit []string, declared map[string]string) []StatusType {
	seen := make(map[string]bool, len(declared))
	out := make([]StatusType, 0, len(declared))
	for _, k := range explicit {
		if _, ok := declared[k]; ok && !seen[k] {
			seen[k] = true
			out = append(out, StatusType(k))
		}
	}

	rest := make([]string, 0, len(declared))
	for k := range declared {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		out = append(out, StatusType(k))
	}
	return out
}

package pipeline

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
)

// anchorIDs generates heading ids for one conversion: lowercase words
// joined by hyphens, with -1, -2... appended on collision.
type anchorIDs struct {
	used map[string]bool
}

func newAnchorIDs() *anchorIDs {
	return &anchorIDs{used: make(map[string]bool)}
}

// Generate implements parser.IDs.
func (a *anchorIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	base := Slugify(string(value))
	if base == "" {
		base = "section"
	}

	id := base
	for i := 1; a.used[id]; i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	a.used[id] = true
	return []byte(id)
}

// Put implements parser.IDs.
func (a *anchorIDs) Put(value []byte) {
	a.used[string(value)] = true
}

var _ parser.IDs = (*anchorIDs)(nil)

// Slugify lowercases text, joins whitespace-separated words with hyphens
// and drops anything that is not a letter, digit, hyphen or underscore.
func Slugify(text string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsSpace(r):
			pendingSep = true
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

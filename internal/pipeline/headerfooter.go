package pipeline

import (
	"html"
	"regexp"
	"strings"
)

// Default header and footer slot text.
const (
	DefaultFooterLeft  = "Page {page} of {total}"
	DefaultFooterRight = "{date}"
)

// Slots holds the left, center and right text of a header or footer row.
// Each slot may contain {title}, {page}, {total} and {date}.
type Slots struct {
	Left   string
	Center string
	Right  string
}

// IsCustom reports whether any slot has non-blank text.
func (s Slots) IsCustom() bool {
	return strings.TrimSpace(s.Left) != "" ||
		strings.TrimSpace(s.Center) != "" ||
		strings.TrimSpace(s.Right) != ""
}

// ResolveSlots applies the defaults to each side independently. A side
// with any custom slot is used as given; otherwise the header shows the
// title in the center and the footer shows the page count on the left and
// the date on the right.
func ResolveSlots(header, footer Slots, title string) (Slots, Slots) {
	if !header.IsCustom() {
		header = Slots{Center: title}
	}
	if !footer.IsCustom() {
		footer = Slots{Left: DefaultFooterLeft, Right: DefaultFooterRight}
	}
	return header, footer
}

var slotToken = regexp.MustCompile(`(?i)\{(title|page|total|date)\}`)

// Markup the rendering engine fills in when printing each page.
var engineTokens = map[string]string{
	"page":  `<span class="pageNumber"></span>`,
	"total": `<span class="totalPages"></span>`,
	"date":  `<span class="date"></span>`,
}

// RenderSlot escapes text for HTML and expands its tokens: {title} becomes
// the escaped title, {page}, {total} and {date} become engine markup.
// Tokens are matched case-insensitively.
func RenderSlot(text, title string) string {
	var b strings.Builder
	last := 0
	for _, m := range slotToken.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(html.EscapeString(text[last:m[0]]))
		name := strings.ToLower(text[m[2]:m[3]])
		if name == "title" {
			b.WriteString(html.EscapeString(title))
		} else {
			b.WriteString(engineTokens[name])
		}
		last = m[1]
	}
	b.WriteString(html.EscapeString(text[last:]))
	return b.String()
}

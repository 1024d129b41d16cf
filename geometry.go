package inkpress

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// HeaderFooterMargin is the top and bottom margin reserved for the running
// header and footer rows.
const HeaderFooterMargin = "18mm"

// PaperSize is a sheet size in inches.
type PaperSize struct {
	Width  float64
	Height float64
}

var papers = map[string]PaperSize{
	"letter":  {8.5, 11},
	"legal":   {8.5, 14},
	"tabloid": {11, 17},
	"ledger":  {17, 11},
	"a0":      {33.1, 46.8},
	"a1":      {23.4, 33.1},
	"a2":      {16.54, 23.4},
	"a3":      {11.7, 16.54},
	"a4":      {8.27, 11.7},
	"a5":      {5.83, 8.27},
	"a6":      {4.13, 5.83},
}

// LookupPaper returns the size of a named paper format, case-insensitively.
func LookupPaper(name string) (PaperSize, error) {
	size, ok := papers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return PaperSize{}, fmt.Errorf("%w: %q (use Letter, Legal, Tabloid, Ledger or A0-A6)", ErrInvalidPaper, name)
	}
	return size, nil
}

var lengthPattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?|\.\d+)\s*(px|in|cm|mm)?\s*$`)

var inchesPerUnit = map[string]float64{
	"px": 1.0 / 96,
	"in": 1,
	"cm": 1 / 2.54,
	"mm": 1 / 25.4,
}

// ParseLength converts a CSS-like length to inches. A number without a unit
// is read as pixels.
func ParseLength(value string) (float64, error) {
	m := lengthPattern.FindStringSubmatch(strings.ToLower(value))
	if m == nil {
		return 0, fmt.Errorf("%w: %q (use a length such as 16mm, 0.5in, 1cm or 48px)", ErrInvalidMargin, value)
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrInvalidMargin, value, err)
	}
	unit := m[2]
	if unit == "" {
		unit = "px"
	}
	return n * inchesPerUnit[unit], nil
}

// Margins holds page margins in inches.
type Margins struct {
	Top, Right, Bottom, Left float64
}

// ResolveMargins applies the margin policy. With header and footer rows the
// top and bottom margins are HeaderFooterMargin and the sides use margin.
// Without them every side uses margin, except that the github-dark theme
// prints edge to edge when margin is left at DefaultMargin.
func ResolveMargins(theme, margin string, headerFooter bool) (Margins, error) {
	if !headerFooter && theme == "github-dark" && margin == DefaultMargin {
		margin = "0mm"
	}

	side, err := ParseLength(margin)
	if err != nil {
		return Margins{}, err
	}
	m := Margins{Top: side, Right: side, Bottom: side, Left: side}

	if headerFooter {
		edge, err := ParseLength(HeaderFooterMargin)
		if err != nil {
			return Margins{}, err
		}
		m.Top, m.Bottom = edge, edge
	}
	return m, nil
}

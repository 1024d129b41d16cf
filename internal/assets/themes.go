package assets

import (
	"fmt"
	"strings"
)

// DefaultTheme is used when no theme is requested.
const DefaultTheme = "clean"

// Theme binds a theme name to its base stylesheet and chroma style.
type Theme struct {
	Name      string
	Base      string // markdown-light or markdown-dark
	Highlight string // chroma style name
	Dark      bool
}

// RuleColor is the color of the header and footer separator lines.
func (t Theme) RuleColor() string {
	if t.Dark {
		return "#2a3040"
	}
	return "#d0d7de"
}

var themes = []Theme{
	{Name: "clean", Base: "markdown-light", Highlight: "github"},
	{Name: "serif", Base: "markdown-light", Highlight: "github"},
	{Name: "academic", Base: "markdown-light", Highlight: "github"},
	{Name: "github-dark", Base: "markdown-dark", Highlight: "github-dark", Dark: true},
}

// ThemeNames returns the supported theme names in display order.
func ThemeNames() []string {
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}

// LookupTheme returns the theme called name. The empty name selects
// DefaultTheme. Unknown names return ErrUnknownTheme.
func LookupTheme(name string) (Theme, error) {
	if name == "" {
		name = DefaultTheme
	}
	for _, t := range themes {
		if t.Name == name {
			return t, nil
		}
	}
	return Theme{}, fmt.Errorf("%w %q: use %s", ErrUnknownTheme, name, themeList())
}

// themeList renders "a, b, c, or d".
func themeList() string {
	names := ThemeNames()
	if len(names) < 2 {
		return strings.Join(names, "")
	}
	return strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
}

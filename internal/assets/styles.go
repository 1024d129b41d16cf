package assets

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Bundled stylesheet names shared by every theme.
const (
	MathStyle  = "math"
	PrintStyle = "print"
)

// StyleComposer builds the CSS bundle for a theme.
type StyleComposer struct {
	loader   AssetLoader
	readFile func(string) ([]byte, error)
}

// NewStyleComposer creates a StyleComposer reading bundled styles from loader.
func NewStyleComposer(loader AssetLoader) *StyleComposer {
	return &StyleComposer{loader: loader, readFile: os.ReadFile}
}

// Compose returns base, math, highlight, print and theme CSS followed by
// each file of extraCSS in order, separated by blank lines.
//
// An unknown theme returns ErrUnknownTheme, an unreadable extra file
// ErrCSSNotFound and a missing bundled stylesheet ErrMissingAsset.
func (c *StyleComposer) Compose(themeName string, extraCSS []string) (string, error) {
	theme, err := LookupTheme(themeName)
	if err != nil {
		return "", err
	}

	blocks := make([]string, 0, 5+len(extraCSS))

	for _, name := range []string{theme.Base, MathStyle} {
		css, err := c.bundled(name)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, css)
	}

	highlight, err := HighlightCSS(theme.Highlight)
	if err != nil {
		return "", err
	}
	blocks = append(blocks, highlight)

	for _, name := range []string{PrintStyle, theme.Name} {
		css, err := c.bundled(name)
		if err != nil {
			return "", err
		}
		blocks = append(blocks, css)
	}

	for _, path := range extraCSS {
		data, err := c.readFile(path) // #nosec G304 -- user-selected stylesheet
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrCSSNotFound, path, err)
		}
		blocks = append(blocks, string(data))
	}

	return strings.Join(blocks, "\n\n"), nil
}

// CheckCSSFiles verifies every path is a readable regular file.
func CheckCSSFiles(paths []string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrCSSNotFound, path)
		}
		if info.IsDir() {
			return fmt.Errorf("%w: %s is a directory", ErrCSSNotFound, path)
		}
	}
	return nil
}

func (c *StyleComposer) bundled(name string) (string, error) {
	css, err := c.loader.LoadStyle(name)
	if err == nil {
		return css, nil
	}
	if errors.Is(err, ErrStyleNotFound) {
		return "", fmt.Errorf("%w: stylesheet %q", ErrMissingAsset, name)
	}
	return "", err
}

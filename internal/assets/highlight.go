package assets

import (
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
)

// HighlightCSS generates the class-based stylesheet for a chroma style.
// The classes match the markup produced by goldmark-highlighting with
// chromahtml.WithClasses(true).
func HighlightCSS(styleName string) (string, error) {
	style, ok := styles.Registry[styleName]
	if !ok {
		return "", fmt.Errorf("%w: highlight style %q", ErrMissingAsset, styleName)
	}

	var buf strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, style); err != nil {
		return "", fmt.Errorf("%w: highlight style %q: %v", ErrMissingAsset, styleName, err)
	}
	return buf.String(), nil
}

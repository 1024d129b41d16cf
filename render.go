package inkpress

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-inkpress/internal/pipeline"
)

// Rendering engines.
const (
	EngineRod      = "rod"
	EngineChromedp = "chromedp"
)

// Engines lists the supported rendering engines, default first.
var Engines = []string{EngineRod, EngineChromedp}

// Rasterizer prints a standalone HTML document to PDF.
// Implementations launch one engine per call and release it before returning.
type Rasterizer interface {
	Rasterize(ctx context.Context, document string, opts PrintOptions) ([]byte, error)
}

// PrintOptions is the page layout handed to the rendering engine.
type PrintOptions struct {
	Paper          PaperSize
	Margins        Margins
	HeaderFooter   bool
	HeaderTemplate string
	FooterTemplate string
}

// emptyTemplate blanks the engine's built-in header and footer.
const emptyTemplate = pipeline.EmptyTemplate

// imagesReady resolves once every image has loaded or failed.
const imagesReady = `() => Promise.all(Array.from(document.images).map((img) => {
	if (img.complete) return Promise.resolve();
	return new Promise((resolve) => {
		img.addEventListener('load', resolve, { once: true });
		img.addEventListener('error', resolve, { once: true });
	});
}))`

// newRasterizer returns the Rasterizer for a named engine.
func newRasterizer(engine string, logger *zap.Logger) (Rasterizer, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineRod:
		return newRodRasterizer(logger), nil
	case EngineChromedp:
		return newChromedpRasterizer(logger), nil
	default:
		return nil, fmt.Errorf("%w: %q (use %s)", ErrUnknownEngine, engine, strings.Join(Engines, " or "))
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

package inkpress

import (
	"errors"

	"github.com/alnah/go-inkpress/internal/assets"
	"github.com/alnah/go-inkpress/internal/pipeline"
)

// Sentinel errors for library operations.
var (
	ErrHTMLConversion = pipeline.ErrHTMLConversion
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageLoad       = errors.New("failed to load page")
	ErrComposition    = errors.New("document composition failed")

	// Page layout validation errors.
	ErrInvalidPaper  = errors.New("invalid paper size")
	ErrInvalidMargin = errors.New("invalid margin")
	ErrUnknownEngine = errors.New("unknown rendering engine")

	// Style errors.
	ErrUnknownTheme  = assets.ErrUnknownTheme
	ErrCSSNotFound   = assets.ErrCSSNotFound
	ErrMissingAsset  = assets.ErrMissingAsset
	ErrInvalidAssets = errors.New("invalid asset path")
)

package assets

// Names of the bundled templates.
const (
	DocumentTemplate     = "document"
	HeaderFooterTemplate = "headerfooter"
	EditorTemplate       = "editor"
)

// AssetLoader loads CSS styles and HTML templates by name.
type AssetLoader interface {
	// LoadStyle returns the stylesheet {name}.css.
	// Returns ErrStyleNotFound or ErrInvalidAssetName.
	LoadStyle(name string) (string, error)

	// LoadTemplate returns the template {name}.html.
	// Returns ErrTemplateNotFound or ErrInvalidAssetName.
	LoadTemplate(name string) (string, error)
}

// assetKind describes where one kind of asset lives inside a base directory.
type assetKind struct {
	dir      string
	ext      string
	notFound error
}

var (
	styleKind    = assetKind{dir: "styles", ext: ".css", notFound: ErrStyleNotFound}
	templateKind = assetKind{dir: "templates", ext: ".html", notFound: ErrTemplateNotFound}
)

package inkpress

import "github.com/alnah/go-inkpress/internal/pipeline"

// Library defaults applied to zero-valued RenderOptions fields.
const (
	DefaultTheme  = "clean"
	DefaultPaper  = "Letter"
	DefaultMargin = "16mm"
	DefaultTitle  = "Markdown Document"
)

// Slots holds the left, center and right text of a header or footer.
// Each slot may contain the {title}, {page}, {total} and {date} tokens.
type Slots = pipeline.Slots

// RenderOptions contains the parameters of one conversion.
type RenderOptions struct {
	Markdown string   // Markdown source, may be empty
	BaseDir  string   // Directory for relative image paths (default: working directory)
	Theme    string   // clean, serif, academic or github-dark (default: clean)
	Paper    string   // Letter, Legal, Tabloid, Ledger, A0-A6 (default: Letter)
	Margin   string   // Length with px, in, cm or mm unit (default: 16mm)
	NoTOC    bool     // Leave [[toc]] placeholders as text
	CSS      []string // Extra stylesheet files, appended in order
	Title    string   // Overrides the title found in the document

	HeaderFooter bool  // Print running header and footer rows
	Header       Slots // Custom header row; all three slots blank uses the default header
	Footer       Slots // Custom footer row; all three slots blank uses the default footer
}

func (o RenderOptions) theme() string {
	if o.Theme == "" {
		return DefaultTheme
	}
	return o.Theme
}

func (o RenderOptions) paper() string {
	if o.Paper == "" {
		return DefaultPaper
	}
	return o.Paper
}

func (o RenderOptions) margin() string {
	if o.Margin == "" {
		return DefaultMargin
	}
	return o.Margin
}

// Document is the self-contained HTML produced from the Markdown source.
type Document struct {
	Fragment string // Body HTML with images resolved
	Title    string // Resolved document title
	CSS      string // Composed stylesheet bundle
	HTML     string // Standalone page handed to the rendering engine
}

// Result contains the output of a conversion.
type Result struct {
	Document *Document
	PDF      []byte
}

package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/alnah/go-inkpress/internal/assets"
)

// ErrTemplate indicates a page template could not be loaded or executed.
var ErrTemplate = errors.New("page template error")

// EmptyTemplate is the header or footer used when they are disabled.
const EmptyTemplate = "<span></span>"

// PageComposer wraps an HTML fragment into a standalone document and builds
// the header and footer templates handed to the rendering engine.
type PageComposer struct {
	document *template.Template
	row      *template.Template
}

// NewPageComposer parses the document and header/footer templates.
func NewPageComposer(loader assets.AssetLoader) (*PageComposer, error) {
	document, err := parseTemplate(loader, assets.DocumentTemplate)
	if err != nil {
		return nil, err
	}
	row, err := parseTemplate(loader, assets.HeaderFooterTemplate)
	if err != nil {
		return nil, err
	}
	return &PageComposer{document: document, row: row}, nil
}

func parseTemplate(loader assets.AssetLoader, name string) (*template.Template, error) {
	src, err := loader.LoadTemplate(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	tmpl, err := template.New(name).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplate, name, err)
	}
	return tmpl, nil
}

type documentData struct {
	Title string
	CSS   template.CSS
	Body  template.HTML
}

// Compose returns a complete HTML document with the escaped title, the CSS
// in an inline style element and fragment inside article.markdown-body.
func (c *PageComposer) Compose(fragment, css, title string) (string, error) {
	var buf bytes.Buffer
	// #nosec G203 -- raw HTML in Markdown and user stylesheets are allowed
	err := c.document.Execute(&buf, documentData{
		Title: title,
		CSS:   template.CSS(sanitizeCSS(css)),
		Body:  template.HTML(fragment),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return buf.String(), nil
}

// sanitizeCSS keeps stylesheet text from closing the style element.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

type rowData struct {
	Rule   template.CSS
	Left   template.HTML
	Center template.HTML
	Right  template.HTML
}

// HeaderTemplate renders the header row: slots expanded by RenderSlot and
// a rule of ruleColor below.
func (c *PageComposer) HeaderTemplate(slots Slots, title, ruleColor string) (string, error) {
	return c.renderRow(slots, title, "border-bottom:1px solid "+ruleColor+";padding-bottom:2mm;")
}

// FooterTemplate renders the footer row with a rule of ruleColor above.
func (c *PageComposer) FooterTemplate(slots Slots, title, ruleColor string) (string, error) {
	return c.renderRow(slots, title, "border-top:1px solid "+ruleColor+";padding-top:2mm;")
}

func (c *PageComposer) renderRow(slots Slots, title, rule string) (string, error) {
	var buf bytes.Buffer
	// #nosec G203 -- RenderSlot escapes literal text
	err := c.row.Execute(&buf, rowData{
		Rule:   template.CSS(rule),
		Left:   template.HTML(RenderSlot(slots.Left, title)),
		Center: template.HTML(RenderSlot(slots.Center, title)),
		Right:  template.HTML(RenderSlot(slots.Right, title)),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return buf.String(), nil
}

package pipeline

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// attributeSyntax applies {.class #id key=value} blocks beyond headings:
// a block written right after an image, link or code span applies to that
// element, and a block ending a paragraph (after a space) applies to the
// paragraph. Goldmark's parser.WithAttribute covers headings.
type attributeSyntax struct{}

func (attributeSyntax) Extend(md goldmark.Markdown) {
	md.Parser().AddOptions(
		parser.WithASTTransformers(util.Prioritized(attributeTransformer{}, 700)),
	)
}

type attributeTransformer struct{}

func (attributeTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	var inlines []ast.Node
	var paragraphs []*ast.Paragraph
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Image, *ast.Link, *ast.CodeSpan:
			inlines = append(inlines, n)
		case *ast.Paragraph:
			paragraphs = append(paragraphs, n)
		}
		return ast.WalkContinue, nil
	})

	for _, n := range inlines {
		applyInlineAttributes(n, source)
	}
	for _, p := range paragraphs {
		applyParagraphAttributes(p, source)
	}
}

// applyInlineAttributes consumes an attribute block at the very start of
// the text following n.
func applyInlineAttributes(n ast.Node, source []byte) {
	t, ok := n.NextSibling().(*ast.Text)
	if !ok || t.IsRaw() {
		return
	}
	value := t.Segment.Value(source)
	if len(value) == 0 || value[0] != '{' {
		return
	}

	attrs, consumed, ok := parseAttributeBlock(value)
	if !ok {
		return
	}
	setAttributes(n, attrs)

	if consumed == len(value) && !t.SoftLineBreak() && !t.HardLineBreak() {
		parent := t.Parent()
		parent.RemoveChild(parent, t)
		return
	}
	t.Segment = t.Segment.WithStart(t.Segment.Start + consumed)
}

// applyParagraphAttributes consumes an attribute block closing the last
// line of p. The block must follow some text and a space.
func applyParagraphAttributes(p *ast.Paragraph, source []byte) {
	t, ok := p.LastChild().(*ast.Text)
	if !ok || t.IsRaw() {
		return
	}
	value := t.Segment.Value(source)
	if len(value) == 0 || value[len(value)-1] != '}' {
		return
	}

	start := bytes.LastIndexByte(value, '{')
	if start <= 0 || (value[start-1] != ' ' && value[start-1] != '\t') {
		return
	}

	attrs, consumed, ok := parseAttributeBlock(value[start:])
	if !ok || start+consumed != len(value) {
		return
	}
	setAttributes(p, attrs)

	stop := t.Segment.Start + start
	for stop > t.Segment.Start && (source[stop-1] == ' ' || source[stop-1] == '\t') {
		stop--
	}
	t.Segment = t.Segment.WithStop(stop)
}

// parseAttributeBlock parses a leading {...} block and reports how many
// bytes it spans. Empty blocks are rejected.
func parseAttributeBlock(value []byte) (parser.Attributes, int, bool) {
	r := text.NewReader(value)
	attrs, ok := parser.ParseAttributes(r)
	if !ok || len(attrs) == 0 {
		return nil, 0, false
	}
	_, pos := r.Position()
	return attrs, pos.Start, true
}

func setAttributes(n ast.Node, attrs parser.Attributes) {
	for _, attr := range attrs {
		n.SetAttribute(attr.Name, attr.Value)
	}
}

package pipeline

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// TOCPlaceholder is the paragraph replaced by the table of contents.
const TOCPlaceholder = "[[toc]]"

// tocMaxLevel is the deepest heading level listed in the table of contents.
const tocMaxLevel = 3

// tocEnabledKey marks a parse where the placeholder should be expanded.
var tocEnabledKey = parser.NewContextKey()

// tableOfContents replaces a [[toc]] paragraph with a nested list of links
// to the level 1-3 headings of the document.
type tableOfContents struct{}

func (tableOfContents) Extend(md goldmark.Markdown) {
	md.Parser().AddOptions(
		parser.WithASTTransformers(util.Prioritized(tocTransformer{}, 600)),
	)
	md.Renderer().AddOptions(
		renderer.WithNodeRenderers(util.Prioritized(tocRenderer{}, 600)),
	)
}

var kindTOC = ast.NewNodeKind("TableOfContents")

type tocEntry struct {
	level    int
	id       string
	title    string
	children []*tocEntry
}

type tocBlock struct {
	ast.BaseBlock
	root *tocEntry
}

func (n *tocBlock) Kind() ast.NodeKind { return kindTOC }

func (n *tocBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type tocTransformer struct{}

func (tocTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	if enabled, _ := pc.Get(tocEnabledKey).(bool); !enabled {
		return
	}
	source := reader.Source()

	var placeholders []*ast.Paragraph
	root := &tocEntry{}
	stack := []*tocEntry{root}

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Paragraph:
			if isTOCPlaceholder(node, source) {
				placeholders = append(placeholders, node)
			}
			return ast.WalkSkipChildren, nil
		case *ast.Heading:
			if node.Level > tocMaxLevel {
				return ast.WalkSkipChildren, nil
			}
			entry := &tocEntry{level: node.Level, title: nodeText(node, source)}
			if id, ok := node.AttributeString("id"); ok {
				if b, ok := id.([]byte); ok {
					entry.id = string(b)
				}
			}
			for len(stack) > 1 && stack[len(stack)-1].level >= entry.level {
				stack = stack[:len(stack)-1]
			}
			parent := stack[len(stack)-1]
			parent.children = append(parent.children, entry)
			stack = append(stack, entry)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	for _, p := range placeholders {
		p.Parent().ReplaceChild(p.Parent(), p, &tocBlock{root: root})
	}
}

// isTOCPlaceholder reports whether p holds only the placeholder text.
func isTOCPlaceholder(p *ast.Paragraph, source []byte) bool {
	for c := p.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*ast.Text); !ok {
			return false
		}
	}
	return strings.EqualFold(strings.TrimSpace(nodeText(p, source)), TOCPlaceholder)
}

type tocRenderer struct{}

func (tocRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(kindTOC, renderTOC)
}

func renderTOC(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*tocBlock)
	_, _ = w.WriteString(`<div class="toc">`)
	writeTOCList(w, n.root.children)
	_, _ = w.WriteString("</div>\n")
	return ast.WalkSkipChildren, nil
}

func writeTOCList(w util.BufWriter, entries []*tocEntry) {
	if len(entries) == 0 {
		return
	}
	_, _ = w.WriteString("<ul>")
	for _, e := range entries {
		_, _ = w.WriteString(`<li><a href="#`)
		_, _ = w.Write(util.EscapeHTML([]byte(e.id)))
		_, _ = w.WriteString(`">`)
		_, _ = w.Write(util.EscapeHTML([]byte(e.title)))
		_, _ = w.WriteString("</a>")
		writeTOCList(w, e.children)
		_, _ = w.WriteString("</li>")
	}
	_, _ = w.WriteString("</ul>")
}

// nodeText concatenates the plain text below n. Soft line breaks become
// spaces.
func nodeText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

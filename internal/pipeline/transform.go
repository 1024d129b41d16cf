package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

// ErrHTMLConversion indicates Markdown could not be converted to HTML.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// DocumentTransformer converts Markdown to an HTML fragment.
type DocumentTransformer interface {
	Transform(ctx context.Context, markdown string, toc bool) (string, error)
}

// Transformer is the goldmark-based DocumentTransformer.
//
// Raw HTML passes through. Enabled syntax: linkify, typographer, tables,
// strikethrough, heading anchors, {#id .class} attributes on headings,
// paragraphs, images, links and code spans, footnotes,
// task lists, definition lists, $ and $$ math rendered to MathML, the
// [[toc]] placeholder and highlighted fenced code.
type Transformer struct {
	md     goldmark.Markdown
	noMath goldmark.Markdown
	logger *zap.Logger
}

// NewTransformer creates a Transformer. A nil logger discards output.
func NewTransformer(logger *zap.Logger) *Transformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{
		md:     newMarkdown(true),
		noMath: newMarkdown(false),
		logger: logger,
	}
}

func newMarkdown(withMath bool) goldmark.Markdown {
	extensions := []goldmark.Extender{
		extension.Linkify,
		extension.Typographer,
		extension.Table,
		extension.Strikethrough,
		extension.Footnote,
		extension.DefinitionList,
		attributeSyntax{},
		taskList{},
		tableOfContents{},
		highlighting.NewHighlighting(
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		),
	}
	if withMath {
		extensions = append(extensions, isolatedMath{ext: treeblood.MathML()})
	}

	return goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithAttribute(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
		),
	)
}

// Transform converts markdown to an HTML fragment. When toc is true a
// [[toc]] paragraph becomes the table of contents.
//
// An expression that cannot be typeset is written as escaped TeX in a
// math-error element; the rest of the document still renders. Only a
// failure outside rendering, such as a parser panic, converts the document
// again without math support.
//
// Goldmark has no context support; cancellation is honored with a
// goroutine and select.
func (t *Transformer) Transform(ctx context.Context, markdown string, toc bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	go func() {
		source := []byte(Preprocess(markdown))

		out, err := convert(t.md, source, toc)
		if err != nil {
			t.logger.Debug("retrying conversion without math", zap.Error(err))
			out, err = convert(t.noMath, source, toc)
		}
		if err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: out}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}

// convert runs one goldmark conversion with fresh heading ids, turning a
// panic into an error.
func convert(md goldmark.Markdown, source []byte, toc bool) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	pc := parser.NewContext(parser.WithIDs(newAnchorIDs()))
	pc.Set(tocEnabledKey, toc)

	var buf bytes.Buffer
	if err := md.Convert(source, &buf, parser.WithContext(pc)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var _ DocumentTransformer = (*Transformer)(nil)

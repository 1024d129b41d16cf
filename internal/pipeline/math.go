package pipeline

import (
	"bufio"
	"bytes"
	"fmt"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// isolatedMath installs a math extension whose node renderers fail one
// expression at a time: when rendering a node errors or panics, nothing it
// wrote is kept and the expression source is written as escaped text in a
// math-error element instead.
type isolatedMath struct {
	ext goldmark.Extender
}

func (m isolatedMath) Extend(md goldmark.Markdown) {
	m.ext.Extend(&guardedMarkdown{Markdown: md})
}

// guardedMarkdown hands extensions a renderer that wraps every node
// renderer they add.
type guardedMarkdown struct {
	goldmark.Markdown
}

func (g *guardedMarkdown) Renderer() renderer.Renderer {
	return &guardedRenderer{Renderer: g.Markdown.Renderer()}
}

type guardedRenderer struct {
	renderer.Renderer
}

func (g *guardedRenderer) AddOptions(opts ...renderer.Option) {
	for _, opt := range opts {
		cfg := renderer.NewConfig()
		opt.SetConfig(cfg)
		if len(cfg.NodeRenderers) == 0 {
			g.Renderer.AddOptions(opt)
			continue
		}

		wrapped := make([]util.PrioritizedValue, 0, len(cfg.NodeRenderers))
		for _, v := range cfg.NodeRenderers {
			if nr, ok := v.Value.(renderer.NodeRenderer); ok {
				wrapped = append(wrapped, util.Prioritized(&guardedNodeRenderer{inner: nr}, v.Priority))
			}
		}
		g.Renderer.AddOptions(renderer.WithNodeRenderers(wrapped...))
		for name, value := range cfg.Options {
			g.Renderer.AddOptions(renderer.WithOption(name, value))
		}
	}
}

type guardedNodeRenderer struct {
	inner renderer.NodeRenderer

	// failed holds nodes whose entering call failed, so the matching
	// exiting call is skipped. Shared by concurrent conversions.
	failed sync.Map
}

func (g *guardedNodeRenderer) SetOption(name renderer.OptionName, value any) {
	if so, ok := g.inner.(renderer.SetOptioner); ok {
		so.SetOption(name, value)
	}
}

func (g *guardedNodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	g.inner.RegisterFuncs(registerFunc(func(kind ast.NodeKind, fn renderer.NodeRendererFunc) {
		reg.Register(kind, g.guard(fn))
	}))
}

type registerFunc func(ast.NodeKind, renderer.NodeRendererFunc)

func (f registerFunc) Register(kind ast.NodeKind, fn renderer.NodeRendererFunc) {
	f(kind, fn)
}

func (g *guardedNodeRenderer) guard(fn renderer.NodeRendererFunc) renderer.NodeRendererFunc {
	return func(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if _, failed := g.failed.LoadAndDelete(n); failed {
				return ast.WalkContinue, nil
			}
		}

		var buf bytes.Buffer
		bw := bufio.NewWriter(&buf)
		status, err := renderGuarded(fn, bw, source, n, entering)
		if err == nil {
			err = bw.Flush()
		}
		if err != nil {
			if entering {
				g.failed.Store(n, struct{}{})
				writeMathSource(w, source, n)
			}
			return ast.WalkSkipChildren, nil
		}

		_, _ = w.Write(buf.Bytes())
		return status, nil
	}
}

func renderGuarded(fn renderer.NodeRendererFunc, w util.BufWriter, source []byte, n ast.Node, entering bool) (status ast.WalkStatus, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(w, source, n, entering)
}

// writeMathSource writes the TeX of n, delimiters included, as escaped text.
func writeMathSource(w util.BufWriter, source []byte, n ast.Node) {
	var tex bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			tex.Write(seg.Value(source))
		}
		_, _ = w.WriteString(`<pre class="math-error">$$`)
		_, _ = w.Write(util.EscapeHTML(tex.Bytes()))
		_, _ = w.WriteString("$$</pre>\n")
		return
	}

	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			tex.Write(t.Segment.Value(source))
		}
	}
	_, _ = w.WriteString(`<code class="math-error">$`)
	_, _ = w.Write(util.EscapeHTML(tex.Bytes()))
	_, _ = w.WriteString("$</code>")
}

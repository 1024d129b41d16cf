package pipeline

import (
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// taskList renders "- [ ] item" as a disabled checkbox bound to a label
// wrapping the item text. goldmark parses the checkbox; this extension
// reshapes and renders it.
type taskList struct{}

func (taskList) Extend(md goldmark.Markdown) {
	md.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(extension.NewTaskCheckBoxParser(), 0),
		),
		parser.WithASTTransformers(
			util.Prioritized(taskListTransformer{}, 500),
		),
	)
	md.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(taskListRenderer{}, 500),
		),
	)
}

var (
	kindTaskCheckBox = ast.NewNodeKind("TaskItemCheckBox")
	kindTaskLabel    = ast.NewNodeKind("TaskItemLabel")
)

type taskCheckBox struct {
	ast.BaseInline
	ID      string
	Checked bool
}

func (n *taskCheckBox) Kind() ast.NodeKind { return kindTaskCheckBox }

func (n *taskCheckBox) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"ID":      n.ID,
		"Checked": strconv.FormatBool(n.Checked),
	}, nil)
}

type taskLabel struct {
	ast.BaseInline
	For string
}

func (n *taskLabel) Kind() ast.NodeKind { return kindTaskLabel }

func (n *taskLabel) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"For": n.For}, nil)
}

type taskListTransformer struct{}

func (taskListTransformer) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	var boxes []*extast.TaskCheckBox
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if cb, ok := n.(*extast.TaskCheckBox); ok && entering {
			boxes = append(boxes, cb)
		}
		return ast.WalkContinue, nil
	})

	for i, cb := range boxes {
		block := cb.Parent()
		item, ok := block.Parent().(*ast.ListItem)
		if !ok {
			continue
		}

		id := "task-item-" + strconv.Itoa(i+1)
		item.SetAttributeString("class", []byte("task-list-item"))
		if list := item.Parent(); list != nil {
			list.SetAttributeString("class", []byte("contains-task-list"))
		}

		label := &taskLabel{For: id}
		for s := cb.NextSibling(); s != nil; {
			next := s.NextSibling()
			block.RemoveChild(block, s)
			label.AppendChild(label, s)
			s = next
		}
		block.ReplaceChild(block, cb, &taskCheckBox{ID: id, Checked: cb.IsChecked})
		block.AppendChild(block, label)
	}
}

type taskListRenderer struct{}

func (taskListRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(kindTaskCheckBox, renderTaskCheckBox)
	reg.Register(kindTaskLabel, renderTaskLabel)
}

func renderTaskCheckBox(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*taskCheckBox)
	_, _ = w.WriteString(`<input class="task-list-item-checkbox" type="checkbox" disabled id="`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.ID)))
	_ = w.WriteByte('"')
	if n.Checked {
		_, _ = w.WriteString(" checked")
	}
	_ = w.WriteByte('>')
	return ast.WalkContinue, nil
}

func renderTaskLabel(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		_, _ = w.WriteString("</label>")
		return ast.WalkContinue, nil
	}
	n := node.(*taskLabel)
	_, _ = w.WriteString(`<label class="task-list-item-label" for="`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.For)))
	_, _ = w.WriteString(`">`)
	return ast.WalkContinue, nil
}

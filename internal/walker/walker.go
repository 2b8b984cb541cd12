// Package walker runs a localization pass over a document tree.
package walker

import (
	"strings"

	"github.com/valpere/docloc/internal/doc"
	"github.com/valpere/docloc/internal/reflow"
)

// Translator resolves text units. A string unit yields a string and a
// line sequence yields a line sequence.
type Translator interface {
	Translate(text string) string
	TranslateLines(lines []string) []string
}

// Process translates root and every node reachable from it, including
// nested documents owned by embedded table cells. Nodes are only mutated
// in place. Empty text is never looked up.
func Process(root doc.Node, tr Translator) {
	doc.Walk(root, func(n doc.Node) {
		if t, ok := n.(doc.Titled); ok {
			processTitle(n, t, tr)
		}
		if b, ok := n.(doc.LineBlock); ok {
			processBlock(b, tr)
		}
		if t, ok := n.(doc.RowTable); ok {
			processTable(t, tr)
		}
		if li, ok := n.(doc.TextItem); ok {
			processListItem(li, tr)
		}
	})
}

func processTitle(n doc.Node, t doc.Titled, tr Translator) {
	raw, ok := t.RawTitle()
	if !ok {
		if d, isRoot := n.(doc.DocTitler); isRoot {
			raw, ok = d.DocTitle()
		}
	}
	if !ok || raw == "" {
		return
	}
	t.SetTitle(tr.Translate(raw))
}

func processBlock(b doc.LineBlock, tr Translator) {
	if len(b.Lines()) == 0 {
		return
	}
	lines := reflow.Lines(b.Lines(), b.ContentModel().Reflowable(), b.ApplySubs)
	b.SetLines(tr.TranslateLines(lines))
}

func processTable(t doc.RowTable, tr Translator) {
	rows := append(append([][]doc.TableCell{}, t.HeadRows()...), t.BodyRows()...)
	for _, row := range rows {
		for _, cell := range row {
			processCell(cell, tr)
		}
	}
}

func processCell(c doc.TableCell, tr Translator) {
	if c.Style() == doc.StyleEmbedded {
		if inner := c.InnerDocument(); inner != nil {
			Process(inner, tr)
		}
		return
	}
	text, ok := c.RawText()
	if !ok || text == "" {
		return
	}
	c.SetText(tr.Translate(text))
}

func processListItem(li doc.TextItem, tr Translator) {
	raw, ok := li.RawText()
	if !ok || raw == "" {
		return
	}
	lines := reflow.Lines(strings.Split(raw, "\n"), li.ContentModel().Reflowable(), li.ApplySubs)
	li.SetText(tr.Translate(strings.Join(lines, "\n")))
}

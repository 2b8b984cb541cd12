// Package markdown builds doc trees from Markdown source with goldmark and
// writes localized trees back out as Markdown.
package markdown

import (
	"bytes"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/valpere/docloc/internal/doc"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

// Subs renders a Markdown fragment to HTML. Hard line breaks render as
// <br>. A fragment that fails to render is returned unchanged.
func Subs(fragment string) string {
	var buf bytes.Buffer
	if err := md.Convert([]byte(fragment), &buf); err != nil {
		return fragment
	}
	return buf.String()
}

type appender interface {
	doc.Node
	Append(n doc.Node)
}

// Parse builds a document tree from src. A level-1 heading that opens the
// document becomes the "doctitle" attribute; other top-level headings open
// sections nested by level. Link reference definitions are kept on the
// document in source order.
func Parse(src []byte) (*doc.Document, error) {
	pc := parser.NewContext()
	root := md.Parser().Parse(text.NewReader(src), parser.WithContext(pc))
	d := doc.NewDocument()
	d.Links = linkDefs(pc.References(), src)

	type stackEntry struct {
		node  appender
		level int
	}
	stack := []stackEntry{{node: d, level: 0}}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		h, ok := n.(*ast.Heading)
		if !ok {
			appendBlock(stack[len(stack)-1].node, n, src)
			continue
		}

		title := strings.Join(rawLines(h, src), " ")
		if h.Level == 1 && n == root.FirstChild() {
			d.Attributes["doctitle"] = title
			continue
		}

		for len(stack) > 1 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		s := doc.NewSection(h.Level, title)
		stack[len(stack)-1].node.Append(s)
		stack = append(stack, stackEntry{node: s, level: h.Level})
	}

	return d, nil
}

func appendBlock(parent appender, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		parent.Append(doc.NewBlock(doc.ContextParagraph, doc.ContentSimple, rawLines(node, src), Subs))

	case *ast.FencedCodeBlock:
		b := doc.NewBlock(doc.ContextListing, doc.ContentVerbatim, rawLines(node, src), nil)
		b.Language = string(node.Language(src))
		parent.Append(b)

	case *ast.CodeBlock:
		parent.Append(doc.NewBlock(doc.ContextLiteral, doc.ContentVerbatim, rawLines(node, src), nil))

	case *ast.HTMLBlock:
		lines := rawLines(node, src)
		if node.HasClosure() {
			lines = append(lines, strings.TrimRight(string(node.ClosureLine.Value(src)), "\r\n"))
		}
		parent.Append(doc.NewBlock(doc.ContextPass, doc.ContentRaw, lines, nil))

	case *ast.ThematicBreak:
		parent.Append(doc.NewBlock(doc.ContextBreak, doc.ContentEmpty, nil, nil))

	case *ast.Blockquote:
		q := doc.NewBlock(doc.ContextQuote, doc.ContentCompound, nil, Subs)
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			appendBlock(q, c, src)
		}
		parent.Append(q)

	case *ast.Heading:
		// headings nested in containers open no section
		b := doc.NewBlock(doc.ContextHeading, doc.ContentSimple, rawLines(node, src), Subs)
		b.Level = node.Level
		parent.Append(b)

	case *ast.List:
		l := doc.NewList(node.IsOrdered())
		l.Start = node.Start
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			l.Append(listItem(c, src))
		}
		parent.Append(l)

	case *east.Table:
		parent.Append(table(node, src))
	}
}

func listItem(n ast.Node, src []byte) *doc.ListItem {
	first := n.FirstChild()
	var item *doc.ListItem
	switch first.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		item = doc.NewListItem(strings.Join(rawLines(first, src), "\n"), Subs)
		first = first.NextSibling()
	default:
		item = &doc.ListItem{}
	}
	for c := first; c != nil; c = c.NextSibling() {
		appendBlock(item, c, src)
	}
	return item
}

func table(n *east.Table, src []byte) *doc.Table {
	t := doc.NewTable()
	for r := n.FirstChild(); r != nil; r = r.NextSibling() {
		var cells []*doc.Cell
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			cells = append(cells, doc.NewTextCell(strings.Join(rawLines(c, src), " ")))
		}
		if _, isHeader := r.(*east.TableHeader); isHeader {
			t.AddHeadRow(cells...)
		} else {
			t.AddBodyRow(cells...)
		}
	}
	return t
}

// linkDefs orders references by where their definition appears in src.
// goldmark removes definitions from the tree while parsing.
func linkDefs(refs []parser.Reference, src []byte) []doc.LinkDef {
	type positioned struct {
		pos int
		def doc.LinkDef
	}
	defs := make([]positioned, 0, len(refs))
	for _, r := range refs {
		label := string(r.Label())
		pos := bytes.Index(src, []byte("["+label+"]:"))
		if pos < 0 {
			pos = len(src)
		}
		defs = append(defs, positioned{pos: pos, def: doc.LinkDef{
			Label:       label,
			Destination: string(r.Destination()),
			Title:       string(r.Title()),
		}})
	}
	sort.SliceStable(defs, func(i, j int) bool {
		if defs[i].pos != defs[j].pos {
			return defs[i].pos < defs[j].pos
		}
		return defs[i].def.Label < defs[j].def.Label
	})

	out := make([]doc.LinkDef, len(defs))
	for i, p := range defs {
		out[i] = p.def
	}
	return out
}

// rawLines returns the source lines of a block node without line endings.
func rawLines(n ast.Node, src []byte) []string {
	segs := n.Lines()
	lines := make([]string, 0, segs.Len())
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		lines = append(lines, strings.TrimRight(string(seg.Value(src)), "\r\n"))
	}
	return lines
}

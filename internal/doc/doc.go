// Package doc models a parsed document as a tree of capability-typed nodes.
// A concrete node may satisfy several capabilities at once; consumers test
// each capability on its own with a type assertion.
package doc

// ContentModel describes how a text-bearing node's lines are interpreted.
type ContentModel string

const (
	ContentSimple   ContentModel = "simple"
	ContentCompound ContentModel = "compound"
	ContentVerbatim ContentModel = "verbatim"
	ContentRaw      ContentModel = "raw"
	ContentEmpty    ContentModel = "empty"
)

// Reflowable reports whether soft-wrapped lines may be merged.
func (m ContentModel) Reflowable() bool {
	return m == ContentSimple || m == ContentCompound
}

// StyleEmbedded marks a table cell that owns a nested document.
const StyleEmbedded = "asciidoc"

// Node is any element of the tree. Children are structural children in
// document order; table cells are not among them.
type Node interface {
	Children() []Node
}

// Titled is implemented by nodes that can carry a title. The boolean
// distinguishes "no title set" from an empty title.
type Titled interface {
	RawTitle() (string, bool)
	SetTitle(title string)
}

// DocTitler is implemented by the document root only.
type DocTitler interface {
	DocTitle() (string, bool)
}

// Substituter exposes a node's own markup substitution pipeline.
type Substituter interface {
	ContentModel() ContentModel
	ApplySubs(text string) string
}

// LineBlock is a text block made of raw source lines.
type LineBlock interface {
	Substituter
	Lines() []string
	SetLines(lines []string)
}

// RowTable is a table with head and body rows.
type RowTable interface {
	HeadRows() [][]TableCell
	BodyRows() [][]TableCell
}

// TableCell is a single table cell. When Style is StyleEmbedded the cell
// owns InnerDocument and its text is never used.
type TableCell interface {
	Style() string
	RawText() (string, bool)
	SetText(text string)
	InnerDocument() Node
}

// TextItem is a list item whose text may span several lines joined by '\n'.
type TextItem interface {
	Substituter
	RawText() (string, bool)
	SetText(text string)
}

// SubsFunc adapts a function to a markup renderer.
type SubsFunc func(text string) string

// Walk calls fn for n and every node below it in pre-order. Nested
// documents owned by table cells are not entered.
func Walk(n Node, fn func(Node)) {
	fn(n)
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

package doc

// Context names the kind of a Block.
type Context string

const (
	ContextParagraph Context = "paragraph"
	ContextListing   Context = "listing"
	ContextLiteral   Context = "literal"
	ContextQuote     Context = "quote"
	ContextSidebar   Context = "sidebar"
	ContextPass      Context = "pass"
	ContextBreak     Context = "thematic_break"
	// ContextHeading is a heading that opens no section, such as one
	// inside a quote or list item.
	ContextHeading Context = "heading"
)

// titled is embedded by every node that can carry a title.
type titled struct {
	title    string
	hasTitle bool
}

func (t *titled) RawTitle() (string, bool) { return t.title, t.hasTitle }

func (t *titled) SetTitle(title string) {
	t.title = title
	t.hasTitle = true
}

type container struct {
	children []Node
}

func (c *container) Children() []Node { return c.children }

// Append adds n as the last structural child.
func (c *container) Append(n Node) { c.children = append(c.children, n) }

// LinkDef is a link reference definition. Definitions are not
// translated.
type LinkDef struct {
	Label       string
	Destination string
	Title       string
}

// Document is the root of a tree, or a nested document owned by a cell.
type Document struct {
	titled
	container
	Attributes map[string]string
	Links      []LinkDef
}

func NewDocument() *Document {
	return &Document{Attributes: make(map[string]string)}
}

// DocTitle returns the "doctitle" attribute.
func (d *Document) DocTitle() (string, bool) {
	v, ok := d.Attributes["doctitle"]
	return v, ok
}

// Section is a titled container at a heading level.
type Section struct {
	titled
	container
	Level int
}

func NewSection(level int, title string) *Section {
	s := &Section{Level: level}
	s.SetTitle(title)
	return s
}

// Block is a leaf or container block. Leaf blocks hold raw source lines
// that are rendered through subs.
type Block struct {
	titled
	container
	Context Context
	// Language of a listing block, if any.
	Language string
	// Level of a heading block.
	Level int
	model    ContentModel
	lines    []string
	subs     SubsFunc
}

func NewBlock(ctx Context, model ContentModel, lines []string, subs SubsFunc) *Block {
	return &Block{Context: ctx, model: model, lines: lines, subs: subs}
}

func (b *Block) ContentModel() ContentModel { return b.model }
func (b *Block) Lines() []string            { return b.lines }
func (b *Block) SetLines(lines []string)    { b.lines = lines }

// ApplySubs renders text through the block's substitutions. A block
// without substitutions returns text unchanged.
func (b *Block) ApplySubs(text string) string {
	if b.subs == nil {
		return text
	}
	return b.subs(text)
}

// List holds ListItem children.
type List struct {
	titled
	container
	Ordered bool
	Start   int
}

func NewList(ordered bool) *List {
	return &List{Ordered: ordered, Start: 1}
}

// ListItem carries principal text plus optional nested blocks.
type ListItem struct {
	titled
	container
	text    string
	hasText bool
	subs    SubsFunc
}

func NewListItem(text string, subs SubsFunc) *ListItem {
	return &ListItem{text: text, hasText: true, subs: subs}
}

func (li *ListItem) ContentModel() ContentModel { return ContentCompound }
func (li *ListItem) RawText() (string, bool)    { return li.text, li.hasText }

func (li *ListItem) SetText(text string) {
	li.text = text
	li.hasText = true
}

func (li *ListItem) ApplySubs(text string) string {
	if li.subs == nil {
		return text
	}
	return li.subs(text)
}

// Table holds head and body rows of cells.
type Table struct {
	titled
	head [][]TableCell
	body [][]TableCell
}

func NewTable() *Table { return &Table{} }

func (t *Table) Children() []Node          { return nil }
func (t *Table) HeadRows() [][]TableCell   { return t.head }
func (t *Table) BodyRows() [][]TableCell   { return t.body }
func (t *Table) AddHeadRow(cells ...*Cell) { t.head = append(t.head, toCells(cells)) }
func (t *Table) AddBodyRow(cells ...*Cell) { t.body = append(t.body, toCells(cells)) }

func toCells(cells []*Cell) []TableCell {
	row := make([]TableCell, len(cells))
	for i, c := range cells {
		row[i] = c
	}
	return row
}

// Cell is a table cell holding either text or a nested document.
type Cell struct {
	style   string
	text    string
	hasText bool
	inner   *Document
}

// NewTextCell returns a cell with the default style.
func NewTextCell(text string) *Cell {
	return &Cell{style: "default", text: text, hasText: true}
}

// NewEmptyCell returns a cell with no text.
func NewEmptyCell() *Cell {
	return &Cell{style: "default"}
}

// NewEmbeddedCell returns a cell that owns inner.
func NewEmbeddedCell(inner *Document) *Cell {
	return &Cell{style: StyleEmbedded, inner: inner}
}

func (c *Cell) Style() string           { return c.style }
func (c *Cell) RawText() (string, bool) { return c.text, c.hasText }

func (c *Cell) SetText(text string) {
	c.text = text
	c.hasText = true
}

// InnerDocument returns the nested document, or nil when the cell has none.
func (c *Cell) InnerDocument() Node {
	if c.inner == nil {
		return nil
	}
	return c.inner
}

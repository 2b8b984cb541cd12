package markdown

import (
	"fmt"
	"io"
	"strings"

	"github.com/valpere/docloc/internal/doc"
)

// Write serializes d as Markdown. Translated titles take precedence over
// the "doctitle" attribute. Link reference definitions close the document.
func Write(w io.Writer, d *doc.Document) error {
	var sb strings.Builder
	if title, ok := d.RawTitle(); ok {
		fmt.Fprintf(&sb, "# %s\n\n", title)
	} else if title, ok := d.DocTitle(); ok {
		fmt.Fprintf(&sb, "# %s\n\n", title)
	}
	writeChildren(&sb, d)
	writeLinks(&sb, d.Links)

	_, err := io.WriteString(w, strings.TrimRight(sb.String(), "\n")+"\n")
	return err
}

func writeChildren(sb *strings.Builder, n doc.Node) {
	for _, c := range n.Children() {
		writeNode(sb, c)
	}
}

func writeNode(sb *strings.Builder, n doc.Node) {
	switch node := n.(type) {
	case *doc.Section:
		title, _ := node.RawTitle()
		fmt.Fprintf(sb, "%s %s\n\n", strings.Repeat("#", node.Level), title)
		writeChildren(sb, node)

	case *doc.Block:
		writeBlock(sb, node)

	case *doc.List:
		writeList(sb, node)

	case *doc.Table:
		writeTable(sb, node)
	}
}

func writeBlock(sb *strings.Builder, b *doc.Block) {
	switch b.Context {
	case doc.ContextListing:
		fmt.Fprintf(sb, "```%s\n", b.Language)
		for _, l := range b.Lines() {
			sb.WriteString(l + "\n")
		}
		sb.WriteString("```\n\n")
	case doc.ContextLiteral:
		for _, l := range b.Lines() {
			sb.WriteString("    " + l + "\n")
		}
		sb.WriteString("\n")
	case doc.ContextBreak:
		sb.WriteString("---\n\n")
	case doc.ContextHeading:
		level := b.Level
		if level < 1 {
			level = 1
		}
		fmt.Fprintf(sb, "%s %s\n\n", strings.Repeat("#", level), strings.Join(b.Lines(), " "))
	case doc.ContextQuote:
		var inner strings.Builder
		writeChildren(&inner, b)
		sb.WriteString(indent(strings.TrimRight(inner.String(), "\n"), "> ", "> "))
		sb.WriteString("\n\n")
	default:
		if len(b.Lines()) == 0 {
			return
		}
		sb.WriteString(strings.Join(b.Lines(), "\n"))
		sb.WriteString("\n\n")
	}
}

func writeLinks(sb *strings.Builder, links []doc.LinkDef) {
	for _, l := range links {
		dest := l.Destination
		if dest == "" || strings.Contains(dest, " ") {
			dest = "<" + dest + ">"
		}
		fmt.Fprintf(sb, "[%s]: %s", l.Label, dest)
		if l.Title != "" {
			sb.WriteString(" " + quoteTitle(l.Title))
		}
		sb.WriteString("\n")
	}
}

// quoteTitle delimits a raw link title with the first delimiter it does
// not contain.
func quoteTitle(title string) string {
	switch {
	case !strings.Contains(title, `"`):
		return `"` + title + `"`
	case !strings.Contains(title, "'"):
		return "'" + title + "'"
	default:
		return "(" + title + ")"
	}
}

func writeList(sb *strings.Builder, l *doc.List) {
	for i, c := range l.Children() {
		item, ok := c.(*doc.ListItem)
		if !ok {
			continue
		}
		marker := "- "
		if l.Ordered {
			marker = fmt.Sprintf("%d. ", l.Start+i)
		}
		pad := strings.Repeat(" ", len(marker))

		var body strings.Builder
		if text, ok := item.RawText(); ok {
			body.WriteString(text + "\n")
		}
		if len(item.Children()) > 0 {
			body.WriteString("\n")
			writeChildren(&body, item)
		}
		sb.WriteString(indent(strings.TrimRight(body.String(), "\n"), marker, pad))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
}

func writeTable(sb *strings.Builder, t *doc.Table) {
	head := t.HeadRows()
	body := t.BodyRows()

	width := 0
	for _, row := range append(append([][]doc.TableCell{}, head...), body...) {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return
	}

	if len(head) == 0 {
		head = [][]doc.TableCell{make([]doc.TableCell, width)}
	}
	for _, row := range head {
		writeRow(sb, row, width)
	}
	sb.WriteString("|" + strings.Repeat(" --- |", width) + "\n")
	for _, row := range body {
		writeRow(sb, row, width)
	}
	sb.WriteString("\n")
}

func writeRow(sb *strings.Builder, row []doc.TableCell, width int) {
	sb.WriteString("|")
	for i := 0; i < width; i++ {
		sb.WriteString(" " + cellText(row, i) + " |")
	}
	sb.WriteString("\n")
}

func cellText(row []doc.TableCell, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	c := row[i]
	if c.Style() == doc.StyleEmbedded {
		inner, ok := c.InnerDocument().(*doc.Document)
		if !ok {
			return ""
		}
		var sb strings.Builder
		writeChildren(&sb, inner)
		return strings.ReplaceAll(strings.TrimSpace(sb.String()), "\n", "<br>")
	}
	text, _ := c.RawText()
	return text
}

// indent prefixes the first line of s with first and every other line
// with rest. Blank lines get the trimmed prefix.
func indent(s, first, rest string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		prefix := rest
		if i == 0 {
			prefix = first
		}
		if l == "" {
			lines[i] = strings.TrimRight(prefix, " ")
			continue
		}
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

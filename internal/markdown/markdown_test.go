package markdown

import (
	"bytes"
	"strings"
	"testing"

	"github.com/valpere/docloc/internal/catalog"
	"github.com/valpere/docloc/internal/doc"
	"github.com/valpere/docloc/internal/reflow"
	"github.com/valpere/docloc/internal/translator"
	"github.com/valpere/docloc/internal/walker"
)

func TestSubs_HardBreaks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"backslash", "Hello\\\nHello", true},
		{"two spaces", "Hello  \nHello", true},
		{"soft wrap", "Hello\nworld", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Subs(tt.in)
			if got := reflow.HasHardBreak(out); got != tt.want {
				t.Errorf("HasHardBreak(Subs(%q)) = %v, want %v (rendered %q)", tt.in, got, tt.want, out)
			}
		})
	}
}

func TestParse_Structure(t *testing.T) {
	src := "# Guide\n\n## Chapter Title\n\nHello\nworld\n\n```go\nfmt.Println()\n```\n"

	d, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if title, ok := d.DocTitle(); !ok || title != "Guide" {
		t.Errorf("doctitle = %q, %v", title, ok)
	}
	if len(d.Children()) != 1 {
		t.Fatalf("expected 1 top-level node, got %d", len(d.Children()))
	}

	s, ok := d.Children()[0].(*doc.Section)
	if !ok {
		t.Fatalf("expected section, got %T", d.Children()[0])
	}
	if title, _ := s.RawTitle(); title != "Chapter Title" || s.Level != 2 {
		t.Errorf("section = %q level %d", title, s.Level)
	}
	if len(s.Children()) != 2 {
		t.Fatalf("expected 2 blocks in section, got %d", len(s.Children()))
	}

	p := s.Children()[0].(*doc.Block)
	if p.ContentModel() != doc.ContentSimple {
		t.Errorf("paragraph content model = %s", p.ContentModel())
	}
	if got := p.Lines(); len(got) != 2 || got[0] != "Hello" || got[1] != "world" {
		t.Errorf("paragraph lines = %q", got)
	}

	code := s.Children()[1].(*doc.Block)
	if code.ContentModel() != doc.ContentVerbatim || code.Language != "go" {
		t.Errorf("code block = %s %q", code.ContentModel(), code.Language)
	}
	if got := code.Lines(); len(got) != 1 || got[0] != "fmt.Println()" {
		t.Errorf("code lines = %q", got)
	}
}

func TestParse_SectionNesting(t *testing.T) {
	src := "## A\n\n### B\n\n## C\n"
	d, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, ok := d.DocTitle(); ok {
		t.Error("no doctitle expected")
	}
	if len(d.Children()) != 2 {
		t.Fatalf("expected 2 top-level sections, got %d", len(d.Children()))
	}
	a := d.Children()[0].(*doc.Section)
	if len(a.Children()) != 1 {
		t.Errorf("expected B nested in A, got %d children", len(a.Children()))
	}
}

func TestParse_List(t *testing.T) {
	d, err := Parse([]byte("- Hello\n- World\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	l, ok := d.Children()[0].(*doc.List)
	if !ok {
		t.Fatalf("expected list, got %T", d.Children()[0])
	}
	if l.Ordered {
		t.Error("expected bullet list")
	}
	var texts []string
	for _, c := range l.Children() {
		text, _ := c.(*doc.ListItem).RawText()
		texts = append(texts, text)
	}
	if strings.Join(texts, ",") != "Hello,World" {
		t.Errorf("items = %q", texts)
	}
}

func TestParse_Table(t *testing.T) {
	d, err := Parse([]byte("| A | B |\n| --- | --- |\n| Hello | x |\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	tbl, ok := d.Children()[0].(*doc.Table)
	if !ok {
		t.Fatalf("expected table, got %T", d.Children()[0])
	}
	if len(tbl.HeadRows()) != 1 || len(tbl.BodyRows()) != 1 {
		t.Fatalf("rows = %d head, %d body", len(tbl.HeadRows()), len(tbl.BodyRows()))
	}
	if text, _ := tbl.HeadRows()[0][0].RawText(); text != "A" {
		t.Errorf("head cell = %q", text)
	}
	if text, _ := tbl.BodyRows()[0][0].RawText(); text != "Hello" {
		t.Errorf("body cell = %q", text)
	}
}

func roundTrip(t *testing.T, src string) string {
	t.Helper()
	d, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, d); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	return buf.String()
}

func TestParse_LinkReferences(t *testing.T) {
	d, err := Parse([]byte("See [the docs][d] and [home].\n\n[home]: /index.html\n[d]: https://example.com \"Docs\"\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []doc.LinkDef{
		{Label: "home", Destination: "/index.html"},
		{Label: "d", Destination: "https://example.com", Title: "Docs"},
	}
	if len(d.Links) != len(want) {
		t.Fatalf("Links = %+v", d.Links)
	}
	for i := range want {
		if d.Links[i] != want[i] {
			t.Errorf("Links[%d] = %+v, want %+v", i, d.Links[i], want[i])
		}
	}
}

func TestRoundTrip_Structure(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			"link reference",
			"See [the docs][d].\n\n[d]: https://example.com\n",
			"See [the docs][d].\n\n[d]: https://example.com\n",
		},
		{
			"link reference with title and spaces",
			"[a] b\n\n[a]: <my file.md> 'say \"hi\"'\n",
			"[a] b\n\n[a]: <my file.md> 'say \"hi\"'\n",
		},
		{
			"heading in quote",
			"> ## Note\n>\n> body\n",
			"> ## Note\n>\n> body\n",
		},
		{
			"heading in list item",
			"- item\n\n  ## Sub\n",
			"- item\n\n  ## Sub\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := roundTrip(t, tt.src); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_NestedHeading(t *testing.T) {
	d, err := Parse([]byte("> ### Note\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	q := d.Children()[0].(*doc.Block)
	h, ok := q.Children()[0].(*doc.Block)
	if !ok || h.Context != doc.ContextHeading || h.Level != 3 {
		t.Fatalf("expected level 3 heading block, got %+v", q.Children()[0])
	}
	if got := h.Lines(); len(got) != 1 || got[0] != "Note" {
		t.Errorf("heading lines = %q", got)
	}
}

func TestWrite(t *testing.T) {
	d := doc.NewDocument()
	d.Attributes["doctitle"] = "Guide"
	s := doc.NewSection(2, "Intro")
	s.Append(doc.NewBlock(doc.ContextParagraph, doc.ContentSimple, []string{"a", "b"}, nil))
	l := doc.NewList(false)
	l.Append(doc.NewListItem("x", nil))
	l.Append(doc.NewListItem("y", nil))
	s.Append(l)
	tbl := doc.NewTable()
	tbl.AddHeadRow(doc.NewTextCell("H1"), doc.NewTextCell("H2"))
	tbl.AddBodyRow(doc.NewTextCell("c1"), doc.NewTextCell("c2"))
	s.Append(tbl)
	d.Append(s)

	var buf bytes.Buffer
	if err := Write(&buf, d); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	want := "# Guide\n\n## Intro\n\na\nb\n\n- x\n- y\n\n| H1 | H2 |\n| --- | --- |\n| c1 | c2 |\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWrite_OrderedListWithChildren(t *testing.T) {
	d := doc.NewDocument()
	l := doc.NewList(true)
	item := doc.NewListItem("first\nline", nil)
	item.Append(doc.NewBlock(doc.ContextParagraph, doc.ContentSimple, []string{"more"}, nil))
	l.Append(item)
	d.Append(l)

	var buf bytes.Buffer
	if err := Write(&buf, d); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := "1. first\n   line\n\n   more\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestLocalizeRoundTrip(t *testing.T) {
	src := "# Guide\n\nHello\\\nHello\n\nfoo\nbar\n"
	d, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tr := translator.New([]catalog.Catalog{catalog.Map{
		"Guide":          "ガイド",
		"Hello\\\nHello": "こんにちは\\\nこんにちは",
	}}, nil)
	walker.Process(d, tr)

	var buf bytes.Buffer
	if err := Write(&buf, d); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"# ガイド\n", "こんにちは\\\nこんにちは\n", "foo bar\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if misses := tr.Misses(); len(misses) != 1 || misses[0] != "foo bar" {
		t.Errorf("misses = %q", misses)
	}
}

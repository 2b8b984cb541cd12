package doc

import "testing"

func TestContentModel_Reflowable(t *testing.T) {
	tests := []struct {
		model ContentModel
		want  bool
	}{
		{ContentSimple, true},
		{ContentCompound, true},
		{ContentVerbatim, false},
		{ContentRaw, false},
		{ContentEmpty, false},
	}
	for _, tt := range tests {
		if got := tt.model.Reflowable(); got != tt.want {
			t.Errorf("%s.Reflowable() = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestWalk_PreOrder(t *testing.T) {
	d := NewDocument()
	s := NewSection(1, "Intro")
	p := NewBlock(ContextParagraph, ContentSimple, []string{"Hello"}, nil)
	s.Append(p)
	l := NewList(false)
	li := NewListItem("item", nil)
	l.Append(li)
	s.Append(l)
	d.Append(s)

	var got []Node
	Walk(d, func(n Node) { got = append(got, n) })

	want := []Node{d, s, p, l, li}
	if len(got) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("node %d = %T, want %T", i, got[i], want[i])
		}
	}
}

func TestNodeCapabilities(t *testing.T) {
	var n Node = NewBlock(ContextParagraph, ContentSimple, nil, nil)
	if _, ok := n.(Titled); !ok {
		t.Error("Block should be Titled")
	}
	if _, ok := n.(LineBlock); !ok {
		t.Error("Block should be a LineBlock")
	}
	if _, ok := n.(TextItem); ok {
		t.Error("Block should not be a TextItem")
	}

	n = NewListItem("x", nil)
	if _, ok := n.(TextItem); !ok {
		t.Error("ListItem should be a TextItem")
	}
	if _, ok := n.(LineBlock); ok {
		t.Error("ListItem should not be a LineBlock")
	}

	n = NewTable()
	if _, ok := n.(RowTable); !ok {
		t.Error("Table should be a RowTable")
	}
}

func TestTitle_AbsentVersusEmpty(t *testing.T) {
	s := &Section{}
	if _, ok := s.RawTitle(); ok {
		t.Error("zero Section should have no title")
	}
	s.SetTitle("")
	if title, ok := s.RawTitle(); !ok || title != "" {
		t.Errorf("RawTitle() = %q, %v; want empty, true", title, ok)
	}
}

func TestDocument_DocTitle(t *testing.T) {
	d := NewDocument()
	if _, ok := d.DocTitle(); ok {
		t.Error("expected no doctitle")
	}
	d.Attributes["doctitle"] = "Guide"
	if v, ok := d.DocTitle(); !ok || v != "Guide" {
		t.Errorf("DocTitle() = %q, %v", v, ok)
	}
}

func TestCell_InnerDocument(t *testing.T) {
	if NewTextCell("x").InnerDocument() != nil {
		t.Error("text cell should have no inner document")
	}
	inner := NewDocument()
	c := NewEmbeddedCell(inner)
	if c.Style() != StyleEmbedded {
		t.Errorf("Style() = %q", c.Style())
	}
	if c.InnerDocument() != Node(inner) {
		t.Error("InnerDocument() should return the owned document")
	}
	if _, ok := c.RawText(); ok {
		t.Error("embedded cell should have no raw text")
	}
}

func TestBlock_ApplySubs(t *testing.T) {
	b := NewBlock(ContextParagraph, ContentSimple, nil, nil)
	if got := b.ApplySubs("a\nb"); got != "a\nb" {
		t.Errorf("ApplySubs without subs = %q", got)
	}
	b = NewBlock(ContextParagraph, ContentSimple, nil, func(s string) string { return "<p>" + s + "</p>" })
	if got := b.ApplySubs("x"); got != "<p>x</p>" {
		t.Errorf("ApplySubs = %q", got)
	}
}

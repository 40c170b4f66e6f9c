package ir

import (
	"errors"
	"testing"
	"time"
)

func text(s string) Paragraph {
	return Paragraph{Runs: []Run{{Text: s}}, Provenance: Provenance{Lines: 1}}
}

// TestDetach tests that detached paragraphs leave the body but stay readable
func TestDetach(t *testing.T) {
	doc := NewDocument()
	a := doc.NewParagraph(text("header"))
	b := doc.NewParagraph(text("body"))
	c := doc.NewParagraph(text("footer"))
	doc.Sections = []*Section{{Elements: []Element{a, b, &Picture{}, c}}}

	if n := doc.Detach(a, c); n != 2 {
		t.Fatalf("Detach() removed %d, want 2", n)
	}
	if len(doc.Sections[0].Elements) != 2 {
		t.Errorf("section has %d elements, want 2", len(doc.Sections[0].Elements))
	}
	if doc.Paragraph(a).Text() != "header" {
		t.Error("detached paragraph lost from the arena")
	}
	if doc.Text() != "body" {
		t.Errorf("Text() = %q, want %q", doc.Text(), "body")
	}
}

func TestDetachCarriesBreaks(t *testing.T) {
	doc := NewDocument()
	header := text("running head")
	header.PageBreakBefore = true
	h := doc.NewParagraph(header)
	body := doc.NewParagraph(text("body"))
	header2 := text("running head")
	header2.PageBreakBefore = true
	h2 := doc.NewParagraph(header2)
	doc.Sections = []*Section{{Elements: []Element{body, h, doc.NewParagraph(text("next")), h2, &Table{}}}}

	doc.Detach(h, h2)
	els := doc.Sections[0].Elements
	if len(els) != 4 {
		t.Fatalf("section has %d elements, want 4", len(els))
	}
	if p := doc.Paragraph(els[1].(ParagraphID)); !p.PageBreakBefore || p.Text() != "next" {
		t.Errorf("break not moved onto the following paragraph: %+v", p)
	}
	m, ok := els[2].(ParagraphID)
	if !ok || !doc.Paragraph(m).IsMarker() {
		t.Errorf("expected a marker paragraph before the table, got %v", els[2])
	}
}

func TestCopyIsDeep(t *testing.T) {
	doc := NewDocument()
	p := text("original")
	p.Numbering = &Numbering{Kind: NumberingBullet}
	p.Bookmarks = []string{"intro"}
	id := doc.NewParagraph(p)
	cp := doc.Copy(id)

	doc.Paragraph(cp).Runs[0].Text = "changed"
	doc.Paragraph(cp).Numbering.Level = 3
	doc.Paragraph(cp).Bookmarks[0] = "other"

	orig := doc.Paragraph(id)
	if orig.Text() != "original" || orig.Numbering.Level != 0 || orig.Bookmarks[0] != "intro" {
		t.Errorf("copy shares state with the original: %+v", orig)
	}
	if doc.Copy(99) != -1 {
		t.Error("Copy of an unknown handle should return -1")
	}
}

func TestWalkTables(t *testing.T) {
	doc := NewDocument()
	before := doc.NewParagraph(text("before"))
	cell := doc.NewParagraph(text("cell"))
	table := &Table{
		ColumnWidths: []float64{100},
		Rows:         []TableRow{{Cells: []TableCell{{Content: []Element{cell}}}}},
	}
	doc.Sections = []*Section{{Elements: []Element{before, table}}}

	var got []string
	doc.Walk(func(_ ParagraphID, p *Paragraph) { got = append(got, p.Text()) })
	if len(got) != 2 || got[0] != "before" || got[1] != "cell" {
		t.Errorf("Walk visited %v", got)
	}
}

func TestStats(t *testing.T) {
	doc := NewDocument()
	doc.PageCount = 2
	p := text("two words")
	p.Provenance.Lines = 3
	id := doc.NewParagraph(p)
	empty := doc.NewParagraph(Paragraph{PageBreakBefore: true})
	doc.Sections = []*Section{{Elements: []Element{id, empty, &Picture{}, &Table{ColumnWidths: []float64{1}}}}}

	st := doc.Stats()
	want := Stats{Pages: 2, Paragraphs: 1, Words: 2, Lines: 3, Characters: 8, CharactersWithSpaces: 9, Tables: 1, Pictures: 1}
	if st != want {
		t.Errorf("Stats() = %+v, want %+v", st, want)
	}
}

func TestTableValidate(t *testing.T) {
	tests := []struct {
		name    string
		table   Table
		wantErr bool
	}{
		{
			name: "spans cover the grid",
			table: Table{ColumnWidths: []float64{50, 50, 50}, Rows: []TableRow{
				{Cells: []TableCell{{ColSpan: 2}, {}}},
				{Cells: []TableCell{{}, {}, {}}},
			}},
		},
		{
			name:    "short row",
			table:   Table{ColumnWidths: []float64{50, 50}, Rows: []TableRow{{Cells: []TableCell{{}}}}},
			wantErr: true,
		},
		{
			name:    "no columns",
			table:   Table{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.table.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDocumentValidate(t *testing.T) {
	doc := NewDocument()
	ok := text("fine")
	ok.Bookmarks = []string{"_Toc1"}
	doc.NewParagraph(ok)
	if err := doc.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}

	bad := text("bad")
	bad.Provenance = Provenance{StartPage: 3, EndPage: 1}
	bad.Numbering = &Numbering{Level: 9}
	bad.Bookmarks = []string{"_Toc1", "has space"}
	doc.NewParagraph(bad)
	err := doc.Validate()
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("Validate() = %v, want ErrInvalid", err)
	}
}

func TestMetadataMerge(t *testing.T) {
	created := time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)
	src := Metadata{Title: "Source", Author: "Ann", Keywords: []string{"a"}, Created: created}
	got := src.Merge(Metadata{Title: "Override", Keywords: []string{"b", "c"}})

	if got.Title != "Override" {
		t.Errorf("Title = %q", got.Title)
	}
	if got.Author != "Ann" {
		t.Errorf("Author = %q, want the source value", got.Author)
	}
	if len(got.Keywords) != 2 || got.Keywords[0] != "b" {
		t.Errorf("Keywords = %v", got.Keywords)
	}
	if !got.Created.Equal(created) {
		t.Errorf("Created = %v", got.Created)
	}
}

func TestElementKinds(t *testing.T) {
	elements := []Element{ParagraphID(0), &Table{}, &Picture{}, &Equation{}}
	want := []string{"Paragraph", "Table", "Picture", "Equation"}
	for i, e := range elements {
		if got := e.Kind().String(); got != want[i] {
			t.Errorf("Kind() = %s, want %s", got, want[i])
		}
	}
}

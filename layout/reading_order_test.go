package layout

import (
	"testing"

	"github.com/tsawler/pdf2docx/model"
)

func place(kind PlacementKind, index int, x, top, width float64, column int) Placement {
	return Placement{Kind: kind, Index: index, BBox: model.NewBBox(x, top-20, width, 20), Column: column}
}

func indexes(ps []Placement) []int {
	out := make([]int, len(ps))
	for i, p := range ps {
		out[i] = p.Index
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestReadingOrder_SingleColumn(t *testing.T) {
	items := []Placement{
		place(PlaceParagraph, 2, 72, 500, 400, 0),
		place(PlaceParagraph, 0, 72, 700, 400, 0),
		place(PlaceTable, 1, 72, 600, 400, 0),
	}
	got := NewReadingOrderDetector().Order(items, ColumnLayout{Count: 1})
	if want := []int{0, 1, 2}; !equalInts(indexes(got), want) {
		t.Errorf("order = %v, want %v", indexes(got), want)
	}
}

func TestReadingOrder_TextFirstOnSameRow(t *testing.T) {
	items := []Placement{
		place(PlacePicture, 0, 72, 700, 100, 0),
		place(PlaceParagraph, 1, 72, 700, 100, 0),
	}
	got := NewReadingOrderDetector().Order(items, ColumnLayout{Count: 1})
	if got[0].Kind != PlaceParagraph {
		t.Errorf("first kind = %s, want paragraph", got[0].Kind)
	}
}

func TestReadingOrder_Columns(t *testing.T) {
	cols := ColumnLayout{Count: 2, Spacing: 24, Boundaries: []float64{320}}
	items := []Placement{
		place(PlaceParagraph, 0, 72, 760, 468, 0),  // title across both columns
		place(PlaceParagraph, 1, 72, 700, 224, 0),  // left top
		place(PlaceParagraph, 3, 320, 700, 220, 1), // right top
		place(PlaceParagraph, 2, 72, 600, 224, 0),  // left bottom
		place(PlaceParagraph, 4, 320, 600, 220, 1), // right bottom
		place(PlaceTable, 5, 72, 300, 468, 0),      // full-width table
		place(PlaceParagraph, 6, 72, 200, 224, 0),
		place(PlaceParagraph, 7, 320, 250, 220, 1),
	}
	got := NewReadingOrderDetector().Order(items, cols)
	if want := []int{0, 1, 2, 3, 4, 5, 6, 7}; !equalInts(indexes(got), want) {
		t.Errorf("order = %v, want %v", indexes(got), want)
	}
}

func TestPlacementKind_String(t *testing.T) {
	if PlaceDrawing.String() != "drawing" || PlacementKind(99).String() != "unknown" {
		t.Error("unexpected kind names")
	}
}
